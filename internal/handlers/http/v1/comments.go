package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type commentForm struct {
	Text string `form:"text" binding:"required"`
}

func (h *handlers) commentCreate(c *gin.Context) {
	postID, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		// an empty comment just brings the user back to the post
		c.Redirect(http.StatusSeeOther, postURL(postID))
		return
	}
	if _, err := h.svc.AddComment(c.Request.Context(), postID, viewerID(c), form.Text); err != nil {
		h.fail(c, err, postURL(postID))
		return
	}
	c.Redirect(http.StatusSeeOther, postURL(postID))
}

func (h *handlers) commentEditForm(c *gin.Context) {
	postID, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	commentID, ok := intParam(c, "comment_id")
	if !ok {
		h.notFound(c)
		return
	}
	comment, err := h.svc.CommentForEdit(c.Request.Context(), postID, commentID, viewerID(c))
	if err != nil {
		h.fail(c, err, postURL(postID))
		return
	}
	h.render(c, http.StatusOK, "comment.html", gin.H{"Comment": comment})
}

func (h *handlers) commentEdit(c *gin.Context) {
	postID, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	commentID, ok := intParam(c, "comment_id")
	if !ok {
		h.notFound(c)
		return
	}
	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		comment, err := h.svc.CommentForEdit(c.Request.Context(), postID, commentID, viewerID(c))
		if err != nil {
			h.fail(c, err, postURL(postID))
			return
		}
		h.render(c, http.StatusOK, "comment.html", gin.H{"Comment": comment, "FormError": "comment text is required"})
		return
	}
	if _, err := h.svc.UpdateComment(c.Request.Context(), postID, commentID, viewerID(c), form.Text); err != nil {
		h.fail(c, err, postURL(postID))
		return
	}
	c.Redirect(http.StatusSeeOther, postURL(postID))
}

func (h *handlers) commentDeleteForm(c *gin.Context) {
	postID, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	commentID, ok := intParam(c, "comment_id")
	if !ok {
		h.notFound(c)
		return
	}
	comment, err := h.svc.CommentForEdit(c.Request.Context(), postID, commentID, viewerID(c))
	if err != nil {
		h.fail(c, err, postURL(postID))
		return
	}
	h.render(c, http.StatusOK, "comment.html", gin.H{"Comment": comment, "Deleting": true})
}

func (h *handlers) commentDelete(c *gin.Context) {
	postID, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	commentID, ok := intParam(c, "comment_id")
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), postID, commentID, viewerID(c)); err != nil {
		h.fail(c, err, postURL(postID))
		return
	}
	c.Redirect(http.StatusSeeOther, postURL(postID))
}
