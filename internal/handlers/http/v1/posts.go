package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blogicum/internal/service"
)

type postForm struct {
	Title       string    `form:"title" binding:"required"`
	Text        string    `form:"text" binding:"required"`
	PubDate     time.Time `form:"pub_date" binding:"required" time_format:"2006-01-02T15:04"`
	CategoryID  *int      `form:"category"`
	Location    string    `form:"location"`
	IsPublished bool      `form:"is_published"`
}

func (f postForm) toInput() service.PostInput {
	in := service.PostInput{
		Title:       f.Title,
		Text:        f.Text,
		PubDate:     f.PubDate,
		IsPublished: f.IsPublished,
		CategoryID:  f.CategoryID,
	}
	// an empty select binds to a pointer to zero, which is no category
	if in.CategoryID != nil && *in.CategoryID == 0 {
		in.CategoryID = nil
	}
	if f.Location != "" {
		in.Location = &f.Location
	}
	return in
}

func (h *handlers) index(c *gin.Context) {
	page, err := h.svc.PostList(c.Request.Context(), pageParam(c))
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Page": page})
}

func (h *handlers) postDetail(c *gin.Context) {
	id, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	post, comments, err := h.svc.PostDetail(c.Request.Context(), id, viewerID(c))
	if err != nil {
		h.fail(c, err, postURL(id))
		return
	}
	h.render(c, http.StatusOK, "detail.html", gin.H{
		"Post":     post,
		"Comments": comments,
	})
}

// renderPostForm shows the create/edit page with the category choices.
func (h *handlers) renderPostForm(c *gin.Context, status int, data gin.H) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Categories"] = categories
	h.render(c, status, "create.html", data)
}

func (h *handlers) postCreateForm(c *gin.Context) {
	h.renderPostForm(c, http.StatusOK, nil)
}

// imageURL stores an uploaded image, if any, and returns its URL.
func (h *handlers) imageURL(c *gin.Context) (*string, error) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		return nil, nil // no file uploaded
	}
	defer file.Close()
	meta, err := h.svc.UploadImage(file, header)
	if err != nil {
		return nil, err
	}
	return &meta.URL, nil
}

func (h *handlers) postCreate(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, http.StatusOK, gin.H{"FormError": "all fields except location and category are required", "Form": form})
		return
	}
	in := form.toInput()
	url, err := h.imageURL(c)
	if err != nil {
		h.serverError(c, err)
		return
	}
	in.ImageURL = url

	user := userFrom(c)
	if _, err := h.svc.CreatePost(c.Request.Context(), user.ID, in); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile/"+user.Username)
}

func (h *handlers) postEditForm(c *gin.Context) {
	id, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	post, err := h.svc.PostForEdit(c.Request.Context(), id, viewerID(c))
	if err != nil {
		h.fail(c, err, postURL(id))
		return
	}
	h.renderPostForm(c, http.StatusOK, gin.H{"Post": post})
}

func (h *handlers) postEdit(c *gin.Context) {
	id, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		post, err := h.svc.PostForEdit(c.Request.Context(), id, viewerID(c))
		if err != nil {
			h.fail(c, err, postURL(id))
			return
		}
		h.renderPostForm(c, http.StatusOK, gin.H{"FormError": "all fields except location and category are required", "Post": post})
		return
	}
	in := form.toInput()
	url, err := h.imageURL(c)
	if err != nil {
		h.serverError(c, err)
		return
	}
	in.ImageURL = url

	if _, err := h.svc.UpdatePost(c.Request.Context(), id, viewerID(c), in); err != nil {
		h.fail(c, err, postURL(id))
		return
	}
	c.Redirect(http.StatusSeeOther, postURL(id))
}

func (h *handlers) postDeleteForm(c *gin.Context) {
	id, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	post, err := h.svc.PostForEdit(c.Request.Context(), id, viewerID(c))
	if err != nil {
		h.fail(c, err, postURL(id))
		return
	}
	h.renderPostForm(c, http.StatusOK, gin.H{"Post": post, "Deleting": true})
}

func (h *handlers) postDelete(c *gin.Context) {
	id, ok := intParam(c, "post_id")
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), id, viewerID(c)); err != nil {
		h.fail(c, err, postURL(id))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
