package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogicum/internal/service"
)

type profileForm struct {
	Username  string `form:"username" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
}

func (h *handlers) profile(c *gin.Context) {
	username := c.Param("username")
	user, page, err := h.svc.ProfilePosts(c.Request.Context(), username, viewerID(c), pageParam(c))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "profile.html", gin.H{
		"Profile": user,
		"Page":    page,
	})
}

func (h *handlers) profileEditForm(c *gin.Context) {
	h.render(c, http.StatusOK, "user.html", nil)
}

func (h *handlers) profileEdit(c *gin.Context) {
	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "user.html", gin.H{"FormError": "username and a valid email are required"})
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), viewerID(c), service.ProfileInput{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			h.render(c, http.StatusOK, "user.html", gin.H{"FormError": "this username is already taken"})
			return
		}
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile/"+user.Username)
}
