package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogicum/internal/service"
)

type registrationForm struct {
	Username  string `form:"username" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Password  string `form:"password" binding:"required,min=8"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *handlers) registrationForm(c *gin.Context) {
	h.render(c, http.StatusOK, "registration.html", nil)
}

func (h *handlers) register(c *gin.Context) {
	var form registrationForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "registration.html", gin.H{
			"FormError": "username, a valid email and a password of at least 8 characters are required",
			"Form":      form,
		})
		return
	}
	user, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password:  form.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			h.render(c, http.StatusOK, "registration.html", gin.H{
				"FormError": "this username is already taken",
				"Form":      form,
			})
			return
		}
		h.serverError(c, err)
		return
	}
	h.startSession(c, user.ID, user.Username, "/")
}

func (h *handlers) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", nil)
}

func (h *handlers) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "login.html", gin.H{"FormError": "username and password are required"})
		return
	}
	user, err := h.svc.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render(c, http.StatusOK, "login.html", gin.H{"FormError": "invalid username or password"})
			return
		}
		h.serverError(c, err)
		return
	}
	h.startSession(c, user.ID, user.Username, "/profile/"+user.Username)
}

func (h *handlers) startSession(c *gin.Context, userID int, username string, redirectTo string) {
	token, err := h.tokens.Issue(userID, username)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	c.Redirect(http.StatusSeeOther, redirectTo)
}

func (h *handlers) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}
