package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogicum/internal/repository"
	"blogicum/internal/service"
)

const (
	sessionCookie = "session_token"
	userKey       = "currentUser"
)

func (h *handlers) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
}

func (h *handlers) clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// currentUser resolves the session cookie into a user and stores it in the
// request context. A missing or bad token just leaves the request anonymous.
func (h *handlers) currentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}
		userID, err := h.tokens.Verify(token)
		if err != nil {
			c.Next()
			return
		}
		user, err := h.svc.UserByID(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// requireAuth sends unauthenticated requests to the login page.
func (h *handlers) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userFrom(c) == nil {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func userFrom(c *gin.Context) *repository.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*repository.User); ok {
			return user
		}
	}
	return nil
}

func viewerID(c *gin.Context) int {
	if user := userFrom(c); user != nil {
		return user.ID
	}
	return service.AnonymousID
}
