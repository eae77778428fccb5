package v1

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blogicum/internal/service"
)

// render executes a page template, always exposing the current user.
func (h *handlers) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = userFrom(c)
	c.HTML(status, page, data)
}

func (h *handlers) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", nil)
}

func (h *handlers) serverError(c *gin.Context, err error) {
	log.Println("[HANDLER]", c.Request.Method, c.Request.URL.Path, "error:", err)
	h.render(c, http.StatusInternalServerError, "500.html", nil)
}

// fail maps a service error onto the right response: a 404 page, a soft
// redirect to the resource's detail page for non-authors, or a 500.
func (h *handlers) fail(c *gin.Context, err error, detailURL string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(c)
	case errors.Is(err, service.ErrNotAuthor):
		c.Redirect(http.StatusSeeOther, detailURL)
	default:
		h.serverError(c, err)
	}
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return page
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, false
	}
	return id, true
}

func postURL(id int) string {
	return "/posts/" + strconv.Itoa(id)
}
