package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) categoryPosts(c *gin.Context) {
	slug := c.Param("category_slug")
	category, page, err := h.svc.CategoryPosts(c.Request.Context(), slug, pageParam(c))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "category.html", gin.H{
		"Category": category,
		"Page":     page,
	})
}
