package v1

import (
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"blogicum/config"
	"blogicum/internal/auth"
	gql "blogicum/internal/handlers/http/v1/graphql"
	"blogicum/internal/service"
)

type handlers struct {
	svc    *service.Service
	tokens *auth.TokenManager
}

func New(svc *service.Service, tokens *auth.TokenManager, conf config.App) (*gin.Engine, error) {
	var (
		router = gin.New()
		h      = &handlers{svc: svc, tokens: tokens}
	)

	router.Use(gin.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300 * time.Second,
	}))

	router.SetFuncMap(template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("02 Jan 2006, 15:04")
		},
		"inputDate": func(t time.Time) string {
			return t.Format("2006-01-02T15:04")
		},
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
	})
	router.LoadHTMLGlob(filepath.Join(conf.TemplatesDir, "*.html"))

	router.Use(h.currentUser())
	router.NoRoute(h.notFound)

	router.GET("/", h.index)

	posts := router.Group("/posts")
	{
		posts.GET("/create", h.requireAuth(), h.postCreateForm)
		posts.POST("/create", h.requireAuth(), h.postCreate)
		posts.GET("/:post_id", h.postDetail)
		posts.GET("/:post_id/edit", h.requireAuth(), h.postEditForm)
		posts.POST("/:post_id/edit", h.requireAuth(), h.postEdit)
		posts.GET("/:post_id/delete", h.requireAuth(), h.postDeleteForm)
		posts.POST("/:post_id/delete", h.requireAuth(), h.postDelete)

		posts.POST("/:post_id/comment", h.requireAuth(), h.commentCreate)
		posts.GET("/:post_id/edit_comment/:comment_id", h.requireAuth(), h.commentEditForm)
		posts.POST("/:post_id/edit_comment/:comment_id", h.requireAuth(), h.commentEdit)
		posts.GET("/:post_id/delete_comment/:comment_id", h.requireAuth(), h.commentDeleteForm)
		posts.POST("/:post_id/delete_comment/:comment_id", h.requireAuth(), h.commentDelete)
	}

	router.GET("/category/:category_slug", h.categoryPosts)

	router.GET("/profile/:username", h.profile)
	router.GET("/edit_profile", h.requireAuth(), h.profileEditForm)
	router.POST("/edit_profile", h.requireAuth(), h.profileEdit)

	authGroup := router.Group("/auth")
	{
		authGroup.GET("/registration", h.registrationForm)
		authGroup.POST("/registration", h.register)
		authGroup.GET("/login", h.loginForm)
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", h.logout)
	}

	gqlHandler, err := gql.New(svc)
	if err != nil {
		return nil, err
	}

	apiGroup := router.Group("/api/v1")
	{
		apiGroup.Any("/graphql", gin.WrapH(gqlHandler))

		apiGroup.GET("/ping", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	return router, nil
}
