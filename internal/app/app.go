package app

import (
	"context"
	"fmt"
	"log"

	"blogicum/config"
	"blogicum/internal/auth"
	v1 "blogicum/internal/handlers/http/v1"
	"blogicum/internal/httpserver"
	"blogicum/internal/repository"
	"blogicum/internal/repository/minio"
	"blogicum/internal/repository/postgres"
	"blogicum/internal/service"
)

func Run(conf config.Config) error {
	ctx := context.Background()

	repo, err := postgres.New(conf.Postgres)
	if err != nil {
		return fmt.Errorf("error when setting up repository: %v", err)
	}

	// the blog works without an image store, uploads are just rejected
	var images repository.ImageStore
	if store, err := minio.New(conf.MinIO); err != nil {
		log.Println("[SETUP] image store unavailable:", err)
	} else {
		images = store
	}

	svc := service.New(repo, images, conf.App.PageSize)
	tokens := auth.NewTokenManager(conf.Auth)

	handler, err := v1.New(svc, tokens, conf.App)
	if err != nil {
		return fmt.Errorf("error when setting up handler: %v", err)
	}

	server := httpserver.New(conf.HTTPServer, handler)

	return server.Run(ctx)
}
