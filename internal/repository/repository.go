package repository

import (
	"context"
	"errors"
	"mime/multipart"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Repository interface {
	GetPost(ctx context.Context, id int) (*Post, error)
	GetPublishedPosts(ctx context.Context, limit int, offset int) ([]Post, error)
	CountPublishedPosts(ctx context.Context) (int, error)
	GetPostsByCategory(ctx context.Context, categoryID int, limit int, offset int) ([]Post, error)
	CountPostsByCategory(ctx context.Context, categoryID int) (int, error)
	GetPostsByAuthor(ctx context.Context, authorID int, includeUnpublished bool, limit int, offset int) ([]Post, error)
	CountPostsByAuthor(ctx context.Context, authorID int, includeUnpublished bool) (int, error)
	CreatePost(ctx context.Context, post *Post) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) (*Post, error)
	DeletePost(ctx context.Context, id int) error

	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	GetPublishedCategories(ctx context.Context) ([]Category, error)

	GetComment(ctx context.Context, id int) (*Comment, error)
	GetComments(ctx context.Context, postID int) ([]Comment, error)
	CreateComment(ctx context.Context, comment *Comment) (*Comment, error)
	UpdateComment(ctx context.Context, id int, text string) (*Comment, error)
	DeleteComment(ctx context.Context, id int) error

	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, user *User) (*User, error)
}

// ImageMeta describes an uploaded post image.
type ImageMeta struct {
	Key  string
	URL  string
	Size int64
}

type ImageStore interface {
	PutImage(file multipart.File, header *multipart.FileHeader) (*ImageMeta, error)
}
