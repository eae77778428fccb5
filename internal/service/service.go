package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"blogicum/internal/auth"
	"blogicum/internal/repository"
)

var (
	// ErrNotFound covers both missing rows and posts hidden from the viewer.
	ErrNotFound = repository.ErrNotFound
	// ErrNotAuthor marks a mutation attempted by someone other than the
	// resource's author. Handlers answer it with a redirect to the
	// resource's detail page, not with an error response.
	ErrNotAuthor = errors.New("not the author")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AnonymousID is the viewer id of an unauthenticated request.
const AnonymousID = 0

type Service struct {
	repo   repository.Repository
	images repository.ImageStore

	pageSize int
	now      func() time.Time
}

func New(repo repository.Repository, images repository.ImageStore, pageSize int) *Service {
	return &Service{
		repo:     repo,
		images:   images,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts      []repository.Post
	Number     int
	TotalPages int
	TotalPosts int
}

func (p *PostPage) HasPrev() bool   { return p.Number > 1 }
func (p *PostPage) HasNext() bool   { return p.Number < p.TotalPages }
func (p *PostPage) PrevNumber() int { return p.Number - 1 }
func (p *PostPage) NextNumber() int { return p.Number + 1 }

// clampPage maps any requested page number onto a valid one: numbers
// below 1 become the first page, numbers past the end become the last.
// An empty listing still has one (empty) page, so Number <= TotalPages
// always holds.
func (svc *Service) clampPage(count int, page int) (number int, offset int, totalPages int) {
	totalPages = (count + svc.pageSize - 1) / svc.pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, (page - 1) * svc.pageSize, totalPages
}

// visibleTo reports whether the viewer may see the post. Authors always
// see their own posts; everyone else only sees published posts whose
// publication date has passed and whose category is itself published.
func (svc *Service) visibleTo(post *repository.Post, viewerID int) bool {
	if viewerID != AnonymousID && viewerID == post.AuthorID {
		return true
	}
	return post.IsPublished &&
		!post.PubDate.After(svc.now()) &&
		post.Category != nil && post.Category.IsPublished
}

func (svc *Service) PostList(ctx context.Context, page int) (*PostPage, error) {
	count, err := svc.repo.CountPublishedPosts(ctx)
	if err != nil {
		return nil, err
	}
	number, offset, totalPages := svc.clampPage(count, page)
	posts, err := svc.repo.GetPublishedPosts(ctx, svc.pageSize, offset)
	if err != nil {
		return nil, err
	}
	return &PostPage{
		Posts:      posts,
		Number:     number,
		TotalPages: totalPages,
		TotalPosts: count,
	}, nil
}

// CategoryPosts lists the visible posts of a published category.
// Unknown and unpublished categories are both reported as not found.
func (svc *Service) CategoryPosts(ctx context.Context, slug string, page int) (*repository.Category, *PostPage, error) {
	category, err := svc.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if !category.IsPublished {
		return nil, nil, ErrNotFound
	}
	count, err := svc.repo.CountPostsByCategory(ctx, category.ID)
	if err != nil {
		return nil, nil, err
	}
	number, offset, totalPages := svc.clampPage(count, page)
	posts, err := svc.repo.GetPostsByCategory(ctx, category.ID, svc.pageSize, offset)
	if err != nil {
		return nil, nil, err
	}
	return category, &PostPage{
		Posts:      posts,
		Number:     number,
		TotalPages: totalPages,
		TotalPosts: count,
	}, nil
}

// ProfilePosts lists a user's posts. The owner sees everything including
// drafts and scheduled posts; other viewers only the publicly visible ones.
func (svc *Service) ProfilePosts(ctx context.Context, username string, viewerID int, page int) (*repository.User, *PostPage, error) {
	user, err := svc.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	own := viewerID != AnonymousID && viewerID == user.ID

	count, err := svc.repo.CountPostsByAuthor(ctx, user.ID, own)
	if err != nil {
		return nil, nil, err
	}
	number, offset, totalPages := svc.clampPage(count, page)
	posts, err := svc.repo.GetPostsByAuthor(ctx, user.ID, own, svc.pageSize, offset)
	if err != nil {
		return nil, nil, err
	}
	return user, &PostPage{
		Posts:      posts,
		Number:     number,
		TotalPages: totalPages,
		TotalPosts: count,
	}, nil
}

// PostDetail returns a post with its comments. A post the viewer may not
// see is indistinguishable from a missing one.
func (svc *Service) PostDetail(ctx context.Context, id int, viewerID int) (*repository.Post, []repository.Comment, error) {
	post, err := svc.repo.GetPost(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !svc.visibleTo(post, viewerID) {
		return nil, nil, ErrNotFound
	}
	comments, err := svc.repo.GetComments(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

type PostInput struct {
	Title       string
	Text        string
	PubDate     time.Time
	IsPublished bool
	CategoryID  *int
	Location    *string
	ImageURL    *string
}

func (svc *Service) CreatePost(ctx context.Context, authorID int, in PostInput) (*repository.Post, error) {
	return svc.repo.CreatePost(ctx, &repository.Post{
		Title:       in.Title,
		Text:        in.Text,
		PubDate:     in.PubDate,
		IsPublished: in.IsPublished,
		AuthorID:    authorID,
		CategoryID:  in.CategoryID,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
	})
}

// PostForEdit fetches a post for its author. Any other requester gets
// ErrNotAuthor, which handlers turn into a redirect to the detail page.
func (svc *Service) PostForEdit(ctx context.Context, id int, viewerID int) (*repository.Post, error) {
	post, err := svc.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != viewerID {
		return nil, ErrNotAuthor
	}
	return post, nil
}

func (svc *Service) UpdatePost(ctx context.Context, id int, viewerID int, in PostInput) (*repository.Post, error) {
	post, err := svc.PostForEdit(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	post.Title = in.Title
	post.Text = in.Text
	post.PubDate = in.PubDate
	post.IsPublished = in.IsPublished
	post.CategoryID = in.CategoryID
	post.Location = in.Location
	if in.ImageURL != nil {
		post.ImageURL = in.ImageURL
	}
	return svc.repo.UpdatePost(ctx, post)
}

func (svc *Service) DeletePost(ctx context.Context, id int, viewerID int) error {
	if _, err := svc.PostForEdit(ctx, id, viewerID); err != nil {
		return err
	}
	return svc.repo.DeletePost(ctx, id)
}

// AddComment stamps the comment with the request user and the URL post.
// Commenting is allowed only on posts the commenter can see.
func (svc *Service) AddComment(ctx context.Context, postID int, authorID int, text string) (*repository.Comment, error) {
	post, err := svc.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !svc.visibleTo(post, authorID) {
		return nil, ErrNotFound
	}
	return svc.repo.CreateComment(ctx, &repository.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	})
}

// CommentForEdit fetches a comment for its author, checking it actually
// belongs to the post named in the URL.
func (svc *Service) CommentForEdit(ctx context.Context, postID int, commentID int, viewerID int) (*repository.Comment, error) {
	comment, err := svc.repo.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, ErrNotFound
	}
	if comment.AuthorID != viewerID {
		return nil, ErrNotAuthor
	}
	return comment, nil
}

func (svc *Service) UpdateComment(ctx context.Context, postID int, commentID int, viewerID int, text string) (*repository.Comment, error) {
	if _, err := svc.CommentForEdit(ctx, postID, commentID, viewerID); err != nil {
		return nil, err
	}
	return svc.repo.UpdateComment(ctx, commentID, text)
}

func (svc *Service) DeleteComment(ctx context.Context, postID int, commentID int, viewerID int) error {
	if _, err := svc.CommentForEdit(ctx, postID, commentID, viewerID); err != nil {
		return err
	}
	return svc.repo.DeleteComment(ctx, commentID)
}

const maxAPILimit = 100

// clampLimit sanitizes the limit/offset pair of the read-only API:
// invalid limits fall back to the page size, oversized ones are capped.
func (svc *Service) clampLimit(limit int, offset int) (int, int) {
	if limit < 1 {
		limit = svc.pageSize
	}
	if limit > maxAPILimit {
		limit = maxAPILimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PublicPosts is the offset-based listing used by the read-only API.
// It applies the same anonymous-viewer visibility as the index page.
func (svc *Service) PublicPosts(ctx context.Context, limit int, offset int) ([]repository.Post, error) {
	limit, offset = svc.clampLimit(limit, offset)
	return svc.repo.GetPublishedPosts(ctx, limit, offset)
}

// PublicComments pages through the comments of a publicly visible post.
func (svc *Service) PublicComments(ctx context.Context, postID int, limit int, offset int) ([]repository.Comment, error) {
	post, err := svc.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !svc.visibleTo(post, AnonymousID) {
		return nil, ErrNotFound
	}
	comments, err := svc.repo.GetComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	limit, offset = svc.clampLimit(limit, offset)
	if offset > len(comments) {
		offset = len(comments)
	}
	comments = comments[offset:]
	if limit < len(comments) {
		comments = comments[:limit]
	}
	return comments, nil
}

func (svc *Service) Categories(ctx context.Context) ([]repository.Category, error) {
	return svc.repo.GetPublishedCategories(ctx)
}

type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func (svc *Service) Register(ctx context.Context, in RegisterInput) (*repository.User, error) {
	_, err := svc.repo.GetUserByUsername(ctx, in.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return svc.repo.CreateUser(ctx, &repository.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	})
}

func (svc *Service) Authenticate(ctx context.Context, username string, password string) (*repository.User, error) {
	user, err := svc.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (svc *Service) UserByID(ctx context.Context, id int) (*repository.User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

type ProfileInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

func (svc *Service) UpdateProfile(ctx context.Context, userID int, in ProfileInput) (*repository.User, error) {
	user, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Username != user.Username {
		if _, err := svc.repo.GetUserByUsername(ctx, in.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	user.Username = in.Username
	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	return svc.repo.UpdateUser(ctx, user)
}

// UploadImage stores a post image and returns its metadata. The image
// store is optional; without one uploads are rejected.
func (svc *Service) UploadImage(file multipart.File, header *multipart.FileHeader) (*repository.ImageMeta, error) {
	if svc.images == nil {
		return nil, errors.New("image storage is not configured")
	}
	return svc.images.PutImage(file, header)
}
