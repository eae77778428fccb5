// Package memory holds an in-memory Repository used by the test suites
// in place of Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"blogicum/internal/repository"
)

type Repository struct {
	mu sync.Mutex

	users      map[int]repository.User
	categories map[int]repository.Category
	posts      map[int]repository.Post
	comments   map[int]repository.Comment
	nextID     int
}

func New() *Repository {
	return &Repository{
		users:      map[int]repository.User{},
		categories: map[int]repository.Category{},
		posts:      map[int]repository.Post{},
		comments:   map[int]repository.Comment{},
	}
}

func (r *Repository) id() int {
	r.nextID++
	return r.nextID
}

// SeedCategory inserts a category directly; categories have no public
// create operation.
func (r *Repository) SeedCategory(category repository.Category) repository.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	category.ID = r.id()
	r.categories[category.ID] = category
	return category
}

// withJoins fills the columns the SQL implementation gets from joins.
func (r *Repository) withJoins(post repository.Post) repository.Post {
	if user, ok := r.users[post.AuthorID]; ok {
		post.AuthorUsername = user.Username
	}
	if post.CategoryID != nil {
		if category, ok := r.categories[*post.CategoryID]; ok {
			cat := category
			post.Category = &cat
		}
	}
	post.CommentCount = 0
	for _, comment := range r.comments {
		if comment.PostID == post.ID {
			post.CommentCount++
		}
	}
	return post
}

func (r *Repository) public(post repository.Post) bool {
	if !post.IsPublished || post.PubDate.After(time.Now()) {
		return false
	}
	if post.CategoryID == nil {
		return false
	}
	category, ok := r.categories[*post.CategoryID]
	return ok && category.IsPublished
}

func (r *Repository) collect(match func(repository.Post) bool, limit int, offset int) []repository.Post {
	posts := []repository.Post{}
	for _, post := range r.posts {
		if match(post) {
			posts = append(posts, r.withJoins(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].PubDate.After(posts[j].PubDate) })
	if offset > len(posts) {
		offset = len(posts)
	}
	posts = posts[offset:]
	if limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

func (r *Repository) count(match func(repository.Post) bool) int {
	count := 0
	for _, post := range r.posts {
		if match(post) {
			count++
		}
	}
	return count
}

func (r *Repository) GetPost(ctx context.Context, id int) (*repository.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	joined := r.withJoins(post)
	return &joined, nil
}

func (r *Repository) GetPublishedPosts(ctx context.Context, limit int, offset int) ([]repository.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(r.public, limit, offset), nil
}

func (r *Repository) CountPublishedPosts(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count(r.public), nil
}

func (r *Repository) GetPostsByCategory(ctx context.Context, categoryID int, limit int, offset int) ([]repository.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match := func(p repository.Post) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID && r.public(p)
	}
	return r.collect(match, limit, offset), nil
}

func (r *Repository) CountPostsByCategory(ctx context.Context, categoryID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count(func(p repository.Post) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID && r.public(p)
	}), nil
}

func (r *Repository) GetPostsByAuthor(ctx context.Context, authorID int, includeUnpublished bool, limit int, offset int) ([]repository.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match := func(p repository.Post) bool {
		if p.AuthorID != authorID {
			return false
		}
		return includeUnpublished || r.public(p)
	}
	return r.collect(match, limit, offset), nil
}

func (r *Repository) CountPostsByAuthor(ctx context.Context, authorID int, includeUnpublished bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count(func(p repository.Post) bool {
		if p.AuthorID != authorID {
			return false
		}
		return includeUnpublished || r.public(p)
	}), nil
}

func (r *Repository) CreatePost(ctx context.Context, post *repository.Post) (*repository.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *post
	stored.ID = r.id()
	stored.CreatedAt = time.Now()
	r.posts[stored.ID] = stored
	joined := r.withJoins(stored)
	return &joined, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *repository.Post) (*repository.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	stored.Title = post.Title
	stored.Text = post.Text
	stored.PubDate = post.PubDate
	stored.IsPublished = post.IsPublished
	stored.CategoryID = post.CategoryID
	stored.Location = post.Location
	stored.ImageURL = post.ImageURL
	r.posts[post.ID] = stored
	joined := r.withJoins(stored)
	return &joined, nil
}

func (r *Repository) DeletePost(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	for commentID, comment := range r.comments {
		if comment.PostID == id {
			delete(r.comments, commentID)
		}
	}
	return nil
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*repository.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.Slug == slug {
			cat := category
			return &cat, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repository) GetPublishedCategories(ctx context.Context) ([]repository.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	categories := []repository.Category{}
	for _, category := range r.categories {
		if category.IsPublished {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Title < categories[j].Title })
	return categories, nil
}

func (r *Repository) GetComment(ctx context.Context, id int) (*repository.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if user, ok := r.users[comment.AuthorID]; ok {
		comment.AuthorUsername = user.Username
	}
	return &comment, nil
}

func (r *Repository) GetComments(ctx context.Context, postID int) ([]repository.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comments := []repository.Comment{}
	for _, comment := range r.comments {
		if comment.PostID != postID {
			continue
		}
		if user, ok := r.users[comment.AuthorID]; ok {
			comment.AuthorUsername = user.Username
		}
		comments = append(comments, comment)
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *Repository) CreateComment(ctx context.Context, comment *repository.Comment) (*repository.Comment, error) {
	r.mu.Lock()
	stored := *comment
	stored.ID = r.id()
	stored.CreatedAt = time.Now()
	r.comments[stored.ID] = stored
	r.mu.Unlock()
	return r.GetComment(ctx, stored.ID)
}

func (r *Repository) UpdateComment(ctx context.Context, id int, text string) (*repository.Comment, error) {
	r.mu.Lock()
	comment, ok := r.comments[id]
	if !ok {
		r.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	comment.Text = text
	r.comments[id] = comment
	r.mu.Unlock()
	return r.GetComment(ctx, id)
}

func (r *Repository) DeleteComment(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *Repository) CreateUser(ctx context.Context, user *repository.User) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	stored.ID = r.id()
	stored.CreatedAt = time.Now()
	r.users[stored.ID] = stored
	return &stored, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repository) UpdateUser(ctx context.Context, user *repository.User) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	r.users[user.ID] = stored
	return &stored, nil
}
