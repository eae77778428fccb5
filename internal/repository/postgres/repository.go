package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"blogicum/config"
	"blogicum/internal/repository"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// postSelect joins the author, the category (left, posts may be
// uncategorized) and the comment count onto every post row.
const postSelect = `
SELECT p.id, p.title, p.text, p.pub_date, p.is_published, p.author_id,
       p.category_id, p.location, p.image_url, p.created_at,
       u.username,
       c.title, c.slug, c.description, c.is_published,
       (SELECT COUNT(*) FROM blog.comments cm WHERE cm.post_id = p.id)
FROM blog.posts p
JOIN blog.users u ON u.id = p.author_id
LEFT JOIN blog.categories c ON c.id = p.category_id`

// publicOnly is the visibility predicate for viewers other than the
// author: published post, publication date reached, published category.
const publicOnly = `p.is_published AND p.pub_date <= NOW() AND c.is_published`

type postgresRepository struct {
	db *sql.DB
}

func New(conf config.Postgres) (*postgresRepository, error) {
	url := fmt.Sprintf(
		"postgresql://%v:%v@%v:%v/%v?sslmode=disable", conf.User, conf.Pass, conf.Host, conf.Port, conf.DB)

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %v", err)
	}
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("db.Ping: %v", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres.WithInstance: %v", err)
	}
	migrations := fmt.Sprintf("file://%v", conf.Migrations)
	m, err := migrate.NewWithDatabaseInstance(migrations, conf.DB, driver)
	if err != nil {
		return nil, fmt.Errorf("migrate.NewWithDatabaseInstance: %v", err)
	}
	log.Println("applying migrations...")
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("nothing to migrate")
		} else {
			return nil, fmt.Errorf("error when migrating: %v", err)
		}
	} else {
		log.Println("migrated successfully!")
	}

	return &postgresRepository{
		db: db,
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*repository.Post, error) {
	var (
		post     repository.Post
		catTitle sql.NullString
		catSlug  sql.NullString
		catDescr sql.NullString
		catPub   sql.NullBool
	)
	err := row.Scan(
		&post.ID, &post.Title, &post.Text, &post.PubDate, &post.IsPublished, &post.AuthorID,
		&post.CategoryID, &post.Location, &post.ImageURL, &post.CreatedAt,
		&post.AuthorUsername,
		&catTitle, &catSlug, &catDescr, &catPub,
		&post.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	if post.CategoryID != nil {
		cat := &repository.Category{
			ID:          *post.CategoryID,
			Title:       catTitle.String,
			Slug:        catSlug.String,
			IsPublished: catPub.Bool,
		}
		if catDescr.Valid {
			cat.Description = &catDescr.String
		}
		post.Category = cat
	}
	return &post, nil
}

func (pr postgresRepository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]repository.Post, error) {
	rows, err := pr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []repository.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (pr postgresRepository) GetPost(ctx context.Context, id int) (*repository.Post, error) {
	post, err := scanPost(pr.db.QueryRowContext(ctx, postSelect+" WHERE p.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (pr postgresRepository) GetPublishedPosts(ctx context.Context, limit int, offset int) ([]repository.Post, error) {
	return pr.queryPosts(ctx,
		postSelect+" WHERE "+publicOnly+" ORDER BY p.pub_date DESC LIMIT $1 OFFSET $2",
		limit, offset)
}

func (pr postgresRepository) CountPublishedPosts(ctx context.Context) (int, error) {
	var count int
	err := pr.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog.posts p
		 JOIN blog.categories c ON c.id = p.category_id
		 WHERE `+publicOnly,
	).Scan(&count)
	return count, err
}

func (pr postgresRepository) GetPostsByCategory(ctx context.Context, categoryID int, limit int, offset int) ([]repository.Post, error) {
	return pr.queryPosts(ctx,
		postSelect+" WHERE p.category_id = $1 AND "+publicOnly+" ORDER BY p.pub_date DESC LIMIT $2 OFFSET $3",
		categoryID, limit, offset)
}

func (pr postgresRepository) CountPostsByCategory(ctx context.Context, categoryID int) (int, error) {
	var count int
	err := pr.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog.posts p
		 JOIN blog.categories c ON c.id = p.category_id
		 WHERE p.category_id = $1 AND `+publicOnly,
		categoryID,
	).Scan(&count)
	return count, err
}

func (pr postgresRepository) GetPostsByAuthor(ctx context.Context, authorID int, includeUnpublished bool, limit int, offset int) ([]repository.Post, error) {
	if includeUnpublished {
		return pr.queryPosts(ctx,
			postSelect+" WHERE p.author_id = $1 ORDER BY p.pub_date DESC LIMIT $2 OFFSET $3",
			authorID, limit, offset)
	}
	return pr.queryPosts(ctx,
		postSelect+" WHERE p.author_id = $1 AND "+publicOnly+" ORDER BY p.pub_date DESC LIMIT $2 OFFSET $3",
		authorID, limit, offset)
}

func (pr postgresRepository) CountPostsByAuthor(ctx context.Context, authorID int, includeUnpublished bool) (int, error) {
	var (
		count int
		err   error
	)
	if includeUnpublished {
		err = pr.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM blog.posts p WHERE p.author_id = $1", authorID).Scan(&count)
	} else {
		err = pr.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM blog.posts p
			 JOIN blog.categories c ON c.id = p.category_id
			 WHERE p.author_id = $1 AND `+publicOnly,
			authorID).Scan(&count)
	}
	return count, err
}

func (pr postgresRepository) CreatePost(ctx context.Context, post *repository.Post) (*repository.Post, error) {
	var postID int
	err := pr.db.QueryRowContext(ctx,
		`INSERT INTO blog.posts (title, text, pub_date, is_published, author_id, category_id, location, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		post.Title, post.Text, post.PubDate, post.IsPublished,
		post.AuthorID, post.CategoryID, post.Location, post.ImageURL,
	).Scan(&postID)
	if err != nil {
		return nil, err
	}
	return pr.GetPost(ctx, postID)
}

func (pr postgresRepository) UpdatePost(ctx context.Context, post *repository.Post) (*repository.Post, error) {
	_, err := pr.db.ExecContext(ctx,
		`UPDATE blog.posts
		 SET title = $1, text = $2, pub_date = $3, is_published = $4, category_id = $5, location = $6, image_url = $7
		 WHERE id = $8`,
		post.Title, post.Text, post.PubDate, post.IsPublished,
		post.CategoryID, post.Location, post.ImageURL, post.ID,
	)
	if err != nil {
		return nil, err
	}
	return pr.GetPost(ctx, post.ID)
}

func (pr postgresRepository) DeletePost(ctx context.Context, id int) error {
	_, err := pr.db.ExecContext(ctx, "DELETE FROM blog.posts WHERE id = $1", id)
	return err
}

func (pr postgresRepository) GetCategoryBySlug(ctx context.Context, slug string) (*repository.Category, error) {
	category := &repository.Category{}
	err := pr.db.QueryRowContext(ctx,
		"SELECT id, title, slug, description, is_published FROM blog.categories WHERE slug = $1", slug).Scan(
		&category.ID, &category.Title, &category.Slug, &category.Description, &category.IsPublished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (pr postgresRepository) GetPublishedCategories(ctx context.Context) ([]repository.Category, error) {
	rows, err := pr.db.QueryContext(ctx,
		"SELECT id, title, slug, description, is_published FROM blog.categories WHERE is_published ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []repository.Category{}
	for rows.Next() {
		category := repository.Category{}
		err = rows.Scan(&category.ID, &category.Title, &category.Slug, &category.Description, &category.IsPublished)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (pr postgresRepository) GetComment(ctx context.Context, id int) (*repository.Comment, error) {
	comment := &repository.Comment{}
	err := pr.db.QueryRowContext(ctx,
		`SELECT cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at, u.username
		 FROM blog.comments cm
		 JOIN blog.users u ON u.id = cm.author_id
		 WHERE cm.id = $1`, id).Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text, &comment.CreatedAt,
		&comment.AuthorUsername)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (pr postgresRepository) GetComments(ctx context.Context, postID int) ([]repository.Comment, error) {
	rows, err := pr.db.QueryContext(ctx,
		`SELECT cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at, u.username
		 FROM blog.comments cm
		 JOIN blog.users u ON u.id = cm.author_id
		 WHERE cm.post_id = $1
		 ORDER BY cm.created_at`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []repository.Comment{}
	for rows.Next() {
		comment := repository.Comment{}
		err = rows.Scan(
			&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text, &comment.CreatedAt,
			&comment.AuthorUsername)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (pr postgresRepository) CreateComment(ctx context.Context, comment *repository.Comment) (*repository.Comment, error) {
	var commentID int
	err := pr.db.QueryRowContext(ctx,
		"INSERT INTO blog.comments (post_id, author_id, text) VALUES ($1, $2, $3) RETURNING id",
		comment.PostID, comment.AuthorID, comment.Text).Scan(&commentID)
	if err != nil {
		return nil, err
	}
	return pr.GetComment(ctx, commentID)
}

func (pr postgresRepository) UpdateComment(ctx context.Context, id int, text string) (*repository.Comment, error) {
	_, err := pr.db.ExecContext(ctx, "UPDATE blog.comments SET text = $1 WHERE id = $2", text, id)
	if err != nil {
		return nil, err
	}
	return pr.GetComment(ctx, id)
}

func (pr postgresRepository) DeleteComment(ctx context.Context, id int) error {
	_, err := pr.db.ExecContext(ctx, "DELETE FROM blog.comments WHERE id = $1", id)
	return err
}

func (pr postgresRepository) CreateUser(ctx context.Context, user *repository.User) (*repository.User, error) {
	var userID int
	err := pr.db.QueryRowContext(ctx,
		`INSERT INTO blog.users (username, email, first_name, last_name, password_hash)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.Username, user.Email, user.FirstName, user.LastName, user.PasswordHash).Scan(&userID)
	if err != nil {
		return nil, err
	}
	return pr.GetUserByID(ctx, userID)
}

func (pr postgresRepository) scanUser(row rowScanner) (*repository.User, error) {
	user := &repository.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (pr postgresRepository) GetUserByID(ctx context.Context, id int) (*repository.User, error) {
	return pr.scanUser(pr.db.QueryRowContext(ctx,
		`SELECT id, username, email, first_name, last_name, password_hash, created_at
		 FROM blog.users WHERE id = $1`, id))
}

func (pr postgresRepository) GetUserByUsername(ctx context.Context, username string) (*repository.User, error) {
	return pr.scanUser(pr.db.QueryRowContext(ctx,
		`SELECT id, username, email, first_name, last_name, password_hash, created_at
		 FROM blog.users WHERE username = $1`, username))
}

func (pr postgresRepository) UpdateUser(ctx context.Context, user *repository.User) (*repository.User, error) {
	_, err := pr.db.ExecContext(ctx,
		`UPDATE blog.users SET username = $1, email = $2, first_name = $3, last_name = $4 WHERE id = $5`,
		user.Username, user.Email, user.FirstName, user.LastName, user.ID)
	if err != nil {
		return nil, err
	}
	return pr.GetUserByID(ctx, user.ID)
}
