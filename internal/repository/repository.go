package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/tweet-service/internal/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks the connection pool
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListPosts returns every post with its author, newest first
func (r *Repository) ListPosts(ctx context.Context) ([]models.Post, error) {
	query := `
		SELECT t.id, t.user_id, t.content, t.created_at, u.username
		FROM tweets t
		INNER JOIN users u ON t.user_id = u.id
		ORDER BY t.created_at DESC, t.id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt, &p.Username); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CreatePost inserts a post and fills in its id and creation time
func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO tweets (user_id, content, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, post.UserID, post.Content).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// UpdatePost changes the content of a post owned by userID.
// It returns the number of rows affected.
func (r *Repository) UpdatePost(ctx context.Context, id, userID int64, content string) (int64, error) {
	query := `UPDATE tweets SET content = $1 WHERE id = $2 AND user_id = $3`
	return r.exec(ctx, "update post", query, content, id, userID)
}

// DeletePost removes a post owned by userID
func (r *Repository) DeletePost(ctx context.Context, id, userID int64) (int64, error) {
	query := `DELETE FROM tweets WHERE id = $1 AND user_id = $2`
	return r.exec(ctx, "delete post", query, id, userID)
}

// PostExists reports whether a post with the given id is stored
func (r *Repository) PostExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM tweets WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	return exists, nil
}

// CreateComment inserts a comment and fills in its id and creation time
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (tweet_id, user_id, content, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, comment.PostID, comment.UserID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListComments returns the comments of a post with their authors, oldest first
func (r *Repository) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `
		SELECT c.id, c.tweet_id, c.user_id, c.content, c.created_at, u.username
		FROM comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.tweet_id = $1
		ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.Username); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// UpdateComment changes the content of a comment owned by userID
func (r *Repository) UpdateComment(ctx context.Context, id, userID int64, content string) (int64, error) {
	query := `UPDATE comments SET content = $1 WHERE id = $2 AND user_id = $3`
	return r.exec(ctx, "update comment", query, content, id, userID)
}

// DeleteComment removes a comment owned by userID
func (r *Repository) DeleteComment(ctx context.Context, id, userID int64) (int64, error) {
	query := `DELETE FROM comments WHERE id = $1 AND user_id = $2`
	return r.exec(ctx, "delete comment", query, id, userID)
}

// DeleteOrphanComments removes comments whose post no longer exists
func (r *Repository) DeleteOrphanComments(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM comments c
		WHERE NOT EXISTS (SELECT 1 FROM tweets t WHERE t.id = c.tweet_id)`
	return r.exec(ctx, "delete orphan comments", query)
}

func (r *Repository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	return n, nil
}
