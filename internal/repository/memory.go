package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/tweet-service/internal/models"
)

// MemoryRepository keeps everything in process memory.
// It backs DB_DRIVER=memory and the test suites.
type MemoryRepository struct {
	mu       sync.RWMutex
	users    map[int64]models.User
	posts    map[int64]models.Post
	comments map[int64]models.Comment
	nextID   map[string]int64
	last     time.Time
	now      func() time.Time
}

// NewMemoryRepository returns an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[int64]models.User),
		posts:    make(map[int64]models.Post),
		comments: make(map[int64]models.Comment),
		nextID:   make(map[string]int64),
		now:      time.Now,
	}
}

// Ping always succeeds
func (m *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// CreateUser stores a user, rejecting duplicate usernames like the users.username constraint
func (m *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("failed to create user: duplicate username %q", user.Username)
		}
	}
	user.ID = m.id("users")
	m.users[user.ID] = *user
	return nil
}

// FindUserByUsername retrieves a user by username
func (m *MemoryRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// ListPosts returns every post with its author, newest first
func (m *MemoryRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		p.Username = m.users[p.UserID].Username
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

// CreatePost inserts a post and fills in its id and creation time
func (m *MemoryRepository) CreatePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[post.UserID]; !ok {
		return fmt.Errorf("failed to create post: unknown user %d", post.UserID)
	}
	post.ID = m.id("tweets")
	post.CreatedAt = m.timestamp()
	m.posts[post.ID] = *post
	return nil
}

// UpdatePost changes the content of a post owned by userID
func (m *MemoryRepository) UpdatePost(ctx context.Context, id, userID int64, content string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok || p.UserID != userID {
		return 0, nil
	}
	p.Content = content
	m.posts[id] = p
	return 1, nil
}

// DeletePost removes a post owned by userID
func (m *MemoryRepository) DeletePost(ctx context.Context, id, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok || p.UserID != userID {
		return 0, nil
	}
	delete(m.posts, id)
	return 1, nil
}

// PostExists reports whether a post with the given id is stored
func (m *MemoryRepository) PostExists(ctx context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.posts[id]
	return ok, nil
}

// CreateComment inserts a comment and fills in its id and creation time
func (m *MemoryRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[comment.UserID]; !ok {
		return fmt.Errorf("failed to create comment: unknown user %d", comment.UserID)
	}
	comment.ID = m.id("comments")
	comment.CreatedAt = m.timestamp()
	m.comments[comment.ID] = *comment
	return nil
}

// ListComments returns the comments of a post with their authors, oldest first
func (m *MemoryRepository) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comments := []models.Comment{}
	for _, c := range m.comments {
		if c.PostID != postID {
			continue
		}
		c.Username = m.users[c.UserID].Username
		comments = append(comments, c)
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

// UpdateComment changes the content of a comment owned by userID
func (m *MemoryRepository) UpdateComment(ctx context.Context, id, userID int64, content string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[id]
	if !ok || c.UserID != userID {
		return 0, nil
	}
	c.Content = content
	m.comments[id] = c
	return 1, nil
}

// DeleteComment removes a comment owned by userID
func (m *MemoryRepository) DeleteComment(ctx context.Context, id, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[id]
	if !ok || c.UserID != userID {
		return 0, nil
	}
	delete(m.comments, id)
	return 1, nil
}

// DeleteOrphanComments removes comments whose post no longer exists
func (m *MemoryRepository) DeleteOrphanComments(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, c := range m.comments {
		if _, ok := m.posts[c.PostID]; !ok {
			delete(m.comments, id)
			n++
		}
	}
	return n, nil
}

// id hands out auto-increment keys per table. Caller holds mu.
func (m *MemoryRepository) id(table string) int64 {
	m.nextID[table]++
	return m.nextID[table]
}

// timestamp returns a strictly increasing creation time. Caller holds mu.
func (m *MemoryRepository) timestamp() time.Time {
	t := m.now().UTC()
	if !t.After(m.last) {
		t = m.last.Add(time.Microsecond)
	}
	m.last = t
	return t
}
