package service

import (
	"context"

	"github.com/Dan9191/tweet-service/internal/config"
	"github.com/Dan9191/tweet-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Store is the persistence the service needs. Mutations on posts and comments report the
// number of affected rows so ownership can be enforced by a single conditional statement.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, id, userID int64, content string) (int64, error)
	DeletePost(ctx context.Context, id, userID int64) (int64, error)
	PostExists(ctx context.Context, id int64) (bool, error)

	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	UpdateComment(ctx context.Context, id, userID int64, content string) (int64, error)
	DeleteComment(ctx context.Context, id, userID int64) (int64, error)
	DeleteOrphanComments(ctx context.Context) (int64, error)
}

// Service handles business logic
type Service struct {
	repo   Store
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, log: log, config: cfg}
}

// Ping reports whether the store is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
