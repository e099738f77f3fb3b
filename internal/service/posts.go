package service

import (
	"context"

	"github.com/Dan9191/tweet-service/internal/models"
)

// ListPosts returns every post with its author username, newest first
func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		s.log.Errorf("Error fetching posts: %v", err)
		return nil, err
	}
	return posts, nil
}

// CreatePost stores a post owned by the caller and returns its id
func (s *Service) CreatePost(ctx context.Context, identity models.Identity, content string) (int64, error) {
	if content == "" {
		return 0, ErrInvalidInput
	}

	post := &models.Post{UserID: identity.ID, Content: content}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		s.log.Errorf("Error creating post for user %d: %v", identity.ID, err)
		return 0, err
	}

	s.log.Debugf("Post %d created by user %d", post.ID, identity.ID)
	return post.ID, nil
}

// UpdatePost replaces the content of a post the caller owns
func (s *Service) UpdatePost(ctx context.Context, identity models.Identity, id int64, content string) error {
	if id <= 0 || content == "" {
		return ErrInvalidInput
	}

	n, err := s.repo.UpdatePost(ctx, id, identity.ID, content)
	if err != nil {
		s.log.Errorf("Error updating post %d: %v", id, err)
		return err
	}
	if n == 0 {
		return ErrNotFoundOrUnauthorized
	}
	return nil
}

// DeletePost removes a post the caller owns
func (s *Service) DeletePost(ctx context.Context, identity models.Identity, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	n, err := s.repo.DeletePost(ctx, id, identity.ID)
	if err != nil {
		s.log.Errorf("Error deleting post %d: %v", id, err)
		return err
	}
	if n == 0 {
		return ErrNotFoundOrUnauthorized
	}

	s.log.Debugf("Post %d deleted by user %d", id, identity.ID)
	return nil
}
