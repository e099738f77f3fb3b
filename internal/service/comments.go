package service

import (
	"context"

	"github.com/Dan9191/tweet-service/internal/models"
)

// CreateComment stores a comment on postID owned by the caller. The parent post is only
// looked up when RequireParentPost is configured; otherwise the comment is inserted as is.
func (s *Service) CreateComment(ctx context.Context, identity models.Identity, postID int64, content string) (int64, error) {
	if postID <= 0 || content == "" {
		return 0, ErrInvalidInput
	}

	if s.config.RequireParentPost {
		exists, err := s.repo.PostExists(ctx, postID)
		if err != nil {
			s.log.Errorf("Error checking post %d: %v", postID, err)
			return 0, err
		}
		if !exists {
			return 0, ErrNotFound
		}
	}

	comment := &models.Comment{PostID: postID, UserID: identity.ID, Content: content}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		s.log.Errorf("Error creating comment on post %d: %v", postID, err)
		return 0, err
	}

	s.log.Debugf("Comment %d created on post %d by user %d", comment.ID, postID, identity.ID)
	return comment.ID, nil
}

// ListComments returns the comments of a post with their author usernames, oldest first
func (s *Service) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	if postID <= 0 {
		return nil, ErrInvalidInput
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		s.log.Errorf("Error fetching comments for post %d: %v", postID, err)
		return nil, err
	}
	return comments, nil
}

// UpdateComment replaces the content of a comment the caller owns
func (s *Service) UpdateComment(ctx context.Context, identity models.Identity, id int64, content string) error {
	if id <= 0 || content == "" {
		return ErrInvalidInput
	}

	n, err := s.repo.UpdateComment(ctx, id, identity.ID, content)
	if err != nil {
		s.log.Errorf("Error updating comment %d: %v", id, err)
		return err
	}
	if n == 0 {
		return ErrNotFoundOrUnauthorized
	}
	return nil
}

// DeleteComment removes a comment the caller owns
func (s *Service) DeleteComment(ctx context.Context, identity models.Identity, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	n, err := s.repo.DeleteComment(ctx, id, identity.ID)
	if err != nil {
		s.log.Errorf("Error deleting comment %d: %v", id, err)
		return err
	}
	if n == 0 {
		return ErrNotFoundOrUnauthorized
	}
	return nil
}

// SweepOrphanComments deletes comments left behind by deleted posts
func (s *Service) SweepOrphanComments(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteOrphanComments(ctx)
	if err != nil {
		s.log.Errorf("Error sweeping orphan comments: %v", err)
		return 0, err
	}
	if n > 0 {
		s.log.Infof("Removed %d orphan comments", n)
	}
	return n, nil
}
