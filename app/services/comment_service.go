package services

import (
	"context"
	"strings"

	"blog/app/models"
	"blog/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	gate        *Gate
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, gate *Gate) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		gate:        gate,
	}
}

// AddComment attaches a comment by actor to an existing post.
func (s *CommentService) AddComment(ctx context.Context, actor models.Identity, postID uint, body string) (*models.Comment, error) {
	if err := s.gate.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if err := models.Validate(models.CommentInput{Text: strings.TrimSpace(body)}); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, wrap("get post", err)
	}

	comment := &models.Comment{AuthorID: actor.UserID, PostID: postID, Text: body}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, wrap("create comment", err)
	}
	return comment, nil
}

// ListPostComments returns a post's comments oldest first.
func (s *CommentService) ListPostComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, wrap("get post", err)
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, wrap("list comments", err)
	}
	return comments, nil
}
