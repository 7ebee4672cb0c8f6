package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog/app/models"
	"blog/app/repositories"
)

// PostService handles business logic for blog posts. Every mutation is
// admin-gated before any repository is touched.
type PostService struct {
	postRepo repositories.PostRepository
	gate     *Gate
	now      func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, gate *Gate) *PostService {
	return &PostService{
		postRepo: postRepo,
		gate:     gate,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp post dates.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

// CreatePost stores a new post authored by actor and dated today.
func (s *PostService) CreatePost(ctx context.Context, actor models.Identity, in models.PostInput) (*models.Post, error) {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: actor.UserID, Date: s.now()}
	post.Apply(in)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, wrap("create post", err)
	}
	return post, nil
}

// EditPost replaces a post's editable fields and re-stamps its author to actor.
// The id and creation date are preserved.
func (s *PostService) EditPost(ctx context.Context, actor models.Identity, id uint, in models.PostInput) (*models.Post, error) {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("get post", err)
	}
	in.Normalize()
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	post.Apply(in)
	post.AuthorID = actor.UserID
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, wrap("update post", err)
	}
	return post, nil
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(ctx context.Context, actor models.Identity, id uint) error {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return wrap("delete post", err)
	}
	return nil
}

// ListPosts returns every post in insertion order.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost retrieves a post by ID with its comments
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("get post", err)
	}
	return post, nil
}

// wrap adds context to unexpected errors and passes model sentinels through untouched.
func wrap(op string, err error) error {
	for _, sentinel := range []error{
		models.ErrNotFound,
		models.ErrDuplicateTitle,
		models.ErrDuplicateEmail,
		models.ErrForbidden,
		models.ErrUnauthenticated,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
