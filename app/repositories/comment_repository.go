package repositories

import (
	"context"

	"blog/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentRepository implements CommentRepository using gorm
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new GormCommentRepository
func NewCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment. A post that no longer exists yields models.ErrNotFound.
func (r *GormCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
	if err != nil && isForeignKeyViolation(err) {
		return models.ErrNotFound
	}
	return err
}

// ListByPost returns the comments on a post, oldest first, with their authors.
func (r *GormCommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
