package repositories

import (
	"context"
	"fmt"

	"blog/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPostRepository implements PostRepository using gorm
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new GormPostRepository
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post. A taken title yields models.ErrDuplicateTitle.
func (r *GormPostRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
	return translate(err, models.ErrDuplicateTitle)
}

// GetByID retrieves a post by ID
func (r *GormPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.id ASC") }).
		Preload("Comments.Author").
		First(&post, id).Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return &post, nil
}

// List retrieves all posts in insertion order
func (r *GormPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Order("id ASC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Update overwrites the editable columns and the author of an existing post.
// The creation date is never touched.
func (r *GormPostRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"title":     post.Title,
		"subtitle":  post.Subtitle,
		"body":      post.Body,
		"img_url":   post.ImgURL,
		"author_id": post.AuthorID,
	})
	if res.Error != nil {
		return translate(res.Error, models.ErrDuplicateTitle)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete deletes a post and its comments in one transaction
func (r *GormPostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of post %d: %w", id, err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}
