package repositories

import (
	"context"

	"blog/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements UserRepository using gorm
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GormUserRepository
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user. A taken email yields models.ErrDuplicateEmail.
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	return translate(err, models.ErrDuplicateEmail)
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &user, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}
