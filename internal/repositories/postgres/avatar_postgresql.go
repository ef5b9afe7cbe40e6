package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
)

type avatarRepository struct {
	db *gorm.DB
}

func NewAvatarPostgreSQL(db *gorm.DB) repositories.AvatarRepository {
	return &avatarRepository{db: db}
}

func (r *avatarRepository) Exists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AvatarRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check avatar record: %w", err)
	}
	return count > 0, nil
}

// Create upserts so re-uploads keep a single record per user.
func (r *avatarRepository) Create(ctx context.Context, userID uint) error {
	record := models.AvatarRecord{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("create avatar record: %w", err)
	}
	return nil
}

func (r *avatarRepository) Delete(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Delete(&models.AvatarRecord{}, "user_id = ?", userID).Error
	if err != nil {
		return fmt.Errorf("delete avatar record: %w", err)
	}
	return nil
}
