package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tarpaulin-edu/course-service/internal/cache"
	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
)

// userRepository reads the pre-provisioned user records, with a Redis
// cache in front of postgres. Users never change through this service, so
// cached copies only expire by TTL.
type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &userRepository{
		db:    db,
		cache: cache.NewCacheHelper(redisClient, cache.UserCacheConfig.Prefix),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%d", id)

	var cached models.User
	if err := r.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}

	// Cache failures are non-fatal; the database answer stands.
	_ = r.cache.Set(ctx, cacheKey, &user, cache.UserCacheConfig.TTL)
	return &user, nil
}

func (r *userRepository) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	cacheKey := fmt.Sprintf("sub:%s", subject)

	var cached models.User
	if err := r.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var user models.User
	err := r.db.WithContext(ctx).
		Where("sub = ?", subject).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, cacheKey, &user, cache.UserCacheConfig.TTL)
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	var users []*models.User

	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Order("id ASC")

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) GetRole(ctx context.Context, id uint) (models.UserRole, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (r *userRepository) HasRole(ctx context.Context, id uint, role models.UserRole) (bool, error) {
	actual, err := r.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return actual == role, nil
}
