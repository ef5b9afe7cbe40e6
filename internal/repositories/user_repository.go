package repositories

import (
	"context"

	"github.com/tarpaulin-edu/course-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role   *models.UserRole // Filter by role
	Limit  int              // Page size (0 = no limit)
	Offset int              // Offset for pagination
}

// UserRepository is read-only: users are provisioned out-of-band and this
// service never mutates them.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetBySubject resolves the token subject claim to a local user.
	GetBySubject(ctx context.Context, subject string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)

	// Role checks
	GetRole(ctx context.Context, id uint) (models.UserRole, error)
	HasRole(ctx context.Context, id uint, role models.UserRole) (bool, error)
}
