package repositories

import (
	"context"

	"github.com/tarpaulin-edu/course-service/internal/models"
)

// AuditRepository is an append-only trail of administrative mutations.
type AuditRepository interface {
	Append(ctx context.Context, record *models.AuditRecord) error
	ListRecent(ctx context.Context, limit int) ([]*models.AuditRecord, error)
}
