package repositories

import "context"

// Repository aggregates all store interfaces behind one handle.
type Repository interface {
	Course() CourseRepository
	User() UserRepository
	Avatar() AvatarRepository
	Audit() AuditRepository

	// WithTransaction runs fn against a Repository bound to a single
	// database transaction. Multi-entity writes (course + instructor
	// link, cascading delete) go through here.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
