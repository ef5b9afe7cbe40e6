package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tarpaulin-edu/course-service/internal/events"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
	"github.com/tarpaulin-edu/course-service/internal/validator"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo        repositories.Repository
	avatarStore repositories.AvatarStore
	provider    CredentialExchanger
	publisher   events.Publisher
	logger      *slog.Logger
	validator   *validator.Validator

	// Service instances
	courseService     CourseService
	enrollmentService EnrollmentService
	userService       UserService
	rosterService     RosterService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(
	repo repositories.Repository,
	avatarStore repositories.AvatarStore,
	provider CredentialExchanger,
	publisher events.Publisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		repo:        repo,
		avatarStore: avatarStore,
		provider:    provider,
		publisher:   publisher,
		logger:      logger,
		validator:   validator,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return fmt.Errorf("service manager already initialized")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository not reachable: %w", err)
	}

	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.publisher, sm.logger)
	sm.courseService = NewCourseService(sm.repo, sm.enrollmentService, sm.publisher, sm.logger, sm.validator)
	sm.userService = NewUserService(sm.repo, sm.avatarStore, sm.provider, sm.logger, sm.validator)
	sm.rosterService = NewRosterService(sm.courseService, sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("service manager initialized")
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("failed to close event publisher", "error", err)
		}
	}

	sm.logger.Info("service manager shut down")
	return nil
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.courseService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.enrollmentService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.userService
}

func (sm *serviceManager) Roster() RosterService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.rosterService
}
