package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/tarpaulin-edu/course-service/internal/events"
	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
)

type enrollmentService struct {
	repo      repositories.Repository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewEnrollmentService(
	repo repositories.Repository,
	publisher events.Publisher,
	logger *slog.Logger,
) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Reconcile applies a batch add/remove of students to a course.
//
// Validation order, fail-fast, nothing written until all of it passes:
//  1. the course exists
//  2. every id in add resolves to a student
//  3. no id appears in both add and remove
//  4. every id in remove resolves to a student
func (s *enrollmentService) Reconcile(ctx context.Context, courseID uint, add, remove []uint) error {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("get course: %w", err)
	}

	if err := s.requireStudents(ctx, add); err != nil {
		return err
	}

	removeSet := make(map[uint]bool, len(remove))
	for _, id := range remove {
		removeSet[id] = true
	}
	for _, id := range add {
		if removeSet[id] {
			return fmt.Errorf("%w: user %d in both add and remove", ErrEnrollmentConflict, id)
		}
	}

	if err := s.requireStudents(ctx, remove); err != nil {
		return err
	}

	// Store operations are idempotent per id, so re-adding an enrolled
	// student or removing a non-enrolled one is a silent no-op.
	if err := s.repo.Course().AddStudents(ctx, courseID, add); err != nil {
		return fmt.Errorf("add students: %w", err)
	}
	if err := s.repo.Course().RemoveStudents(ctx, courseID, remove); err != nil {
		return fmt.Errorf("remove students: %w", err)
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.Event{
			Name: events.EnrollmentChanged,
			Payload: events.EnrollmentPayload{
				CourseID: courseID,
				Added:    add,
				Removed:  remove,
			},
		})
		if err != nil {
			s.logger.Error("failed to publish enrollment event",
				"course_id", courseID, "error", err)
		}
	}
	return nil
}

// requireStudents verifies every id resolves to a user with the student
// role. Unknown users and non-students both violate the batch.
func (s *enrollmentService) requireStudents(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		role, err := s.repo.User().GetRole(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d not found", ErrEnrollmentConflict, id)
			}
			return fmt.Errorf("get role for user %d: %w", id, err)
		}
		if role != models.RoleStudent {
			return fmt.Errorf("%w: user %d is not a student", ErrEnrollmentConflict, id)
		}
	}
	return nil
}
