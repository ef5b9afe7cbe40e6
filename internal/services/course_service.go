package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gorm.io/gorm"

	"github.com/tarpaulin-edu/course-service/internal/events"
	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
	"github.com/tarpaulin-edu/course-service/internal/validator"
)

type courseService struct {
	repo       repositories.Repository
	enrollment EnrollmentService
	publisher  events.Publisher
	logger     *slog.Logger
	validator  *validator.Validator
}

func NewCourseService(
	repo repositories.Repository,
	enrollment EnrollmentService,
	publisher events.Publisher,
	logger *slog.Logger,
	validator *validator.Validator,
) CourseService {
	return &courseService{
		repo:       repo,
		enrollment: enrollment,
		publisher:  publisher,
		logger:     logger,
		validator:  validator,
	}
}

// Create writes the course and its instructor link in one transaction so
// a course can never exist without an instructor.
func (s *courseService) Create(ctx context.Context, actor *models.User, req *CreateCourseRequest) (*CourseDetail, error) {
	if err := CanCreateCourse(actor); err != nil {
		return nil, err
	}
	if errs := s.validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidField, errs.Error())
	}

	isInstructor, err := s.repo.User().HasRole(ctx, req.InstructorID, models.RoleInstructor)
	if err != nil {
		return nil, fmt.Errorf("check instructor role: %w", err)
	}
	if !isInstructor {
		return nil, ErrInvalidInstructor
	}

	course := &models.Course{
		Number:  req.Number,
		Subject: req.Subject,
		Title:   req.Title,
		Term:    req.Term,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Course().Create(ctx, course); err != nil {
			return err
		}
		return tx.Course().UpsertInstructor(ctx, course.ID, req.InstructorID)
	})
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.audit(ctx, actor, models.AuditCourseCreated, course.ID, map[string]any{
		"subject":       course.Subject,
		"number":        course.Number,
		"term":          course.Term,
		"instructor_id": req.InstructorID,
	})
	s.publish(ctx, events.CourseCreated, events.CoursePayload{
		CourseID:     course.ID,
		InstructorID: req.InstructorID,
	})

	return &CourseDetail{Course: *course, InstructorID: req.InstructorID}, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (*CourseDetail, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	// Courses always have an instructor; a missing link here is data
	// damage, not a caller mistake.
	instructorID, err := s.repo.Course().GetInstructorID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve instructor for course %d: %w", id, err)
	}

	return &CourseDetail{Course: *course, InstructorID: instructorID}, nil
}

// List reports the pre-filter row count alongside the page. Dropped
// orphans must not hide later rows from offset-based traversal, so
// "is there a next page" is answered by what the store returned, not by
// what survived filtering.
func (s *courseService) List(ctx context.Context, offset, limit int) ([]*CourseDetail, int, error) {
	courses, err := s.repo.Course().List(ctx, repositories.CourseFilters{
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, err
	}

	details := make([]*CourseDetail, 0, len(courses))
	for _, course := range courses {
		instructorID, err := s.repo.Course().GetInstructorID(ctx, course.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No resolvable instructor: drop from the page.
				s.logger.Warn("course has no instructor link, dropping from listing",
					"course_id", course.ID)
				continue
			}
			return nil, 0, fmt.Errorf("resolve instructor for course %d: %w", course.ID, err)
		}
		details = append(details, &CourseDetail{Course: *course, InstructorID: instructorID})
	}
	return details, len(courses), nil
}

// Update validates the entire patch against the allow-list before
// touching anything, so a rejected patch never partially applies.
func (s *courseService) Update(ctx context.Context, actor *models.User, id uint, patch map[string]any) (*CourseDetail, error) {
	if err := CanUpdateCourse(actor); err != nil {
		return nil, err
	}

	if _, err := s.repo.Course().GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	fields, instructorID, err := validateCoursePatch(patch)
	if err != nil {
		return nil, err
	}

	if instructorID != nil {
		isInstructor, err := s.repo.User().HasRole(ctx, *instructorID, models.RoleInstructor)
		if err != nil {
			return nil, fmt.Errorf("check instructor role: %w", err)
		}
		if !isInstructor {
			return nil, ErrInvalidInstructor
		}
		if err := s.repo.Course().UpsertInstructor(ctx, id, *instructorID); err != nil {
			return nil, fmt.Errorf("reassign instructor: %w", err)
		}
	}

	if len(fields) > 0 {
		if err := s.repo.Course().Update(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("update course: %w", err)
		}
	}

	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 || instructorID != nil {
		s.audit(ctx, actor, models.AuditCourseUpdated, id, patch)
		s.publish(ctx, events.CourseUpdated, events.CoursePayload{
			CourseID:     id,
			InstructorID: detail.InstructorID,
		})
	}
	return detail, nil
}

// validateCoursePatch checks every key against the mutable-field
// allow-list and coerces values, returning the fields to apply and the
// optional instructor reassignment. Fails without applying anything.
func validateCoursePatch(patch map[string]any) (map[string]any, *uint, error) {
	fields := make(map[string]any, len(patch))
	var instructorID *uint

	for key, value := range patch {
		if key == "instructor_id" {
			id, ok := toUint(value)
			if !ok {
				return nil, nil, fmt.Errorf("%w: instructor_id", ErrInvalidField)
			}
			instructorID = &id
			continue
		}
		if !models.CourseMutableFields[key] {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidField, key)
		}

		switch key {
		case "number":
			n, ok := toInt(value)
			if !ok || n < 1 {
				return nil, nil, fmt.Errorf("%w: number", ErrInvalidField)
			}
			fields[key] = n
		default:
			str, ok := value.(string)
			if !ok || str == "" {
				return nil, nil, fmt.Errorf("%w: %s", ErrInvalidField, key)
			}
			fields[key] = str
		}
	}
	return fields, instructorID, nil
}

func (s *courseService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := CanDeleteCourse(actor); err != nil {
		return err
	}

	// Cascade: course, instructor link, enrollments, one transaction.
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Course().Delete(ctx, id); err != nil {
			return err
		}
		if err := tx.Course().DeleteInstructor(ctx, id); err != nil {
			return err
		}
		return tx.Course().DeleteEnrollments(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("delete course: %w", err)
	}

	s.audit(ctx, actor, models.AuditCourseDeleted, id, nil)
	s.publish(ctx, events.CourseDeleted, events.CoursePayload{CourseID: id})
	return nil
}

func (s *courseService) Students(ctx context.Context, actor *models.User, courseID uint) ([]uint, error) {
	if err := s.authorizeEnrollmentAccess(ctx, actor, courseID); err != nil {
		return nil, err
	}
	return s.repo.Course().GetStudentIDs(ctx, courseID)
}

func (s *courseService) UpdateEnrollment(ctx context.Context, actor *models.User, courseID uint, req *EnrollmentUpdateRequest) error {
	if err := s.authorizeEnrollmentAccess(ctx, actor, courseID); err != nil {
		return err
	}

	if err := s.enrollment.Reconcile(ctx, courseID, req.Add, req.Remove); err != nil {
		return err
	}

	s.audit(ctx, actor, models.AuditEnrollmentChanged, courseID, map[string]any{
		"add":    req.Add,
		"remove": req.Remove,
	})
	return nil
}

// authorizeEnrollmentAccess checks course existence and the shared
// enrollment rule: admin, or the course's own instructor.
func (s *courseService) authorizeEnrollmentAccess(ctx context.Context, actor *models.User, courseID uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.Role == models.RoleStudent {
		return ErrForbidden
	}

	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("get course: %w", err)
	}

	instructorID, err := s.repo.Course().GetInstructorID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("resolve instructor for course %d: %w", courseID, err)
	}
	return CanManageEnrollment(actor, instructorID)
}

// audit appends an audit record; failures are logged, never surfaced.
func (s *courseService) audit(ctx context.Context, actor *models.User, action string, entityID uint, details map[string]any) {
	record := &models.AuditRecord{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "course",
		EntityID: entityID,
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			record.Details = data
		}
	}
	if err := s.repo.Audit().Append(ctx, record); err != nil {
		s.logger.Error("failed to append audit record",
			"action", action, "entity_id", entityID, "error", err)
	}
}

// publish emits a domain event; failures are logged, never surfaced.
func (s *courseService) publish(ctx context.Context, name string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.Event{Name: name, Payload: payload}); err != nil {
		s.logger.Error("failed to publish event", "event", name, "error", err)
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func toUint(v any) (uint, bool) {
	n, ok := toInt(v)
	if !ok || n < 1 {
		return 0, false
	}
	return uint(n), true
}
