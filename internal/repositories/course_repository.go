package repositories

import (
	"context"

	"github.com/tarpaulin-edu/course-service/internal/models"
)

// CourseFilters defines pagination for course listings. Results are
// always ordered ascending by subject; ties fall back to insertion order.
type CourseFilters struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CourseRepository owns the Course, CourseInstructor and CourseEnrollment
// collections. Missing rows surface as gorm.ErrRecordNotFound; the
// service layer translates them into domain errors.
type CourseRepository interface {
	// Course entity
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, error)
	// Update applies a pre-validated patch of mutable fields. Callers
	// must have checked every key against the allow-list first so a
	// rejected patch never partially applies.
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error

	// Instructor link (exactly one per course once created)
	GetInstructorID(ctx context.Context, courseID uint) (uint, error)
	UpsertInstructor(ctx context.Context, courseID, instructorID uint) error
	// DeleteInstructor is a no-op when no link exists.
	DeleteInstructor(ctx context.Context, courseID uint) error

	// Enrollment links
	GetStudentIDs(ctx context.Context, courseID uint) ([]uint, error)
	IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error)
	// AddStudents and RemoveStudents are idempotent per id: enrolling an
	// already-enrolled student or removing a non-enrolled one is skipped.
	AddStudents(ctx context.Context, courseID uint, studentIDs []uint) error
	RemoveStudents(ctx context.Context, courseID uint, studentIDs []uint) error
	// DeleteEnrollments removes every enrollment for a course; no-op
	// when there are none.
	DeleteEnrollments(ctx context.Context, courseID uint) error

	// Membership lookups by user
	GetCourseIDsByStudent(ctx context.Context, studentID uint) ([]uint, error)
	GetCourseIDsByInstructor(ctx context.Context, instructorID uint) ([]uint, error)
}
