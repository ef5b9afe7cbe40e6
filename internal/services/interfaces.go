package services

import (
	"context"

	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use request validator types
type CreateCourseRequest = validator.CourseCreateRequest
type EnrollmentUpdateRequest = validator.EnrollmentUpdateRequest
type LoginRequest = validator.LoginRequest

// CourseDetail is a course joined with its resolved instructor.
type CourseDetail struct {
	models.Course
	InstructorID uint `json:"instructor_id"`
}

// UserDetail is a user plus avatar presence and course membership,
// as rendered by GET /users/{id}.
type UserDetail struct {
	*models.User
	HasAvatar bool   `json:"has_avatar"`
	CourseIDs []uint `json:"course_ids"`
}

// ===== SERVICE INTERFACES =====

// CourseService owns course CRUD and the enrollment endpoints' policy
// checks. Course reads are public; everything else is role-gated.
type CourseService interface {
	Create(ctx context.Context, actor *models.User, req *CreateCourseRequest) (*CourseDetail, error)
	Get(ctx context.Context, id uint) (*CourseDetail, error)
	// List returns one page ordered ascending by subject, plus the number
	// of rows the store returned before filtering. Courses whose
	// instructor link cannot be resolved are dropped from the page, so
	// the page may be shorter than fetched; fetched == limit means the
	// store may hold more rows past this offset.
	List(ctx context.Context, offset, limit int) (page []*CourseDetail, fetched int, err error)
	// Update applies a partial patch. Unknown fields reject the whole
	// patch with ErrInvalidField before anything is written.
	Update(ctx context.Context, actor *models.User, id uint, patch map[string]any) (*CourseDetail, error)
	Delete(ctx context.Context, actor *models.User, id uint) error

	Students(ctx context.Context, actor *models.User, courseID uint) ([]uint, error)
	UpdateEnrollment(ctx context.Context, actor *models.User, courseID uint, req *EnrollmentUpdateRequest) error
}

// EnrollmentService reconciles a batch add/remove of students against a
// course. Validation is fail-fast: nothing is written until the whole
// batch passes.
type EnrollmentService interface {
	Reconcile(ctx context.Context, courseID uint, add, remove []uint) error
}

// UserService covers user reads, login and avatar management.
type UserService interface {
	List(ctx context.Context, actor *models.User) ([]*models.User, error)
	Get(ctx context.Context, actor *models.User, id uint) (*UserDetail, error)
	Login(ctx context.Context, req *LoginRequest) (string, error)

	GetAvatar(ctx context.Context, actor *models.User, userID uint) ([]byte, error)
	UploadAvatar(ctx context.Context, actor *models.User, userID uint, data []byte) error
	DeleteAvatar(ctx context.Context, actor *models.User, userID uint) error
}

// RosterService renders a course's enrolled students as a spreadsheet.
// Access follows the same rule as reading the student roster.
type RosterService interface {
	ExportStudents(ctx context.Context, actor *models.User, courseID uint) ([]byte, error)
}

// CredentialExchanger exchanges user credentials for a bearer token at
// the identity provider. Implemented by auth.Provider.
type CredentialExchanger interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// ServiceManager aggregates all services behind one handle.
type ServiceManager interface {
	Course() CourseService
	Enrollment() EnrollmentService
	User() UserService
	Roster() RosterService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
