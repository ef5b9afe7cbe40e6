package events

import (
	"context"
	"time"
)

// Event names published on the course events topic.
const (
	CourseCreated     = "course.created"
	CourseUpdated     = "course.updated"
	CourseDeleted     = "course.deleted"
	EnrollmentChanged = "course.enrollment_changed"
)

// Event is the envelope published for every course mutation. Payload
// must be JSON-marshalable.
type Event struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// CoursePayload describes the course a lifecycle event refers to.
type CoursePayload struct {
	CourseID     uint `json:"course_id"`
	InstructorID uint `json:"instructor_id,omitempty"`
}

// EnrollmentPayload describes an applied enrollment reconciliation.
type EnrollmentPayload struct {
	CourseID uint   `json:"course_id"`
	Added    []uint `json:"added"`
	Removed  []uint `json:"removed"`
}

// Publisher emits domain events. Publishing is best-effort from the
// caller's point of view: services log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
