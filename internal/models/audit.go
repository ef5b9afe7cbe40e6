package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded for administrative mutations.
const (
	AuditCourseCreated     = "course.created"
	AuditCourseUpdated     = "course.updated"
	AuditCourseDeleted     = "course.deleted"
	AuditEnrollmentChanged = "course.enrollment_changed"
)

// AuditRecord is an append-only trail of administrative mutations.
// Writes are best-effort; a failed audit insert never fails the request.
type AuditRecord struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	ActorID  uint           `json:"actor_id" gorm:"index;not null"`
	Action   string         `json:"action" gorm:"size:64;not null"`
	Entity   string         `json:"entity" gorm:"size:64;not null"`
	EntityID uint           `json:"entity_id" gorm:"index"`
	Details  datatypes.JSON `json:"details"`

	CreatedAt time.Time `json:"created_at"`
}

func (AuditRecord) TableName() string {
	return "audit_records"
}
