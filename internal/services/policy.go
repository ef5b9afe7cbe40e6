package services

import (
	"github.com/tarpaulin-edu/course-service/internal/models"
)

// Authorization policy: pure decisions over (principal, operation,
// resource context). actor == nil means the request is anonymous,
// whether no token was supplied or it failed verification; the two are
// indistinguishable here. Reads of courses need no policy check and
// have no function in this table.

// CanCreateCourse: admin only. The instructor referenced in the payload
// is validated separately by the course service.
func CanCreateCourse(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// CanUpdateCourse: admin only.
func CanUpdateCourse(actor *models.User) error {
	return CanCreateCourse(actor)
}

// CanDeleteCourse: admin only.
func CanDeleteCourse(actor *models.User) error {
	return CanCreateCourse(actor)
}

// CanManageEnrollment governs enrollment updates and student-roster
// reads: any admin, or the instructor assigned to the course. Students
// never qualify.
func CanManageEnrollment(actor *models.User, courseInstructorID uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleInstructor:
		if actor.ID != courseInstructorID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// CanListUsers: admin only.
func CanListUsers(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// CanViewUser: admin, or the user themselves.
func CanViewUser(actor *models.User, targetID uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.IsAdmin() || actor.ID == targetID {
		return nil
	}
	return ErrForbidden
}

// CanAccessAvatar: strictly the user themselves; admins get no override.
func CanAccessAvatar(actor *models.User, targetID uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.ID != targetID {
		return ErrForbidden
	}
	return nil
}
