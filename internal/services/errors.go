package services

import "errors"

// Domain errors surfaced by the service layer. Handlers translate these
// into HTTP statuses; anything else becomes an internal error.
var (
	// ErrUnauthenticated: no principal could be resolved for an
	// operation that requires one. Missing, invalid and expired tokens
	// all collapse into this.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden: the principal is authenticated but fails the role
	// or ownership rule for the operation.
	ErrForbidden = errors.New("forbidden")

	ErrCourseNotFound = errors.New("course not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrAvatarNotFound = errors.New("avatar not found")

	// ErrInvalidField: a course patch mentions a field outside the
	// mutable allow-list. Nothing is applied.
	ErrInvalidField = errors.New("invalid course field")

	// ErrInvalidInstructor: the referenced instructor id does not
	// resolve to a user with the instructor role.
	ErrInvalidInstructor = errors.New("instructor not found")

	// ErrInvalidAvatar: uploaded avatar data is not a PNG image.
	ErrInvalidAvatar = errors.New("invalid avatar image")

	// ErrEnrollmentConflict: the add/remove sets violate role
	// membership or disjointness invariants.
	ErrEnrollmentConflict = errors.New("enrollment data is invalid")
)
