package validator

// CourseCreateRequest is the payload for creating a course. All core
// fields plus the initial instructor are required.
type CourseCreateRequest struct {
	Number       int    `json:"number" validate:"required,min=1"`
	Subject      string `json:"subject" validate:"required,max=64"`
	Title        string `json:"title" validate:"required,max=255"`
	Term         string `json:"term" validate:"required,max=64"`
	InstructorID uint   `json:"instructor_id" validate:"required"`
}

// EnrollmentUpdateRequest is the add/remove student batch for a course.
// Empty sets are allowed; disjointness and role membership are business
// rules checked by the enrollment reconciler, not here.
type EnrollmentUpdateRequest struct {
	Add    []uint `json:"add"`
	Remove []uint `json:"remove"`
}

// LoginRequest carries credentials exchanged with the identity provider.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
