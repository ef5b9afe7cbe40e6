package models

// Course core fields. Instructor and enrollment relationships are kept in
// separate link tables so the course row itself stays small and the links
// can be reassigned without touching it.
type Course struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Number  int    `json:"number" gorm:"not null"`
	Subject string `json:"subject" gorm:"size:64;not null;index"`
	Title   string `json:"title" gorm:"size:255;not null"`
	Term    string `json:"term" gorm:"size:64;not null"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseInstructor links a course to its single instructor. The unique
// index on course_id enforces the one-instructor-per-course invariant.
type CourseInstructor struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	CourseID     uint `json:"course_id" gorm:"uniqueIndex;not null"`
	InstructorID uint `json:"instructor_id" gorm:"index;not null"`
}

func (CourseInstructor) TableName() string {
	return "course_instructors"
}

// CourseEnrollment links a course to one enrolled student. The composite
// unique index prevents duplicate enrollments.
type CourseEnrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CourseID  uint `json:"course_id" gorm:"uniqueIndex:idx_course_student;not null"`
	StudentID uint `json:"student_id" gorm:"uniqueIndex:idx_course_student;index;not null"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}

// Mutable course fields accepted by a course patch. instructor_id is
// handled separately because it mutates the link table, not the course.
var CourseMutableFields = map[string]bool{
	"number":  true,
	"subject": true,
	"title":   true,
	"term":    true,
}
