package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
)

type courseRepository struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &courseRepository{db: db}
}

// ===== COURSE ENTITY =====

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	var courses []*models.Course

	query := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Order("subject ASC, id ASC")

	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ===== INSTRUCTOR LINK =====

// GetInstructorID takes the first link by insertion order. The unique
// index means there is at most one; if the data ever violates that,
// first-match keeps the answer deterministic.
func (r *courseRepository) GetInstructorID(ctx context.Context, courseID uint) (uint, error) {
	var link models.CourseInstructor
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		First(&link).Error
	if err != nil {
		return 0, err
	}
	return link.InstructorID, nil
}

func (r *courseRepository) UpsertInstructor(ctx context.Context, courseID, instructorID uint) error {
	var link models.CourseInstructor
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		First(&link).Error
	switch {
	case err == nil:
		link.InstructorID = instructorID
		if err := r.db.WithContext(ctx).Save(&link).Error; err != nil {
			return fmt.Errorf("update instructor link: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		link = models.CourseInstructor{CourseID: courseID, InstructorID: instructorID}
		if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
			return fmt.Errorf("create instructor link: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("get instructor link: %w", err)
	}
}

func (r *courseRepository) DeleteInstructor(ctx context.Context, courseID uint) error {
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.CourseInstructor{}).Error
	if err != nil {
		return fmt.Errorf("delete instructor link: %w", err)
	}
	return nil
}

// ===== ENROLLMENT LINKS =====

func (r *courseRepository) GetStudentIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.CourseEnrollment{}).
		Where("course_id = ?", courseID).
		Order("student_id ASC").
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("get course students: %w", err)
	}
	return ids, nil
}

func (r *courseRepository) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CourseEnrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return count > 0, nil
}

func (r *courseRepository) AddStudents(ctx context.Context, courseID uint, studentIDs []uint) error {
	for _, studentID := range studentIDs {
		enrolled, err := r.IsEnrolled(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		if enrolled {
			continue
		}
		enrollment := models.CourseEnrollment{CourseID: courseID, StudentID: studentID}
		if err := r.db.WithContext(ctx).Create(&enrollment).Error; err != nil {
			return fmt.Errorf("add student %d: %w", studentID, err)
		}
	}
	return nil
}

func (r *courseRepository) RemoveStudents(ctx context.Context, courseID uint, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id IN ?", courseID, studentIDs).
		Delete(&models.CourseEnrollment{}).Error
	if err != nil {
		return fmt.Errorf("remove students: %w", err)
	}
	return nil
}

func (r *courseRepository) DeleteEnrollments(ctx context.Context, courseID uint) error {
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.CourseEnrollment{}).Error
	if err != nil {
		return fmt.Errorf("delete enrollments: %w", err)
	}
	return nil
}

// ===== MEMBERSHIP LOOKUPS =====

func (r *courseRepository) GetCourseIDsByStudent(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.CourseEnrollment{}).
		Where("student_id = ?", studentID).
		Order("course_id ASC").
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("get courses by student: %w", err)
	}
	return ids, nil
}

func (r *courseRepository) GetCourseIDsByInstructor(ctx context.Context, instructorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.CourseInstructor{}).
		Where("instructor_id = ?", instructorID).
		Order("course_id ASC").
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("get courses by instructor: %w", err)
	}
	return ids, nil
}
