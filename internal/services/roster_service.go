package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/repositories"
)

const rosterSheet = "Roster"

type rosterService struct {
	courses CourseService
	repo    repositories.Repository
	logger  *slog.Logger
}

func NewRosterService(
	courses CourseService,
	repo repositories.Repository,
	logger *slog.Logger,
) RosterService {
	return &rosterService{
		courses: courses,
		repo:    repo,
		logger:  logger,
	}
}

// ExportStudents renders the course roster as an xlsx workbook. The
// Students call carries the authorization check (admin or the course's
// instructor), so no separate policy check is needed here.
func (s *rosterService) ExportStudents(ctx context.Context, actor *models.User, courseID uint) ([]byte, error) {
	studentIDs, err := s.courses.Students(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Student ID", "Username"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(rosterSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for row, studentID := range studentIDs {
		username := ""
		if user, err := s.repo.User().GetByID(ctx, studentID); err == nil {
			username = user.Username
		} else {
			s.logger.Warn("enrolled student missing from user store",
				"student_id", studentID, "course_id", courseID)
		}

		idCell, _ := excelize.CoordinatesToCellName(1, row+2)
		nameCell, _ := excelize.CoordinatesToCellName(2, row+2)
		if err := f.SetCellValue(rosterSheet, idCell, studentID); err != nil {
			return nil, fmt.Errorf("write roster row: %w", err)
		}
		if err := f.SetCellValue(rosterSheet, nameCell, username); err != nil {
			return nil, fmt.Errorf("write roster row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
