package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tarpaulin-edu/course-service/internal/services"
	"github.com/tarpaulin-edu/course-service/internal/utils"
)

const (
	defaultPageLimit = 3
	maxPageLimit     = 100
)

// CourseResponse is a course as rendered to clients, with a self link.
type CourseResponse struct {
	ID           uint   `json:"id"`
	Number       int    `json:"number"`
	Subject      string `json:"subject"`
	Title        string `json:"title"`
	Term         string `json:"term"`
	InstructorID uint   `json:"instructor_id"`
	Self         string `json:"self"`
}

// CoursePageResponse is one page of courses plus a link to the next page.
type CoursePageResponse struct {
	Courses []CourseResponse `json:"courses"`
	Next    string           `json:"next,omitempty"`
}

type CourseHandler struct {
	BaseHandler
	courses services.CourseService
	roster  services.RosterService
}

func NewCourseHandler(courses services.CourseService, roster services.RosterService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		courses:     courses,
		roster:      roster,
	}
}

func courseResponse(c *gin.Context, detail *services.CourseDetail) CourseResponse {
	return CourseResponse{
		ID:           detail.ID,
		Number:       detail.Number,
		Subject:      detail.Subject,
		Title:        detail.Title,
		Term:         detail.Term,
		InstructorID: detail.InstructorID,
		Self:         absoluteURL(c, fmt.Sprintf("/courses/%d", detail.ID)),
	}
}

// CreateCourse handles POST /courses.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the request body is invalid", Details: err.Error()})
		return
	}

	detail, err := h.courses.Create(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "course created", "course_id", detail.ID)
	c.JSON(http.StatusCreated, courseResponse(c, detail))
}

// GetCourse handles GET /courses/{course_id}. No authentication needed.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "course_id")
	if id == 0 {
		return
	}

	detail, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courseResponse(c, detail))
}

// ListCourses handles GET /courses. Pages are addressed with offset and
// limit query parameters; out-of-range values fall back to defaults.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	offset := parseQueryInt(c, "offset", 0)
	limit := parseQueryInt(c, "limit", defaultPageLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	page, fetched, err := h.courses.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := CoursePageResponse{Courses: make([]CourseResponse, 0, len(page))}
	for _, detail := range page {
		resp.Courses = append(resp.Courses, courseResponse(c, detail))
	}
	// The next link follows the raw row count: a page thinned by dropped
	// courses still links onward as long as the store filled the limit.
	if fetched == limit {
		resp.Next = absoluteURL(c, fmt.Sprintf("/courses?offset=%d&limit=%d", offset+limit, limit))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCourse handles PATCH /courses/{course_id}. The body is decoded
// into a free-form map so unknown fields can be detected and rejected.
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "course_id")
	if id == 0 {
		return
	}

	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the request body is invalid", Details: err.Error()})
		return
	}

	detail, err := h.courses.Update(c.Request.Context(), CurrentUser(c), id, patch)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "course updated", "course_id", id)
	c.JSON(http.StatusOK, courseResponse(c, detail))
}

// DeleteCourse handles DELETE /courses/{course_id}.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "course_id")
	if id == 0 {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "course deleted", "course_id", id)
	c.Status(http.StatusNoContent)
}

// GetStudents handles GET /courses/{course_id}/students.
func (h *CourseHandler) GetStudents(c *gin.Context) {
	id := h.parseIDParam(c, "course_id")
	if id == 0 {
		return
	}

	students, err := h.courses.Students(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if students == nil {
		students = []uint{}
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// UpdateEnrollment handles PATCH /courses/{course_id}/students.
func (h *CourseHandler) UpdateEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "course_id")
	if id == 0 {
		return
	}

	var req services.EnrollmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the request body is invalid", Details: err.Error()})
		return
	}

	if err := h.courses.UpdateEnrollment(c.Request.Context(), CurrentUser(c), id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "enrollment updated", "course_id", id,
		"added", len(req.Add), "removed", len(req.Remove))
	c.Status(http.StatusOK)
}

// ExportRoster handles GET /courses/{course_id}/students/export and
// streams the roster as an xlsx workbook.
func (h *CourseHandler) ExportRoster(c *gin.Context) {
	id := h.parseIDParam(c, "course_id")
	if id == 0 {
		return
	}

	data, err := h.roster.ExportStudents(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=course-%d-roster.xlsx", id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func parseQueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
