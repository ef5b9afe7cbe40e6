package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarpaulin-edu/course-service/internal/models"
	"github.com/tarpaulin-edu/course-service/internal/services"
	"github.com/tarpaulin-edu/course-service/internal/utils"
)

// UserSummary is a user as rendered in list responses.
type UserSummary struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

// UserDetailResponse is a single user with avatar and course links.
type UserDetailResponse struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	Courses   []string        `json:"courses,omitempty"`
}

type UserHandler struct {
	BaseHandler
	users services.UserService
}

func NewUserHandler(users services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		users:       users,
	}
}

// Login handles POST /users/login: credentials in, bearer token out.
func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the request body is invalid", Details: err.Error()})
		return
	}

	token, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListUsers handles GET /users. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), CurrentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := make([]UserSummary, 0, len(users))
	for _, u := range users {
		resp = append(resp, UserSummary{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

// GetUser handles GET /users/{user_id}. Admin or the user themselves.
func (h *UserHandler) GetUser(c *gin.Context) {
	id := h.parseIDParam(c, "user_id")
	if id == 0 {
		return
	}

	detail, err := h.users.Get(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := UserDetailResponse{
		ID:       detail.ID,
		Username: detail.Username,
		Role:     detail.Role,
	}
	if detail.HasAvatar {
		resp.AvatarURL = absoluteURL(c, fmt.Sprintf("/users/%d/avatar", detail.ID))
	}
	for _, courseID := range detail.CourseIDs {
		resp.Courses = append(resp.Courses, absoluteURL(c, fmt.Sprintf("/courses/%d", courseID)))
	}
	c.JSON(http.StatusOK, resp)
}
