package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarpaulin-edu/course-service/internal/repositories"
	"github.com/tarpaulin-edu/course-service/internal/services"
	"github.com/tarpaulin-edu/course-service/internal/utils"
)

// HandlerManager wires services to HTTP handlers and owns the route
// table.
type HandlerManager struct {
	courseHandler *CourseHandler
	userHandler   *UserHandler
	avatarHandler *AvatarHandler
	auth          *AuthMiddleware
	repo          repositories.Repository
	logger        utils.Logger
}

func NewHandlerManager(
	sm services.ServiceManager,
	verifier TokenVerifier,
	repo repositories.Repository,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		courseHandler: NewCourseHandler(sm.Course(), sm.Roster(), logger),
		userHandler:   NewUserHandler(sm.User(), logger),
		avatarHandler: NewAvatarHandler(sm.User(), logger),
		auth:          NewAuthMiddleware(verifier, repo.User(), logger),
		repo:          repo,
		logger:        logger,
	}
}

// SetupRoutes registers every endpoint. All authorization decisions live
// in the service layer; the only middleware concern is resolving the
// bearer token to a principal.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	api := router.Group("/")
	api.Use(hm.auth.ResolvePrincipal())

	courses := api.Group("/courses")
	{
		courses.POST("", hm.courseHandler.CreateCourse)
		courses.GET("", hm.courseHandler.ListCourses)
		courses.GET("/:course_id", hm.courseHandler.GetCourse)
		courses.PATCH("/:course_id", hm.courseHandler.UpdateCourse)
		courses.DELETE("/:course_id", hm.courseHandler.DeleteCourse)

		courses.GET("/:course_id/students", hm.courseHandler.GetStudents)
		courses.PATCH("/:course_id/students", hm.courseHandler.UpdateEnrollment)
		courses.GET("/:course_id/students/export", hm.courseHandler.ExportRoster)
	}

	users := api.Group("/users")
	{
		users.POST("/login", hm.userHandler.Login)
		users.GET("", hm.userHandler.ListUsers)
		users.GET("/:user_id", hm.userHandler.GetUser)

		users.GET("/:user_id/avatar", hm.avatarHandler.GetAvatar)
		users.POST("/:user_id/avatar", hm.avatarHandler.UploadAvatar)
		users.DELETE("/:user_id/avatar", hm.avatarHandler.DeleteAvatar)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.repo.Ping(c.Request.Context()); err != nil {
		hm.logger.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
