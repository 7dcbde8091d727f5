package handlers

import (
	"github.com/brightpath-edu/tutor-portal/internal/cache"
	"github.com/brightpath-edu/tutor-portal/internal/middleware"
	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/services"
	"github.com/brightpath-edu/tutor-portal/internal/utils"
	"github.com/brightpath-edu/tutor-portal/pkg/monitoring"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	quizHandler   *QuizHandler
	courseHandler *CourseHandler

	jwtSecret    string
	cacheService cache.CacheService
}

func NewHandlerManager(
	serviceManager *services.ServiceManager,
	cacheService cache.CacheService,
	jwtSecret string,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:   NewQuizHandler(serviceManager.Quiz, serviceManager.Export, logger),
		courseHandler: NewCourseHandler(serviceManager.Course, logger),
		jwtSecret:     jwtSecret,
		cacheService:  cacheService,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(monitoring.MetricsMiddleware())

	// Operational endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "tutor-portal",
		})
	})
	router.GET("/metrics", monitoring.PrometheusHandler())

	// API v1 routes, all authenticated
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(hm.jwtSecret))

	manage := middleware.RoleMiddleware(models.RoleTutor)
	idempotent := middleware.IdempotencyMiddleware(hm.cacheService)

	{
		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", manage, idempotent, hm.quizHandler.CreateQuiz)
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/search", hm.quizHandler.SearchQuizzes)
			quizzes.GET("/tutor/stats", manage, hm.quizHandler.GetTutorStats)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.GET("/:id/questions", hm.quizHandler.GetQuizWithQuestions)
			quizzes.PUT("/:id", manage, idempotent, hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", manage, idempotent, hm.quizHandler.DeleteQuiz)
			quizzes.PATCH("/:id/publish", manage, hm.quizHandler.PublishQuiz)
			quizzes.PATCH("/:id/archive", manage, hm.quizHandler.ArchiveQuiz)
			quizzes.GET("/:id/stats", hm.quizHandler.GetQuizStats)
			quizzes.GET("/:id/export", manage, hm.quizHandler.ExportQuiz)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			courses.POST("", manage, hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.PUT("/:id", manage, hm.courseHandler.UpdateCourse)
		}
	}
}
