package services

import (
	"context"
	"log/slog"

	"github.com/brightpath-edu/tutor-portal/internal/cache"
	"github.com/brightpath-edu/tutor-portal/internal/events"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"github.com/brightpath-edu/tutor-portal/internal/validator"
)

// QuizService covers the quiz authoring lifecycle: draft CRUD with the full
// question list, publish/archive transitions, listing and statistics.
type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest, creatorID uint) (*QuizResponse, error)
	GetByID(ctx context.Context, id uint, userID uint) (*QuizResponse, error)
	GetByIDWithQuestions(ctx context.Context, id uint, userID uint) (*QuizResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuizRequest, userID uint) (*QuizResponse, error)
	Delete(ctx context.Context, id uint, userID uint) error

	List(ctx context.Context, filters repositories.QuizFilters, userID uint) (*QuizListResponse, error)
	Search(ctx context.Context, query string, filters repositories.QuizFilters, userID uint) (*QuizListResponse, error)

	Publish(ctx context.Context, id uint, userID uint) (*QuizResponse, error)
	Archive(ctx context.Context, id uint, userID uint) (*QuizResponse, error)

	GetStats(ctx context.Context, id uint, userID uint) (*repositories.QuizStats, error)
	GetTutorStats(ctx context.Context, tutorID uint) (*repositories.TutorStats, error)
}

// CourseService covers the course reference data quizzes hang off.
type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, tutorID uint) (*CourseResponse, error)
	GetByID(ctx context.Context, id uint) (*CourseResponse, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, userID uint) (*CourseResponse, error)
	List(ctx context.Context, filters repositories.CourseFilters) (*CourseListResponse, error)
}

// ExportService renders a quiz with its questions into downloadable formats.
type ExportService interface {
	ExportQuizXLSX(ctx context.Context, quizID uint, userID uint) ([]byte, string, error)
	ExportQuizCSV(ctx context.Context, quizID uint, userID uint) ([]byte, string, error)
}

// ServiceManager bundles the service layer behind one constructor so the
// router wires a single dependency.
type ServiceManager struct {
	Quiz   QuizService
	Course CourseService
	Export ExportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) *ServiceManager {
	quizService := NewQuizService(repo, cacheService, publisher, logger, v)

	return &ServiceManager{
		Quiz:   quizService,
		Course: NewCourseService(repo, logger, v),
		Export: NewExportService(repo, quizService, logger),
	}
}
