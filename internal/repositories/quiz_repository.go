package repositories

import (
	"context"
	"errors"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"gorm.io/gorm"
)

// QuizRepository interface for quiz-specific operations
type QuizRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) // Ordered questions with options and pairs
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error // Soft delete

	// Query operations
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)
	Search(ctx context.Context, query string, filters QuizFilters) ([]*models.Quiz, int64, error)

	// Status management
	UpdateStatus(ctx context.Context, id uint, status models.QuizStatus) error

	// Permission checks
	IsOwner(ctx context.Context, quizID, userID uint) (bool, error)

	// Statistics
	GetStats(ctx context.Context, id uint) (*QuizStats, error)
	GetTutorStats(ctx context.Context, tutorID uint) (*TutorStats, error)

	// Validation helpers
	ExistsByTitle(ctx context.Context, title string, creatorID uint, excludeID *uint) (bool, error)
	HasAttempts(ctx context.Context, id uint) (bool, error)
}

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
