package repositories

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/models"
)

// AttemptRepository interface for the dashboard's attempt read model
type AttemptRepository interface {
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	GetByQuiz(ctx context.Context, quizID uint, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)

	CountByQuiz(ctx context.Context, quizID uint) (int64, error)
	CountByTutor(ctx context.Context, tutorID uint) (int64, error)
	AverageScore(ctx context.Context, quizID uint) (float64, error)
	StatsByQuiz(ctx context.Context, quizID uint, passingMarks int) (*AttemptStats, error)
}
