package repositories

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/models"
)

// QuestionRepository interface for question-specific operations. Questions
// live inside a quiz; the ordered list travels with the quiz payload, so the
// interface centers on whole-list synchronization rather than loose CRUD.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	// GetByQuiz returns the quiz's questions in position order, options and
	// pairs included.
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)

	// SyncQuizQuestions reconciles the persisted question list against the
	// submitted one: questions without an id are inserted, questions with ids
	// are updated in place, and persisted questions missing from the payload
	// are removed. Positions are rewritten to match payload order.
	SyncQuizQuestions(ctx context.Context, quizID uint, questions []*models.Question) error

	// ReplaceOptions and ReplacePairs swap a question's sub-records wholesale.
	ReplaceOptions(ctx context.Context, questionID uint, options []models.QuestionOption) error
	ReplacePairs(ctx context.Context, questionID uint, pairs []models.DragDropPair) error

	CountByQuiz(ctx context.Context, quizID uint) (int64, error)
}
