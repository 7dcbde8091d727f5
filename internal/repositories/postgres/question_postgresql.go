package postgres

import (
	"context"
	"fmt"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// Create creates a question together with its options and pairs
func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Create(question).Error
}

// GetByID retrieves a question with its sub-records
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := q.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Pairs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&question, id).Error

	if err != nil {
		return nil, err
	}

	return &question, nil
}

// Update updates the question row; options and pairs are replaced separately
func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).
		Omit("Options", "Pairs").
		Save(question).Error
}

// Delete soft deletes a question and hard deletes its sub-records
func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete question options: %w", err)
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.DragDropPair{}).Error; err != nil {
			return fmt.Errorf("failed to delete drag drop pairs: %w", err)
		}
		return tx.Delete(&models.Question{}, id).Error
	})
}

// GetByQuiz returns the quiz's questions in position order
func (q *QuestionPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Pairs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&questions).Error

	if err != nil {
		return nil, err
	}

	return questions, nil
}

// SyncQuizQuestions reconciles the persisted question list against the
// submitted one inside a single transaction. Questions without an id are
// inserted, questions with ids are updated in place, and persisted questions
// missing from the payload are removed. Positions follow payload order.
func (q *QuestionPostgreSQL) SyncQuizQuestions(ctx context.Context, quizID uint, questions []*models.Question) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existingIDs []uint
		if err := tx.Model(&models.Question{}).
			Where("quiz_id = ?", quizID).
			Pluck("id", &existingIDs).Error; err != nil {
			return fmt.Errorf("failed to load existing questions: %w", err)
		}

		keep := make(map[uint]bool, len(questions))

		for i, question := range questions {
			question.QuizID = quizID
			question.Position = i + 1

			options := question.Options
			pairs := question.Pairs
			question.Options = nil
			question.Pairs = nil

			if question.ID == 0 {
				if err := tx.Create(question).Error; err != nil {
					return fmt.Errorf("failed to insert question at position %d: %w", question.Position, err)
				}
			} else {
				if err := tx.Omit("Options", "Pairs").Save(question).Error; err != nil {
					return fmt.Errorf("failed to update question %d: %w", question.ID, err)
				}
				keep[question.ID] = true
			}

			if err := replaceOptionsTx(tx, question.ID, options); err != nil {
				return err
			}
			if err := replacePairsTx(tx, question.ID, pairs); err != nil {
				return err
			}

			question.Options = options
			question.Pairs = pairs
		}

		for _, id := range existingIDs {
			if keep[id] {
				continue
			}
			if err := tx.Where("question_id = ?", id).Delete(&models.QuestionOption{}).Error; err != nil {
				return fmt.Errorf("failed to delete options of removed question %d: %w", id, err)
			}
			if err := tx.Where("question_id = ?", id).Delete(&models.DragDropPair{}).Error; err != nil {
				return fmt.Errorf("failed to delete pairs of removed question %d: %w", id, err)
			}
			if err := tx.Delete(&models.Question{}, id).Error; err != nil {
				return fmt.Errorf("failed to delete removed question %d: %w", id, err)
			}
		}

		return nil
	})
}

// ReplaceOptions swaps a question's options wholesale
func (q *QuestionPostgreSQL) ReplaceOptions(ctx context.Context, questionID uint, options []models.QuestionOption) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceOptionsTx(tx, questionID, options)
	})
}

// ReplacePairs swaps a question's drag-drop pairs wholesale
func (q *QuestionPostgreSQL) ReplacePairs(ctx context.Context, questionID uint, pairs []models.DragDropPair) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replacePairsTx(tx, questionID, pairs)
	})
}

// CountByQuiz counts the questions in a quiz
func (q *QuestionPostgreSQL) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("quiz_id = ?", quizID).
		Count(&count).Error

	return count, err
}

func replaceOptionsTx(tx *gorm.DB, questionID uint, options []models.QuestionOption) error {
	if err := tx.Unscoped().Where("question_id = ?", questionID).Delete(&models.QuestionOption{}).Error; err != nil {
		return fmt.Errorf("failed to clear options for question %d: %w", questionID, err)
	}

	for i := range options {
		options[i].ID = 0
		options[i].QuestionID = questionID
		options[i].Position = i + 1
	}

	if len(options) == 0 {
		return nil
	}

	if err := tx.Create(&options).Error; err != nil {
		return fmt.Errorf("failed to insert options for question %d: %w", questionID, err)
	}
	return nil
}

func replacePairsTx(tx *gorm.DB, questionID uint, pairs []models.DragDropPair) error {
	if err := tx.Unscoped().Where("question_id = ?", questionID).Delete(&models.DragDropPair{}).Error; err != nil {
		return fmt.Errorf("failed to clear pairs for question %d: %w", questionID, err)
	}

	for i := range pairs {
		pairs[i].ID = 0
		pairs[i].QuestionID = questionID
		pairs[i].Position = i + 1
	}

	if len(pairs) == 0 {
		return nil
	}

	if err := tx.Create(&pairs).Error; err != nil {
		return fmt.Errorf("failed to insert pairs for question %d: %w", questionID, err)
	}
	return nil
}
