package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db       *gorm.DB
	attempts repositories.AttemptRepository
}

func NewQuizPostgreSQL(db *gorm.DB, attempts repositories.AttemptRepository) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db, attempts: attempts}
}

// Create creates a new quiz in draft status
func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	quiz.Status = models.StatusDraft
	return q.db.WithContext(ctx).Create(quiz).Error
}

// GetByID retrieves a quiz by ID
func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := q.db.WithContext(ctx).
		Preload("Course").
		First(&quiz, id).Error

	if err != nil {
		return nil, err
	}

	return &quiz, nil
}

// GetByIDWithQuestions retrieves a quiz with its ordered question list,
// options and drag-drop pairs included.
func (q *QuizPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := q.db.WithContext(ctx).
		Preload("Course").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Pairs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&quiz, id).Error

	if err != nil {
		return nil, err
	}

	q.calculateComputedFields(ctx, &quiz)

	return &quiz, nil
}

// Update updates a quiz
func (q *QuizPostgreSQL) Update(ctx context.Context, quiz *models.Quiz) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Quiz
		if err := tx.First(&current, quiz.ID).Error; err != nil {
			return fmt.Errorf("quiz not found: %w", err)
		}

		if quiz.Title != current.Title {
			exists, err := q.ExistsByTitle(ctx, quiz.Title, quiz.CreatedBy, &quiz.ID)
			if err != nil {
				return fmt.Errorf("failed to check title uniqueness: %w", err)
			}
			if exists {
				return fmt.Errorf("quiz with title '%s' already exists for this tutor", quiz.Title)
			}
		}

		quiz.UpdatedAt = time.Now()
		if err := tx.Save(quiz).Error; err != nil {
			return fmt.Errorf("failed to update quiz: %w", err)
		}

		return nil
	})
}

// Delete soft deletes a quiz and its questions
func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete quiz questions: %w", err)
		}
		return tx.Delete(&models.Quiz{}, id).Error
	})
}

// List retrieves quizzes with filters and pagination
func (q *QuizPostgreSQL) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Quiz{})
	query = q.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = q.applyPaginationAndSort(query, filters)

	var quizzes []*models.Quiz
	if err := query.Preload("Course").Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}

	for _, quiz := range quizzes {
		q.calculateComputedFields(ctx, quiz)
	}

	return quizzes, total, nil
}

// Search performs a case-insensitive match on title and description
func (q *QuizPostgreSQL) Search(ctx context.Context, query string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	db := q.db.WithContext(ctx).Model(&models.Quiz{})

	if query != "" {
		pattern := fmt.Sprintf("%%%s%%", query)
		db = db.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	db = q.applyFilters(db, filters)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = q.applyPaginationAndSort(db, filters)

	var quizzes []*models.Quiz
	if err := db.Preload("Course").Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}

	for _, quiz := range quizzes {
		q.calculateComputedFields(ctx, quiz)
	}

	return quizzes, total, nil
}

// UpdateStatus updates the status of a quiz
func (q *QuizPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.QuizStatus) error {
	return q.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// IsOwner checks if a user created the quiz
func (q *QuizPostgreSQL) IsOwner(ctx context.Context, quizID, userID uint) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ? AND created_by = ?", quizID, userID).
		Count(&count).Error

	return count > 0, err
}

// GetStats retrieves question-side statistics for a quiz. The attempt side
// comes from the attempt repository and is assembled in the service layer.
func (q *QuizPostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.QuizStats, error) {
	stats := &repositories.QuizStats{}

	var questionCount, totalMarks int64
	err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("COUNT(*), COALESCE(SUM(marks), 0)").
		Where("quiz_id = ?", id).
		Row().
		Scan(&questionCount, &totalMarks)
	if err != nil {
		return nil, err
	}

	stats.QuestionCount = int(questionCount)
	stats.TotalMarks = int(totalMarks)

	return stats, nil
}

// GetTutorStats aggregates quiz counts per tutor
func (q *QuizPostgreSQL) GetTutorStats(ctx context.Context, tutorID uint) (*repositories.TutorStats, error) {
	stats := &repositories.TutorStats{}

	rows, err := q.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Select("status, COUNT(*)").
		Where("created_by = ?", tutorID).
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.QuizStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		stats.TotalQuizzes += count
		switch status {
		case models.StatusPublished:
			stats.PublishedQuizzes = count
		case models.StatusDraft:
			stats.DraftQuizzes = count
		case models.StatusArchived:
			stats.ArchivedQuizzes = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var totalQuestions int64
	if err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Joins("JOIN quizzes ON quizzes.id = questions.quiz_id").
		Where("quizzes.created_by = ? AND quizzes.deleted_at IS NULL", tutorID).
		Count(&totalQuestions).Error; err != nil {
		return nil, err
	}
	stats.TotalQuestions = int(totalQuestions)

	totalAttempts, err := q.attempts.CountByTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	stats.TotalAttempts = int(totalAttempts)

	return stats, nil
}

// ExistsByTitle checks title uniqueness per creator
func (q *QuizPostgreSQL) ExistsByTitle(ctx context.Context, title string, creatorID uint, excludeID *uint) (bool, error) {
	query := q.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("title = ? AND created_by = ?", title, creatorID)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// HasAttempts checks whether any attempts exist for the quiz
func (q *QuizPostgreSQL) HasAttempts(ctx context.Context, id uint) (bool, error) {
	count, err := q.attempts.CountByQuiz(ctx, id)
	return count > 0, err
}

// Helper methods

func (q *QuizPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (q *QuizPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "title", "start_at", "created_at":
	default:
		sortBy = "created_at"
	}

	sortOrder := "DESC"
	if filters.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	return query
}

func (q *QuizPostgreSQL) calculateComputedFields(ctx context.Context, quiz *models.Quiz) {
	var questionCount, totalMarks int64
	q.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("COUNT(*), COALESCE(SUM(marks), 0)").
		Where("quiz_id = ?", quiz.ID).
		Row().
		Scan(&questionCount, &totalMarks)

	attemptCount, _ := q.attempts.CountByQuiz(ctx, quiz.ID)
	avgScore, _ := q.attempts.AverageScore(ctx, quiz.ID)

	quiz.QuestionCount = int(questionCount)
	quiz.TotalMarks = int(totalMarks)
	quiz.AttemptCount = int(attemptCount)
	quiz.AvgScore = avgScore
}
