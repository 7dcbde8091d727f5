package postgres

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := a.db.WithContext(ctx).
		Preload("Student").
		First(&attempt, id).Error

	if err != nil {
		return nil, err
	}

	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByQuiz(ctx context.Context, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	query := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("started_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var attempts []*models.QuizAttempt
	if err := query.Preload("Student").Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}

func (a *AttemptPostgreSQL) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Count(&count).Error

	return count, err
}

// CountByTutor counts attempts across all live quizzes owned by a tutor.
func (a *AttemptPostgreSQL) CountByTutor(ctx context.Context, tutorID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quizzes.created_by = ? AND quizzes.deleted_at IS NULL", tutorID).
		Count(&count).Error

	return count, err
}

// StatsByQuiz aggregates attempt outcomes for one quiz in a single pass.
func (a *AttemptPostgreSQL) StatsByQuiz(ctx context.Context, quizID uint, passingMarks int) (*repositories.AttemptStats, error) {
	stats := &repositories.AttemptStats{}

	var total int64
	if err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var completed, passed int64
	var avg float64
	err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("COUNT(*), COALESCE(AVG(score), 0), COALESCE(SUM(CASE WHEN score >= ? THEN 1 ELSE 0 END), 0)", passingMarks).
		Where("quiz_id = ? AND status = ?", quizID, models.AttemptCompleted).
		Row().
		Scan(&completed, &avg, &passed)
	if err != nil {
		return nil, err
	}

	stats.TotalAttempts = int(total)
	stats.CompletedAttempts = int(completed)
	stats.AverageScore = avg
	if completed > 0 {
		stats.PassRate = float64(passed) / float64(completed) * 100
	}

	return stats, nil
}

func (a *AttemptPostgreSQL) AverageScore(ctx context.Context, quizID uint) (float64, error) {
	var avg float64
	err := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("COALESCE(AVG(score), 0)").
		Where("quiz_id = ? AND status = ?", quizID, models.AttemptCompleted).
		Row().
		Scan(&avg)

	return avg, err
}
