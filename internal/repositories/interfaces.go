package repositories

import (
	"context"
	"time"

	"github.com/brightpath-edu/tutor-portal/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	Status    *models.QuizStatus `json:"status"`
	CourseID  *uint              `json:"course_id"`
	CreatedBy *uint              `json:"created_by"`
	DateFrom  *time.Time         `json:"date_from"`
	DateTo    *time.Time         `json:"date_to"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "created_at", "title", "start_at"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	TutorID  *uint `json:"tutor_id"`
	IsActive *bool `json:"is_active"`
	Limit    int   `json:"limit"`
	Offset   int   `json:"offset"`
}

type AttemptFilters struct {
	Status    *models.AttemptStatus `json:"status"`
	StudentID *uint                 `json:"student_id"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// AttemptStats aggregates attempt outcomes for a single quiz. PassRate is a
// percentage over completed attempts.
type AttemptStats struct {
	TotalAttempts     int     `json:"total_attempts"`
	CompletedAttempts int     `json:"completed_attempts"`
	AverageScore      float64 `json:"average_score"`
	PassRate          float64 `json:"pass_rate"`
}

type QuizStats struct {
	QuestionCount     int     `json:"question_count"`
	TotalMarks        int     `json:"total_marks"`
	TotalAttempts     int     `json:"total_attempts"`
	CompletedAttempts int     `json:"completed_attempts"`
	AverageScore      float64 `json:"average_score"`
	PassRate          float64 `json:"pass_rate"`
}

type TutorStats struct {
	TotalQuizzes     int `json:"total_quizzes"`
	PublishedQuizzes int `json:"published_quizzes"`
	DraftQuizzes     int `json:"draft_quizzes"`
	ArchivedQuizzes  int `json:"archived_quizzes"`
	TotalQuestions   int `json:"total_questions"`
	TotalAttempts    int `json:"total_attempts"`
}

// ===== AGGREGATE REPOSITORY =====

// Repository aggregates all entity repositories behind one handle.
type Repository interface {
	Quiz() QuizRepository
	Question() QuestionRepository
	Course() CourseRepository
	Attempt() AttemptRepository
	User() UserRepository

	// WithTransaction runs fn against a repository bound to a single
	// database transaction; any error rolls the whole unit back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}
