package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizStatus string

const (
	StatusDraft     QuizStatus = "draft"
	StatusPublished QuizStatus = "published"
	StatusArchived  QuizStatus = "archived"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type Quiz struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Title        string          `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description  *string         `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	CourseID     uint            `json:"course_id" gorm:"not null;index" validate:"required"`
	Duration     *int            `json:"duration" validate:"omitempty,min=1,max=600"` // Minutes
	Instructions *string         `json:"instructions" gorm:"type:text"`
	Difficulty   DifficultyLevel `json:"difficulty" gorm:"default:medium;size:10" validate:"omitempty,difficulty_level"`
	Password     *string         `json:"password,omitempty" gorm:"size:100"`

	// Behaviour flags
	ShowResults      bool `json:"show_results" gorm:"default:true"`
	ShuffleQuestions bool `json:"shuffle_questions" gorm:"default:false"`
	ShuffleAnswers   bool `json:"shuffle_answers" gorm:"default:false"`
	ReviewEnabled    bool `json:"review_enabled" gorm:"default:true"`
	AutoSubmit       bool `json:"auto_submit" gorm:"default:false"`

	MaxAttempts  int `json:"max_attempts" gorm:"default:1" validate:"min=1,max=10"`
	PassingMarks int `json:"passing_marks" gorm:"not null" validate:"min=0,max=100"`

	// Scheduling window, stored UTC; the wire format is a normalized
	// "YYYY-MM-DD HH:MM:SS" string (see utils.ParseScheduleTime).
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`

	Status QuizStatus `json:"status" gorm:"default:draft;index" validate:"omitempty,quiz_status"`

	// Metadata
	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course    Course        `json:"course" gorm:"foreignKey:CourseID"`
	Questions []Question    `json:"questions" gorm:"foreignKey:QuizID"`
	Attempts  []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:QuizID"`
	Creator   User          `json:"creator" gorm:"foreignKey:CreatedBy"`

	// Computed fields (not stored)
	QuestionCount int     `json:"question_count" gorm:"-"`
	TotalMarks    int     `json:"total_marks" gorm:"-"`
	AttemptCount  int     `json:"attempt_count" gorm:"-"`
	AvgScore      float64 `json:"avg_score" gorm:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// IsEditable reports whether quiz content (questions, schedule) may still change.
// Published quizzes stay editable for metadata only; archived quizzes are frozen
// until re-published.
func (q *Quiz) IsEditable() bool {
	return q.Status == StatusDraft || q.Status == StatusPublished
}

// CanTransitionTo implements the publish/archive state machine:
// draft -> published, published -> archived, archived -> published.
// Nothing ever transitions back to draft.
func (q *Quiz) CanTransitionTo(target QuizStatus) bool {
	switch q.Status {
	case StatusDraft:
		return target == StatusPublished
	case StatusPublished:
		return target == StatusArchived
	case StatusArchived:
		return target == StatusPublished
	}
	return false
}
