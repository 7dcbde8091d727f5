package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptTimedOut   AttemptStatus = "timed_out"
)

// QuizAttempt is the read model behind the dashboard stats (attempt count,
// average score, pass rate). Quiz taking itself happens in another service.
type QuizAttempt struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	QuizID    uint          `json:"quiz_id" gorm:"not null;index"`
	StudentID uint          `json:"student_id" gorm:"not null;index"`
	Status    AttemptStatus `json:"status" gorm:"default:in_progress;index"`

	Score     float64 `json:"score" gorm:"default:0"` // Percentage 0..100
	TimeSpent int     `json:"time_spent" gorm:"default:0"`

	// Raw answer snapshot, keyed by question id.
	Answers datatypes.JSON `json:"answers,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Student User `json:"student" gorm:"foreignKey:StudentID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
