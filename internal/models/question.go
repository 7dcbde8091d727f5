package models

import (
	"time"

	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionShortAnswer QuestionType = "short_answer"
	QuestionDragDrop    QuestionType = "drag_drop"
)

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	QuizID uint         `json:"quiz_id" gorm:"not null;index"`
	Type   QuestionType `json:"type" gorm:"not null;size:20" validate:"required,question_type"`
	Text   string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Marks  int          `json:"marks" gorm:"default:1" validate:"min=0"`

	Difficulty  DifficultyLevel `json:"difficulty" gorm:"default:medium;size:10" validate:"omitempty,difficulty_level"`
	Explanation *string         `json:"explanation" gorm:"type:text"`

	// Denormalized answer encoding, derived server-side at persist time:
	// mcq -> comma-joined correct option texts, short_answer -> expected
	// string, drag_drop -> JSON array of complete pairs.
	CorrectAnswer string `json:"correct_answer" gorm:"type:text"`

	// Short answer only
	IsCaseSensitive bool `json:"is_case_sensitive" gorm:"default:false"`

	// Position within the quiz, 1-based
	Position int `json:"position" gorm:"not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	Pairs   []DragDropPair   `json:"drag_drop_items,omitempty" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"type:text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	Position   int    `json:"position" gorm:"not null"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}

type DragDropPair struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	ItemText   string `json:"item_text" gorm:"type:text"`
	TargetText string `json:"target_text" gorm:"type:text"`
	Position   int    `json:"position" gorm:"not null"`
}

func (DragDropPair) TableName() string {
	return "drag_drop_pairs"
}

// IsComplete reports whether both sides of the pair carry text. Incomplete
// pairs are dropped before persistence and never appear in the derived answer.
func (p DragDropPair) IsComplete() bool {
	return trimmed(p.ItemText) != "" && trimmed(p.TargetText) != ""
}
