package services

import (
	"time"

	"github.com/brightpath-edu/tutor-portal/internal/models"
)

// ===== QUIZ REQUEST DTOs =====

// CreateQuizRequest carries a full quiz draft. Schedule fields travel as
// normalized "YYYY-MM-DD HH:MM:SS" strings (see utils.ParseScheduleTime).
type CreateQuizRequest struct {
	Title        string                  `json:"title" validate:"required,min=1,max=200"`
	Description  *string                 `json:"description" validate:"omitempty,max=1000"`
	CourseID     uint                    `json:"course_id" validate:"required"`
	Duration     *int                    `json:"duration" validate:"omitempty,min=1,max=600"`
	Instructions *string                 `json:"instructions"`
	Difficulty   *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Password     *string                 `json:"password" validate:"omitempty,max=100"`

	ShowResults      *bool `json:"show_results"`
	ShuffleQuestions *bool `json:"shuffle_questions"`
	ShuffleAnswers   *bool `json:"shuffle_answers"`
	ReviewEnabled    *bool `json:"review_enabled"`
	AutoSubmit       *bool `json:"auto_submit"`

	MaxAttempts  *int `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	PassingMarks int  `json:"passing_marks" validate:"min=0,max=100"`

	StartAt *string `json:"start_at"`
	EndAt   *string `json:"end_at"`

	Questions []QuestionRequest `json:"questions"`
}

// UpdateQuizRequest replaces the whole editable surface of a quiz. The
// question list is reconciled against the persisted one: entries with an id
// are updated, entries without one are inserted, and persisted questions
// missing from the list are removed.
type UpdateQuizRequest struct {
	Title        string                  `json:"title" validate:"required,min=1,max=200"`
	Description  *string                 `json:"description" validate:"omitempty,max=1000"`
	CourseID     uint                    `json:"course_id" validate:"required"`
	Duration     *int                    `json:"duration" validate:"omitempty,min=1,max=600"`
	Instructions *string                 `json:"instructions"`
	Difficulty   *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Password     *string                 `json:"password" validate:"omitempty,max=100"`

	ShowResults      *bool `json:"show_results"`
	ShuffleQuestions *bool `json:"shuffle_questions"`
	ShuffleAnswers   *bool `json:"shuffle_answers"`
	ReviewEnabled    *bool `json:"review_enabled"`
	AutoSubmit       *bool `json:"auto_submit"`

	MaxAttempts  *int `json:"max_attempts" validate:"omitempty,min=1,max=10"`
	PassingMarks int  `json:"passing_marks" validate:"min=0,max=100"`

	StartAt *string `json:"start_at"`
	EndAt   *string `json:"end_at"`

	Questions []QuestionRequest `json:"questions"`
}

// QuestionRequest is one entry of a quiz payload's ordered question list.
// Position is implied by list order; correct_answer is never accepted from
// the client and is always derived server-side.
type QuestionRequest struct {
	ID    *uint               `json:"id"`
	Type  models.QuestionType `json:"type" validate:"required,question_type"`
	Text  string              `json:"text"`
	Marks *int                `json:"marks" validate:"omitempty,min=0"`

	Difficulty  *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Explanation *string                 `json:"explanation"`

	// Short answer
	ExpectedAnswer  *string `json:"expected_answer"`
	IsCaseSensitive *bool   `json:"is_case_sensitive"`

	// MCQ
	Options []QuestionOptionRequest `json:"options"`

	// Drag and drop
	Pairs []DragDropPairRequest `json:"drag_drop_items"`
}

type QuestionOptionRequest struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type DragDropPairRequest struct {
	ItemText   string `json:"item_text"`
	TargetText string `json:"target_text"`
}

// ===== QUIZ RESPONSE DTOs =====

type QuizResponse struct {
	ID           uint                   `json:"id"`
	Title        string                 `json:"title"`
	Description  *string                `json:"description"`
	CourseID     uint                   `json:"course_id"`
	CourseName   string                 `json:"course_name,omitempty"`
	Duration     *int                   `json:"duration"`
	Instructions *string                `json:"instructions"`
	Difficulty   models.DifficultyLevel `json:"difficulty"`
	HasPassword  bool                   `json:"has_password"`

	ShowResults      bool `json:"show_results"`
	ShuffleQuestions bool `json:"shuffle_questions"`
	ShuffleAnswers   bool `json:"shuffle_answers"`
	ReviewEnabled    bool `json:"review_enabled"`
	AutoSubmit       bool `json:"auto_submit"`

	MaxAttempts  int `json:"max_attempts"`
	PassingMarks int `json:"passing_marks"`

	StartAt *string `json:"start_at"`
	EndAt   *string `json:"end_at"`

	Status models.QuizStatus `json:"status"`

	QuestionCount int     `json:"question_count"`
	TotalMarks    int     `json:"total_marks"`
	AttemptCount  int     `json:"attempt_count"`
	AvgScore      float64 `json:"avg_score"`

	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []QuestionResponse `json:"questions,omitempty"`
}

type QuestionResponse struct {
	ID          uint                   `json:"id"`
	Type        models.QuestionType    `json:"type"`
	Text        string                 `json:"text"`
	Marks       int                    `json:"marks"`
	Difficulty  models.DifficultyLevel `json:"difficulty"`
	Explanation *string                `json:"explanation"`
	Position    int                    `json:"position"`

	CorrectAnswer   string `json:"correct_answer"`
	IsCaseSensitive bool   `json:"is_case_sensitive"`

	Options []QuestionOptionResponse `json:"options,omitempty"`
	Pairs   []DragDropPairResponse   `json:"drag_drop_items,omitempty"`
}

type QuestionOptionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Position  int    `json:"position"`
}

type DragDropPairResponse struct {
	ID         uint   `json:"id"`
	ItemText   string `json:"item_text"`
	TargetText string `json:"target_text"`
	Position   int    `json:"position"`
}

type QuizListResponse struct {
	Quizzes []*QuizResponse `json:"quizzes"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

// ===== COURSE DTOs =====

type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Code        string  `json:"code" validate:"required,min=2,max=20"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

type CourseResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description *string   `json:"description"`
	TutorID     uint      `json:"tutor_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
}

// ===== HELPERS =====

func stringPtr(s string) *string {
	return &s
}
