package validator

import (
	"testing"
	"time"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqQuestion(text string, options ...models.QuestionOption) *models.Question {
	return &models.Question{
		Type:    models.QuestionMCQ,
		Text:    text,
		Options: options,
	}
}

func option(text string, correct bool) models.QuestionOption {
	return models.QuestionOption{Text: text, IsCorrect: correct}
}

func validDraft() (*models.Quiz, []*models.Question) {
	quiz := &models.Quiz{
		Title:    "Midterm",
		CourseID: 1,
	}
	questions := []*models.Question{
		mcqQuestion("What is 2+2?", option("4", true), option("5", false)),
	}
	return quiz, questions
}

func TestValidateDraft_EmptyTitle(t *testing.T) {
	v := NewQuizValidator()

	quiz, questions := validDraft()
	quiz.Title = "   "

	err := v.ValidateDraft(quiz, questions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")

	// The title rule fires regardless of how many questions exist.
	err = v.ValidateDraft(quiz, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestValidateDraft_CourseRequired(t *testing.T) {
	v := NewQuizValidator()

	quiz, questions := validDraft()
	quiz.CourseID = 0

	err := v.ValidateDraft(quiz, questions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "course")
}

func TestValidateDraft_RequiresQuestions(t *testing.T) {
	v := NewQuizValidator()

	quiz, _ := validDraft()
	err := v.ValidateDraft(quiz, []*models.Question{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one question")
}

func TestValidateDraft_MCQNoCorrectOption(t *testing.T) {
	v := NewQuizValidator()

	quiz, _ := validDraft()
	questions := []*models.Question{
		mcqQuestion("First question", option("A", true), option("B", false)),
		mcqQuestion("Second question", option("A", false), option("B", false)),
	}

	err := v.ValidateDraft(quiz, questions)
	require.Error(t, err)

	// Message must carry the failing question's 1-based position.
	assert.Contains(t, err.Error(), "Question 2")
	assert.Contains(t, err.Error(), "correct")
}

func TestValidateDraft_MCQOptionRules(t *testing.T) {
	v := NewQuizValidator()
	quiz, _ := validDraft()

	tests := []struct {
		name     string
		question *models.Question
		wantMsg  string
	}{
		{
			name:     "too few options",
			question: mcqQuestion("Pick one", option("only", true)),
			wantMsg:  "at least 2 options",
		},
		{
			name:     "empty option text",
			question: mcqQuestion("Pick one", option("A", true), option("  ", false)),
			wantMsg:  "all options must have text",
		},
		{
			name: "empty question text",
			question: mcqQuestion("",
				option("A", true), option("B", false)),
			wantMsg: "question text is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDraft(quiz, []*models.Question{tt.question})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Question 1")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateDraft_ShortAnswerNeedsExpectedAnswer(t *testing.T) {
	v := NewQuizValidator()
	quiz, _ := validDraft()

	q := &models.Question{
		Type: models.QuestionShortAnswer,
		Text: "Capital of France?",
	}

	err := v.ValidateDraft(quiz, []*models.Question{q})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Question 1")
	assert.Contains(t, err.Error(), "correct answer")

	q.CorrectAnswer = "Paris"
	assert.NoError(t, v.ValidateDraft(quiz, []*models.Question{q}))
}

func TestValidateDraft_DragDropNeverBlocks(t *testing.T) {
	v := NewQuizValidator()
	quiz, _ := validDraft()

	// Incomplete pairs are filtered at persist time, not rejected here.
	q := &models.Question{
		Type: models.QuestionDragDrop,
		Text: "Match capitals",
		Pairs: []models.DragDropPair{
			{ItemText: "Paris", TargetText: ""},
		},
	}

	assert.NoError(t, v.ValidateDraft(quiz, []*models.Question{q}))
}

func TestValidateDraft_ScheduleWindow(t *testing.T) {
	v := NewQuizValidator()

	quiz, questions := validDraft()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	quiz.StartAt = &start
	quiz.EndAt = &end

	err := v.ValidateDraft(quiz, questions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end time")

	end = start.Add(time.Hour)
	quiz.EndAt = &end
	assert.NoError(t, v.ValidateDraft(quiz, questions))
}

func TestValidateDraft_FirstViolationWins(t *testing.T) {
	v := NewQuizValidator()

	// Both the title and a question are invalid; only the title message surfaces.
	quiz, _ := validDraft()
	quiz.Title = ""
	questions := []*models.Question{
		mcqQuestion("", option("A", false), option("B", false)),
	}

	err := v.ValidateDraft(quiz, questions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.NotContains(t, err.Error(), "Question")
}
