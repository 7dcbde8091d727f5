package validator

import (
	"fmt"
	"strings"

	"github.com/brightpath-edu/tutor-portal/internal/models"
)

// DraftViolation is the single user-facing message produced when a quiz draft
// fails validation. First violation wins; the draft is never partially saved.
type DraftViolation struct {
	Message string
}

func (e *DraftViolation) Error() string {
	return e.Message
}

func violation(format string, args ...interface{}) *DraftViolation {
	return &DraftViolation{Message: fmt.Sprintf(format, args...)}
}

// QuizValidator checks a quiz draft against the authoring rules. Rules run in
// a fixed order and question-scoped messages reference the question's 1-based
// position, which the editor UI relies on.
type QuizValidator struct{}

func NewQuizValidator() *QuizValidator {
	return &QuizValidator{}
}

// ValidateDraft validates quiz metadata and the ordered question list.
// Returns nil or the first failing rule as a *DraftViolation.
func (v *QuizValidator) ValidateDraft(quiz *models.Quiz, questions []*models.Question) error {
	if strings.TrimSpace(quiz.Title) == "" {
		return violation("Quiz title is required")
	}

	if quiz.CourseID == 0 {
		return violation("Please select a course for this quiz")
	}

	if quiz.StartAt != nil && quiz.EndAt != nil && quiz.EndAt.Before(*quiz.StartAt) {
		return violation("Quiz end time cannot be before its start time")
	}

	if len(questions) == 0 {
		return violation("Quiz must have at least one question")
	}

	for i, q := range questions {
		if err := v.validateQuestion(i+1, q); err != nil {
			return err
		}
	}

	return nil
}

func (v *QuizValidator) validateQuestion(position int, q *models.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return violation("Question %d: question text is required", position)
	}

	switch q.Type {
	case models.QuestionMCQ:
		return v.validateMCQ(position, q)
	case models.QuestionShortAnswer:
		return v.validateShortAnswer(position, q)
	case models.QuestionDragDrop:
		// Incomplete pairs are filtered at persist time rather than blocking
		// submission; a pair counts only when both sides carry text.
		return nil
	default:
		return violation("Question %d: unsupported question type %q", position, string(q.Type))
	}
}

func (v *QuizValidator) validateMCQ(position int, q *models.Question) error {
	if len(q.Options) < 2 {
		return violation("Question %d: multiple choice questions need at least 2 options", position)
	}

	for _, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return violation("Question %d: all options must have text", position)
		}
	}

	// Canonical MCQ rule: multi-answer, at least one option marked correct.
	hasCorrect := false
	for _, opt := range q.Options {
		if opt.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return violation("Question %d: mark at least one option as correct", position)
	}

	return nil
}

func (v *QuizValidator) validateShortAnswer(position int, q *models.Question) error {
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return violation("Question %d: a correct answer is required", position)
	}
	return nil
}
