package validator

import (
	"reflect"
	"strings"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with the quiz draft validator.
type Validator struct {
	structValidator *validator.Validate
	quizValidator   *QuizValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		quizValidator:   NewQuizValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Quiz returns the quiz draft validator
func (v *Validator) Quiz() *QuizValidator {
	return v.quizValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("quiz_status", validateQuizStatus)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.QuestionMCQ,
		models.QuestionShortAnswer,
		models.QuestionDragDrop,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	validLevels := []models.DifficultyLevel{
		models.DifficultyEasy,
		models.DifficultyMedium,
		models.DifficultyHard,
	}

	value := fl.Field().String()
	for _, validLevel := range validLevels {
		if string(validLevel) == value {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	validRoles := []models.UserRole{
		models.RoleStudent,
		models.RoleTutor,
		models.RoleAdmin,
		models.RoleSuperAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func validateQuizStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.QuizStatus{
		models.StatusDraft,
		models.StatusPublished,
		models.StatusArchived,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}
