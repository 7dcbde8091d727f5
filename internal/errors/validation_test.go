package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("title", "is required", "")

	if err.Field != "title" {
		t.Errorf("Expected field to be 'title', got '%s'", err.Field)
	}

	if err.Message != "is required" {
		t.Errorf("Expected message to be 'is required', got '%s'", err.Message)
	}

	expected := "validation error on field 'title': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("course_id", "is required", nil))
	expected := "validation failed: course_id is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("passing_marks", "must be at most 100", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("max_attempts", "must be at least 1", "min", 0)

	if err.Rule != "min" {
		t.Errorf("Expected rule to be 'min', got '%s'", err.Rule)
	}

	if err.Field != "max_attempts" {
		t.Errorf("Expected field to be 'max_attempts', got '%s'", err.Field)
	}
}
