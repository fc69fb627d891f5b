package validation

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "name", Message: "is required"}}, "validation error for field 'name': is required"},
		{"Multiple errors", []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be positive"},
		}, "multiple validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.Error()

			if tt.name == "Multiple errors" {
				if !strings.Contains(result, tt.expectError) {
					t.Errorf("ValidationError.Error() = %v, expected to contain %v", result, tt.expectError)
				}
			} else {
				if result != tt.expectError {
					t.Errorf("ValidationError.Error() = %v, expected %v", result, tt.expectError)
				}
			}
		})
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		expected bool
	}{
		{"No errors", []FieldError{}, false},
		{"Has errors", []FieldError{{Field: "name", Message: "is required"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.HasErrors()

			if result != tt.expected {
				t.Errorf("ValidationError.HasErrors() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestValidationError_AddError(t *testing.T) {
	ve := NewValidationError()

	ve.AddError("name", ErrorTypeRequired, "is required", "")

	if len(ve.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(ve.Errors))
	}

	if ve.Errors[0].Field != "name" {
		t.Errorf("Expected field 'name', got %s", ve.Errors[0].Field)
	}

	if ve.Errors[0].Type != ErrorTypeRequired {
		t.Errorf("Expected error type %v, got %v", ErrorTypeRequired, ve.Errors[0].Type)
	}
}

func TestValidationError_AddInvalidLengthError(t *testing.T) {
	ve := NewValidationError()

	ve.AddInvalidLengthError("name", "a", 2, 50)

	if len(ve.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(ve.Errors))
	}

	if ve.Errors[0].Type != ErrorTypeInvalidLength {
		t.Errorf("Expected error type %v, got %v", ErrorTypeInvalidLength, ve.Errors[0].Type)
	}

	if !strings.Contains(ve.Errors[0].Message, "between 2 and 50") {
		t.Errorf("Expected message to contain length range, got %s", ve.Errors[0].Message)
	}
}

func TestValidationError_AddInvalidValueError(t *testing.T) {
	ve := NewValidationError()

	ve.AddInvalidValueError("age", -1, "must be positive")

	if len(ve.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(ve.Errors))
	}

	if ve.Errors[0].Type != ErrorTypeInvalidValue {
		t.Errorf("Expected error type %v, got %v", ErrorTypeInvalidValue, ve.Errors[0].Type)
	}

	if !strings.Contains(ve.Errors[0].Message, "must be positive") {
		t.Errorf("Expected message to contain reason, got %s", ve.Errors[0].Message)
	}
}

func TestValidationError_AddRequiredMessage(t *testing.T) {
	ve := NewValidationError()

	ve.AddRequiredMessage("title", "Title is required.")

	if len(ve.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(ve.Errors))
	}

	if ve.Errors[0].Type != ErrorTypeRequired {
		t.Errorf("Expected error type %v, got %v", ErrorTypeRequired, ve.Errors[0].Type)
	}

	if ve.GetUserFriendlyMessage() != "Title is required." {
		t.Errorf("Expected message to be kept verbatim, got %s", ve.GetUserFriendlyMessage())
	}
}

func TestValidationError_AddInvalidCharacterError(t *testing.T) {
	ve := NewValidationError()

	ve.AddInvalidCharacterError("name", "test@#$")

	if len(ve.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(ve.Errors))
	}

	if ve.Errors[0].Type != ErrorTypeInvalidCharacter {
		t.Errorf("Expected error type %v, got %v", ErrorTypeInvalidCharacter, ve.Errors[0].Type)
	}

	if !strings.Contains(ve.Errors[0].Message, "invalid characters") {
		t.Errorf("Expected message to contain 'invalid characters', got %s", ve.Errors[0].Message)
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		expected string
	}{
		{"No errors", []FieldError{}, "Input validation failed"},
		{"Single error", []FieldError{{Field: "name", Message: "is required"}}, "is required"},
		{"Multiple errors", []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be positive"},
		}, "Multiple validation errors occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.GetUserFriendlyMessage()

			if tt.name == "Multiple errors" {
				if !strings.Contains(result, tt.expected) {
					t.Errorf("GetUserFriendlyMessage() = %v, expected to contain %v", result, tt.expected)
				}
			} else {
				if result != tt.expected {
					t.Errorf("GetUserFriendlyMessage() = %v, expected %v", result, tt.expected)
				}
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredMessage("name", "Name is required.")

	if !IsValidationError(ve) {
		t.Errorf("IsValidationError() = false, expected true for ValidationError")
	}

	regularError := &FieldError{Field: "test", Message: "error"}
	if IsValidationError(regularError) {
		t.Errorf("IsValidationError() = true, expected false for regular error")
	}

	wrapped := fmt.Errorf("create todo: %w", ve)
	got, ok := AsValidationError(wrapped)
	if !ok || got != ve {
		t.Errorf("AsValidationError() did not unwrap the wrapped ValidationError")
	}
}

func TestNewValidationError(t *testing.T) {
	ve := NewValidationError()

	if ve == nil {
		t.Error("NewValidationError() returned nil")
	}

	if ve.Errors == nil {
		t.Error("NewValidationError() returned ValidationError with nil Errors slice")
	}

	if len(ve.Errors) != 0 {
		t.Errorf("NewValidationError() returned ValidationError with %d errors, expected 0", len(ve.Errors))
	}
}