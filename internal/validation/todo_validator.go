package validation

import (
	"todomaster/internal/config"
	"todomaster/internal/domain"
)

// TitleRequiredMessage is shown inline when a title is blank
const TitleRequiredMessage = "Title is required."

// TodoValidator provides validation for todo-related operations
type TodoValidator struct {
	validator *Validator
}

// NewTodoValidator creates a new todo validator
func NewTodoValidator() *TodoValidator {
	return &TodoValidator{
		validator: NewValidator(),
	}
}

// NewTodoValidatorWithConfig creates a todo validator with configured limits
func NewTodoValidatorWithConfig(cfg *config.Config) *TodoValidator {
	return &TodoValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTitle validates a todo title for creation or update
func (tv *TodoValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(title)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredMessage("title", TitleRequiredMessage)
		return validationError
	}

	if !tv.validator.IsValidTitleLength(trimmed) {
		validationError.AddInvalidLengthError("title", trimmed, 0, tv.validator.getTitleMaxLength())
	}

	if tv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("title", trimmed)
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}

// GetValidTitle returns the trimmed title, or the validation error
func (tv *TodoValidator) GetValidTitle(title string) (string, error) {
	if err := tv.ValidateTitle(title); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(title), nil
}

// ValidateTodoID validates a todo id
func (tv *TodoValidator) ValidateTodoID(id int64) error {
	if !tv.validator.IsValidTodoID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ParseTodoID parses a todo id argument
func (tv *TodoValidator) ParseTodoID(s string) (int64, error) {
	id, ok := tv.validator.ParseTodoID(s)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", s, "must be a positive integer")
		return 0, validationError
	}
	return id, nil
}

// ValidateForCreate validates a todo for creation
func (tv *TodoValidator) ValidateForCreate(title string) error {
	return tv.ValidateTitle(title)
}

// ValidateForUpdate validates the full record sent on update
func (tv *TodoValidator) ValidateForUpdate(todo domain.Todo) error {
	validationError := NewValidationError()

	if !tv.validator.IsValidTodoID(todo.ID) {
		validationError.AddInvalidValueError("id", todo.ID, "must be a positive integer")
	}

	if err := tv.ValidateTitle(todo.Title); err != nil {
		if ve, ok := AsValidationError(err); ok {
			validationError.Errors = append(validationError.Errors, ve.Errors...)
		}
	}

	if validationError.HasErrors() {
		return validationError
	}

	return nil
}
