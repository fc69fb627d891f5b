package validation

import (
	"fmt"

	"todomaster/internal/config"
)

const (
	// InvalidEmailMessage is shown for a malformed or empty email
	InvalidEmailMessage = "Please enter a valid email address"
	// NameRequiredMessage is shown when sign-up has no name
	NameRequiredMessage = "Name is required"
)

// CredentialsValidator validates the login and signup forms
type CredentialsValidator struct {
	validator *Validator
}

// NewCredentialsValidator creates a credentials validator with default rules
func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{validator: NewValidator()}
}

// NewCredentialsValidatorWithConfig creates a credentials validator with configured rules
func NewCredentialsValidatorWithConfig(cfg *config.Config) *CredentialsValidator {
	return &CredentialsValidator{validator: NewValidatorWithConfig(cfg)}
}

// PasswordTooShortMessage is shown when the password is below the minimum length
func (cv *CredentialsValidator) PasswordTooShortMessage() string {
	return fmt.Sprintf("Password must be at least %d characters", cv.validator.getPasswordMinLength())
}

// ValidateSignIn validates the login form
func (cv *CredentialsValidator) ValidateSignIn(email, password string) error {
	validationError := NewValidationError()
	cv.checkEmail(validationError, email)
	cv.checkPassword(validationError, password)

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateSignUp validates the signup form
func (cv *CredentialsValidator) ValidateSignUp(email, password, name string) error {
	validationError := NewValidationError()
	cv.checkEmail(validationError, email)
	cv.checkPassword(validationError, password)

	if !cv.validator.IsNonEmptyString(name) {
		validationError.AddRequiredMessage("name", NameRequiredMessage)
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

func (cv *CredentialsValidator) checkEmail(ve *ValidationError, email string) {
	if !cv.validator.IsValidEmail(email) {
		ve.AddError("email", ErrorTypeInvalidFormat, InvalidEmailMessage, email)
	}
}

func (cv *CredentialsValidator) checkPassword(ve *ValidationError, password string) {
	if !cv.validator.IsValidPasswordLength(password) {
		ve.AddError("password", ErrorTypeInvalidLength, cv.PasswordTooShortMessage(), nil)
	}
}
