package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"todomaster/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	emailRegex *regexp.Regexp
	config     *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		emailRegex: regexp.MustCompile(`^[A-Za-z0-9._%+'\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)*\.[A-Za-z]{2,}$`),
		config:     cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length, in characters, is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTitleLength checks if a title fits within the configured maximum
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, 1, v.getTitleMaxLength())
}

// HasControlCharacters reports newlines, tabs and other control characters
func (v *Validator) HasControlCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// IsValidTodoID checks if a todo ID is valid (positive)
func (v *Validator) IsValidTodoID(id int64) bool {
	return id > 0
}

// ParseTodoID parses a positive todo id from user input
func (v *Validator) ParseTodoID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || !v.IsValidTodoID(id) {
		return 0, false
	}
	return id, true
}

// IsValidEmail checks the address shape
func (v *Validator) IsValidEmail(email string) bool {
	return v.emailRegex.MatchString(strings.TrimSpace(email))
}

// IsValidPasswordLength checks the configured minimum password length
func (v *Validator) IsValidPasswordLength(password string) bool {
	return utf8.RuneCountInString(password) >= v.getPasswordMinLength()
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// getTitleMaxLength returns configured maximum title length or default
func (v *Validator) getTitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 255 // Default maximum
}

// getPasswordMinLength returns configured minimum password length or default
func (v *Validator) getPasswordMinLength() int {
	if v.config != nil {
		return v.config.Auth.PasswordMinLength
	}
	return 8 // Default minimum
}
