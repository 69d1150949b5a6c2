package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// SchoolCodeRegex allows alphanumerics, hyphens and underscores
	SchoolCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// PhoneRegex is deliberately permissive: digits with an optional leading
	// plus, applied after normalization
	PhoneRegex = regexp.MustCompile(`^\+?[0-9]+$`)

	// PinCodeRegex matches a 5-10 digit postal code
	PinCodeRegex = regexp.MustCompile(`^[0-9]{5,10}$`)

	// PasswordMinLength is the minimum credential length
	PasswordMinLength = 6

	// PhoneMinLength is the minimum normalized phone length
	PhoneMinLength = 10

	// SchoolCodeMaxLength caps school codes
	SchoolCodeMaxLength = 50
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// NormalizePhone strips spaces, dashes and parentheses from a phone number.
// Registration and login both key on the normalized form, so "98765 43210"
// and "(98765)-43210" resolve to the same user.
func NormalizePhone(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(phone))
}

// ValidatePhone checks a normalized phone number
func ValidatePhone(phone string) (bool, string) {
	if len(phone) < PhoneMinLength {
		return false, fmt.Sprintf("Phone number must be at least %d digits", PhoneMinLength)
	}
	if len(phone) > 20 {
		return false, "Phone number must be at most 20 digits"
	}
	if !PhoneRegex.MatchString(phone) {
		return false, "Phone number may only contain digits"
	}
	return true, ""
}

// ValidateSchoolCode checks a school code before it is normalized to uppercase
func ValidateSchoolCode(code string) (bool, string) {
	if code == "" {
		return false, "School code is required"
	}
	if len(code) > SchoolCodeMaxLength {
		return false, fmt.Sprintf("School code must be at most %d characters", SchoolCodeMaxLength)
	}
	if !SchoolCodeRegex.MatchString(code) {
		return false, "School code can only contain letters, numbers, underscores, and hyphens"
	}
	return true, ""
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}

// ValidatePinCode checks a postal pin code
func ValidatePinCode(pin string) bool {
	return PinCodeRegex.MatchString(pin)
}

// ValidatePassword checks if a credential meets the minimum length
func ValidatePassword(password string) (bool, string) {
	if len(password) < PasswordMinLength {
		return false, fmt.Sprintf("Password must be at least %d characters", PasswordMinLength)
	}
	return true, ""
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
