package util

import (
	"fmt"
	"regexp"
	"strings"

	"telecare/internal/models"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks basic email shape. Uniqueness is the store's job.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 128 || !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword enforces 8-72 chars with upper, lower and digit.
// 72 is the bcrypt input limit.
func ValidatePassword(pwd string) error {
	if len(pwd) < 8 || len(pwd) > 72 {
		return fmt.Errorf("password must be 8-72 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("password must contain upper and lower case letters and a digit")
	}
	return nil
}

// ValidateCategory checks the category against the known set.
func ValidateCategory(category string) error {
	if category == "" {
		return fmt.Errorf("category is empty")
	}
	if !models.KnownCategory(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	return nil
}

// license numbers look like "MD-123456": a 2-4 letter profession code,
// a dash, then 4-10 digits
var licenseRe = regexp.MustCompile(`^[A-Z]{2,4}-[0-9]{4,10}$`)

// ValidateLicenseNumber checks the professional ID format.
func ValidateLicenseNumber(number string) error {
	if number == "" {
		return fmt.Errorf("license number is required")
	}
	if !licenseRe.MatchString(number) {
		return fmt.Errorf("invalid license number format")
	}
	return nil
}
