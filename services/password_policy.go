package services

import (
	"fmt"
	"unicode"
)

const MinPasswordLength = 8

// ValidatePassword requires at least 8 characters with a letter and a digit.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("must be at least %d characters long", MinPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("must contain at least one letter")
	}
	if !hasDigit {
		return fmt.Errorf("must contain at least one number")
	}
	return nil
}
