package service

import (
	"regexp"
	"strings"

	"github.com/educast/studio/internal/apperror"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
)

// normalizeEmail lowercases and trims; emails are stored and compared
// in this form everywhere.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(normalizeEmail(email)) {
		return apperror.ValidationFailed("email", "please provide a valid email address")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	switch {
	case len(name) < 2:
		return apperror.ValidationFailed("name", "name must be at least 2 characters long")
	case len(name) > 100:
		return apperror.ValidationFailed("name", "name must be less than 100 characters")
	case !namePattern.MatchString(name):
		return apperror.ValidationFailed("name", "name can only contain letters, spaces, hyphens, apostrophes, and periods")
	}
	return nil
}
