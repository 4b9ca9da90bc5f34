package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/educast/studio/internal/apperror"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly ~250ms
// on a modern server — negligible for login, brutal for attackers.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification plus the
// account password policy.
//
// It's a struct (not free functions) so the cost can be injected in
// tests — cost 4 makes test suites fast without changing the logic.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced
// bcrypt cost. Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt. The output is
// self-contained (salt and cost embedded) and stored directly in the
// users table.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates beyond 72 bytes; reject instead.
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt
// hash. Returns nil on match. bcrypt compares in constant time, so this
// is safe against timing attacks.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

// CheckPolicy validates a candidate password against the account policy:
// at least 8 characters with one uppercase letter, one lowercase letter,
// one digit and one special character.
//
// The returned error message enumerates every missing requirement so the
// client can show the full list in one round trip.
func CheckPolicy(password string) error {
	var missing []string

	if len(password) < 8 {
		missing = append(missing, "at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "a lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "a number")
	}
	if !hasSpecial {
		missing = append(missing, "a special character")
	}

	if len(missing) > 0 {
		return apperror.Unprocessable("password",
			"password must contain "+strings.Join(missing, ", "))
	}
	return nil
}
