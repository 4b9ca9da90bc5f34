// Package service holds the business logic layer. Each service sits
// between the HTTP handlers and the repositories:
//
//	handler (HTTP) → service (rules) → repository (DB)
//
// Services never touch http.Request or ResponseWriter; handlers never
// touch SQL. Errors flow out as apperror sentinels so the handler
// layer can map them to status codes without string matching.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/auth"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and the issued JWT so the handler can
// respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// RegisterRequest carries the register endpoint's input.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and logs the user straight in. A
// duplicate email comes back as apperror.ErrConflict from the
// repository's UNIQUE constraint.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := auth.CheckPolicy(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email))

	token, err := s.tokens.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and records last_login. Unknown email
// and wrong password return the same error so the endpoint doesn't
// leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: recording login for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	token, err := s.tokens.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout records last_logout. Tokens are not revoked; they simply
// expire.
func (s *AuthService) Logout(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.LastLogout = &now
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service/auth: recording logout for user %s: %w", user.ID, err)
	}
	return nil
}

// ValidateToken checks a raw token and resolves its user.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*model.User, time.Time, error) {
	identity, expiresAt, err := s.tokens.Verify(token)
	if err != nil {
		return nil, time.Time{}, apperror.Unauthorized("invalid or expired token")
	}
	user, err := s.users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return user, expiresAt, nil
}

// CheckEmail reports whether an account exists for the email. The
// registration form polls this.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	if err := validateEmail(email); err != nil {
		return false, err
	}
	_, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ProfileUpdate carries the updatable profile fields. Nil pointers
// mean "leave unchanged".
type ProfileUpdate struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Preferences *string `json:"preferences"`
}

const maxBioLength = 500

// UpdateProfile applies the requested changes to the user's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, update ProfileUpdate) (*model.User, error) {
	if update.Name != nil {
		if err := validateName(*update.Name); err != nil {
			return nil, err
		}
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		if err := validateEmail(*update.Email); err != nil {
			return nil, err
		}
		user.Email = normalizeEmail(*update.Email)
	}
	if update.Bio != nil {
		if len(*update.Bio) > maxBioLength {
			return nil, apperror.ValidationFailed("bio", "bio must be 500 characters or less")
		}
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	if update.Preferences != nil {
		user.Preferences = *update.Preferences
	}

	// The repository maps an email UNIQUE violation to ErrConflict.
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting the new
// one. The new password goes through the same policy as registration.
func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, current, next string) error {
	if err := s.passwords.Verify(user.PasswordHash, current); err != nil {
		return apperror.Unauthorized("current password is incorrect")
	}
	if err := auth.CheckPolicy(next); err != nil {
		return err
	}

	hash, err := s.passwords.Hash(next)
	if err != nil {
		return fmt.Errorf("service/auth: hashing new password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service/auth: storing new password for user %s: %w", user.ID, err)
	}

	s.logger.Info("password changed", slog.String("userID", user.ID))
	return nil
}
