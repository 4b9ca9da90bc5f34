package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/auth"
	"github.com/educast/studio/internal/service"
)

// AuthHandler exposes the account endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger}
}

// HandleRegister creates an account and returns an immediate token.
//
// POST /api/register {"name", "email", "password"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user":  result.User,
		"token": result.Token,
	})
}

// HandleLogin verifies credentials and issues a token.
//
// POST /api/login {"email", "password"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", map[string]any{
		"token": result.Token,
		"role":  result.User.Role,
		"user":  result.User,
	})
}

// HandleLogout records the logout time. The token itself stays valid
// until it expires.
//
// POST /api/logout (authenticated)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}
	if err := h.auth.Logout(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}

// HandleValidateToken checks a raw token for the frontend's session
// restore.
//
// POST /api/validate-token {"token"}
func (h *AuthHandler) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Token == "" {
		writeError(w, apperror.ValidationFailed("token", "token is required"))
		return
	}

	user, expiresAt, err := h.auth.ValidateToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Token is valid", map[string]any{
		"valid":      true,
		"user":       user,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

// HandleCheckEmail reports whether an account exists for the email.
//
// POST /api/check-email {"email"}
func (h *AuthHandler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	exists, err := h.auth.CheckEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Email check complete", map[string]any{"exists": exists})
}

// HandleGetProfile returns the authenticated user's profile.
//
// GET /api/profile
func (h *AuthHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}
	writeSuccess(w, http.StatusOK, "Profile retrieved", map[string]any{"user": user})
}

// HandleUpdateProfile applies partial profile changes.
//
// PUT /api/profile {"name"?, "email"?, "bio"?, "avatar_url"?, "preferences"?}
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var update service.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": updated})
}

// HandleChangePassword rotates the password after checking the
// current one.
//
// POST /api/change-password {"current_password", "new_password"}
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password changed successfully", nil)
}
