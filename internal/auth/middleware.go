package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/educast/studio/internal/model"
)

// contextKey is an unexported type for context keys in this package, so
// no other package can read or shadow the values we store.
type contextKey string

const userKey contextKey = "user"

// UserResolver is the slice of the user repository the middleware needs:
// a verified token must still resolve to an existing account.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Middleware enforces bearer-token authentication on protected routes.
type Middleware struct {
	tokens *TokenService
	users  UserResolver
	logger *slog.Logger
}

func NewMiddleware(tokens *TokenService, users UserResolver, logger *slog.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger}
}

// RequireAuth reads "Authorization: Bearer <token>", verifies it, loads
// the user and stores it in the request context. Missing or invalid
// credentials stop the chain with 401; whether the failure was a bad
// signature, expiry or a deleted account is not distinguished outward.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolve(r)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin is RequireAuth plus a role check. Authenticated non-admin
// callers get 403.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolve(r)
		if err != nil {
			unauthorized(w)
			return
		}
		if user.Role != model.RoleAdmin {
			m.logger.Warn("admin route denied",
				slog.String("userID", user.ID),
				slog.String("path", r.URL.Path),
			)
			writeDenied(w, http.StatusForbidden, "Admin access required")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth resolves credentials when they are present but never
// rejects the request. Anonymous callers pass through with no user in
// the context; handlers branch on UserFromContext.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.resolve(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext retrieves the authenticated user set by the
// middleware. Returns (nil, false) for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

func (m *Middleware) resolve(r *http.Request) (*model.User, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, errMissingToken
	}

	id, _, err := m.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	// The token may outlive the account; a deleted user's token must
	// not authenticate.
	user, err := m.users.GetUserByID(r.Context(), id.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

var errMissingToken = &missingTokenError{}

type missingTokenError struct{}

func (*missingTokenError) Error() string { return "auth: missing bearer token" }

func unauthorized(w http.ResponseWriter) {
	writeDenied(w, http.StatusUnauthorized, "Authentication required. Please login.")
}

// writeDenied emits the standard response envelope for requests the
// middleware stops before they reach a handler.
func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "error",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
