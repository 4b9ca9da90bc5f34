package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/model"
)

// mockResolver returns a fixed set of users by id.
type mockResolver struct {
	users map[string]*model.User
}

func (m *mockResolver) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", id)
}

func newTestMiddleware(t *testing.T) (*Middleware, *TokenService) {
	t.Helper()
	tokens, err := NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	resolver := &mockResolver{users: map[string]*model.User{
		"u1": {ID: "u1", Role: model.RoleUser, Email: "user@educast.com"},
		"a1": {ID: "a1", Role: model.RoleAdmin, Email: "admin@educast.com"},
	}}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewMiddleware(tokens, resolver, logger), tokens
}

// okHandler records whether it ran and which user it saw.
func okHandler(sawUser **model.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := UserFromContext(r.Context()); ok {
			*sawUser = u
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	token, _ := tokens.Issue("u1", model.RoleUser, "user@educast.com")
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	var saw *model.User
	mw.RequireAuth(okHandler(&saw)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if saw == nil || saw.ID != "u1" {
		t.Errorf("handler should see user u1, got %+v", saw)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rr := httptest.NewRecorder()

	var saw *model.User
	mw.RequireAuth(okHandler(&saw)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if saw != nil {
		t.Error("handler must not run without a token")
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	// Token for a user that no longer exists.
	token, _ := tokens.Issue("ghost", model.RoleUser, "ghost@educast.com")
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	var saw *model.User
	mw.RequireAuth(okHandler(&saw)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for a token that resolves to no user", rr.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	userToken, _ := tokens.Issue("u1", model.RoleUser, "user@educast.com")
	adminToken, _ := tokens.Issue("a1", model.RoleAdmin, "admin@educast.com")

	t.Run("non-admin gets 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+userToken)
		rr := httptest.NewRecorder()

		var saw *model.User
		mw.RequireAdmin(okHandler(&saw)).ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rr.Code)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rr := httptest.NewRecorder()

		var saw *model.User
		mw.RequireAdmin(okHandler(&saw)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
		if saw == nil || saw.Role != model.RoleAdmin {
			t.Errorf("handler should see the admin user, got %+v", saw)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	t.Run("anonymous passes with no user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		rr := httptest.NewRecorder()

		var saw *model.User
		mw.OptionalAuth(okHandler(&saw)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 for anonymous request", rr.Code)
		}
		if saw != nil {
			t.Errorf("anonymous request should carry no user, got %+v", saw)
		}
	})

	t.Run("valid token attaches user", func(t *testing.T) {
		token, _ := tokens.Issue("u1", model.RoleUser, "user@educast.com")
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		var saw *model.User
		mw.OptionalAuth(okHandler(&saw)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
		if saw == nil || saw.ID != "u1" {
			t.Errorf("handler should see user u1, got %+v", saw)
		}
	})

	t.Run("garbage token is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rr := httptest.NewRecorder()

		var saw *model.User
		mw.OptionalAuth(okHandler(&saw)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 for a bad optional token", rr.Code)
		}
		if saw != nil {
			t.Errorf("bad token should not attach a user, got %+v", saw)
		}
	})
}

func TestDeniedResponsesCarryEnvelope(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	decode := func(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
		t.Helper()
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		return body
	}

	t.Run("401 from RequireAuth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		rr := httptest.NewRecorder()

		var saw *model.User
		mw.RequireAuth(okHandler(&saw)).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
		body := decode(t, rr)
		if body["status"] != "error" {
			t.Errorf("status field = %q, want error", body["status"])
		}
		if body["message"] == "" || body["timestamp"] == "" {
			t.Errorf("envelope missing message or timestamp: %v", body)
		}
		if _, err := time.Parse(time.RFC3339, body["timestamp"]); err != nil {
			t.Errorf("timestamp %q is not RFC3339: %v", body["timestamp"], err)
		}
	})

	t.Run("403 from RequireAdmin", func(t *testing.T) {
		token, _ := tokens.Issue("u1", model.RoleUser, "user@educast.com")
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		var saw *model.User
		mw.RequireAdmin(okHandler(&saw)).ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rr.Code)
		}
		body := decode(t, rr)
		if body["status"] != "error" || body["timestamp"] == "" {
			t.Errorf("envelope malformed: %v", body)
		}
	})
}
