package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

type stubAuthService struct {
	loginFn        func(ctx context.Context, username, password string) (string, *domain.Session, error)
	authenticateFn func(ctx context.Context, username, tokenID string) (*domain.Session, error)
	logoutFn       func(ctx context.Context, tokenID string, confirmed bool) (bool, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, tokenID string) (*domain.Session, error) {
	return s.authenticateFn(ctx, username, tokenID)
}

func (s *stubAuthService) Logout(ctx context.Context, tokenID string, confirmed bool) (bool, error) {
	return s.logoutFn(ctx, tokenID, confirmed)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, username string, role domain.Role) {
	c.Set("username", username)
	c.Set("role", string(role))
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Session, error) {
			if username != "admin" || password != "admin" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.Session{Username: "admin", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"admin","password":"admin"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	session, ok := resp["session"].(map[string]any)
	if !ok || session["username"] != "admin" || session["role"] != "Administrator" {
		t.Fatalf("unexpected session payload: %+v", resp["session"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Session, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"username":"admin","password":"bad"}`)
	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Session, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/login", "not-json")
	if code := httpStatus(t, handler.Login(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "confirmed", body: `{"confirmed":true}`, want: true},
		{name: "cancelled", body: `{"confirmed":false}`, want: false},
		{name: "empty body", body: `{}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAuthService{
				logoutFn: func(ctx context.Context, tokenID string, confirmed bool) (bool, error) {
					if tokenID != "tok-1" {
						t.Fatalf("expected the caller's token id, got %q", tokenID)
					}
					return confirmed, nil
				},
			}
			c, rec := newJSONContext(http.MethodPost, "/auth/logout", tt.body)
			withClaims(c, "admin", domain.RoleAdmin)
			c.Set("token_id", "tok-1")
			if err := NewAuthHandler(stub).Logout(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			var resp logoutResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.LoggedOut != tt.want {
				t.Fatalf("expected logged_out=%v, got %v", tt.want, resp.LoggedOut)
			}
		})
	}
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, tokenID string, confirmed bool) (bool, error) {
			t.Fatalf("should not be called")
			return false, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/logout", `{"confirmed":true}`)
	if code := httpStatus(t, NewAuthHandler(stub).Logout(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	tests := []struct {
		name     string
		username string
		role     domain.Role
		view     string
	}{
		{name: "anonymous", view: "intro"},
		{name: "resumed", username: "sara", role: domain.RoleReviewer, view: "dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodGet, "/auth/session", "")
			if tt.username != "" {
				withClaims(c, tt.username, tt.role)
			}
			if err := NewAuthHandler(&stubAuthService{}).Session(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["view"] != tt.view {
				t.Fatalf("expected view %q, got %v", tt.view, resp["view"])
			}
			session, _ := resp["session"].(map[string]any)
			if tt.username == "" && resp["session"] != nil {
				t.Fatalf("anonymous caller must not see a session, got %v", resp["session"])
			}
			if tt.username != "" && (session == nil || session["username"] != tt.username) {
				t.Fatalf("unexpected session payload: %v", resp["session"])
			}
		})
	}
}
