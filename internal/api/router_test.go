package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/snimarbadr-source/health-interviews/internal/core/service"
	"github.com/snimarbadr-source/health-interviews/internal/infrastructure/db/memory"
)

const (
	testSecret = "router-test-secret"
	testSeed   = `{
  "scoreSchema": [
    {"key": "q1", "label": "Q1", "max": 2},
    {"key": "q2", "label": "Q2", "max": 3}
  ],
  "candidates": [
    {"id": "c1", "name": "Ali", "nationalId": "1029", "status": "Pending", "scores": {"q1": 1}}
  ]
}`
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	kv := memory.NewKVStore()
	store := service.NewStore(kv, log)
	if _, err := service.NewSeeder(store, log).SeedIfNeeded(ctx, []byte(testSeed)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	audit := service.NewAuditService(store, log)
	return NewRouter(Dependencies{
		Auth:       service.NewAuthService(store, testSecret, time.Hour, log),
		Candidates: service.NewCandidateService(store, audit, "@Health", log),
		Users:      service.NewUserService(store, audit, false, log),
		Audit:      audit,
		Fields:     service.NewFieldService(store, audit, log),
		Views:      service.NewViewService(store, "@Health", log),
		KV:         kv,
		Backend:    "memory",
		JWTSecret:  testSecret,
		Log:        log,
		Registry:   prometheus.NewRegistry(),
	})
}

func doRequest(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login %s: missing token (%v)", username, err)
	}
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_CandidateLifecycle(t *testing.T) {
	e := newTestRouter(t)
	admin := login(t, e, "admin", "admin")

	rec := doRequest(t, e, http.MethodGet, "/v1/candidates", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: expected 401, got %d", rec.Code)
	}

	rec = doRequest(t, e, http.MethodPost, "/v1/candidates", admin, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	id, _ := decode(t, rec)["id"].(string)
	if id == "" {
		t.Fatalf("create: missing id")
	}

	rec = doRequest(t, e, http.MethodPut, "/v1/candidates/"+id, admin, `{"name":"Mona","status":"Accepted","scores":{"q1":5,"q2":1.5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if total := decode(t, rec)["total"]; total != 3.5 {
		t.Fatalf("save: expected clamped total 3.5, got %v", total)
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/candidates?status=Accepted", admin, "")
	if got := decode(t, rec)["count"]; got != float64(1) {
		t.Fatalf("list accepted: expected 1, got %v", got)
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/candidates/"+id+"/summary", admin, "")
	if text, _ := decode(t, rec)["text"].(string); !strings.Contains(text, "Mona") {
		t.Fatalf("summary: expected name in %q", text)
	}

	rec = doRequest(t, e, http.MethodDelete, "/v1/candidates/"+id, admin, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = doRequest(t, e, http.MethodGet, "/v1/candidates/"+id, admin, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/audit", admin, "")
	if got := decode(t, rec)["count"]; got != float64(3) {
		t.Fatalf("audit: expected create, edit and delete entries, got %v", got)
	}
}

func TestRouter_RoleEnforcement(t *testing.T) {
	e := newTestRouter(t)
	admin := login(t, e, "admin", "admin")

	rec := doRequest(t, e, http.MethodPost, "/v1/users", admin, `{"username":"reader","password":"pw","role":"Reader"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add user: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, e, http.MethodPost, "/v1/users", admin, `{"username":"reader","password":"pw"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate user: expected 409, got %d", rec.Code)
	}

	reader := login(t, e, "reader", "pw")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "read candidates", method: http.MethodGet, path: "/v1/candidates", want: http.StatusOK},
		{name: "read schema", method: http.MethodGet, path: "/v1/schema", want: http.StatusOK},
		{name: "copy summary", method: http.MethodPost, path: "/v1/candidates/c1/copy", want: http.StatusOK},
		{name: "create candidate", method: http.MethodPost, path: "/v1/candidates", want: http.StatusForbidden},
		{name: "save candidate", method: http.MethodPut, path: "/v1/candidates/c1", body: `{"name":"x"}`, want: http.StatusForbidden},
		{name: "delete candidate", method: http.MethodDelete, path: "/v1/candidates/c1", want: http.StatusForbidden},
		{name: "list users", method: http.MethodGet, path: "/v1/users", want: http.StatusForbidden},
		{name: "audit log", method: http.MethodGet, path: "/v1/audit", want: http.StatusForbidden},
		{name: "create field", method: http.MethodPost, path: "/v1/fields", body: `{"label":"x"}`, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, e, tt.method, tt.path, reader, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}

	rec = doRequest(t, e, http.MethodDelete, "/v1/users/admin", admin, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self delete: expected 403, got %d", rec.Code)
	}
}

func TestRouter_Views(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(t, e, http.MethodGet, "/v1/views?token=%23%2Fdashboard", "", "")
	nav := decode(t, rec)["navigation"].(map[string]any)
	if nav["view"] != "login" || nav["notice"] != "login_required" {
		t.Fatalf("anonymous: unexpected navigation %+v", nav)
	}

	admin := login(t, e, "admin", "admin")

	rec = doRequest(t, e, http.MethodGet, "/v1/views?token=%23%2Fcandidate%2Fc1", admin, "")
	page := decode(t, rec)
	if page["navigation"].(map[string]any)["view"] != "candidate" {
		t.Fatalf("candidate: unexpected page %+v", page)
	}
	if title, _ := page["title"].(string); !strings.Contains(title, "Ali") {
		t.Fatalf("candidate: title %q should name the candidate", title)
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/views?token=%23%2Fcandidate%2Fghost", admin, "")
	nav = decode(t, rec)["navigation"].(map[string]any)
	if nav["view"] != "candidates" || nav["notice"] != "candidate_not_found" {
		t.Fatalf("missing candidate: unexpected navigation %+v", nav)
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/views?token=%23%2Fcontrol", admin, "")
	if decode(t, rec)["fields"] == nil {
		t.Fatalf("control: expected field config view")
	}
}

func TestRouter_Session(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(t, e, http.MethodGet, "/auth/session", "", "")
	if got := decode(t, rec)["view"]; got != "intro" {
		t.Fatalf("fresh start: expected intro, got %v", got)
	}

	token := login(t, e, "admin", "admin")

	rec = doRequest(t, e, http.MethodGet, "/auth/session", "", "")
	resp := decode(t, rec)
	if resp["session"] != nil || resp["view"] != "intro" {
		t.Fatalf("anonymous caller must not resume another session, got %+v", resp)
	}

	rec = doRequest(t, e, http.MethodGet, "/auth/session", token, "")
	resp = decode(t, rec)
	if resp["view"] != "dashboard" {
		t.Fatalf("resumed: expected dashboard, got %v", resp["view"])
	}
	if session, _ := resp["session"].(map[string]any); session["username"] != "admin" {
		t.Fatalf("resumed: unexpected session %+v", resp["session"])
	}

	rec = doRequest(t, e, http.MethodPost, "/auth/logout", token, `{"confirmed":true}`)
	if got := decode(t, rec)["logged_out"]; got != true {
		t.Fatalf("logout: expected logged_out, got %v", got)
	}
	rec = doRequest(t, e, http.MethodGet, "/auth/session", token, "")
	if got := decode(t, rec)["view"]; got != "intro" {
		t.Fatalf("after logout: expected intro, got %v", got)
	}

	rec = doRequest(t, e, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", rec.Code)
	}
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "admin", "admin")

	rec := doRequest(t, e, http.MethodPost, "/auth/logout", token, `{"confirmed":false}`)
	if got := decode(t, rec)["logged_out"]; got != false {
		t.Fatalf("cancelled logout: expected logged_out false, got %v", got)
	}
	if rec := doRequest(t, e, http.MethodGet, "/v1/audit", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("cancelled logout must keep the token, got %d", rec.Code)
	}

	doRequest(t, e, http.MethodPost, "/auth/logout", token, `{"confirmed":true}`)

	rec = doRequest(t, e, http.MethodGet, "/v1/views?token=%23%2Fadmin", token, "")
	nav := decode(t, rec)["navigation"].(map[string]any)
	if nav["view"] != "login" || nav["notice"] != "login_required" {
		t.Fatalf("after logout: protected view should land on login, got %+v", nav)
	}
	for _, path := range []string{"/v1/audit", "/v1/candidates"} {
		if rec := doRequest(t, e, http.MethodGet, path, token, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s after logout: expected 401, got %d", path, rec.Code)
		}
	}
	if rec := doRequest(t, e, http.MethodPost, "/auth/logout", token, `{"confirmed":true}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("second logout: expected 401, got %d", rec.Code)
	}
}

func TestRouter_TokensFollowStoredUsers(t *testing.T) {
	e := newTestRouter(t)
	admin := login(t, e, "admin", "admin")

	for _, body := range []string{
		`{"username":"boss","password":"pw","role":"Administrator"}`,
		`{"username":"temp","password":"pw","role":"Administrator"}`,
	} {
		if rec := doRequest(t, e, http.MethodPost, "/v1/users", admin, body); rec.Code != http.StatusCreated {
			t.Fatalf("add user: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}
	boss := login(t, e, "boss", "pw")
	temp := login(t, e, "temp", "pw")

	if rec := doRequest(t, e, http.MethodGet, "/v1/audit", boss, ""); rec.Code != http.StatusOK {
		t.Fatalf("admin token: expected 200, got %d", rec.Code)
	}

	rec := doRequest(t, e, http.MethodPatch, "/v1/users/boss/role", admin, `{"role":"Reader"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("demote: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doRequest(t, e, http.MethodGet, "/v1/audit", boss, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("demoted token on audit: expected 403, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodGet, "/v1/candidates", boss, ""); rec.Code != http.StatusOK {
		t.Fatalf("demoted token can still read: expected 200, got %d", rec.Code)
	}
	rec = doRequest(t, e, http.MethodGet, "/v1/views?token=%23%2Fadmin", boss, "")
	if nav := decode(t, rec)["navigation"].(map[string]any); nav["view"] == "admin" {
		t.Fatalf("demoted token must not open the admin view, got %+v", nav)
	}

	rec = doRequest(t, e, http.MethodDelete, "/v1/users/temp", admin, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete user: expected 204, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodDelete, "/v1/candidates/c1", temp, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user's token: expected 401, got %d", rec.Code)
	}
	if rec := doRequest(t, e, http.MethodGet, "/v1/candidates/c1", admin, ""); rec.Code != http.StatusOK {
		t.Fatalf("candidate should survive the rejected delete, got %d", rec.Code)
	}
}

func TestRouter_Operations(t *testing.T) {
	e := newTestRouter(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/swagger/doc.json"} {
		rec := doRequest(t, e, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := doRequest(t, e, http.MethodGet, "/swagger/doc.json", "", "")
	if !strings.Contains(rec.Body.String(), "/v1/candidates") {
		t.Fatalf("swagger document does not describe the candidate routes")
	}
}
