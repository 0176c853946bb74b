package domain

import (
	"net/url"
	"strings"
)

// View is a screen of the application.
type View string

const (
	ViewIntro      View = "intro"
	ViewLogin      View = "login"
	ViewDashboard  View = "dashboard"
	ViewCandidates View = "candidates"
	ViewCandidate  View = "candidate"
	ViewAdmin      View = "admin"
	ViewAudit      View = "audit"
	ViewControl    View = "control"
)

// Navigation tokens.
const (
	TokenDashboard  = "#/dashboard"
	TokenCandidates = "#/candidates"
	TokenCandidate  = "#/candidate/"
	TokenAdmin      = "#/admin"
	TokenAudit      = "#/audit"
	TokenControl    = "#/control"
)

// Notice explains why a navigation was redirected.
type Notice string

const (
	NoticeNone         Notice = ""
	NoticeLoginNeeded  Notice = "login_required"
	NoticeAdminOnly    Notice = "admin_only"
	NoticeNotFound     Notice = "candidate_not_found"
	NoticeUnknownRoute Notice = "unknown_route"
)

// Navigation is the outcome of resolving a token.
type Navigation struct {
	View        View   `json:"view"`
	CandidateID string `json:"candidate_id,omitempty"`
	Token       string `json:"token"`
	Redirected  bool   `json:"redirected"`
	Notice      Notice `json:"notice,omitempty"`
}

// Token rebuilds the canonical token for a view.
func (v View) Token(candidateID string) string {
	switch v {
	case ViewCandidates:
		return TokenCandidates
	case ViewCandidate:
		return TokenCandidate + url.PathEscape(candidateID)
	case ViewAdmin:
		return TokenAdmin
	case ViewAudit:
		return TokenAudit
	case ViewControl:
		return TokenControl
	case ViewDashboard:
		return TokenDashboard
	default:
		return ""
	}
}

// AdminOnly reports whether only administrators may open the view.
func (v View) AdminOnly() bool {
	return v == ViewAdmin || v == ViewAudit || v == ViewControl
}

// InitialView is where a fresh start lands.
func InitialView(s *Session) View {
	if s == nil {
		return ViewIntro
	}
	return ViewDashboard
}

// Transition resolves token for the session. exists reports whether a
// candidate id resolves; it is consulted only for candidate-detail tokens.
func Transition(s *Session, token string, exists func(id string) bool) Navigation {
	if s == nil {
		return Navigation{View: ViewLogin, Token: token, Redirected: true, Notice: NoticeLoginNeeded}
	}

	view, id, known := parseToken(strings.TrimSpace(token))
	if !known {
		nav := Navigation{View: ViewDashboard, Token: TokenDashboard}
		if token != "" && token != "#" && token != "#/" {
			nav.Redirected = true
			nav.Notice = NoticeUnknownRoute
		}
		return nav
	}

	if view.AdminOnly() && !s.IsAdmin() {
		return Navigation{View: ViewDashboard, Token: TokenDashboard, Redirected: true, Notice: NoticeAdminOnly}
	}

	if view == ViewCandidate {
		if id == "" || exists == nil || !exists(id) {
			return Navigation{View: ViewCandidates, Token: TokenCandidates, Redirected: true, Notice: NoticeNotFound}
		}
		return Navigation{View: ViewCandidate, CandidateID: id, Token: view.Token(id)}
	}

	return Navigation{View: view, Token: view.Token("")}
}

func parseToken(token string) (View, string, bool) {
	switch {
	case strings.HasPrefix(token, TokenDashboard):
		return ViewDashboard, "", true
	case strings.HasPrefix(token, TokenCandidates):
		return ViewCandidates, "", true
	case strings.HasPrefix(token, TokenCandidate):
		raw := strings.TrimPrefix(token, TokenCandidate)
		id, err := url.PathUnescape(raw)
		if err != nil {
			id = raw
		}
		return ViewCandidate, id, true
	case strings.HasPrefix(token, TokenAudit):
		return ViewAudit, "", true
	case strings.HasPrefix(token, TokenControl):
		return ViewControl, "", true
	case strings.HasPrefix(token, TokenAdmin):
		return ViewAdmin, "", true
	}
	return "", "", false
}
