package ports

import (
	"context"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// ViewRequest is a navigation token plus the list filter inputs.
type ViewRequest struct {
	Token  string
	Text   string
	Status string
}

// Page is a resolved navigation and its rendered view. Exactly one of the
// view fields is set, matching Navigation.View; pre-session views set none.
type Page struct {
	Navigation domain.Navigation    `json:"navigation"`
	Title      string               `json:"title"`
	Dashboard  *DashboardView       `json:"dashboard,omitempty"`
	Candidates *CandidateListView   `json:"candidates,omitempty"`
	Candidate  *CandidateDetailView `json:"candidate,omitempty"`
	Users      *AdminUsersView      `json:"users,omitempty"`
	Audit      *AuditLogView        `json:"audit,omitempty"`
	Fields     *FieldConfigView     `json:"fields,omitempty"`
}

type DashboardView struct {
	Total    int             `json:"total"`
	Accepted int             `json:"accepted"`
	Rejected int             `json:"rejected"`
	Pending  int             `json:"pending"`
	Latest   []CandidateCard `json:"latest"`
}

type CandidateListView struct {
	Text    string          `json:"text"`
	Status  string          `json:"status"`
	Cards   []CandidateCard `json:"cards"`
	CanEdit bool            `json:"can_edit"`
}

// CustomValue is a defined custom field with the candidate's value.
type CustomValue struct {
	domain.CustomField
	Value string `json:"value"`
}

type CandidateDetailView struct {
	Candidate CandidateCard     `json:"candidate"`
	MaxTotal  float64           `json:"max_total"`
	Schema    domain.Schema     `json:"schema"`
	Custom    []CustomValue     `json:"custom"`
	Orphaned  map[string]string `json:"orphaned,omitempty"`
	Summary   string            `json:"summary"`
	CanEdit   bool              `json:"can_edit"`
	CanDelete bool              `json:"can_delete"`
}

type AdminUsersView struct {
	Users []UserRow     `json:"users"`
	Roles []domain.Role `json:"roles"`
}

type AuditLogView struct {
	Entries []domain.AuditEntry `json:"entries"`
}

// FieldRow is a field definition with its option count.
type FieldRow struct {
	domain.CustomField
	OptionCount int `json:"option_count"`
}

type FieldConfigView struct {
	Fields []FieldRow `json:"fields"`
}

type ViewService interface {
	Open(ctx context.Context, session *domain.Session, req ViewRequest) (*Page, error)
}
