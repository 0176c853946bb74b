package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

const (
	titleBase       = "مقابلات الصحة"
	titleLogin      = titleBase + ": تسجيل الدخول"
	titleDashboard  = titleBase + ": لوحة التحكم"
	titleCandidates = titleBase + ": قائمة المرشحين"
	titleAudit      = titleBase + ": المراقبة"
	titleControl    = titleBase + ": التحكم"
	titleAdmin      = titleBase + ": الإدارة"

	latestOnDashboard = 5
)

// ViewService resolves navigation tokens and renders the target screen.
type ViewService struct {
	store   *Store
	mention string
	log     zerolog.Logger
}

func NewViewService(store *Store, mention string, log zerolog.Logger) *ViewService {
	return &ViewService{store: store, mention: mention, log: log}
}

func (s *ViewService) Open(ctx context.Context, session *domain.Session, req ports.ViewRequest) (*ports.Page, error) {
	candidates := s.store.Candidates(ctx)
	exists := func(id string) bool {
		_, ok := findCandidate(candidates, id)
		return ok
	}

	nav := domain.Transition(session, req.Token, exists)
	if nav.Redirected {
		s.log.Debug().Str("token", req.Token).Str("view", string(nav.View)).Str("notice", string(nav.Notice)).Msg("navigation redirected")
	}

	page := &ports.Page{Navigation: nav}
	schema := s.store.Schema(ctx)

	switch nav.View {
	case domain.ViewLogin:
		page.Title = titleLogin
	case domain.ViewIntro:
		page.Title = titleBase
	case domain.ViewDashboard:
		page.Title = titleDashboard
		page.Dashboard = RenderDashboard(candidates, schema)
	case domain.ViewCandidates:
		page.Title = titleCandidates
		page.Candidates = RenderCandidateList(candidates, schema, session, req.Text, req.Status)
	case domain.ViewCandidate:
		c, _ := findCandidate(candidates, nav.CandidateID)
		page.Title = candidateTitle(c)
		page.Candidate = RenderCandidateDetail(c, schema, s.store.Fields(ctx), session, s.mention)
	case domain.ViewAdmin:
		page.Title = titleAdmin
		page.Users = RenderAdminUsers(s.store.Users(ctx), session)
	case domain.ViewAudit:
		page.Title = titleAudit
		page.Audit = &ports.AuditLogView{Entries: s.store.Audit(ctx)}
	case domain.ViewControl:
		page.Title = titleControl
		page.Fields = RenderFieldConfig(s.store.Fields(ctx))
	}
	return page, nil
}

func candidateTitle(c domain.Candidate) string {
	name := c.Name
	if name == "" {
		name = c.NationalID
	}
	if name == "" {
		name = c.ID
	}
	return titleBase + ": ملف المرشح (" + name + ")"
}

// RenderDashboard counts candidates per status and lists the latest updates.
func RenderDashboard(list []domain.Candidate, schema domain.Schema) *ports.DashboardView {
	v := &ports.DashboardView{Total: len(list), Latest: []ports.CandidateCard{}}
	for _, c := range list {
		switch c.Status {
		case domain.StatusAccepted:
			v.Accepted++
		case domain.StatusRejected:
			v.Rejected++
		default:
			v.Pending++
		}
	}
	for _, c := range latestUpdated(list, latestOnDashboard) {
		v.Latest = append(v.Latest, toCard(c, schema))
	}
	return v
}

func RenderCandidateList(list []domain.Candidate, schema domain.Schema, session *domain.Session, text, status string) *ports.CandidateListView {
	if strings.TrimSpace(status) == "" {
		status = domain.StatusAll
	}
	v := &ports.CandidateListView{
		Text:    text,
		Status:  status,
		Cards:   []ports.CandidateCard{},
		CanEdit: session.CanEdit(),
	}
	for _, c := range filterCandidates(list, ports.CandidateFilter{Text: text, Status: status}) {
		v.Cards = append(v.Cards, toCard(c, schema))
	}
	return v
}

// RenderCandidateDetail splits custom values into those of defined fields, in
// field order, and orphaned values whose field no longer exists.
func RenderCandidateDetail(c domain.Candidate, schema domain.Schema, fields []domain.CustomField, session *domain.Session, mention string) *ports.CandidateDetailView {
	v := &ports.CandidateDetailView{
		Candidate: toCard(c, schema),
		MaxTotal:  schema.MaxTotal(),
		Schema:    schema,
		Custom:    make([]ports.CustomValue, 0, len(fields)),
		Summary:   BuildSummary(c, schema, fields, mention),
		CanEdit:   session.CanEdit(),
		CanDelete: session.IsAdmin(),
	}

	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Key] = true
		v.Custom = append(v.Custom, ports.CustomValue{CustomField: f, Value: c.Custom[f.Key]})
	}
	for k, val := range c.Custom {
		if known[k] {
			continue
		}
		if v.Orphaned == nil {
			v.Orphaned = map[string]string{}
		}
		v.Orphaned[k] = val
	}
	return v
}

// RenderAdminUsers flags the caller's own row; role and delete controls are
// disabled there.
func RenderAdminUsers(users []domain.User, session *domain.Session) *ports.AdminUsersView {
	v := &ports.AdminUsersView{Users: make([]ports.UserRow, 0, len(users)), Roles: domain.Roles()}
	for _, u := range users {
		v.Users = append(v.Users, ports.UserRow{
			Username: u.Username,
			Role:     u.Role,
			Self:     session != nil && u.Username == session.Username,
		})
	}
	return v
}

func RenderFieldConfig(fields []domain.CustomField) *ports.FieldConfigView {
	v := &ports.FieldConfigView{Fields: make([]ports.FieldRow, 0, len(fields))}
	for _, f := range fields {
		v.Fields = append(v.Fields, ports.FieldRow{CustomField: f, OptionCount: len(f.Options)})
	}
	return v
}
