package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

// CandidateService implements the candidate list and detail operations.
type CandidateService struct {
	store   *Store
	audit   *AuditService
	mention string
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// NewCandidateService returns a CandidateService. mention is appended to the
// last line of every summary export; empty omits it.
func NewCandidateService(store *Store, audit *AuditService, mention string, log zerolog.Logger) *CandidateService {
	return &CandidateService{
		store:   store,
		audit:   audit,
		mention: mention,
		log:     log,
		now:     time.Now,
		newID:   newCandidateID,
	}
}

func newCandidateID() string {
	return "cand-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *CandidateService) ListCandidates(ctx context.Context, filter ports.CandidateFilter) ([]ports.CandidateCard, error) {
	schema := s.store.Schema(ctx)
	matched := filterCandidates(s.store.Candidates(ctx), filter)
	cards := make([]ports.CandidateCard, 0, len(matched))
	for _, c := range matched {
		cards = append(cards, toCard(c, schema))
	}
	return cards, nil
}

func (s *CandidateService) RecentlyUpdated(ctx context.Context, limit int) ([]ports.CandidateCard, error) {
	schema := s.store.Schema(ctx)
	updated := latestUpdated(s.store.Candidates(ctx), limit)
	cards := make([]ports.CandidateCard, 0, len(updated))
	for _, c := range updated {
		cards = append(cards, toCard(c, schema))
	}
	return cards, nil
}

func (s *CandidateService) GetCandidate(ctx context.Context, id string) (*ports.CandidateCard, error) {
	c, ok := findCandidate(s.store.Candidates(ctx), id)
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	card := toCard(c, s.store.Schema(ctx))
	return &card, nil
}

func (s *CandidateService) CreateCandidate(ctx context.Context, actor *domain.Session) (*domain.Candidate, error) {
	if !actor.CanEdit() {
		return nil, domain.ErrForbidden
	}

	var created domain.Candidate
	err := s.store.Update(func() error {
		list, err := s.store.CandidatesForUpdate(ctx)
		if err != nil {
			return err
		}
		id := s.newID()
		for _, taken := findCandidate(list, id); taken; _, taken = findCandidate(list, id) {
			id = s.newID()
		}
		created = domain.NewCandidate(id, actor.Username, s.store.Schema(ctx))
		next := make([]domain.Candidate, 0, len(list)+1)
		next = append(next, created)
		next = append(next, list...)
		return s.store.SaveCandidates(ctx, next)
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, actor, domain.ActionCreate, domain.TargetCandidate, created.ID)
	s.log.Info().Str("actor", actor.Name()).Str("candidate_id", created.ID).Msg("candidate created")
	return &created, nil
}

func (s *CandidateService) SaveCandidate(ctx context.Context, actor *domain.Session, id string, form ports.CandidateForm) (*ports.CandidateCard, error) {
	if !actor.CanEdit() {
		return nil, domain.ErrForbidden
	}

	var saved domain.Candidate
	var schema domain.Schema
	err := s.store.Update(func() error {
		list, err := s.store.CandidatesForUpdate(ctx)
		if err != nil {
			return err
		}
		idx := indexOfCandidate(list, id)
		if idx < 0 {
			return domain.ErrCandidateNotFound
		}
		schema = s.store.Schema(ctx)

		c := list[idx].Clone()
		applyForm(&c, form, schema)
		if c.Interviewer == "" {
			c.Interviewer = actor.Username
		}
		now := s.now().UTC()
		if c.UpdatedAt != nil && !now.After(*c.UpdatedAt) {
			now = c.UpdatedAt.Add(time.Millisecond)
		}
		c.UpdatedAt = &now

		next := make([]domain.Candidate, len(list))
		copy(next, list)
		next[idx] = c
		if err := s.store.SaveCandidates(ctx, next); err != nil {
			return err
		}
		saved = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, actor, domain.ActionEdit, domain.TargetCandidate, id)
	s.log.Info().Str("actor", actor.Name()).Str("candidate_id", id).Msg("candidate saved")
	card := toCard(saved, schema)
	return &card, nil
}

func (s *CandidateService) DeleteCandidate(ctx context.Context, actor *domain.Session, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	err := s.store.Update(func() error {
		list, err := s.store.CandidatesForUpdate(ctx)
		if err != nil {
			return err
		}
		idx := indexOfCandidate(list, id)
		if idx < 0 {
			return domain.ErrCandidateNotFound
		}
		next := make([]domain.Candidate, 0, len(list)-1)
		next = append(next, list[:idx]...)
		next = append(next, list[idx+1:]...)
		return s.store.SaveCandidates(ctx, next)
	})
	if err != nil {
		return err
	}

	s.audit.record(ctx, actor, domain.ActionDelete, domain.TargetCandidate, id)
	s.log.Info().Str("actor", actor.Name()).Str("candidate_id", id).Msg("candidate deleted")
	return nil
}

func (s *CandidateService) Summary(ctx context.Context, id string) (string, error) {
	c, ok := findCandidate(s.store.Candidates(ctx), id)
	if !ok {
		return "", domain.ErrCandidateNotFound
	}
	return BuildSummary(c, s.store.Schema(ctx), s.store.Fields(ctx), s.mention), nil
}

func (s *CandidateService) CopySummary(ctx context.Context, actor *domain.Session, id string) (string, error) {
	text, err := s.Summary(ctx, id)
	if err != nil {
		return "", err
	}
	s.audit.record(ctx, actor, domain.ActionCopy, domain.TargetSummary, id)
	return text, nil
}

func (s *CandidateService) Schema(ctx context.Context) (domain.Schema, error) {
	return s.store.Schema(ctx), nil
}

func applyForm(c *domain.Candidate, f ports.CandidateForm, schema domain.Schema) {
	c.Name = strings.TrimSpace(f.Name)
	c.NationalID = strings.TrimSpace(f.NationalID)
	c.Age = strings.TrimSpace(f.Age)
	c.MicQuality = strings.TrimSpace(f.MicQuality)
	c.Hours = strings.TrimSpace(f.Hours)
	c.PrevJob = strings.TrimSpace(f.PrevJob)
	c.CriminalRecord = strings.TrimSpace(f.CriminalRecord)
	c.Experience = strings.TrimSpace(f.Experience)
	c.License = strings.TrimSpace(f.License)
	c.Tattoos = strings.TrimSpace(f.Tattoos)
	c.IntentPolice = strings.TrimSpace(f.IntentPolice)
	c.NoObjectionCert = strings.TrimSpace(f.NoObjectionCert)
	c.IsFormerParamedic = strings.TrimSpace(f.IsFormerParamedic)
	c.Certificate = strings.TrimSpace(f.Certificate)
	c.Strengths = strings.TrimSpace(f.Strengths)
	c.Notes = strings.TrimSpace(f.Notes)
	c.Status = domain.ParseStatus(f.Status)

	// Only schema keys are accepted; every schema key keeps a clamped value.
	for _, item := range schema {
		v, ok := f.Scores[item.Key]
		if !ok {
			v = c.Scores[item.Key]
		}
		c.Scores[item.Key] = item.Clamp(v)
	}
	if f.Custom != nil {
		for k, v := range f.Custom {
			c.Custom[k] = strings.TrimSpace(v)
		}
	}
}

// filterCandidates matches Text against name or national id, ignoring case.
// An empty Status or "all" matches every status.
func filterCandidates(list []domain.Candidate, filter ports.CandidateFilter) []domain.Candidate {
	q := strings.ToLower(strings.TrimSpace(filter.Text))
	status := strings.TrimSpace(filter.Status)
	matchAll := status == "" || status == domain.StatusAll

	out := make([]domain.Candidate, 0, len(list))
	for _, c := range list {
		hay := strings.ToLower(c.Name + " " + c.NationalID)
		if q != "" && !strings.Contains(hay, q) {
			continue
		}
		if !matchAll && c.Status != domain.ParseStatus(status) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// latestUpdated returns candidates that were ever saved, most recent first.
func latestUpdated(list []domain.Candidate, limit int) []domain.Candidate {
	var updated []domain.Candidate
	for _, c := range list {
		if c.UpdatedAt != nil {
			updated = append(updated, c)
		}
	}
	sort.SliceStable(updated, func(i, j int) bool {
		return updated[i].UpdatedAt.After(*updated[j].UpdatedAt)
	})
	if limit > 0 && len(updated) > limit {
		updated = updated[:limit]
	}
	return updated
}

func toCard(c domain.Candidate, schema domain.Schema) ports.CandidateCard {
	return ports.CandidateCard{Candidate: c, Total: domain.ComputeTotal(c, schema)}
}

func findCandidate(list []domain.Candidate, id string) (domain.Candidate, bool) {
	if idx := indexOfCandidate(list, id); idx >= 0 {
		return list[idx], true
	}
	return domain.Candidate{}, false
}

func indexOfCandidate(list []domain.Candidate, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}
