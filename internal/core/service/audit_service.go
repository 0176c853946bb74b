package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// AuditService records state-changing actions, newest first.
type AuditService struct {
	store *Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewAuditService(store *Store, log zerolog.Logger) *AuditService {
	return &AuditService{store: store, log: log, now: time.Now}
}

func (s *AuditService) Record(ctx context.Context, actor *domain.Session, action domain.AuditAction, target, details string) error {
	entry := domain.NewAuditEntry(s.now(), actor.Name(), action, target, details)

	return s.store.Update(func() error {
		list := s.store.Audit(ctx)
		next := make([]domain.AuditEntry, 0, min(len(list)+1, domain.MaxAuditEntries))
		next = append(next, entry)
		next = append(next, list...)
		if len(next) > domain.MaxAuditEntries {
			next = next[:domain.MaxAuditEntries]
		}
		return s.store.SaveAudit(ctx, next)
	})
}

func (s *AuditService) List(ctx context.Context, actor *domain.Session) ([]domain.AuditEntry, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.store.Audit(ctx), nil
}

func (s *AuditService) Clear(ctx context.Context, actor *domain.Session) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	err := s.store.Update(func() error {
		return s.store.SaveAudit(ctx, []domain.AuditEntry{})
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("actor", actor.Name()).Msg("audit log cleared")
	return nil
}

// record logs instead of failing the operation that already succeeded.
func (s *AuditService) record(ctx context.Context, actor *domain.Session, action domain.AuditAction, target, details string) {
	if err := s.Record(ctx, actor, action, target, details); err != nil {
		s.log.Warn().Err(err).Str("action", string(action)).Str("target", target).Msg("failed to record audit entry")
	}
}
