package ports

import (
	"context"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// AuditService keeps the capped, newest-first action log.
type AuditService interface {
	Record(ctx context.Context, actor *domain.Session, action domain.AuditAction, target, details string) error
	List(ctx context.Context, actor *domain.Session) ([]domain.AuditEntry, error)
	Clear(ctx context.Context, actor *domain.Session) error
}
