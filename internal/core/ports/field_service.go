package ports

import (
	"context"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// FieldInput carries the field-config form. An empty Key creates a new field.
type FieldInput struct {
	Key     string
	Label   string
	Type    string
	Options []string
}

type FieldService interface {
	ListFields(ctx context.Context) ([]domain.CustomField, error)
	SaveField(ctx context.Context, actor *domain.Session, input FieldInput) (*domain.CustomField, error)
	DeleteField(ctx context.Context, actor *domain.Session, key string) error
}
