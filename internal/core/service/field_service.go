package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

// FieldService manages custom field definitions.
type FieldService struct {
	store  *Store
	audit  *AuditService
	log    zerolog.Logger
	newKey func() string
}

func NewFieldService(store *Store, audit *AuditService, log zerolog.Logger) *FieldService {
	return &FieldService{store: store, audit: audit, log: log, newKey: newFieldKey}
}

func newFieldKey() string {
	return "f_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *FieldService) ListFields(ctx context.Context) ([]domain.CustomField, error) {
	return s.store.Fields(ctx), nil
}

func (s *FieldService) SaveField(ctx context.Context, actor *domain.Session, in ports.FieldInput) (*domain.CustomField, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, fmt.Errorf("%w: field label is required", domain.ErrValidation)
	}
	fieldType := domain.FieldType(strings.TrimSpace(in.Type))
	if fieldType != domain.FieldOther {
		fieldType = domain.FieldSelect
	}
	options := make([]string, 0, len(in.Options))
	for _, o := range in.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if fieldType == domain.FieldSelect && len(options) == 0 {
		return nil, fmt.Errorf("%w: select fields need at least one option", domain.ErrValidation)
	}
	if fieldType != domain.FieldSelect {
		options = []string{}
	}

	field := domain.CustomField{Key: strings.TrimSpace(in.Key), Label: label, Type: fieldType, Options: options}
	err := s.store.Update(func() error {
		fields, err := s.store.FieldsForUpdate(ctx)
		if err != nil {
			return err
		}
		if field.Key == "" {
			field.Key = s.newKey()
			fields = append(fields, field)
			return s.store.SaveFields(ctx, fields)
		}
		for i := range fields {
			if fields[i].Key == field.Key {
				fields[i] = field
				return s.store.SaveFields(ctx, fields)
			}
		}
		return domain.ErrFieldNotFound
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, actor, domain.ActionFieldSave, domain.TargetField, field.Key)
	s.log.Info().Str("actor", actor.Name()).Str("field", field.Key).Msg("custom field saved")
	return &field, nil
}

func (s *FieldService) DeleteField(ctx context.Context, actor *domain.Session, key string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	err := s.store.Update(func() error {
		fields, err := s.store.FieldsForUpdate(ctx)
		if err != nil {
			return err
		}
		next := make([]domain.CustomField, 0, len(fields))
		for _, f := range fields {
			if f.Key != key {
				next = append(next, f)
			}
		}
		if len(next) == len(fields) {
			return domain.ErrFieldNotFound
		}
		return s.store.SaveFields(ctx, next)
	})
	if err != nil {
		return err
	}

	s.audit.record(ctx, actor, domain.ActionFieldDelete, domain.TargetField, key)
	return nil
}
