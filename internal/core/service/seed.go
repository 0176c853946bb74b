package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// Seeder writes the initial state the first time the store is used.
type Seeder struct {
	store *Store
	log   zerolog.Logger
}

func NewSeeder(store *Store, log zerolog.Logger) *Seeder {
	return &Seeder{store: store, log: log}
}

// SeedIfNeeded imports doc (the seed JSON document, possibly empty) unless the
// store has already been seeded. It reports whether seeding happened.
func (s *Seeder) SeedIfNeeded(ctx context.Context, doc []byte) (bool, error) {
	var seeded bool
	err := s.store.Update(func() error {
		if s.store.Seeded(ctx) {
			return nil
		}
		schema, candidates, err := ParseSeed(doc)
		if err != nil {
			return err
		}
		if err := s.store.SaveSchema(ctx, schema); err != nil {
			return err
		}
		if err := s.store.SaveCandidates(ctx, candidates); err != nil {
			return err
		}
		if err := s.store.SaveUsers(ctx, domain.DefaultUsers()); err != nil {
			return err
		}
		if err := s.store.SaveFields(ctx, domain.DefaultFields()); err != nil {
			return err
		}
		if err := s.store.MarkSeeded(ctx); err != nil {
			return err
		}
		seeded = true
		s.log.Info().Int("schema_items", len(schema)).Int("candidates", len(candidates)).Msg("store seeded")
		return nil
	})
	return seeded, err
}

// ParseSeed reads {scoreSchema, candidates} leniently: numbers given as
// strings are accepted and missing fields take their defaults.
func ParseSeed(doc []byte) (domain.Schema, []domain.Candidate, error) {
	if len(strings.TrimSpace(string(doc))) == 0 {
		return domain.Schema{}, []domain.Candidate{}, nil
	}
	if !gjson.ValidBytes(doc) {
		return nil, nil, fmt.Errorf("%w: seed document is not valid JSON", domain.ErrValidation)
	}
	root := gjson.ParseBytes(doc)

	schema := domain.Schema{}
	arrayOf(root.Get("scoreSchema")).ForEach(func(_, item gjson.Result) bool {
		key := strings.TrimSpace(item.Get("key").String())
		if key == "" {
			return true
		}
		limit := 1.0
		if m := item.Get("max"); m.Exists() && m.Float() > 0 {
			limit = m.Float()
		}
		schema = append(schema, domain.ScoreItem{Key: key, Label: item.Get("label").String(), Max: limit})
		return true
	})

	candidates := []domain.Candidate{}
	seen := map[string]bool{}
	arrayOf(root.Get("candidates")).ForEach(func(_, item gjson.Result) bool {
		c := seedCandidate(item, schema)
		for seen[c.ID] {
			c.ID = safeID(uuid.NewString())
		}
		seen[c.ID] = true
		candidates = append(candidates, c)
		return true
	})

	return schema, candidates, nil
}

func seedCandidate(item gjson.Result, schema domain.Schema) domain.Candidate {
	str := func(path string) string { return strings.TrimSpace(item.Get(path).String()) }

	id := safeID(str("id"))
	if id == "" {
		id = safeID(str("nationalId"))
	}
	if id == "" {
		id = safeID(uuid.NewString())
	}
	nationalID := str("nationalId")
	if nationalID == "" {
		nationalID = id
	}

	c := domain.Candidate{
		ID:                id,
		NationalID:        nationalID,
		Name:              str("name"),
		Age:               str("age"),
		Interviewer:       str("interviewer"),
		PrevJob:           str("prevJob"),
		CriminalRecord:    str("criminalRecord"),
		Experience:        str("experience"),
		License:           str("license"),
		Tattoos:           str("tattoos"),
		IntentPolice:      str("intentPolice"),
		NoObjectionCert:   str("noObjectionCert"),
		IsFormerParamedic: str("isFormerParamedic"),
		Certificate:       str("certificate"),
		MicQuality:        str("micQuality"),
		Hours:             str("hours"),
		Strengths:         str("strengths"),
		Notes:             str("notes"),
		Status:            domain.ParseStatus(str("status")),
		Scores:            map[string]float64{},
		Custom:            map[string]string{},
	}

	if ts := str("updatedAt"); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			c.UpdatedAt = &t
		}
	}

	objectOf(item.Get("scores")).ForEach(func(k, v gjson.Result) bool {
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		c.Scores[k.String()] = f
		return true
	})
	for _, s := range schema {
		c.Scores[s.Key] = s.Clamp(c.Scores[s.Key])
	}

	objectOf(item.Get("custom")).ForEach(func(k, v gjson.Result) bool {
		c.Custom[k.String()] = v.String()
		return true
	})
	return c
}

// arrayOf and objectOf drop values of the wrong shape, since ForEach would
// otherwise visit a scalar once.
func arrayOf(r gjson.Result) gjson.Result {
	if r.IsArray() {
		return r
	}
	return gjson.Result{}
}

func objectOf(r gjson.Result) gjson.Result {
	if r.IsObject() {
		return r
	}
	return gjson.Result{}
}

// safeID strips all whitespace.
func safeID(s string) string {
	return strings.Join(strings.Fields(s), "")
}
