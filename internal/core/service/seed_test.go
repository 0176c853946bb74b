package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

const seedDoc = `{
  "scoreSchema": [
    {"key": "q1", "label": "Q1", "max": 2},
    {"key": "q2", "label": "Q2"},
    {"label": "no key"}
  ],
  "candidates": [
    {"id": "a 1", "name": "Ali", "status": "مقبول", "scores": {"q1": "7", "q2": 0.5, "x": 3}, "custom": {"prevJob": "عاطل", "n": 4}},
    {"nationalId": "555", "name": "Mona", "updatedAt": "2026-02-01T10:00:00Z"},
    {"id": "a1", "name": "Dup"},
    {"name": "Anon", "status": "unknown"}
  ]
}`

func TestParseSeed(t *testing.T) {
	schema, list, err := ParseSeed([]byte(seedDoc))
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}

	if len(schema) != 2 || schema[1].Max != 1 {
		t.Fatalf("unexpected schema %+v", schema)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(list))
	}

	ali := list[0]
	if ali.ID != "a1" || ali.NationalID != "a1" || ali.Status != domain.StatusAccepted {
		t.Fatalf("unexpected first candidate %+v", ali)
	}
	if ali.Scores["q1"] != 2 || ali.Scores["q2"] != 0.5 || ali.Scores["x"] != 3 {
		t.Fatalf("unexpected scores %+v", ali.Scores)
	}
	if ali.Custom["prevJob"] != "عاطل" || ali.Custom["n"] != "4" {
		t.Fatalf("unexpected custom values %+v", ali.Custom)
	}

	mona := list[1]
	if mona.ID != "555" || mona.UpdatedAt == nil || mona.Scores["q1"] != 0 {
		t.Fatalf("unexpected second candidate %+v", mona)
	}

	if list[2].ID == "a1" || list[2].ID == "" {
		t.Fatalf("duplicate id should be regenerated, got %q", list[2].ID)
	}
	if list[3].ID == "" || list[3].Status != domain.StatusPending {
		t.Fatalf("unexpected anonymous candidate %+v", list[3])
	}
}

func TestParseSeed_EmptyAndInvalid(t *testing.T) {
	schema, list, err := ParseSeed(nil)
	if err != nil || len(schema) != 0 || len(list) != 0 {
		t.Fatalf("expected empty seed, got %v %v %v", schema, list, err)
	}
	if _, _, err := ParseSeed([]byte("{oops")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, list, err = ParseSeed([]byte(`{"candidates": "nope"}`))
	if err != nil || len(list) != 0 {
		t.Fatalf("non-array candidates should be ignored, got %v %v", list, err)
	}
}

func TestSeeder_RunsOnce(t *testing.T) {
	store, kv := newTestStore()
	seeder := NewSeeder(store, zerolog.Nop())
	ctx := context.Background()

	seeded, err := seeder.SeedIfNeeded(ctx, []byte(seedDoc))
	if err != nil || !seeded {
		t.Fatalf("first seed: seeded=%v err=%v", seeded, err)
	}
	if got := store.Candidates(ctx); len(got) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(got))
	}
	if _, ok := kv.data[KeyUsers]; !ok {
		t.Fatalf("expected default users written")
	}
	if _, ok := kv.data[KeyFields]; !ok {
		t.Fatalf("expected default fields written")
	}

	_ = store.SaveCandidates(ctx, []domain.Candidate{})
	seeded, err = seeder.SeedIfNeeded(ctx, []byte(seedDoc))
	if err != nil || seeded {
		t.Fatalf("second seed: seeded=%v err=%v", seeded, err)
	}
	if got := store.Candidates(ctx); len(got) != 0 {
		t.Fatalf("seeding must not run twice, got %d candidates", len(got))
	}
}

func TestSeeder_FailedWriteCanRetry(t *testing.T) {
	store, kv := newTestStore()
	seeder := NewSeeder(store, zerolog.Nop())
	ctx := context.Background()
	kv.failSet[KeySeeded] = true

	if _, err := seeder.SeedIfNeeded(ctx, []byte(seedDoc)); !errors.Is(err, errStubWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
	delete(kv.failSet, KeySeeded)
	seeded, err := seeder.SeedIfNeeded(ctx, []byte(seedDoc))
	if err != nil || !seeded {
		t.Fatalf("retry: seeded=%v err=%v", seeded, err)
	}
}
