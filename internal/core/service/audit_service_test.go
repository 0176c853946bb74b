package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

func TestAuditService_RecordNewestFirst(t *testing.T) {
	store, _ := newTestStore()
	svc := NewAuditService(store, zerolog.Nop())
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	_ = svc.Record(ctx, adminSession, domain.ActionEdit, domain.TargetCandidate, "a")
	_ = svc.Record(ctx, nil, domain.ActionCopy, domain.TargetSummary, "b")

	entries, err := svc.List(ctx, adminSession)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Details != "b" || entries[0].Actor != "system" {
		t.Fatalf("expected newest entry by system first, got %+v", entries[0])
	}
	if entries[1].Timestamp != base.Add(time.Second).UnixMilli() {
		t.Fatalf("unexpected timestamp %d", entries[1].Timestamp)
	}
	if entries[1].FormattedTime != base.Add(time.Second).Local().Format("2006-01-02 15:04:05") {
		t.Fatalf("unexpected formatted time %q", entries[1].FormattedTime)
	}
}

func TestAuditService_CapsAtMaxEntries(t *testing.T) {
	store, _ := newTestStore()
	svc := NewAuditService(store, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i <= domain.MaxAuditEntries; i++ {
		if err := svc.Record(ctx, adminSession, domain.ActionEdit, domain.TargetCandidate, fmt.Sprint(i)); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	entries := store.Audit(ctx)
	if len(entries) != domain.MaxAuditEntries {
		t.Fatalf("expected %d entries, got %d", domain.MaxAuditEntries, len(entries))
	}
	if entries[0].Details != fmt.Sprint(domain.MaxAuditEntries) {
		t.Fatalf("expected newest entry first, got %q", entries[0].Details)
	}
	if last := entries[len(entries)-1].Details; last != "1" {
		t.Fatalf("expected oldest entry dropped, last is %q", last)
	}
}

func TestAuditService_ListAndClearAdminOnly(t *testing.T) {
	store, _ := newTestStore()
	svc := NewAuditService(store, zerolog.Nop())
	ctx := context.Background()
	_ = svc.Record(ctx, adminSession, domain.ActionEdit, domain.TargetCandidate, "x")

	if _, err := svc.List(ctx, reviewerSession); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Clear(ctx, readerSession); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(store.Audit(ctx)) != 1 {
		t.Fatalf("forbidden clear must not change the log")
	}

	for i := 0; i < 2; i++ {
		if err := svc.Clear(ctx, adminSession); err != nil {
			t.Fatalf("Clear #%d: %v", i+1, err)
		}
		if got := store.Audit(ctx); len(got) != 0 {
			t.Fatalf("expected empty log, got %d entries", len(got))
		}
	}
}

func TestAuditService_RecordFailureIsLogged(t *testing.T) {
	store, kv := newTestStore()
	svc := NewAuditService(store, zerolog.Nop())
	kv.failSet[KeyAudit] = true

	err := svc.Record(context.Background(), adminSession, domain.ActionEdit, domain.TargetCandidate, "x")
	if !errors.Is(err, errStubWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
	// The unexported helper swallows the error.
	svc.record(context.Background(), adminSession, domain.ActionEdit, domain.TargetCandidate, "x")
}
