package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

// Storage keys.
const (
	KeyAudit      = "hi_audit_log"
	KeyFields     = "hi_custom_fields"
	KeyUsers      = "hi_users"
	KeySession    = "hi_session"
	KeyTokens     = "hi_tokens"
	KeyCandidates = "hi_candidates"
	KeySchema     = "hi_score_schema"
	KeySeeded     = "hi_seeded_v1"
)

// Store maps the application state onto a KVStore. Reads never fail: an
// absent, unreadable or unparsable value yields the fallback. Writes are
// whole-value replacements, so a failed write leaves the previous value.
// Read-modify-write paths read through the ForUpdate variants, which return
// an error instead of a fallback that the write would then persist.
type Store struct {
	kv  ports.KVStore
	log zerolog.Logger
	mu  sync.Mutex
}

func NewStore(kv ports.KVStore, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Update runs fn while holding the store lock. Read-modify-write sequences
// go through Update so concurrent requests cannot interleave.
func (s *Store) Update(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("store read failed, using fallback")
		}
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("stored value unparsable, using fallback")
		return fallback
	}
	return v
}

// loadForUpdate is load for read-modify-write paths: only an absent key takes
// the fallback, anything unreadable is an error.
func loadForUpdate[T any](ctx context.Context, s *Store, key string, fallback T) (T, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback, fmt.Errorf("%w: %s: %v", domain.ErrCorruptValue, key, err)
	}
	return v, nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *Store) Users(ctx context.Context) []domain.User {
	return load(ctx, s, KeyUsers, domain.DefaultUsers())
}

func (s *Store) UsersForUpdate(ctx context.Context) ([]domain.User, error) {
	return loadForUpdate(ctx, s, KeyUsers, domain.DefaultUsers())
}

func (s *Store) SaveUsers(ctx context.Context, users []domain.User) error {
	return s.save(ctx, KeyUsers, users)
}

// Candidates returns the stored candidates, or an empty list when the value
// is absent or unreadable.
func (s *Store) Candidates(ctx context.Context) []domain.Candidate {
	list, err := s.loadCandidates(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("key", KeyCandidates).Msg("stored value unparsable, using fallback")
		return []domain.Candidate{}
	}
	return list
}

// CandidatesForUpdate is Candidates for read-modify-write paths. A value that
// exists but cannot be read is an error, so the write that follows never
// replaces it with a fallback.
func (s *Store) CandidatesForUpdate(ctx context.Context) ([]domain.Candidate, error) {
	return s.loadCandidates(ctx)
}

// loadCandidates decodes the list one record at a time. A record whose
// fields do not match the typed form (a numeric age, say) is read the lenient
// way the seed import reads it instead of discarding the whole list.
func (s *Store) loadCandidates(ctx context.Context) ([]domain.Candidate, error) {
	raw, err := s.kv.Get(ctx, KeyCandidates)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return []domain.Candidate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyCandidates, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", domain.ErrCorruptValue, KeyCandidates)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: %s is not a list", domain.ErrCorruptValue, KeyCandidates)
	}

	list := []domain.Candidate{}
	for i, item := range root.Array() {
		if !item.IsObject() {
			s.log.Warn().Int("index", i).Msg("skipping stored candidate that is not an object")
			continue
		}
		var c domain.Candidate
		if err := json.Unmarshal([]byte(item.Raw), &c); err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("stored candidate mistyped, decoding leniently")
			c = seedCandidate(item, nil)
		}
		c.Normalize()
		list = append(list, c)
	}
	return list, nil
}

func (s *Store) SaveCandidates(ctx context.Context, list []domain.Candidate) error {
	return s.save(ctx, KeyCandidates, list)
}

func (s *Store) Schema(ctx context.Context) domain.Schema {
	return load(ctx, s, KeySchema, domain.Schema{})
}

func (s *Store) SaveSchema(ctx context.Context, schema domain.Schema) error {
	return s.save(ctx, KeySchema, schema)
}

func (s *Store) Fields(ctx context.Context) []domain.CustomField {
	return load(ctx, s, KeyFields, domain.DefaultFields())
}

func (s *Store) FieldsForUpdate(ctx context.Context) ([]domain.CustomField, error) {
	return loadForUpdate(ctx, s, KeyFields, domain.DefaultFields())
}

func (s *Store) SaveFields(ctx context.Context, fields []domain.CustomField) error {
	return s.save(ctx, KeyFields, fields)
}

func (s *Store) Audit(ctx context.Context) []domain.AuditEntry {
	return load(ctx, s, KeyAudit, []domain.AuditEntry{})
}

func (s *Store) SaveAudit(ctx context.Context, entries []domain.AuditEntry) error {
	return s.save(ctx, KeyAudit, entries)
}

// Session returns the persisted session, or nil.
func (s *Store) Session(ctx context.Context) *domain.Session {
	return load[*domain.Session](ctx, s, KeySession, nil)
}

func (s *Store) SaveSession(ctx context.Context, session domain.Session) error {
	return s.save(ctx, KeySession, session)
}

func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeySession); err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Tokens returns the issued tokens. An unreadable value signs everyone out.
func (s *Store) Tokens(ctx context.Context) []domain.IssuedToken {
	return load(ctx, s, KeyTokens, []domain.IssuedToken{})
}

func (s *Store) SaveTokens(ctx context.Context, tokens []domain.IssuedToken) error {
	return s.save(ctx, KeyTokens, tokens)
}

// RevokeTokens drops every issued token matching revoke, along with any that
// have expired by now. Callers hold the Update lock.
func (s *Store) RevokeTokens(ctx context.Context, now time.Time, revoke func(domain.IssuedToken) bool) error {
	current := s.Tokens(ctx)
	kept := make([]domain.IssuedToken, 0, len(current))
	for _, t := range current {
		if t.Live(now) && !revoke(t) {
			kept = append(kept, t)
		}
	}
	return s.SaveTokens(ctx, kept)
}

func (s *Store) Seeded(ctx context.Context) bool {
	return load(ctx, s, KeySeeded, false)
}

func (s *Store) MarkSeeded(ctx context.Context) error {
	return s.save(ctx, KeySeeded, true)
}
