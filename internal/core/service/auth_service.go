package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// maxIssuedTokens bounds the issued-token list; the oldest live tokens are
// dropped first.
const maxIssuedTokens = 500

// AuthService implements login, logout and per-request session resolution.
type AuthService struct {
	store     *Store
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string
}

func NewAuthService(store *Store, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:     store,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	var found *domain.User
	for _, u := range s.store.Users(ctx) {
		if u.Username == username && passwordMatches(u.Password, password) {
			found = &u
			break
		}
	}
	if found == nil {
		s.log.Info().Str("username", username).Msg("login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	session := domain.Session{Username: found.Username, Role: found.Role, TokenID: s.newID()}
	issued := domain.IssuedToken{ID: session.TokenID, Username: session.Username, ExpiresAt: now.Add(s.tokenTTL)}

	token, err := s.generateToken(session, issued.ExpiresAt)
	if err != nil {
		return "", nil, err
	}

	err = s.store.Update(func() error {
		current := s.store.Tokens(ctx)
		tokens := make([]domain.IssuedToken, 0, len(current)+1)
		for _, t := range current {
			if t.Live(now) {
				tokens = append(tokens, t)
			}
		}
		tokens = append(tokens, issued)
		if len(tokens) > maxIssuedTokens {
			tokens = tokens[len(tokens)-maxIssuedTokens:]
		}
		if err := s.store.SaveTokens(ctx, tokens); err != nil {
			return err
		}
		return s.store.SaveSession(ctx, session)
	})
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", session.Username).Str("role", string(session.Role)).Msg("login")
	return token, &session, nil
}

// Authenticate resolves a verified token to the session it stands for. The
// token must still be on the issued list and its user must still exist; the
// role is read from the user list, so role changes apply on the next request.
func (s *AuthService) Authenticate(ctx context.Context, username, tokenID string) (*domain.Session, error) {
	if username == "" || tokenID == "" {
		return nil, domain.ErrSessionRevoked
	}

	now := s.now()
	issued := false
	for _, t := range s.store.Tokens(ctx) {
		if t.ID == tokenID && t.Username == username && t.Live(now) {
			issued = true
			break
		}
	}
	if !issued {
		return nil, domain.ErrSessionRevoked
	}

	for _, u := range s.store.Users(ctx) {
		if u.Username == username {
			return &domain.Session{Username: u.Username, Role: u.Role, TokenID: tokenID}, nil
		}
	}
	s.log.Info().Str("username", username).Msg("token of a removed user rejected")
	return nil, domain.ErrSessionRevoked
}

// Logout revokes tokenID once confirmed. The persisted session is cleared
// when it belongs to that token.
func (s *AuthService) Logout(ctx context.Context, tokenID string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, nil
	}
	err := s.store.Update(func() error {
		if err := s.store.RevokeTokens(ctx, s.now(), func(t domain.IssuedToken) bool {
			return t.ID == tokenID
		}); err != nil {
			return err
		}
		if current := s.store.Session(ctx); current != nil && current.TokenID != "" && current.TokenID != tokenID {
			return nil
		}
		return s.store.ClearSession(ctx)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) generateToken(session domain.Session, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"username": session.Username,
		"role":     string(session.Role),
		"jti":      session.TokenID,
		"exp":      expires.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// passwordMatches compares plaintext, or bcrypt when the stored value is a
// bcrypt hash.
func passwordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
