package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

// UserService implements the user administration screen.
type UserService struct {
	store         *Store
	audit         *AuditService
	hashPasswords bool
	log           zerolog.Logger
}

// NewUserService returns a UserService. When hashPasswords is set, new
// accounts store a bcrypt hash instead of the plaintext password.
func NewUserService(store *Store, audit *AuditService, hashPasswords bool, log zerolog.Logger) *UserService {
	return &UserService{store: store, audit: audit, hashPasswords: hashPasswords, log: log}
}

func (s *UserService) ListUsers(ctx context.Context, actor *domain.Session) ([]ports.UserRow, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users := s.store.Users(ctx)
	rows := make([]ports.UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, ports.UserRow{
			Username: u.Username,
			Role:     u.Role,
			Self:     u.Username == actor.Username,
		})
	}
	return rows, nil
}

func (s *UserService) AddUser(ctx context.Context, actor *domain.Session, in ports.AddUserInput) (*ports.UserRow, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	username := strings.TrimSpace(in.Username)
	password := strings.TrimSpace(in.Password)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	role := domain.RoleReviewer
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
		}
		role = r
	}

	stored := password
	if s.hashPasswords {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		stored = string(hash)
	}

	err := s.store.Update(func() error {
		users, err := s.store.UsersForUpdate(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.Username == username {
				return domain.ErrUserExists
			}
		}
		users = append(users, domain.User{Username: username, Password: stored, Role: role})
		return s.store.SaveUsers(ctx, users)
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, actor, domain.ActionUserAdd, domain.TargetUser, username)
	s.log.Info().Str("actor", actor.Name()).Str("username", username).Str("role", string(role)).Msg("user added")
	return &ports.UserRow{Username: username, Role: role}, nil
}

func (s *UserService) ChangeRole(ctx context.Context, actor *domain.Session, username, role string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if username == actor.Username {
		return domain.ErrSelfModification
	}
	newRole, ok := domain.ParseRole(role)
	if !ok {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	err := s.store.Update(func() error {
		users, err := s.store.UsersForUpdate(ctx)
		if err != nil {
			return err
		}
		idx := indexOfUser(users, username)
		if idx < 0 {
			return domain.ErrUserNotFound
		}
		users[idx].Role = newRole
		return s.store.SaveUsers(ctx, users)
	})
	if err != nil {
		return err
	}

	s.audit.record(ctx, actor, domain.ActionRoleChange, domain.TargetUser, username+" → "+string(newRole))
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor *domain.Session, username string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if username == actor.Username {
		return domain.ErrSelfModification
	}

	err := s.store.Update(func() error {
		users, err := s.store.UsersForUpdate(ctx)
		if err != nil {
			return err
		}
		idx := indexOfUser(users, username)
		if idx < 0 {
			return domain.ErrUserNotFound
		}
		users = append(users[:idx], users[idx+1:]...)
		if err := s.store.SaveUsers(ctx, users); err != nil {
			return err
		}
		if current := s.store.Session(ctx); current != nil && current.Username == username {
			if err := s.store.ClearSession(ctx); err != nil {
				return err
			}
		}
		return s.store.RevokeTokens(ctx, time.Now(), func(t domain.IssuedToken) bool {
			return t.Username == username
		})
	})
	if err != nil {
		return err
	}

	s.audit.record(ctx, actor, domain.ActionUserDelete, domain.TargetUser, username)
	return nil
}

func indexOfUser(users []domain.User, username string) int {
	for i, u := range users {
		if u.Username == username {
			return i
		}
	}
	return -1
}
