package ports

import (
	"context"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// UserRow is one line of the user administration table. Self rows have their
// role and delete controls disabled.
type UserRow struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	Self     bool        `json:"self"`
}

// AddUserInput carries the fields of the add-user form.
type AddUserInput struct {
	Username string
	Password string
	Role     string
}

type UserService interface {
	ListUsers(ctx context.Context, actor *domain.Session) ([]UserRow, error)
	AddUser(ctx context.Context, actor *domain.Session, input AddUserInput) (*UserRow, error)
	ChangeRole(ctx context.Context, actor *domain.Session, username, role string) error
	DeleteUser(ctx context.Context, actor *domain.Session, username string) error
}
