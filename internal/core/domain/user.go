package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Role is the permission tier of a user.
type Role string

const (
	RoleAdmin    Role = "Administrator"
	RoleReviewer Role = "Reviewer"
	RoleReader   Role = "Reader"
)

// roleAliases accepts the lowercase and Arabic labels found in older stored
// data alongside the canonical names.
var roleAliases = map[string]Role{
	"administrator": RoleAdmin,
	"admin":         RoleAdmin,
	"مدير النظام":   RoleAdmin,
	"reviewer":      RoleReviewer,
	"مراجع":         RoleReviewer,
	"reader":        RoleReader,
	"قارئ":          RoleReader,
}

// ParseRole resolves a role name or one of its aliases.
func ParseRole(s string) (Role, bool) {
	r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

// Roles lists the assignable roles in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleReviewer, RoleReader}
}

// UnmarshalJSON normalizes aliases; unknown roles decode as Reader.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, ok := ParseRole(s)
	if !ok {
		parsed = RoleReader
	}
	*r = parsed
	return nil
}

// User is an account allowed to sign in.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// DefaultUsers is the account list written on first start.
func DefaultUsers() []User {
	return []User{{Username: "admin", Password: "admin", Role: RoleAdmin}}
}

// Session is the authenticated actor. TokenID names the token the session
// was issued with; it is empty for sessions built outside a login.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	TokenID  string `json:"tokenId,omitempty"`
}

// IssuedToken is a token handed out at login. A token is honoured only while
// its record exists and has not expired.
type IssuedToken struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Live reports whether the token is still valid at now.
func (t IssuedToken) Live(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

// IsAdmin reports whether the session may administer users, fields and the audit log.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// CanEdit reports whether the session may create and save candidates.
func (s *Session) CanEdit() bool {
	return s != nil && (s.Role == RoleAdmin || s.Role == RoleReviewer)
}

// Name returns the username, or "system" for a nil session.
func (s *Session) Name() string {
	if s == nil || s.Username == "" {
		return "system"
	}
	return s.Username
}
