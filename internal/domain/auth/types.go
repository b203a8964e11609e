package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleAdmin         Role = "admin"
	RoleReadonlyAdmin Role = "readonly_admin"
	RoleUser          Role = "user"
	RoleGuest         Role = "guest"
)

// roleLabels holds the display label for each administrative role.
var roleLabels = map[Role]string{
	RoleSuperAdmin:    "Super Admin",
	RoleAdmin:         "Admin",
	RoleReadonlyAdmin: "Lecture Seule",
}

// IsAdmin reports whether the role carries the administrative capability.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleReadonlyAdmin:
		return true
	default:
		return false
	}
}

// CanMutate reports whether the role may trigger mutating actions.
func (r Role) CanMutate() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// Label returns the display label for the role, falling back to the raw value.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID      string // stable user identifier (e.g., sub)
	Name        string
	Email       string
	Groups      []string
	AccessToken string    // bearer credential forwarded to the backend API
	ExpiresAt   time.Time // absolute expiry from IdP token
}

// DisplayName returns the name when present, otherwise the email.
func (i Identity) DisplayName() string {
	if n := strings.TrimSpace(i.Name); n != "" {
		return n
	}
	return i.Email
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// IsAdmin returns the session's administrative capability flag.
func (s Session) IsAdmin() bool { return s.Role.IsAdmin() }

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// Identity projects the session back into the identity it was created from.
func (s Session) Identity() Identity {
	return Identity{
		UserID:      s.UserID,
		Name:        s.Name,
		Email:       s.Email,
		AccessToken: s.AccessToken,
		ExpiresAt:   s.ExpiresAt,
	}
}

// Initials returns up to two uppercase initials taken from the words of name,
// or of email when name is empty.
func Initials(name, email string) string {
	src := strings.TrimSpace(name)
	if src == "" {
		src = strings.TrimSpace(email)
	}
	var b strings.Builder
	count := 0
	for _, word := range strings.Split(src, " ") {
		if word == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		count++
		if count == 2 {
			break
		}
	}
	return b.String()
}
