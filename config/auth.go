package config

import (
	"fmt"
	"strings"
	"time"

	domainauth "github.com/ai-ikigai/admin-dashboard/internal/domain/auth"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

const defaultSessionTTL = 8 * time.Hour

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"ikigai-admin"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	GroupsClaim  string `env:"GROUPS_CLAIM"  envDefault:"groups"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-admin"`
	Name   string   `env:"NAME"    envDefault:"Admin Dev"`
	Email  string   `env:"EMAIL"   envDefault:"admin@ai-ikigai.com"`
	Groups []string `env:"GROUPS"                                  envSeparator:";"`

	// Role grants the group mapped to that role on top of Groups
	// (super_admin, admin, readonly_admin, user).
	Role string `env:"ROLE" envDefault:"admin"`

	// AccessToken is forwarded to the backend as the bearer credential.
	AccessToken string `env:"ACCESS_TOKEN"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SuperAdminGroup is the IdP group granting the super admin role.
	SuperAdminGroup string `env:"SUPER_ADMIN_GROUP"`

	// AdminGroup is the IdP group granting the admin role.
	AdminGroup string `env:"ADMIN_GROUP,required"`

	// ReadonlyAdminGroup is the IdP group granting read-only admin access.
	ReadonlyAdminGroup string `env:"READONLY_ADMIN_GROUP"`

	// SessionTTL bounds how long a session lives when the IdP gives no expiry.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`
}

// Sanitize trims group names and restores a positive session TTL.
func (c *AuthConfig) Sanitize() {
	c.SuperAdminGroup = strings.TrimSpace(c.SuperAdminGroup)
	c.AdminGroup = strings.TrimSpace(c.AdminGroup)
	c.ReadonlyAdminGroup = strings.TrimSpace(c.ReadonlyAdminGroup)
	c.OAuth.DiscoveryURL = strings.TrimSpace(c.OAuth.DiscoveryURL)
	c.DevAuth.Role = strings.ToLower(strings.TrimSpace(c.DevAuth.Role))
	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}
}

// DevGroups returns the dev identity's groups including the group of DevAuth.Role.
func (c *AuthConfig) DevGroups() []string {
	groups := make([]string, 0, len(c.DevAuth.Groups)+1)
	for _, g := range c.DevAuth.Groups {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	var roleGroup string
	switch domainauth.Role(c.DevAuth.Role) {
	case domainauth.RoleSuperAdmin:
		roleGroup = c.SuperAdminGroup
	case domainauth.RoleAdmin:
		roleGroup = c.AdminGroup
	case domainauth.RoleReadonlyAdmin:
		roleGroup = c.ReadonlyAdminGroup
	case domainauth.RoleUser:
		roleGroup = "users"
	}
	if roleGroup != "" {
		groups = append(groups, roleGroup)
	}
	return groups
}
