package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ai-ikigai/admin-dashboard/config"
	"github.com/ai-ikigai/admin-dashboard/internal/adapters/authroles"
	"github.com/ai-ikigai/admin-dashboard/internal/adapters/devauth"
	"github.com/ai-ikigai/admin-dashboard/internal/adapters/oidc"
	redisadapter "github.com/ai-ikigai/admin-dashboard/internal/adapters/redis"
	"github.com/ai-ikigai/admin-dashboard/internal/ports"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth          config.AuthConfig
	SessionPrefix string
	RedisClient   redis.UniversalClient
	Logger        *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// The dashboard cannot serve anyone without it, so every misconfiguration is an error.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client")
	}

	// Create Redis session store shared by both modes
	sessionStore := redisadapter.NewSessionStore(cfg.RedisClient, redisadapter.WithPrefix(cfg.SessionPrefix))

	provider, err := buildAuthProvider(cfg)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessionStore,
		Roles:      RoleMapper(cfg.Auth),
		SessionTTL: cfg.Auth.SessionTTL,
	}), nil
}

// RoleMapper maps IdP groups using the configured admin groups.
func RoleMapper(auth config.AuthConfig) authroles.StaticRoleMapper {
	return authroles.StaticRoleMapper{
		SuperAdminGroup:    auth.SuperAdminGroup,
		AdminGroup:         auth.AdminGroup,
		ReadonlyAdminGroup: auth.ReadonlyAdminGroup,
	}
}

//nolint:ireturn // the provider is selected at runtime from AUTH_MODE.
func buildAuthProvider(cfg AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		if cfg.Logger != nil {
			cfg.Logger.Warn("dev auth enabled; every login is granted the configured identity",
				"user_id", cfg.Auth.DevAuth.UserID,
				"role", cfg.Auth.DevAuth.Role,
			)
		}
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.Auth.DevAuth.UserID,
			Name:            cfg.Auth.DevAuth.Name,
			Email:           cfg.Auth.DevAuth.Email,
			Groups:          cfg.Auth.DevGroups(),
			AccessToken:     cfg.Auth.DevAuth.AccessToken,
			SessionDuration: cfg.Auth.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			return nil, fmt.Errorf(
				"oauth mode requires OAUTH_DISCOVERY_URL, OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET "+
					"(discovery_url_empty=%t client_id_empty=%t client_secret_empty=%t)",
				oauth.DiscoveryURL == "", oauth.ClientID == "", oauth.ClientSecret == "",
			)
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			GroupsClaim:  oauth.GroupsClaim,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}
