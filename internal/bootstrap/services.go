package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ai-ikigai/admin-dashboard/config"
	"github.com/ai-ikigai/admin-dashboard/internal/adapters/backendapi"
	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/statsd"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Auth    *service.AuthService
	Gate    *service.SessionGate
	Data    *service.DataAccess
	Routers *service.RouterRegistry
	Actions *service.Actions

	Observability ObservabilityContainer
}

// ObservabilityContainer groups metrics dependencies.
type ObservabilityContainer struct {
	// MetricsSink is nil when metrics are disabled.
	MetricsSink   statsd.Sink
	MetricsClient *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Close releases the metrics connection.
func (o ObservabilityContainer) Close() error {
	if o.MetricsClient == nil {
		return nil
	}
	return o.MetricsClient.Close()
}

// ServiceDeps contains dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	out := ObservabilityContainer{MetricsConfig: cfg.Metrics}
	if !cfg.Metrics.IsEnabled() {
		return out
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  obsLogger,
	})
	if err != nil {
		obsLogger.Error("failed to initialise statsd client", "error", err)
		return out
	}
	out.MetricsClient = client
	out.MetricsSink = client
	return out
}

// BackendOptions converts the backend configuration into client options.
// Unknown resource names are rejected so a typo cannot silently keep the
// default path.
func BackendOptions(cfg config.BackendConfig, logger *slog.Logger) (backendapi.Config, error) {
	endpoints, err := resourceMap(cfg.Endpoints, "BACKEND_ENDPOINTS")
	if err != nil {
		return backendapi.Config{}, err
	}
	return backendapi.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Endpoints: endpoints,
		Logger:    logger,
	}, nil
}

// NewExtractor compiles the configured response extraction expressions.
func NewExtractor(cfg config.BackendConfig) (*service.Extractor, error) {
	exprs, err := resourceMap(cfg.Extract, "BACKEND_EXTRACT")
	if err != nil {
		return nil, err
	}
	return service.NewExtractor(exprs)
}

func resourceMap(raw map[string]string, setting string) (map[dashboard.ResourceKind]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[dashboard.ResourceKind]string, len(raw))
	for name, v := range raw {
		kind, ok := dashboard.ParseResource(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown resource %q", setting, name)
		}
		out[kind] = v
	}
	return out, nil
}

// NewServices creates and initializes all services with their dependencies.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	observability := buildObservability(logger, cfg.Observability)

	auth, err := BuildAuthService(AuthConfig{
		Auth:          cfg.Auth,
		SessionPrefix: cfg.Redis.SessionPrefix,
		RedisClient:   deps.RedisClient,
		Logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, errors.Join(fmt.Errorf("build auth service: %w", err), observability.Close())
	}

	backendOpts, err := BackendOptions(cfg.Backend, logger)
	if err != nil {
		return ServiceContainer{}, errors.Join(err, observability.Close())
	}
	api, err := backendapi.NewClient(backendOpts)
	if err != nil {
		return ServiceContainer{}, errors.Join(fmt.Errorf("build backend client: %w", err), observability.Close())
	}
	extractor, err := NewExtractor(cfg.Backend)
	if err != nil {
		return ServiceContainer{}, errors.Join(err, observability.Close())
	}

	data := service.NewDataAccess(service.DataAccessOptions{
		API:      api,
		Sessions: auth,
		Support: service.DataAccessSupport{
			Extractor: extractor,
			Metrics:   observability.MetricsSink,
			Logger:    logger,
		},
	})
	routers := service.NewRouterRegistry(service.RouterRegistryOptions{
		Loader: data,
		Support: service.RouterSupport{
			Metrics: observability.MetricsSink,
			Logger:  logger,
		},
	})
	actions := service.NewActions(service.ActionsOptions{
		Data:     data,
		Sessions: auth,
		Support: service.ActionsSupport{
			Routers: routers,
			Metrics: observability.MetricsSink,
			Logger:  logger,
		},
	})

	logger.Info("services initialised",
		"auth_mode", cfg.Auth.Mode,
		"backend", api.BaseURL(),
		"metrics_enabled", observability.MetricsSink != nil,
	)

	return ServiceContainer{
		Auth:          auth,
		Gate:          service.NewSessionGate(service.SessionGateOptions{Sessions: auth, Logger: logger}),
		Data:          data,
		Routers:       routers,
		Actions:       actions,
		Observability: observability,
	}, nil
}
