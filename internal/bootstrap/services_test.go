package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ai-ikigai/admin-dashboard/config"
	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
)

func testAppConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Auth: config.AuthConfig{
			Mode:       config.AuthModeMock,
			AdminGroup: "admins",
			DevAuth:    config.DevAuthConfig{UserID: "dev", Email: "dev@ai-ikigai.com", Role: "admin"},
		},
		Backend: config.BackendConfig{BaseURL: "https://api.ai-ikigai.com"},
		HTTP:    config.HTTPConfig{Addr: "127.0.0.1:0"},
	}
	cfg.Sanitize()
	return cfg
}

func TestBackendOptions(t *testing.T) {
	opts, err := BackendOptions(config.BackendConfig{
		BaseURL:   "https://api.ai-ikigai.com",
		Timeout:   3 * time.Second,
		Endpoints: map[string]string{"Users": "/v2/users", "pricing-b2c": "/v2/pricing"},
	}, discardLogger())
	if err != nil {
		t.Fatalf("BackendOptions() error = %v", err)
	}
	if opts.Endpoints[dashboard.ResourceUsers] != "/v2/users" || opts.Endpoints[dashboard.ResourcePricingB2C] != "/v2/pricing" {
		t.Fatalf("unexpected endpoints %v", opts.Endpoints)
	}
	if opts.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", opts.Timeout)
	}

	if _, err = BackendOptions(config.BackendConfig{Endpoints: map[string]string{"invoices": "/x"}}, nil); err == nil {
		t.Fatalf("expected an error for an unknown resource")
	}
}

func TestNewExtractor(t *testing.T) {
	ex, err := NewExtractor(config.BackendConfig{Extract: map[string]string{"users": "data.items"}})
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	if expr, ok := ex.Expression(dashboard.ResourceUsers); !ok || expr != "data.items" {
		t.Fatalf("Expression(users) = %q, %t", expr, ok)
	}

	if _, err = NewExtractor(config.BackendConfig{Extract: map[string]string{"users": "data[["}}); err == nil {
		t.Fatalf("expected a compile error")
	}
	if _, err = NewExtractor(config.BackendConfig{Extract: map[string]string{"nope": "data"}}); err == nil {
		t.Fatalf("expected an error for an unknown resource")
	}
}

func TestNewServices(t *testing.T) {
	svcs, err := NewServices(&ServiceDeps{
		Config:      testAppConfig(),
		RedisClient: unconnectedRedis(t),
		Logger:      discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewServices() error = %v", err)
	}
	if svcs.Auth == nil || svcs.Gate == nil || svcs.Data == nil || svcs.Routers == nil || svcs.Actions == nil {
		t.Fatalf("expected every service to be built: %+v", svcs)
	}
	if svcs.Observability.MetricsSink != nil {
		t.Fatalf("metrics must stay disabled by default")
	}
}

func TestNewServicesErrors(t *testing.T) {
	if _, err := NewServices(nil); err == nil {
		t.Fatalf("expected an error without deps")
	}

	cfg := testAppConfig()
	if _, err := NewServices(&ServiceDeps{Config: cfg}); err == nil {
		t.Fatalf("expected an error without redis")
	}

	cfg.Backend.BaseURL = "ftp://api.ai-ikigai.com"
	if _, err := NewServices(&ServiceDeps{Config: cfg, RedisClient: unconnectedRedis(t)}); err == nil {
		t.Fatalf("expected an error for a non-http backend")
	}
}

func TestBuildHTTPHandlerServesHealth(t *testing.T) {
	cfg := testAppConfig()
	svcs, err := NewServices(&ServiceDeps{Config: cfg, RedisClient: unconnectedRedis(t), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewServices() error = %v", err)
	}

	h, err := BuildHTTPHandler(&HTTPServerConfig{Config: cfg, Services: svcs, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("BuildHTTPHandler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d", rec.Code)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testAppConfig()
	svcs, err := NewServices(&ServiceDeps{Config: cfg, RedisClient: unconnectedRedis(t), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewServices() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, &RunConfig{Config: cfg, Services: svcs, Logger: discardLogger()}) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
