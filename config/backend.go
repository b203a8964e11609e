package config

import (
	"strings"
	"time"
)

const (
	defaultBackendTimeout = 10 * time.Second
	maxBackendTimeout     = 2 * time.Minute
)

// BackendConfig configures the backend resource API client.
type BackendConfig struct {
	// BaseURL is the root every resource path is resolved against.
	BaseURL string `env:"BASE_URL" envDefault:"https://ai-ikagai.dallyhermann-71e.workers.dev"`

	// Timeout bounds each backend request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// Endpoints overrides resource paths, e.g. "users:/v2/users;stats:/v2/stats".
	Endpoints map[string]string `env:"ENDPOINTS" envSeparator:";" envKeyValSeparator:":"`

	// Extract holds JMESPath expressions applied to responses, keyed by resource,
	// e.g. "users:data.items;stats:data".
	Extract map[string]string `env:"EXTRACT" envSeparator:";" envKeyValSeparator:":"`
}

// Sanitize trims values and clamps the timeout.
func (c *BackendConfig) Sanitize() {
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	switch {
	case c.Timeout <= 0:
		c.Timeout = defaultBackendTimeout
	case c.Timeout > maxBackendTimeout:
		c.Timeout = maxBackendTimeout
	}
	c.Endpoints = trimMap(c.Endpoints)
	c.Extract = trimMap(c.Extract)
}

func trimMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
