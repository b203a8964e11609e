package config

import "strings"

// RedisConfig contains the session store connection settings. Exactly one
// topology is used: cluster, then sentinel, then a direct connection.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	SessionPrefix      string   `env:"SESSION_PREFIX"       envDefault:"ikigai-admin:session:"`
}

// Sanitize drops empty node entries and disables topologies without nodes.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	c.SentinelNodes = compact(c.SentinelNodes)
	c.ClusterNodes = compact(c.ClusterNodes)
	if c.UseCluster && len(c.ClusterNodes) == 0 {
		c.UseCluster = false
	}
	if c.UseSentinel && (len(c.SentinelNodes) == 0 || c.SentinelMasterName == "") {
		c.UseSentinel = false
	}
	if c.DB < 0 {
		c.DB = 0
	}
}

func compact(vals []string) []string {
	out := vals[:0]
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
