package config

// RedisConfig defines the connection to the shared counter store.
//
// The store is optional: when Addr is empty the limiter degrades to
// allow-all, which is the expected mode for local development.
type RedisConfig struct {
	// Addr is the host:port of the Redis-compatible store.
	// Empty disables the store entirely.
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`

	// Password is the store password, if required.
	Password string `yaml:"password,omitempty" json:"password,omitempty"`

	// DB is the logical database number.
	DB int `yaml:"db,omitempty" json:"db,omitempty"`
}

// SetDefaults sets default values for RedisConfig.
func (c *RedisConfig) SetDefaults() {}

// IsConfigured returns true when a store address is present.
func (c *RedisConfig) IsConfigured() bool {
	return c.Addr != ""
}
