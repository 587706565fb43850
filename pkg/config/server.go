package config

import (
	"fmt"
	"strconv"
)

// ServerConfig defines the HTTP server configuration.
type ServerConfig struct {
	// Host is the listen address.
	Host string `yaml:"host,omitempty" json:"host,omitempty"`

	// Port is the listen port.
	Port int `yaml:"port,omitempty" json:"port,omitempty"`

	// AllowedOrigin is the CORS origin allowed to call the API.
	AllowedOrigin string `yaml:"allowed_origin,omitempty" json:"allowed_origin,omitempty"`
}

// SetDefaults sets default values for ServerConfig.
func (c *ServerConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.AllowedOrigin == "" {
		c.AllowedOrigin = "*"
	}
}

// Validate validates the ServerConfig.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Address returns the host:port listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}
