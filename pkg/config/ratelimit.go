package config

import (
	"fmt"
	"time"
)

// RateLimitConfig defines quota and abuse-control configuration.
//
// The numeric knobs encode a rough token-estimation heuristic (roughly
// four characters per token plus a fixed prompt/response buffer). They
// are deliberately configurable rather than load-bearing precision.
type RateLimitConfig struct {
	// Enabled controls whether enforcement is active.
	// Disabled means every gate allows and status reports a full budget.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// TokenBudget is the estimated-token allowance per token window.
	TokenBudget int64 `yaml:"token_budget,omitempty" json:"token_budget,omitempty"`

	// TokenWindow is the duration of the token budget window.
	TokenWindow time.Duration `yaml:"token_window,omitempty" json:"token_window,omitempty"`

	// BurstLimit is the request allowance per burst window.
	BurstLimit int64 `yaml:"burst_limit,omitempty" json:"burst_limit,omitempty"`

	// BurstWindow is the duration of the burst window.
	BurstWindow time.Duration `yaml:"burst_window,omitempty" json:"burst_window,omitempty"`

	// LockWindow is how long an abuse lock stays in force.
	LockWindow time.Duration `yaml:"lock_window,omitempty" json:"lock_window,omitempty"`

	// FeedbackBonus is the token credit granted for a feedback submission,
	// at most once per token window.
	FeedbackBonus int64 `yaml:"feedback_bonus,omitempty" json:"feedback_bonus,omitempty"`

	// EstimateBuffer is the fixed token overhead added to pre-flight
	// estimates to cover the system prompt and expected response.
	EstimateBuffer int64 `yaml:"estimate_buffer,omitempty" json:"estimate_buffer,omitempty"`

	// CharsPerToken is the character-to-token estimation divisor.
	CharsPerToken int64 `yaml:"chars_per_token,omitempty" json:"chars_per_token,omitempty"`
}

// SetDefaults sets default values for RateLimitConfig.
func (c *RateLimitConfig) SetDefaults() {
	if c.Enabled == nil {
		c.Enabled = BoolPtr(true)
	}
	if c.TokenBudget == 0 {
		c.TokenBudget = 10000
	}
	if c.TokenWindow == 0 {
		c.TokenWindow = time.Hour
	}
	if c.BurstLimit == 0 {
		c.BurstLimit = 20
	}
	if c.BurstWindow == 0 {
		c.BurstWindow = time.Minute
	}
	if c.LockWindow == 0 {
		c.LockWindow = time.Hour
	}
	if c.FeedbackBonus == 0 {
		c.FeedbackBonus = 5000
	}
	if c.EstimateBuffer == 0 {
		c.EstimateBuffer = 2000
	}
	if c.CharsPerToken == 0 {
		c.CharsPerToken = 4
	}
}

// IsEnabled returns true if enforcement is enabled.
func (c *RateLimitConfig) IsEnabled() bool {
	return c != nil && BoolValue(c.Enabled, true)
}

// Validate validates the RateLimitConfig.
func (c *RateLimitConfig) Validate() error {
	if c.TokenBudget < 0 {
		return fmt.Errorf("token_budget must not be negative: %d", c.TokenBudget)
	}
	if c.BurstLimit < 0 {
		return fmt.Errorf("burst_limit must not be negative: %d", c.BurstLimit)
	}
	if c.FeedbackBonus < 0 {
		return fmt.Errorf("feedback_bonus must not be negative: %d", c.FeedbackBonus)
	}
	if c.CharsPerToken < 1 {
		return fmt.Errorf("chars_per_token must be positive: %d", c.CharsPerToken)
	}
	if c.TokenWindow < 0 || c.BurstWindow < 0 || c.LockWindow < 0 {
		return fmt.Errorf("windows must not be negative")
	}
	return nil
}
