package client

import (
	"testing"
	"time"

	"github.com/skillsenselab/llmkit/resilience"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()
	if cfg.MaxLimiterWait != 2*time.Minute {
		t.Errorf("expected 2m default limiter wait, got %v", cfg.MaxLimiterWait)
	}

	cfg = Config{RateLimit: resilience.RateLimiterConfig{Window: 15 * time.Second}}
	cfg.applyDefaults()
	if cfg.MaxLimiterWait != 30*time.Second {
		t.Errorf("expected limiter wait of two windows, got %v", cfg.MaxLimiterWait)
	}

	cfg = Config{MaxLimiterWait: 5 * time.Second}
	cfg.applyDefaults()
	if cfg.MaxLimiterWait != 5*time.Second {
		t.Errorf("explicit limiter wait must be kept, got %v", cfg.MaxLimiterWait)
	}
}
