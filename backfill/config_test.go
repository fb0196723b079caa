package backfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"workers zero", func(c *Config) { c.Workers = 0 }, true},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, true},
		{"rate without burst", func(c *Config) { c.RateLimit = 5; c.Burst = 0 }, true},
		{"burst unused without rate", func(c *Config) { c.Burst = 0 }, false},
		{"negative timeout", func(c *Config) { c.CallTimeout = -1 }, true},
		{"zero report interval", func(c *Config) { c.ReportInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
