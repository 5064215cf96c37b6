package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:3000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, float64(1000), cfg.Limits.MaxDepositAmount)
	assert.Equal(t, float64(5), cfg.Limits.MinWithdrawalAmount)
	assert.Equal(t, float64(200), cfg.Limits.MaxWithdrawalAmount)
	assert.Equal(t, float64(400), cfg.Limits.MaxDailyWithdrawalTotal)
	assert.Equal(t, float64(5), cfg.Limits.WithdrawalIncrement)
	assert.False(t, cfg.Limits.ReleaseFailedWithdrawals)
	assert.Equal(t, "USD", cfg.Display.Currency)
	assert.Equal(t, ":3000", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ftp base url", func(c *Config) { c.Backend.BaseURL = "ftp://bank" }, "backend.base_url"},
		{"empty base url", func(c *Config) { c.Backend.BaseURL = "" }, "backend.base_url"},
		{"negative timeout", func(c *Config) { c.Backend.Timeout = -time.Second }, "backend.timeout"},
		{"negative delay", func(c *Config) { c.Backend.ArtificialDelay = -time.Second }, "backend.artificial_delay"},
		{"zero deposit limit", func(c *Config) { c.Limits.MaxDepositAmount = 0 }, "limits.max_deposit_amount"},
		{"zero increment", func(c *Config) { c.Limits.WithdrawalIncrement = 0 }, "limits.withdrawal_increment"},
		{"min above max", func(c *Config) { c.Limits.MinWithdrawalAmount = 300 }, "limits.min_withdrawal_amount"},
		{"max above daily", func(c *Config) { c.Limits.MaxWithdrawalAmount = 500 }, "limits.max_withdrawal_amount"},
		{"bad currency", func(c *Config) { c.Display.Currency = "XXXX" }, "display"},
		{"bad locale", func(c *Config) { c.Display.Locale = "???" }, "display"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewDefault()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	cfg.Backend.BaseURL = "nope"
	cfg.Limits.MaxDepositAmount = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.base_url")
	assert.Contains(t, err.Error(), "limits.max_deposit_amount")
}
