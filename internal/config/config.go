package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hance08/teller/internal/constants"
	"github.com/hance08/teller/internal/utils"
	"go.uber.org/zap"
)

type Config struct {
	Backend    BackendConfig `mapstructure:"backend"`
	Limits     LimitsConfig  `mapstructure:"limits"`
	Display    DisplayConfig `mapstructure:"display"`
	Server     ServerConfig  `mapstructure:"server"`
	Log        LogConfig     `mapstructure:"log"`
	ConfigPath string        `mapstructure:"-"`
}

type BackendConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ArtificialDelay time.Duration `mapstructure:"artificial_delay"`
}

// LimitsConfig holds the client-side transaction limits in whole currency units.
type LimitsConfig struct {
	MaxDepositAmount         float64 `mapstructure:"max_deposit_amount"`
	MinWithdrawalAmount      float64 `mapstructure:"min_withdrawal_amount"`
	MaxWithdrawalAmount      float64 `mapstructure:"max_withdrawal_amount"`
	MaxDailyWithdrawalTotal  float64 `mapstructure:"max_daily_withdrawal_total"`
	WithdrawalIncrement      float64 `mapstructure:"withdrawal_increment"`
	ReleaseFailedWithdrawals bool    `mapstructure:"release_failed_withdrawals"`
}

type DisplayConfig struct {
	Currency string `mapstructure:"currency"`
	Locale   string `mapstructure:"locale"`
}

type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	DatabasePath string `mapstructure:"database_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func NewDefault() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: constants.DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
		Limits: LimitsConfig{
			MaxDepositAmount:        constants.DefaultMaxDepositAmount,
			MinWithdrawalAmount:     constants.DefaultMinWithdrawalAmount,
			MaxWithdrawalAmount:     constants.DefaultMaxWithdrawalAmount,
			MaxDailyWithdrawalTotal: constants.DefaultMaxDailyWithdrawalTotal,
			WithdrawalIncrement:     constants.DefaultWithdrawalIncrement,
		},
		Display: DisplayConfig{
			Currency: constants.DefaultCurrency,
			Locale:   constants.DefaultLocale,
		},
		Server: ServerConfig{Addr: constants.DefaultAddr},
		Log:    LogConfig{Level: "warn"},
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	base, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		errs = append(errs, fmt.Errorf("backend.base_url must be an http(s) url, got %q", c.Backend.BaseURL))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, errors.New("backend.timeout can't be negative"))
	}
	if c.Backend.ArtificialDelay < 0 {
		errs = append(errs, errors.New("backend.artificial_delay can't be negative"))
	}

	limits := []struct {
		name  string
		value float64
	}{
		{"max_deposit_amount", c.Limits.MaxDepositAmount},
		{"min_withdrawal_amount", c.Limits.MinWithdrawalAmount},
		{"max_withdrawal_amount", c.Limits.MaxWithdrawalAmount},
		{"max_daily_withdrawal_total", c.Limits.MaxDailyWithdrawalTotal},
		{"withdrawal_increment", c.Limits.WithdrawalIncrement},
	}
	for _, l := range limits {
		if l.value <= 0 {
			errs = append(errs, fmt.Errorf("limits.%s must be greater than 0", l.name))
		}
	}
	if c.Limits.MinWithdrawalAmount > c.Limits.MaxWithdrawalAmount {
		errs = append(errs, errors.New("limits.min_withdrawal_amount can't exceed limits.max_withdrawal_amount"))
	}
	if c.Limits.MaxWithdrawalAmount > c.Limits.MaxDailyWithdrawalTotal {
		errs = append(errs, errors.New("limits.max_withdrawal_amount can't exceed limits.max_daily_withdrawal_total"))
	}

	if _, err := utils.NewCurrencyFormatter(c.Display.Currency, c.Display.Locale); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if _, err := zap.ParseAtomicLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}
