package service

import (
	"context"
	"fmt"

	"github.com/hance08/teller/internal/config"
	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/utils"
	"github.com/hance08/teller/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountLoader fetches the snapshot a session starts from.
type AccountLoader interface {
	GetAccount(ctx context.Context, accountNumber int64) (model.Account, error)
}

// Gateway is the backend as the service needs it.
type Gateway interface {
	Backend
	AccountLoader
}

type Service struct {
	Engine    *validation.Engine
	Formatter *utils.CurrencyFormatter
	Config    *config.Config

	gateway Gateway
	logger  *zap.Logger
}

func NewService(cfg *config.Config, gateway Gateway, logger *zap.Logger) (*Service, error) {
	formatter, err := utils.NewCurrencyFormatter(cfg.Display.Currency, cfg.Display.Locale)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		Engine:    validation.NewEngine(LimitsFromConfig(cfg.Limits), formatter),
		Formatter: formatter,
		Config:    cfg,
		gateway:   gateway,
		logger:    logger,
	}, nil
}

func LimitsFromConfig(cfg config.LimitsConfig) validation.Limits {
	return validation.Limits{
		MaxDepositAmount:        decimal.NewFromFloat(cfg.MaxDepositAmount),
		MinWithdrawalAmount:     decimal.NewFromFloat(cfg.MinWithdrawalAmount),
		MaxWithdrawalAmount:     decimal.NewFromFloat(cfg.MaxWithdrawalAmount),
		MaxDailyWithdrawalTotal: decimal.NewFromFloat(cfg.MaxDailyWithdrawalTotal),
		WithdrawalIncrement:     decimal.NewFromFloat(cfg.WithdrawalIncrement),
	}
}

// GetAccount loads an account without starting a session.
func (s *Service) GetAccount(ctx context.Context, accountNumber int64) (model.Account, error) {
	account, err := s.gateway.GetAccount(ctx, accountNumber)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to load account %d: %w", accountNumber, err)
	}
	return account, nil
}

// OpenSession loads an account and returns a coordinator owning it.
func (s *Service) OpenSession(ctx context.Context, accountNumber int64) (*Coordinator, error) {
	account, err := s.GetAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	return NewCoordinator(account, s.Engine, s.gateway,
		WithLogger(s.logger),
		WithReleaseOnFailure(s.Config.Limits.ReleaseFailedWithdrawals),
	), nil
}

// Refresh reloads the session's account from the backend.
func (s *Service) Refresh(ctx context.Context, c *Coordinator) error {
	account, err := s.GetAccount(ctx, c.Account().AccountNumber)
	if err != nil {
		return err
	}
	c.Replace(account)
	return nil
}
