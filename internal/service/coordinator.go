package service

import (
	"context"
	"sync"

	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Backend submits a validated transaction and returns the resulting account.
type Backend interface {
	Submit(ctx context.Context, accountNumber int64, kind model.Kind, amount decimal.Decimal) (model.Account, error)
}

// Validator is satisfied by *validation.Engine.
type Validator interface {
	Validate(account model.Account, kind model.Kind, amount, dailyTotal decimal.Decimal) validation.Result
}

type CoordinatorOption func(*Coordinator)

// WithReleaseOnFailure returns a failed withdrawal's amount to the daily
// allowance. By default a failed withdrawal still counts for the session.
func WithReleaseOnFailure(release bool) CoordinatorOption {
	return func(c *Coordinator) {
		c.releaseOnFailure = release
	}
}

func WithLogger(logger *zap.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Coordinator owns the authoritative account snapshot of one session and
// the running withdrawal total. Deposit and Withdraw may run concurrently;
// the lock is never held across a backend call.
type Coordinator struct {
	mu    sync.Mutex
	state SessionState
	seq   uint64

	validator        Validator
	backend          Backend
	logger           *zap.Logger
	releaseOnFailure bool
}

func NewCoordinator(account model.Account, validator Validator, backend Backend, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		state:     newSessionState(account),
		validator: validator,
		backend:   backend,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("coordinator").With(zap.Int64("account", account.AccountNumber))
	return c
}

// Deposit validates and submits a deposit. A validation failure is returned
// as *validation.RejectedError without touching the backend.
func (c *Coordinator) Deposit(ctx context.Context, amount decimal.Decimal) (model.Account, error) {
	return c.submit(ctx, model.KindDeposit, amount)
}

// Withdraw validates and submits a withdrawal. The amount is counted against
// the daily total as soon as it is accepted.
func (c *Coordinator) Withdraw(ctx context.Context, amount decimal.Decimal) (model.Account, error) {
	return c.submit(ctx, model.KindWithdraw, amount)
}

// Outcome is the settled result of a request accepted by Start.
type Outcome struct {
	Account model.Account
	Err     error
}

// Start validates synchronously and, once the request is accepted, settles
// it in the background. A rejection is returned directly and no channel is
// created. The channel receives exactly one Outcome.
func (c *Coordinator) Start(ctx context.Context, kind model.Kind, amount decimal.Decimal) (<-chan Outcome, error) {
	log := c.logger.With(zap.String("kind", string(kind)), zap.String("amount", amount.String()))

	seq, accountNumber, rejection := c.begin(kind, amount, log)
	if rejection != nil {
		return nil, rejection
	}

	out := make(chan Outcome, 1)
	go func() {
		account, err := c.settle(ctx, kind, amount, seq, accountNumber, log)
		out <- Outcome{Account: account, Err: err}
	}()
	return out, nil
}

func (c *Coordinator) submit(ctx context.Context, kind model.Kind, amount decimal.Decimal) (model.Account, error) {
	log := c.logger.With(zap.String("kind", string(kind)), zap.String("amount", amount.String()))

	seq, accountNumber, rejection := c.begin(kind, amount, log)
	if rejection != nil {
		return c.Account(), rejection
	}

	return c.settle(ctx, kind, amount, seq, accountNumber, log)
}

// begin runs the rules against the current snapshot and, when they pass,
// marks the kind pending under a fresh sequence number.
func (c *Coordinator) begin(kind model.Kind, amount decimal.Decimal, log *zap.Logger) (uint64, int64, *validation.RejectedError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.validator.Validate(c.state.Account, kind, amount, c.state.DailyWithdrawalTotal)
	if !res.OK() {
		c.state = reject(c.state, kind, res.Rejection.Reason)
		log.Debug("transaction rejected", zap.String("rule", string(res.Rejection.Rule)))
		return 0, 0, res.Rejection
	}

	c.seq++
	c.state = beginAttempt(c.state, kind, amount, c.seq)
	log.Debug("transaction submitted", zap.Uint64("seq", c.seq))

	return c.seq, c.state.Account.AccountNumber, nil
}

func (c *Coordinator) settle(ctx context.Context, kind model.Kind, amount decimal.Decimal, seq uint64, accountNumber int64, log *zap.Logger) (model.Account, error) {
	account, err := c.backend.Submit(ctx, accountNumber, kind, amount)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = settleFailure(c.state, kind, seq, amount, err, c.releaseOnFailure)
		log.Warn("transaction failed", zap.Uint64("seq", seq), zap.Error(err))
		return c.state.Account, err
	}

	stale := seq <= c.state.appliedSeq
	c.state = settleSuccess(c.state, kind, seq, account)
	if stale {
		log.Info("discarded out-of-order response", zap.Uint64("seq", seq), zap.Uint64("applied", c.state.appliedSeq))
	} else {
		log.Info("transaction settled", zap.Uint64("seq", seq), zap.String("balance", account.Amount.String()))
	}

	return c.state.Account, nil
}

// Replace installs a snapshot loaded outside a transaction, such as a refresh.
// Responses to requests issued before the refresh are ignored afterwards.
func (c *Coordinator) Replace(account model.Account) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.state = replaceAccount(c.state, account, c.seq)
}

// State returns a copy of the current session state.
func (c *Coordinator) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Account() model.Account {
	return c.State().Account
}

func (c *Coordinator) DailyWithdrawalTotal() decimal.Decimal {
	return c.State().DailyWithdrawalTotal
}
