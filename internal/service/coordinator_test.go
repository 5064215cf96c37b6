package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/hance08/teller/internal/backend"
	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/utils"
	"github.com/hance08/teller/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func checking(amount int64) model.Account {
	return model.Account{AccountNumber: 1, Name: "Johns Checking", Type: "checking", Amount: dec(amount)}
}

func creditAccount(amount, limit int64) model.Account {
	l := dec(limit)
	return model.Account{AccountNumber: 3, Name: "Jills Credit", Type: "credit", Amount: dec(amount), CreditLimit: &l}
}

func testEngine() *validation.Engine {
	return validation.NewEngine(validation.DefaultLimits(), utils.MustCurrencyFormatter("USD", "en-US"))
}

// ledgerBackend applies transactions to an in-memory balance.
type ledgerBackend struct {
	account model.Account
	calls   atomic.Int32
	err     error
}

func (b *ledgerBackend) Submit(_ context.Context, _ int64, kind model.Kind, amount decimal.Decimal) (model.Account, error) {
	b.calls.Add(1)
	if b.err != nil {
		return model.Account{}, b.err
	}
	if kind == model.KindDeposit {
		b.account.Amount = b.account.Amount.Add(amount)
	} else {
		b.account.Amount = b.account.Amount.Sub(amount)
	}
	return b.account, nil
}

type reply struct {
	account model.Account
	err     error
}

type pendingCall struct {
	kind   model.Kind
	amount decimal.Decimal
	reply  chan reply
}

// gatedBackend hands every call to the test and waits for its answer.
type gatedBackend struct {
	calls chan pendingCall
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{calls: make(chan pendingCall)}
}

func (b *gatedBackend) Submit(ctx context.Context, _ int64, kind model.Kind, amount decimal.Decimal) (model.Account, error) {
	call := pendingCall{kind: kind, amount: amount, reply: make(chan reply, 1)}
	select {
	case b.calls <- call:
	case <-ctx.Done():
		return model.Account{}, ctx.Err()
	}
	r := <-call.reply
	return r.account, r.err
}

type outcome struct {
	account model.Account
	err     error
}

func TestCoordinator_WithdrawSuccess(t *testing.T) {
	t.Parallel()

	be := &ledgerBackend{account: checking(100)}
	c := NewCoordinator(checking(100), testEngine(), be)

	acc, err := c.Withdraw(context.Background(), dec(50))
	require.NoError(t, err)
	assert.Equal(t, "50", acc.Amount.String())

	st := c.State()
	assert.Equal(t, "50", st.Account.Amount.String())
	assert.Equal(t, "50", st.DailyWithdrawalTotal.String())
	assert.Equal(t, StatusSuccess, st.Withdraw.Status)
	assert.True(t, st.Withdraw.ShowSuccess())
	assert.Equal(t, StatusIdle, st.Deposit.Status)
	assert.Equal(t, int32(1), be.calls.Load())
}

func TestCoordinator_RejectionSkipsBackend(t *testing.T) {
	t.Parallel()

	be := &ledgerBackend{account: checking(100)}
	c := NewCoordinator(checking(100), testEngine(), be)

	acc, err := c.Withdraw(context.Background(), dec(33))
	require.Error(t, err)

	var rejected *validation.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, validation.RuleWithdrawalIncrement, rejected.Rule)
	assert.Equal(t, "100", acc.Amount.String())

	st := c.State()
	assert.Equal(t, "Withdrawal amount must be able to be dispensed in $5 bills.", st.Withdraw.Rejection)
	assert.Equal(t, StatusIdle, st.Withdraw.Status)
	assert.True(t, st.DailyWithdrawalTotal.IsZero())
	assert.Equal(t, int32(0), be.calls.Load())
}

func TestCoordinator_RejectionKeepsButHidesSuccess(t *testing.T) {
	t.Parallel()

	be := &ledgerBackend{account: checking(500)}
	c := NewCoordinator(checking(500), testEngine(), be)

	_, err := c.Deposit(context.Background(), dec(100))
	require.NoError(t, err)
	require.True(t, c.State().Deposit.ShowSuccess())

	_, err = c.Deposit(context.Background(), dec(5000))
	require.Error(t, err)

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Deposit.Status)
	assert.False(t, st.Deposit.ShowSuccess())
	assert.Equal(t, "Cannot deposit more than $1,000 per transaction.", st.Deposit.Rejection)
	assert.Equal(t, "600", st.Account.Amount.String())

	// the next accepted attempt clears the rejection
	_, err = c.Deposit(context.Background(), dec(10))
	require.NoError(t, err)
	st = c.State()
	assert.Empty(t, st.Deposit.Rejection)
	assert.True(t, st.Deposit.ShowSuccess())
	assert.Equal(t, "610", st.Account.Amount.String())
}

func TestCoordinator_KindsAreIndependent(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(checking(100), testEngine(), &ledgerBackend{account: checking(100)})

	_, err := c.Withdraw(context.Background(), dec(7))
	require.Error(t, err)

	st := c.State()
	assert.NotEmpty(t, st.Withdraw.Rejection)
	assert.Empty(t, st.Deposit.Rejection)
	assert.Equal(t, st.Withdraw, st.Kind(model.KindWithdraw))
	assert.Equal(t, st.Deposit, st.Kind(model.KindDeposit))
}

func TestCoordinator_CreditScenarios(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(creditAccount(-20, 100), testEngine(), &ledgerBackend{account: creditAccount(-20, 100)})

	_, err := c.Withdraw(context.Background(), dec(90))
	require.EqualError(t, err, "You cannot withdraw beyond your credit limit ($100).")

	c = NewCoordinator(creditAccount(-50, 100), testEngine(), &ledgerBackend{account: creditAccount(-50, 100)})
	_, err = c.Deposit(context.Background(), dec(60))
	require.EqualError(t, err, "Cannot deposit more than what is required to zero out this account ($50).")

	acc, err := c.Deposit(context.Background(), dec(50))
	require.NoError(t, err)
	assert.True(t, acc.Amount.IsZero())
}

func TestCoordinator_DailyCap(t *testing.T) {
	t.Parallel()

	be := &ledgerBackend{account: checking(10000)}
	c := NewCoordinator(checking(10000), testEngine(), be)

	for i := 0; i < 4; i++ {
		_, err := c.Withdraw(context.Background(), dec(100))
		require.NoError(t, err, "withdrawal %d", i+1)
	}
	assert.Equal(t, "400", c.DailyWithdrawalTotal().String())

	_, err := c.Withdraw(context.Background(), dec(5))
	var rejected *validation.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, validation.RuleDailyLimit, rejected.Rule)
	assert.Equal(t, "400", c.DailyWithdrawalTotal().String())
	assert.Equal(t, int32(4), be.calls.Load())
	assert.Equal(t, "9600", c.Account().Amount.String())
}

func TestCoordinator_FailureKeepsReservation(t *testing.T) {
	t.Parallel()

	failure := &backend.TransportError{Op: "withdraw", StatusCode: 500, Err: errors.New("boom")}
	c := NewCoordinator(checking(1000), testEngine(), &ledgerBackend{err: failure})

	acc, err := c.Withdraw(context.Background(), dec(200))
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrTransport))
	assert.Equal(t, "1000", acc.Amount.String())

	st := c.State()
	assert.Equal(t, StatusFailed, st.Withdraw.Status)
	assert.Equal(t, failure, st.Withdraw.Err)
	assert.Empty(t, st.Withdraw.Rejection)
	assert.Equal(t, "1000", st.Account.Amount.String())
	assert.Equal(t, "200", st.DailyWithdrawalTotal.String())

	// a retry is validated again from scratch against the reserved total
	_, err = c.Withdraw(context.Background(), dec(200))
	require.Error(t, err)
	assert.Equal(t, "400", c.DailyWithdrawalTotal().String())

	_, err = c.Withdraw(context.Background(), dec(5))
	var rejected *validation.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, validation.RuleDailyLimit, rejected.Rule)
}

func TestCoordinator_FailureReleasesReservationWhenConfigured(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(checking(1000), testEngine(), &ledgerBackend{err: errors.New("down")},
		WithReleaseOnFailure(true))

	_, err := c.Withdraw(context.Background(), dec(200))
	require.Error(t, err)
	assert.True(t, c.DailyWithdrawalTotal().IsZero())
	assert.Equal(t, StatusFailed, c.State().Withdraw.Status)
}

func TestCoordinator_PendingWhileInFlight(t *testing.T) {
	t.Parallel()

	be := newGatedBackend()
	c := NewCoordinator(checking(100), testEngine(), be)

	done := make(chan outcome, 1)
	go func() {
		acc, err := c.Withdraw(context.Background(), dec(50))
		done <- outcome{acc, err}
	}()

	call := <-be.calls
	assert.Equal(t, model.KindWithdraw, call.kind)
	assert.Equal(t, "50", call.amount.String())

	st := c.State()
	assert.Equal(t, StatusPending, st.Withdraw.Status)
	assert.Equal(t, "50", st.DailyWithdrawalTotal.String())
	assert.Equal(t, "100", st.Account.Amount.String())

	call.reply <- reply{account: checking(50)}
	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, StatusSuccess, c.State().Withdraw.Status)
	assert.Equal(t, "50", c.Account().Amount.String())
}

func TestCoordinator_NewAttemptClearsTerminalStatus(t *testing.T) {
	t.Parallel()

	be := newGatedBackend()
	c := NewCoordinator(checking(100), testEngine(), be)

	done := make(chan outcome, 1)
	go func() {
		acc, err := c.Deposit(context.Background(), dec(10))
		done <- outcome{acc, err}
	}()
	call := <-be.calls
	call.reply <- reply{err: errors.New("timeout")}
	<-done
	require.Equal(t, StatusFailed, c.State().Deposit.Status)

	go func() {
		acc, err := c.Deposit(context.Background(), dec(10))
		done <- outcome{acc, err}
	}()
	call = <-be.calls

	st := c.State()
	assert.Equal(t, StatusPending, st.Deposit.Status)
	assert.NoError(t, st.Deposit.Err)

	call.reply <- reply{account: checking(110)}
	<-done
}

func TestCoordinator_OutOfOrderResponses(t *testing.T) {
	t.Parallel()

	be := newGatedBackend()
	c := NewCoordinator(checking(100), testEngine(), be)

	first := make(chan outcome, 1)
	go func() {
		acc, err := c.Deposit(context.Background(), dec(10))
		first <- outcome{acc, err}
	}()
	call1 := <-be.calls

	second := make(chan outcome, 1)
	go func() {
		acc, err := c.Deposit(context.Background(), dec(20))
		second <- outcome{acc, err}
	}()
	call2 := <-be.calls

	// the later request settles first
	call2.reply <- reply{account: checking(130)}
	out := <-second
	require.NoError(t, out.err)
	assert.Equal(t, "130", c.Account().Amount.String())

	// the earlier response arrives late and must not overwrite the snapshot
	call1.reply <- reply{account: checking(110)}
	out = <-first
	require.NoError(t, out.err)
	assert.Equal(t, "130", out.account.Amount.String())
	assert.Equal(t, "130", c.Account().Amount.String())
	assert.Equal(t, StatusSuccess, c.State().Deposit.Status)
}

func TestCoordinator_StaleFailureDoesNotMaskLatest(t *testing.T) {
	t.Parallel()

	be := newGatedBackend()
	c := NewCoordinator(checking(1000), testEngine(), be)

	first := make(chan outcome, 1)
	go func() {
		acc, err := c.Withdraw(context.Background(), dec(10))
		first <- outcome{acc, err}
	}()
	call1 := <-be.calls

	second := make(chan outcome, 1)
	go func() {
		acc, err := c.Withdraw(context.Background(), dec(20))
		second <- outcome{acc, err}
	}()
	call2 := <-be.calls

	call2.reply <- reply{account: checking(980)}
	<-second
	call1.reply <- reply{err: errors.New("late failure")}
	out := <-first
	require.Error(t, out.err)

	st := c.State()
	assert.Equal(t, StatusSuccess, st.Withdraw.Status)
	assert.NoError(t, st.Withdraw.Err)
	assert.Equal(t, "980", st.Account.Amount.String())
	assert.Equal(t, "30", st.DailyWithdrawalTotal.String())
}

func TestCoordinator_DepositAndWithdrawInFlightTogether(t *testing.T) {
	t.Parallel()

	be := newGatedBackend()
	c := NewCoordinator(checking(100), testEngine(), be)

	deposit := make(chan outcome, 1)
	withdraw := make(chan outcome, 1)
	go func() {
		acc, err := c.Deposit(context.Background(), dec(50))
		deposit <- outcome{acc, err}
	}()
	callA := <-be.calls
	go func() {
		acc, err := c.Withdraw(context.Background(), dec(25))
		withdraw <- outcome{acc, err}
	}()
	callB := <-be.calls

	st := c.State()
	assert.Equal(t, StatusPending, st.Deposit.Status)
	assert.Equal(t, StatusPending, st.Withdraw.Status)

	callA.reply <- reply{account: checking(150)}
	callB.reply <- reply{account: checking(125)}
	<-deposit
	<-withdraw

	st = c.State()
	assert.Equal(t, StatusSuccess, st.Deposit.Status)
	assert.Equal(t, StatusSuccess, st.Withdraw.Status)
	assert.Equal(t, "125", st.Account.Amount.String())
}

func TestCoordinator_ReplaceDiscardsOlderResponses(t *testing.T) {
	t.Parallel()

	be := newGatedBackend()
	c := NewCoordinator(checking(100), testEngine(), be)

	done := make(chan outcome, 1)
	go func() {
		acc, err := c.Deposit(context.Background(), dec(10))
		done <- outcome{acc, err}
	}()
	call := <-be.calls

	c.Replace(checking(500))
	call.reply <- reply{account: checking(110)}
	<-done

	assert.Equal(t, "500", c.Account().Amount.String())
	assert.Equal(t, StatusSuccess, c.State().Deposit.Status)
}

func TestCoordinator_ContextCancelled(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(checking(100), testEngine(), newGatedBackend())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Deposit(ctx, dec(10))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusFailed, c.State().Deposit.Status)
}

func TestCoordinator_StartReturnsBeforeSettling(t *testing.T) {
	t.Parallel()

	be := newGatedBackend()
	c := NewCoordinator(checking(100), testEngine(), be)

	done, err := c.Start(context.Background(), model.KindDeposit, dec(25))
	require.NoError(t, err)
	require.NotNil(t, done)

	assert.Equal(t, StatusPending, c.State().Deposit.Status)

	call := <-be.calls
	call.reply <- reply{account: checking(125)}

	out := <-done
	require.NoError(t, out.Err)
	assert.Equal(t, "125", out.Account.Amount.String())
	assert.Equal(t, StatusSuccess, c.State().Deposit.Status)
}

func TestCoordinator_StartRejectsSynchronously(t *testing.T) {
	t.Parallel()

	be := &ledgerBackend{account: checking(100)}
	c := NewCoordinator(checking(100), testEngine(), be)

	done, err := c.Start(context.Background(), model.KindDeposit, dec(5000))
	assert.Nil(t, done)

	var rejected *validation.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, validation.RuleMaxDeposit, rejected.Rule)
	assert.Equal(t, "Cannot deposit more than $1,000 per transaction.", c.State().Deposit.Rejection)
	assert.Equal(t, int32(0), be.calls.Load())
}
