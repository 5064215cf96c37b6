package validation

import (
	"fmt"

	"github.com/hance08/teller/internal/constants"
	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/utils"
	"github.com/shopspring/decimal"
)

// Limits are the client-side transaction limits, in currency units.
type Limits struct {
	MaxDepositAmount        decimal.Decimal
	MinWithdrawalAmount     decimal.Decimal
	MaxWithdrawalAmount     decimal.Decimal
	MaxDailyWithdrawalTotal decimal.Decimal
	WithdrawalIncrement     decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{
		MaxDepositAmount:        decimal.NewFromInt(constants.DefaultMaxDepositAmount),
		MinWithdrawalAmount:     decimal.NewFromInt(constants.DefaultMinWithdrawalAmount),
		MaxWithdrawalAmount:     decimal.NewFromInt(constants.DefaultMaxWithdrawalAmount),
		MaxDailyWithdrawalTotal: decimal.NewFromInt(constants.DefaultMaxDailyWithdrawalTotal),
		WithdrawalIncrement:     decimal.NewFromInt(constants.DefaultWithdrawalIncrement),
	}
}

// Input is everything a rule may look at.
type Input struct {
	Account    model.Account
	Kind       model.Kind
	Amount     decimal.Decimal
	DailyTotal decimal.Decimal
}

// Rule is a pure predicate plus the message shown when it is violated.
type Rule struct {
	ID        RuleID
	Violated  func(in Input) bool
	Threshold func(in Input) decimal.Decimal
	Message   func(in Input) string
}

func (r Rule) reject(in Input) *RejectedError {
	return &RejectedError{
		Kind:      in.Kind,
		Rule:      r.ID,
		Threshold: r.Threshold(in),
		Reason:    r.Message(in),
	}
}

// Engine decides whether a deposit or withdrawal may be sent to the backend.
// It holds no mutable state; Validate is safe for concurrent use.
type Engine struct {
	limits     Limits
	money      *utils.CurrencyFormatter
	deposit    []Rule
	withdrawal []Rule
}

func NewEngine(limits Limits, formatter *utils.CurrencyFormatter) *Engine {
	e := &Engine{limits: limits, money: formatter}
	e.deposit = []Rule{
		e.positiveAmountRule(),
		e.maxDepositRule(),
		e.creditOverpaymentRule(),
	}
	// Order matters: the daily cap is only meaningful once the amount is
	// individually valid. Zero and negative withdrawals fail the minimum.
	e.withdrawal = []Rule{
		e.maxWithdrawalRule(),
		e.minWithdrawalRule(),
		e.incrementRule(),
		e.creditLimitRule(),
		e.balanceRule(),
		e.dailyLimitRule(),
	}
	return e
}

func (e *Engine) Limits() Limits {
	return e.limits
}

// Rules returns the ordered rules for a kind.
func (e *Engine) Rules(kind model.Kind) []Rule {
	switch kind {
	case model.KindDeposit:
		return e.deposit
	case model.KindWithdraw:
		return e.withdrawal
	default:
		return nil
	}
}

// Validate evaluates the rules of kind in order and returns the first
// violation. dailyTotal is the withdrawal total before this transaction.
func (e *Engine) Validate(account model.Account, kind model.Kind, amount, dailyTotal decimal.Decimal) Result {
	in := Input{Account: account, Kind: kind, Amount: amount, DailyTotal: dailyTotal}

	if !kind.Valid() {
		return Result{Rejection: &RejectedError{
			Kind:   kind,
			Reason: fmt.Sprintf("Unknown transaction kind %q.", kind),
		}}
	}

	for _, rule := range e.Rules(kind) {
		if rule.Violated(in) {
			return Result{Rejection: rule.reject(in)}
		}
	}

	return Result{}
}

func fixed(d decimal.Decimal) func(Input) decimal.Decimal {
	return func(Input) decimal.Decimal { return d }
}

func creditLimit(a model.Account) decimal.Decimal {
	if a.CreditLimit == nil {
		return decimal.Zero
	}
	return *a.CreditLimit
}

func (e *Engine) positiveAmountRule() Rule {
	return Rule{
		ID:        RuleNonPositiveAmount,
		Violated:  func(in Input) bool { return !in.Amount.IsPositive() },
		Threshold: fixed(decimal.Zero),
		Message: func(Input) string {
			return fmt.Sprintf("Amount must be greater than %s.", e.money.Format(decimal.Zero))
		},
	}
}

func (e *Engine) maxDepositRule() Rule {
	return Rule{
		ID:        RuleMaxDeposit,
		Violated:  func(in Input) bool { return in.Amount.GreaterThan(e.limits.MaxDepositAmount) },
		Threshold: fixed(e.limits.MaxDepositAmount),
		Message: func(Input) string {
			return fmt.Sprintf("Cannot deposit more than %s per transaction.", e.money.Format(e.limits.MaxDepositAmount))
		},
	}
}

// A credit account may be paid down to zero but never into a positive balance.
func (e *Engine) creditOverpaymentRule() Rule {
	return Rule{
		ID: RuleCreditOverpayment,
		Violated: func(in Input) bool {
			return in.Account.IsCredit() && in.Account.Amount.Add(in.Amount).IsPositive()
		},
		Threshold: func(in Input) decimal.Decimal { return in.Account.Amount.Neg() },
		Message: func(in Input) string {
			return fmt.Sprintf("Cannot deposit more than what is required to zero out this account (%s).",
				e.money.Format(in.Account.Amount.Neg()))
		},
	}
}

func (e *Engine) maxWithdrawalRule() Rule {
	return Rule{
		ID:        RuleMaxWithdrawal,
		Violated:  func(in Input) bool { return in.Amount.GreaterThan(e.limits.MaxWithdrawalAmount) },
		Threshold: fixed(e.limits.MaxWithdrawalAmount),
		Message: func(Input) string {
			return fmt.Sprintf("Cannot withdraw more than %s per transaction.", e.money.Format(e.limits.MaxWithdrawalAmount))
		},
	}
}

func (e *Engine) minWithdrawalRule() Rule {
	return Rule{
		ID:        RuleMinWithdrawal,
		Violated:  func(in Input) bool { return in.Amount.LessThan(e.limits.MinWithdrawalAmount) },
		Threshold: fixed(e.limits.MinWithdrawalAmount),
		Message: func(Input) string {
			return fmt.Sprintf("Cannot withdraw less than %s.", e.money.Format(e.limits.MinWithdrawalAmount))
		},
	}
}

func (e *Engine) incrementRule() Rule {
	return Rule{
		ID: RuleWithdrawalIncrement,
		Violated: func(in Input) bool {
			if !e.limits.WithdrawalIncrement.IsPositive() {
				return false
			}
			return !in.Amount.Mod(e.limits.WithdrawalIncrement).IsZero()
		},
		Threshold: fixed(e.limits.WithdrawalIncrement),
		Message: func(Input) string {
			return fmt.Sprintf("Withdrawal amount must be able to be dispensed in %s bills.",
				e.money.Format(e.limits.WithdrawalIncrement))
		},
	}
}

// Credit accounts hold a non-positive amount and a positive limit, so the
// debt after withdrawing is amount - account.Amount.
func (e *Engine) creditLimitRule() Rule {
	return Rule{
		ID: RuleCreditLimit,
		Violated: func(in Input) bool {
			return in.Account.IsCredit() && in.Amount.Sub(in.Account.Amount).GreaterThan(creditLimit(in.Account))
		},
		Threshold: func(in Input) decimal.Decimal { return creditLimit(in.Account) },
		Message: func(in Input) string {
			return fmt.Sprintf("You cannot withdraw beyond your credit limit (%s).",
				e.money.FormatPtr(in.Account.CreditLimit))
		},
	}
}

// Non-credit accounts cannot be overdrawn.
func (e *Engine) balanceRule() Rule {
	return Rule{
		ID: RuleInsufficientBalance,
		Violated: func(in Input) bool {
			return !in.Account.IsCredit() && in.Amount.GreaterThan(in.Account.Amount)
		},
		Threshold: func(in Input) decimal.Decimal { return in.Account.Amount },
		Message: func(in Input) string {
			return fmt.Sprintf("You cannot withdraw more than your full balance (%s).",
				e.money.Format(in.Account.Amount))
		},
	}
}

func (e *Engine) dailyLimitRule() Rule {
	return Rule{
		ID: RuleDailyLimit,
		Violated: func(in Input) bool {
			return in.DailyTotal.Add(in.Amount).GreaterThan(e.limits.MaxDailyWithdrawalTotal)
		},
		Threshold: fixed(e.limits.MaxDailyWithdrawalTotal),
		Message: func(in Input) string {
			return fmt.Sprintf("This withdrawal would bring your daily total to %s, which exceeds the daily maximum withdrawal amount of %s.",
				e.money.Format(in.DailyTotal.Add(in.Amount)),
				e.money.Format(e.limits.MaxDailyWithdrawalTotal))
		},
	}
}
