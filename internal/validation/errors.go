package validation

import (
	"github.com/hance08/teller/internal/model"
	"github.com/shopspring/decimal"
)

// RuleID names a single validation rule.
type RuleID string

const (
	RuleNonPositiveAmount   RuleID = "non_positive_amount"
	RuleMaxDeposit          RuleID = "max_deposit"
	RuleCreditOverpayment   RuleID = "credit_overpayment"
	RuleMaxWithdrawal       RuleID = "max_withdrawal"
	RuleMinWithdrawal       RuleID = "min_withdrawal"
	RuleWithdrawalIncrement RuleID = "withdrawal_increment"
	RuleCreditLimit         RuleID = "credit_limit"
	RuleInsufficientBalance RuleID = "insufficient_balance"
	RuleDailyLimit          RuleID = "daily_limit"
)

// RejectedError is a local, user-correctable rejection. Reason is meant to be
// shown to the user verbatim.
type RejectedError struct {
	Kind      model.Kind
	Rule      RuleID
	Threshold decimal.Decimal
	Reason    string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

// Result is the outcome of Validate: accepted when Rejection is nil.
type Result struct {
	Rejection *RejectedError
}

func (r Result) OK() bool {
	return r.Rejection == nil
}

// Err returns the rejection as an error, or nil when accepted.
func (r Result) Err() error {
	if r.Rejection == nil {
		return nil
	}
	return r.Rejection
}
