package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hance08/teller/internal/constants"
	"github.com/shopspring/decimal"
)

// Kind is the direction of a transaction request.
type Kind string

const (
	KindDeposit  Kind = constants.KindDeposit
	KindWithdraw Kind = constants.KindWithdraw
)

func (k Kind) Valid() bool {
	return k == KindDeposit || k == KindWithdraw
}

// Title returns the display name used in prompts and status lines.
func (k Kind) Title() string {
	switch k {
	case KindDeposit:
		return "Deposit"
	case KindWithdraw:
		return "Withdrawal"
	default:
		return string(k)
	}
}

var ErrInvalidAccount = errors.New("invalid account snapshot")

// Account is an immutable balance snapshot. Credit accounts carry a
// non-positive Amount (what is owed) and a CreditLimit; every other type
// carries a non-negative Amount and no limit.
type Account struct {
	AccountNumber int64
	Name          string
	Amount        decimal.Decimal
	Type          string
	CreditLimit   *decimal.Decimal
}

func (a Account) IsCredit() bool {
	return a.Type == constants.TypeCredit
}

// Validate checks that the amount sign and credit limit agree with the type.
func (a Account) Validate() error {
	if a.Type == "" {
		return fmt.Errorf("%w: account %d has no type", ErrInvalidAccount, a.AccountNumber)
	}

	if a.IsCredit() {
		if a.CreditLimit == nil {
			return fmt.Errorf("%w: credit account %d has no credit limit", ErrInvalidAccount, a.AccountNumber)
		}
		if a.CreditLimit.IsNegative() {
			return fmt.Errorf("%w: credit account %d has a negative credit limit", ErrInvalidAccount, a.AccountNumber)
		}
		if a.Amount.IsPositive() {
			return fmt.Errorf("%w: credit account %d has a positive balance", ErrInvalidAccount, a.AccountNumber)
		}
		return nil
	}

	if a.CreditLimit != nil {
		return fmt.Errorf("%w: %s account %d has a credit limit", ErrInvalidAccount, a.Type, a.AccountNumber)
	}
	if a.Amount.IsNegative() {
		return fmt.Errorf("%w: %s account %d has a negative balance", ErrInvalidAccount, a.Type, a.AccountNumber)
	}

	return nil
}

// TransactionRequest is the body of a deposit or withdraw call.
type TransactionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r TransactionRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount json.Number `json:"amount"`
	}{Amount: json.Number(r.Amount.String())})
}

// TransactionResult is the account shape returned by the backend.
type TransactionResult struct {
	AccountNumber int64            `json:"account_number"`
	Name          string           `json:"name"`
	Amount        decimal.Decimal  `json:"amount"`
	Type          string           `json:"type"`
	CreditLimit   *decimal.Decimal `json:"credit_limit"`
}

// MarshalJSON writes amounts as bare JSON numbers.
func (r TransactionResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		AccountNumber int64        `json:"account_number"`
		Name          string       `json:"name"`
		Amount        json.Number  `json:"amount"`
		Type          string       `json:"type"`
		CreditLimit   *json.Number `json:"credit_limit"`
	}

	w := wire{
		AccountNumber: r.AccountNumber,
		Name:          r.Name,
		Amount:        json.Number(r.Amount.String()),
		Type:          r.Type,
	}
	if r.CreditLimit != nil {
		limit := json.Number(r.CreditLimit.String())
		w.CreditLimit = &limit
	}

	return json.Marshal(w)
}

// ToAccount translates the wire result into a fresh snapshot.
func (r TransactionResult) ToAccount() Account {
	acc := Account{
		AccountNumber: r.AccountNumber,
		Name:          r.Name,
		Amount:        r.Amount,
		Type:          r.Type,
	}
	if r.CreditLimit != nil {
		limit := *r.CreditLimit
		acc.CreditLimit = &limit
	}
	return acc
}

// ResultFromAccount is the inverse of ToAccount, used by the backend server.
func ResultFromAccount(a Account) TransactionResult {
	res := TransactionResult{
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		Amount:        a.Amount,
		Type:          a.Type,
	}
	if a.CreditLimit != nil {
		limit := *a.CreditLimit
		res.CreditLimit = &limit
	}
	return res
}
