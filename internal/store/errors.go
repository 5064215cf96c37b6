package store

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")
	ErrOverpayment         = errors.New("deposit exceeds the amount owed")
)
