package store

import (
	"context"

	"github.com/hance08/teller/internal/model"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Account Operations
	CreateAccount(ctx context.Context, acc model.Account) error
	GetAccount(ctx context.Context, accountNumber int64) (*model.Account, error)

	// Transaction Operations
	ApplyTransaction(ctx context.Context, accountNumber int64, kind model.Kind, amount decimal.Decimal) (*model.Account, error)
	ListEntries(ctx context.Context, accountNumber int64, limit int) ([]*Entry, error)

	Close() error
}
