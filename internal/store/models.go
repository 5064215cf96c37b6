package store

import (
	"time"

	"github.com/hance08/teller/internal/model"
	"github.com/shopspring/decimal"
)

// Entry is one applied transaction in the ledger.
type Entry struct {
	ID            string
	AccountNumber int64
	Kind          model.Kind
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}
