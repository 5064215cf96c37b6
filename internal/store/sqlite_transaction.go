package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hance08/teller/internal/model"
	"github.com/shopspring/decimal"
)

const defaultEntryLimit = 50

// ApplyTransaction moves money in or out of an account and records the ledger
// entry in one database transaction. Only the invariants the ledger itself
// needs are enforced here: positive amounts, no overdraft on debit accounts,
// no paying a credit account past zero and no borrowing beyond the limit.
func (s *Store) ApplyTransaction(ctx context.Context, accountNumber int64, kind model.Kind, amount decimal.Decimal) (*model.Account, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown transaction kind %q", kind)
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var updated *model.Account
	err := s.ExecTx(ctx, func(tx *Store) error {
		acc, err := tx.GetAccount(ctx, accountNumber)
		if err != nil {
			return err
		}

		next, err := nextBalance(acc, kind, amount)
		if err != nil {
			return err
		}

		if err := tx.updateAmount(ctx, accountNumber, next); err != nil {
			return err
		}

		_, err = tx.db.ExecContext(ctx, `
            INSERT INTO transactions (id, account_number, kind, amount, balance_after, created_at)
            VALUES (?, ?, ?, ?, ?, ?);
        `, uuid.NewString(), accountNumber, string(kind), amount, next, time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		acc.Amount = next
		updated = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func nextBalance(acc *model.Account, kind model.Kind, amount decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case model.KindDeposit:
		next := acc.Amount.Add(amount)
		if acc.IsCredit() && next.IsPositive() {
			return decimal.Zero, ErrOverpayment
		}
		return next, nil
	default:
		next := acc.Amount.Sub(amount)
		if acc.IsCredit() {
			limit := decimal.Zero
			if acc.CreditLimit != nil {
				limit = *acc.CreditLimit
			}
			if next.Neg().GreaterThan(limit) {
				return decimal.Zero, ErrCreditLimitExceeded
			}
			return next, nil
		}
		if next.IsNegative() {
			return decimal.Zero, ErrInsufficientFunds
		}
		return next, nil
	}
}

// ListEntries returns the newest ledger entries of an account first.
func (s *Store) ListEntries(ctx context.Context, accountNumber int64, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = defaultEntryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, account_number, kind, amount, balance_after, created_at
        FROM transactions
        WHERE account_number = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `, accountNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var kind string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.AccountNumber, &kind, &e.Amount, &e.BalanceAfter, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		e.Kind = model.Kind(kind)
		e.CreatedAt = time.Unix(0, createdAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
