package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hance08/teller/internal/model"
	sqlite "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func (s *Store) CreateAccount(ctx context.Context, acc model.Account) error {
	if err := acc.Validate(); err != nil {
		return err
	}

	var limit decimal.NullDecimal
	if acc.CreditLimit != nil {
		limit = decimal.NewNullDecimal(*acc.CreditLimit)
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO accounts (account_number, name, amount, type, credit_limit)
        VALUES (?, ?, ?, ?, ?);
    `, acc.AccountNumber, acc.Name, acc.Amount, acc.Type, limit)
	if err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite.ErrConstraintPrimaryKey {
			return fmt.Errorf("failed to create account %d: %w", acc.AccountNumber, ErrAccountExists)
		}
		return fmt.Errorf("failed to insert account %d: %w", acc.AccountNumber, err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, accountNumber int64) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT account_number, name, amount, type, credit_limit
        FROM accounts
        WHERE account_number = ?
    `, accountNumber)

	acc := &model.Account{}
	var limit decimal.NullDecimal

	err := row.Scan(&acc.AccountNumber, &acc.Name, &acc.Amount, &acc.Type, &limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", accountNumber, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to query account %d: %w", accountNumber, err)
	}

	if limit.Valid {
		acc.CreditLimit = &limit.Decimal
	}

	return acc, nil
}

func (s *Store) updateAmount(ctx context.Context, accountNumber int64, amount decimal.Decimal) error {
	result, err := s.db.ExecContext(ctx, `
        UPDATE accounts
        SET amount = ?
        WHERE account_number = ?
    `, amount, accountNumber)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", accountNumber, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %d: %w", accountNumber, ErrAccountNotFound)
	}

	return nil
}
