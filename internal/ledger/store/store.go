package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, org_id, type, balance, locked, locked_at, updated_at
func scanAccount(s scanner) (*ledger.Account, error) {
	var account ledger.Account

	var typeStr, balance string

	if err := s.Scan(
		&account.ID, &account.OrgID, &typeStr, &balance,
		&account.Locked, &account.LockedAt, &account.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parsing account balance: %w", err)
	}

	account.Type = ledger.AccountType(typeStr)
	account.Balance = parsed

	return &account, nil
}

const selectAccountColumns = `
	id, org_id, type, balance::text, locked, locked_at, updated_at
`

func (s *Store) GetAccountByType(ctx context.Context, orgID string, typ ledger.AccountType) (*ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + `
		FROM designated_accounts
		WHERE org_id = $1 AND type = $2`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, orgID, typ))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: org %s type %s", ledger.ErrAccountNotFound, orgID, typ)
		}

		return nil, fmt.Errorf("getting designated account: %w", err)
	}

	return account, nil
}

func (s *Store) ListAccounts(ctx context.Context, orgID string) ([]*ledger.Account, error) {
	query := `SELECT ` + selectAccountColumns + `
		FROM designated_accounts
		WHERE org_id = $1
		ORDER BY type ASC`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing designated accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*ledger.Account

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning designated account: %w", err)
		}

		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating designated accounts: %w", err)
	}

	return accounts, nil
}

func (s *Store) SetLocked(ctx context.Context, accountID uuid.UUID, locked bool) error {
	query := `
		UPDATE designated_accounts
		SET locked = $2,
		    locked_at = CASE WHEN $2 THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, accountID, locked); err != nil {
		return fmt.Errorf("setting account lock: %w", err)
	}

	return nil
}

// IncrementBalance applies the credit in a single UPDATE so concurrent
// transfers against the same account serialize on the row and never lose an
// update.
func (s *Store) IncrementBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE designated_accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance::text
	`

	var balance string

	err := s.db.QueryRowContext(ctx, query, accountID, amount.String()).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: id %s", ledger.ErrAccountNotFound, accountID)
		}

		return decimal.Zero, fmt.Errorf("incrementing account balance: %w", err)
	}

	newBalance, err := decimal.NewFromString(balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing account balance: %w", err)
	}

	return newBalance, nil
}

func (s *Store) CreateTransfer(ctx context.Context, transfer *ledger.Transfer) error {
	query := `
		INSERT INTO designated_transfers (org_id, account_id, amount, source, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		transfer.OrgID,
		transfer.AccountID,
		transfer.Amount.String(),
		transfer.Source,
		transfer.ActorID,
	).Scan(&transfer.ID, &transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating designated transfer: %w", err)
	}

	return nil
}
