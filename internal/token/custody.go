// Package token implements the value-transfer capability backing employer
// collateral. It is bookkeeping only: per-token balances move between holder
// addresses and the pool custody account inside a single database
// transaction, with fail-fast semantics. Actual token mechanics live outside
// this service.
package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// poolHolder is the reserved custody account collateral is pulled into.
const poolHolder = "POOL"

// ErrInsufficientFunds is returned when the source holder cannot cover the
// requested amount. The whole transfer is rolled back.
var ErrInsufficientFunds = errors.New("insufficient funds")

// DB is the subset of pgxpool.Pool the ledger needs. pgxmock satisfies it
// in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CustodyLedger moves per-token balances in and out of pool custody.
type CustodyLedger struct {
	db DB
}

// NewCustodyLedger returns a ledger backed by the given database.
func NewCustodyLedger(db DB) *CustodyLedger {
	return &CustodyLedger{db: db}
}

// Pull moves amount of token from the holder into pool custody. Either both
// balance rows change or neither does.
func (l *CustodyLedger) Pull(ctx context.Context, tok, from string, amount uint64) error {
	return l.move(ctx, tok, from, poolHolder, amount)
}

// Push moves amount of token from pool custody to the recipient.
func (l *CustodyLedger) Push(ctx context.Context, tok, to string, amount uint64) error {
	return l.move(ctx, tok, poolHolder, to, amount)
}

// PoolBalance returns the pool's custody balance of token. Missing rows read
// as zero.
func (l *CustodyLedger) PoolBalance(ctx context.Context, tok string) (uint64, error) {
	var balance uint64
	err := l.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM custody_balances WHERE token = $1 AND holder = $2`,
		tok, poolHolder,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("poolBalance query: %w", err)
	}
	return balance, nil
}

// move debits from and credits to inside one transaction. The debit predicate
// amount >= $3 makes overdrafts impossible without a separate read.
func (l *CustodyLedger) move(ctx context.Context, tok, from, to string, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: zero amount", ErrInsufficientFunds)
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE custody_balances SET amount = amount - $3
		 WHERE token = $1 AND holder = $2 AND amount >= $3`,
		tok, from, amount,
	)
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s holds less than %d of %s", ErrInsufficientFunds, from, amount, tok)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO custody_balances (token, holder, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (token, holder) DO UPDATE SET amount = custody_balances.amount + EXCLUDED.amount`,
		tok, to, amount,
	)
	if err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	committed = true
	return nil
}
