package token

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestPull_DebitsHolderAndCreditsPool(t *testing.T) {
	mock := newMock(t)
	ledger := NewCustodyLedger(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE custody_balances").
		WithArgs("SKL", "alice", uint64(10)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO custody_balances").
		WithArgs("SKL", poolHolder, uint64(10)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := ledger.Pull(context.Background(), "SKL", "alice", 10); err != nil {
		t.Fatalf("Pull returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A debit touching zero rows means the holder cannot cover the amount; the
// transaction must roll back with ErrInsufficientFunds.
func TestPull_InsufficientFundsRollsBack(t *testing.T) {
	mock := newMock(t)
	ledger := NewCustodyLedger(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE custody_balances").
		WithArgs("SKL", "alice", uint64(10)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := ledger.Pull(context.Background(), "SKL", "alice", 10)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Pull = %v, want ErrInsufficientFunds", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPull_ZeroAmount(t *testing.T) {
	mock := newMock(t)
	ledger := NewCustodyLedger(mock)

	// No database traffic: rejected before Begin.
	if err := ledger.Pull(context.Background(), "SKL", "alice", 0); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Pull = %v, want ErrInsufficientFunds", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPush_DebitsPoolAndCreditsRecipient(t *testing.T) {
	mock := newMock(t)
	ledger := NewCustodyLedger(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE custody_balances").
		WithArgs("SKL", poolHolder, uint64(25)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO custody_balances").
		WithArgs("SKL", "treasury", uint64(25)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := ledger.Push(context.Background(), "SKL", "treasury", 25); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPoolBalance(t *testing.T) {
	mock := newMock(t)
	ledger := NewCustodyLedger(mock)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("SKL", poolHolder).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(uint64(40)))

	balance, err := ledger.PoolBalance(context.Background(), "SKL")
	if err != nil {
		t.Fatalf("PoolBalance returned error: %v", err)
	}
	if balance != 40 {
		t.Fatalf("PoolBalance = %d, want 40", balance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
