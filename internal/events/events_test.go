package events

import (
	"context"
	"testing"
	"time"

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

func TestRecord_AppendsRow(t *testing.T) {
	mock := newMock(t)
	rec := NewRecorder(mock, nil)

	mock.ExpectExec("INSERT INTO negotiation_events").
		WithArgs(pgxmock.AnyArg(), KindQuoteIssued, "grad-g", "employer-e", "", uint64(100), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec.Record(context.Background(), Event{
		Kind:      KindQuoteIssued,
		Candidate: "grad-g",
		Employer:  "employer-e",
		Amount:    100,
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A nil database and nil Redis client make Record a no-op; the in-memory
// ledgers use this in their unit tests.
func TestRecord_NilBackendsAreSafe(t *testing.T) {
	rec := NewRecorder(nil, nil)
	rec.Record(context.Background(), Event{Kind: KindHireFinalized})
}

func TestHistory_FilteredByCandidate(t *testing.T) {
	mock := newMock(t)
	rec := NewRecorder(mock, nil)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "kind", "candidate", "employer", "token", "amount", "occurred_at"}).
		AddRow("id-2", KindQuoteApproved, "grad-g", "employer-e", "", uint64(100), now).
		AddRow("id-1", KindQuoteIssued, "grad-g", "employer-e", "", uint64(100), now.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, kind, candidate, employer, token, amount, occurred_at").
		WithArgs("grad-g", 50).
		WillReturnRows(rows)

	evts, err := rec.History(context.Background(), "grad-g", 50)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(evts) != 2 {
		t.Fatalf("History returned %d events, want 2", len(evts))
	}
	if evts[0].Kind != KindQuoteApproved || evts[1].Kind != KindQuoteIssued {
		t.Fatalf("unexpected order: %s, %s", evts[0].Kind, evts[1].Kind)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHistory_DefaultLimit(t *testing.T) {
	mock := newMock(t)
	rec := NewRecorder(mock, nil)

	mock.ExpectQuery("SELECT id, kind, candidate, employer, token, amount, occurred_at").
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "kind", "candidate", "employer", "token", "amount", "occurred_at"}))

	evts, err := rec.History(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(evts) != 0 {
		t.Fatalf("History returned %d events, want 0", len(evts))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
