// Package events records every negotiation state transition in an
// append-only Postgres log and mirrors it to Redis pub/sub so external
// consumers (the Gateway, the websocket stream) can follow negotiations live.
//
// The in-memory ledgers are the authoritative state; the log is an audit
// trail. Recording failures are therefore logged and never roll back a
// committed transition.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// Kind values name each auditable transition.
const (
	KindGraduateAdded  = "EVENT_GRADUATE_ADDED"
	KindEmployerStaked = "EVENT_EMPLOYER_STAKED"
	KindTokenApproved  = "EVENT_TOKEN_APPROVED"
	KindPoolWithdrawn  = "EVENT_POOL_WITHDRAWN"
	KindQuoteIssued    = "EVENT_QUOTE_ISSUED"
	KindQuoteApproved  = "EVENT_QUOTE_APPROVED"
	KindQuoteRejected  = "EVENT_QUOTE_REJECTED"
	KindHireFinalized  = "EVENT_HIRE_FINALIZED"
)

// Event is one audit log entry. Candidate/Employer/Token are empty when the
// transition does not involve them.
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Candidate string    `json:"candidate,omitempty"`
	Employer  string    `json:"employer,omitempty"`
	Token     string    `json:"token,omitempty"`
	Amount    uint64    `json:"amount,omitempty"`
	At        time.Time `json:"at"`
}

// DB is the subset of pgxpool.Pool the recorder needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Recorder appends events to Postgres and publishes them to Redis.
type Recorder struct {
	db  DB
	rdb *redis.Client
}

// NewRecorder returns a configured Recorder. rdb may be nil, in which case
// pub/sub mirroring is skipped (used in tests).
func NewRecorder(db DB, rdb *redis.Client) *Recorder {
	return &Recorder{db: db, rdb: rdb}
}

// Record appends one event. Non-fatal: failures are logged, never returned,
// so a committed ledger transition is never rolled back by its audit trail.
func (r *Recorder) Record(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	if r.db != nil {
		_, err := r.db.Exec(ctx,
			`INSERT INTO negotiation_events (id, kind, candidate, employer, token, amount, occurred_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, e.Kind, e.Candidate, e.Employer, e.Token, e.Amount, e.At,
		)
		if err != nil {
			slog.Warn("event append failed", "kind", e.Kind, "err", err)
		}
	}

	if r.rdb != nil {
		payload, _ := json.Marshal(e)
		if err := r.rdb.Publish(ctx, e.Kind, payload).Err(); err != nil {
			slog.Warn("event publish failed", "kind", e.Kind, "err", err)
		}
	}
}

// History returns events newest first, optionally filtered by candidate.
// limit <= 0 falls back to 100.
func (r *Recorder) History(ctx context.Context, candidate string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}

	const base = `
		SELECT id, kind, candidate, employer, token, amount, occurred_at
		FROM negotiation_events`

	var (
		rows pgx.Rows
		err  error
	)
	if candidate != "" {
		rows, err = r.db.Query(ctx, base+` WHERE candidate = $1 ORDER BY occurred_at DESC LIMIT $2`, candidate, limit)
	} else {
		rows, err = r.db.Query(ctx, base+` ORDER BY occurred_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	evts := make([]Event, 0)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.Candidate, &e.Employer, &e.Token, &e.Amount, &e.At); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		evts = append(evts, e)
	}
	return evts, rows.Err()
}
