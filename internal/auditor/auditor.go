// Package auditor wires up the cron job that periodically reconciles the
// staking ledger against the custody ledger and reports stalled negotiations.
package auditor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// staleQuoteAge is how long a quote may sit unresolved before the auditor
// reports it.
const staleQuoteAge = 7 * 24 * time.Hour

// StakeTotals is the staking ledger view the auditor reads.
type StakeTotals interface {
	TotalStaked() uint64
	ApprovedTokens() []string
}

// BalanceReader reads pool custody balances per token.
type BalanceReader interface {
	PoolBalance(ctx context.Context, token string) (uint64, error)
}

// QuoteScanner reports stalled negotiations.
type QuoteScanner interface {
	PendingOlderThan(age time.Duration) []string
}

// Auditor wraps robfig/cron and manages the reconciliation sweep.
type Auditor struct {
	cron    *cron.Cron
	stakes  StakeTotals
	custody BalanceReader
	quotes  QuoteScanner
	rdb     *redis.Client
	spec    string // cron spec, e.g. "@every 6h"
}

// New creates an Auditor that fires every intervalHours hours.
func New(stakes StakeTotals, custody BalanceReader, quotes QuoteScanner, rdb *redis.Client, intervalHours int) *Auditor {
	return &Auditor{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		stakes:  stakes,
		custody: custody,
		quotes:  quotes,
		rdb:     rdb,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so drift is reported without waiting for the first tick.
func (a *Auditor) Start(ctx context.Context) error {
	_, err := a.cron.AddFunc(a.spec, func() {
		a.RunSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	a.cron.Start()
	log.Printf("[auditor] Cron started — spec: %s", a.spec)

	go a.RunSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (a *Auditor) Stop() {
	a.cron.Stop()
	log.Println("[auditor] Cron stopped")
}

// Report is one sweep's findings, published to Redis for dashboards.
type Report struct {
	TotalStaked  uint64    `json:"totalStaked"`
	CustodyTotal uint64    `json:"custodyTotal"`
	StaleQuotes  []string  `json:"staleQuotes,omitempty"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// RunSweep compares staked totals against custody balances and reports
// quotes stalled past staleQuoteAge. Withdrawals legitimately drain custody
// below the staked total; the sweep surfaces the drift, it does not correct it.
func (a *Auditor) RunSweep(ctx context.Context) Report {
	log.Println("[auditor] Sweep started")

	var custodyTotal uint64
	for _, tok := range a.stakes.ApprovedTokens() {
		balance, err := a.custody.PoolBalance(ctx, tok)
		if err != nil {
			log.Printf("[auditor] PoolBalance error for token %s: %v", tok, err)
			continue
		}
		custodyTotal += balance
	}

	report := Report{
		TotalStaked:  a.stakes.TotalStaked(),
		CustodyTotal: custodyTotal,
		StaleQuotes:  a.quotes.PendingOlderThan(staleQuoteAge),
		GeneratedAt:  time.Now().UTC(),
	}

	if report.CustodyTotal != report.TotalStaked {
		log.Printf("[auditor] Custody drift: staked=%d custody=%d", report.TotalStaked, report.CustodyTotal)
	}
	for _, candidate := range report.StaleQuotes {
		log.Printf("[auditor] Stale quote for candidate %s", candidate)
	}

	if a.rdb != nil {
		payload, _ := json.Marshal(report)
		if err := a.rdb.Publish(ctx, "AUDIT_REPORT", payload).Err(); err != nil {
			log.Printf("[auditor] publish AUDIT_REPORT failed: %v", err)
		}
	}

	log.Println("[auditor] Sweep complete")
	return report
}
