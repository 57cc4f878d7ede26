package auditor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AllenGeorge08/SkillBridge/internal/auditor"
)

type fakeTotals struct {
	total  uint64
	tokens []string
}

func (f fakeTotals) TotalStaked() uint64      { return f.total }
func (f fakeTotals) ApprovedTokens() []string { return f.tokens }

type fakeBalances struct {
	balances map[string]uint64
	failFor  string
}

func (f fakeBalances) PoolBalance(_ context.Context, token string) (uint64, error) {
	if token == f.failFor {
		return 0, errors.New("balance unavailable")
	}
	return f.balances[token], nil
}

type fakeScanner []string

func (f fakeScanner) PendingOlderThan(time.Duration) []string { return f }

func TestRunSweep_BalancedPool(t *testing.T) {
	a := auditor.New(
		fakeTotals{total: 30, tokens: []string{"SKL", "EDU"}},
		fakeBalances{balances: map[string]uint64{"SKL": 20, "EDU": 10}},
		fakeScanner(nil),
		nil, 6,
	)

	report := a.RunSweep(context.Background())
	if report.TotalStaked != 30 || report.CustodyTotal != 30 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.StaleQuotes) != 0 {
		t.Fatalf("StaleQuotes = %v, want none", report.StaleQuotes)
	}
	if report.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt should be set")
	}
}

// A withdrawal drains custody below the staked total; the sweep reports the
// drift rather than failing.
func TestRunSweep_ReportsDriftAndStaleQuotes(t *testing.T) {
	a := auditor.New(
		fakeTotals{total: 30, tokens: []string{"SKL"}},
		fakeBalances{balances: map[string]uint64{"SKL": 5}},
		fakeScanner{"grad-g"},
		nil, 6,
	)

	report := a.RunSweep(context.Background())
	if report.CustodyTotal != 5 || report.TotalStaked != 30 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.StaleQuotes) != 1 || report.StaleQuotes[0] != "grad-g" {
		t.Fatalf("StaleQuotes = %v, want [grad-g]", report.StaleQuotes)
	}
}

// An unreadable token balance is skipped, not fatal for the sweep.
func TestRunSweep_SkipsUnreadableBalances(t *testing.T) {
	a := auditor.New(
		fakeTotals{total: 30, tokens: []string{"SKL", "EDU"}},
		fakeBalances{balances: map[string]uint64{"SKL": 20, "EDU": 10}, failFor: "EDU"},
		fakeScanner(nil),
		nil, 6,
	)

	report := a.RunSweep(context.Background())
	if report.CustodyTotal != 20 {
		t.Fatalf("CustodyTotal = %d, want 20 (EDU skipped)", report.CustodyTotal)
	}
}
