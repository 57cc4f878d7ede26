// Package staking contains the employer staking pool: who has locked
// collateral, how much, and which collateral tokens are accepted.
// It is transport-agnostic; the HTTP layer lives in handler.go.
//
// Every mutating operation runs under a single writer lock, so callers
// observe either the state before an operation or after it, never between.
// The collateral transfer happens with the lock held: if the pull fails,
// no ledger state has changed.
package staking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AllenGeorge08/SkillBridge/internal/events"
)

// Transferrer is the value-transfer capability collateral moves through.
// Fail-fast: a returned error means no balances changed.
type Transferrer interface {
	Pull(ctx context.Context, token, from string, amount uint64) error
	Push(ctx context.Context, token, to string, amount uint64) error
	PoolBalance(ctx context.Context, token string) (uint64, error)
}

// Employer is one staking pool entry. Created exactly once per address;
// re-staking is rejected, so StakedAmount never changes after creation.
type Employer struct {
	ID           int64     `json:"id"`
	Address      string    `json:"address"`
	DisplayName  string    `json:"displayName"`
	CompanyName  string    `json:"companyName"`
	SalaryFloor  uint64    `json:"salaryFloor"`
	Skills       []string  `json:"skills"`
	StakedAmount uint64    `json:"stakedAmount"`
	StakedAt     time.Time `json:"stakedAt"`
}

// RegisterInput carries everything RegisterAndStake validates.
type RegisterInput struct {
	Employer    string
	DisplayName string
	CompanyName string
	SalaryFloor uint64
	Skills      []string
	Token       string
	Amount      uint64
}

// Ledger is the employer staking pool.
type Ledger struct {
	mu sync.RWMutex

	transfers Transferrer
	rec       *events.Recorder

	minStake  uint64
	minSalary uint64

	employers []*Employer
	byAddress map[string]int64 // address → employer ID
	approved  map[string]bool  // collateral token allow-list
	total     uint64           // sum of all staked collateral
}

// NewLedger returns an empty pool with the given floors.
func NewLedger(transfers Transferrer, rec *events.Recorder, minStake, minSalary uint64) *Ledger {
	return &Ledger{
		transfers: transfers,
		rec:       rec,
		minStake:  minStake,
		minSalary: minSalary,
		byAddress: make(map[string]int64),
		approved:  make(map[string]bool),
	}
}

// RegisterAndStake validates the registration, pulls the collateral into
// pool custody, and commits the employer record. All-or-nothing: a failed
// pull leaves the ledger untouched. Returns the new employer ID.
//
// One stake per employer: a second call for the same address fails with
// ErrAlreadyStaked rather than orphaning the first entry.
func (l *Ledger) RegisterAndStake(ctx context.Context, in RegisterInput) (int64, error) {
	if in.Employer == "" {
		return 0, ErrInvalidAddress
	}
	if in.SalaryFloor < l.minSalary {
		return 0, fmt.Errorf("%w: %d < %d", ErrSalaryTooLow, in.SalaryFloor, l.minSalary)
	}
	if in.Amount < l.minStake {
		return 0, fmt.Errorf("%w: %d < %d", ErrInvalidAmount, in.Amount, l.minStake)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.approved[in.Token] {
		return 0, fmt.Errorf("%w: %s", ErrTokenNotApproved, in.Token)
	}
	if _, exists := l.byAddress[in.Employer]; exists {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyStaked, in.Employer)
	}

	// Collateral moves before any ledger write. The lock is held across the
	// pull, so no other operation can observe a half-staked employer.
	if err := l.transfers.Pull(ctx, in.Token, in.Employer, in.Amount); err != nil {
		return 0, fmt.Errorf("collateral pull: %w", err)
	}

	id := int64(len(l.employers) + 1)
	l.employers = append(l.employers, &Employer{
		ID:           id,
		Address:      in.Employer,
		DisplayName:  in.DisplayName,
		CompanyName:  in.CompanyName,
		SalaryFloor:  in.SalaryFloor,
		Skills:       append([]string(nil), in.Skills...),
		StakedAmount: in.Amount,
		StakedAt:     time.Now().UTC(),
	})
	l.byAddress[in.Employer] = id
	l.total += in.Amount

	l.rec.Record(ctx, events.Event{
		Kind:     events.KindEmployerStaked,
		Employer: in.Employer,
		Token:    in.Token,
		Amount:   in.Amount,
	})

	return id, nil
}

// IsStaked reports whether the address has a live stake.
func (l *Ledger) IsStaked(addr string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.byAddress[addr]
	return ok
}

// StakedAmount returns the collateral locked by addr, 0 if never staked.
func (l *Ledger) StakedAmount(addr string) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if id, ok := l.byAddress[addr]; ok {
		return l.employers[id-1].StakedAmount
	}
	return 0
}

// EmployerByAddress returns a copy of the employer record for addr.
func (l *Ledger) EmployerByAddress(addr string) (Employer, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.byAddress[addr]
	if !ok {
		return Employer{}, false
	}
	return *l.employers[id-1], true
}

// TotalStaked returns the sum of all locked collateral. The auditor compares
// this against the custody ledger.
func (l *Ledger) TotalStaked() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// ApprovedTokens returns the collateral allow-list. The auditor sums pool
// custody balances across these.
func (l *Ledger) ApprovedTokens() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.approved))
	for tok := range l.approved {
		out = append(out, tok)
	}
	return out
}

// IsTokenApproved reports allow-list membership.
func (l *Ledger) IsTokenApproved(tok string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.approved[tok]
}

// ApproveToken adds tok to the collateral allow-list. Administrator-only;
// the admin gate enforces that at the transport layer. Re-approving is a
// no-op. There is no removal operation.
func (l *Ledger) ApproveToken(ctx context.Context, tok string) error {
	if tok == "" {
		return ErrTokenNotApproved
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.approved[tok] {
		return nil
	}
	l.approved[tok] = true

	l.rec.Record(ctx, events.Event{Kind: events.KindTokenApproved, Token: tok})
	return nil
}

// Withdraw moves the pool's entire custody balance of tok to the recipient.
// Administrator-only. Fails with ErrEmptyPool when there is nothing to move.
func (l *Ledger) Withdraw(ctx context.Context, tok, to string) error {
	if to == "" {
		return ErrInvalidAddress
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.transfers.PoolBalance(ctx, tok)
	if err != nil {
		return fmt.Errorf("pool balance: %w", err)
	}
	if balance == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyPool, tok)
	}

	if err := l.transfers.Push(ctx, tok, to, balance); err != nil {
		return fmt.Errorf("withdraw push: %w", err)
	}

	l.rec.Record(ctx, events.Event{
		Kind:     events.KindPoolWithdrawn,
		Employer: to,
		Token:    tok,
		Amount:   balance,
	})
	return nil
}
