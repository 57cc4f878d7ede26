// Service implementation for the negotiation protocol. All four mutating
// operations (QuoteHire, ApproveQuote, RejectQuote, Hire) run under one
// writer lock, so every precondition check and its commit observe a single
// consistent view — in particular the three-way check in Hire (eligibility,
// stake, consent) holds at the moment of the call, not merely at quote time.
package hiring

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AllenGeorge08/SkillBridge/internal/events"
)

// StakeReader is the read-only capability into the staking pool. It is
// re-queried on every employer precondition, never cached.
type StakeReader interface {
	IsStaked(addr string) bool
	StakedAmount(addr string) uint64
}

// GraduateReader is the read-only capability into the skill registry.
type GraduateReader interface {
	IsGraduate(addr string) bool
}

// Quote is one negotiation instance. Once Approved or Rejected is set the
// instance is frozen; a rejected instance may only be displaced by a fresh
// quote, never mutated back.
type Quote struct {
	ID       string    `json:"id"`
	Amount   uint64    `json:"amount"`
	Employer string    `json:"employer"`
	Approved bool      `json:"approved"`
	Rejected bool      `json:"rejected"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Service coordinates quotes and hires. It owns the Quote and hired-status
// records exclusively; stake and graduate facts come through the injected
// read capabilities.
type Service struct {
	mu sync.RWMutex

	stakes StakeReader
	grads  GraduateReader
	rec    *events.Recorder

	quotes  map[string]*Quote // candidate → live quote instance
	hiredBy map[string]string // candidate → hiring employer, set once
}

// NewService returns a Service with no negotiations in flight.
func NewService(stakes StakeReader, grads GraduateReader, rec *events.Recorder) *Service {
	return &Service{
		stakes:  stakes,
		grads:   grads,
		rec:     rec,
		quotes:  make(map[string]*Quote),
		hiredBy: make(map[string]string),
	}
}

// stateOf derives the candidate's negotiation state. Callers hold s.mu.
func (s *Service) stateOf(candidate string) State {
	if _, hired := s.hiredBy[candidate]; hired {
		return StateHired
	}
	q, ok := s.quotes[candidate]
	switch {
	case !ok:
		return StateNoQuote
	case q.Rejected:
		return StateRejected
	case q.Approved:
		return StateApproved
	default:
		return StateQuoted
	}
}

// QuoteHire installs a fresh quote from employer for candidate.
// Preconditions: candidate is a graduate and not hired, employer is staked,
// amount is positive, and no unresolved quote is pending.
func (s *Service) QuoteHire(ctx context.Context, employer, candidate string, amount uint64) (*Quote, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.grads.IsGraduate(candidate) {
		return nil, fmt.Errorf("%w: %s is not a registered graduate", ErrNotEligible, candidate)
	}
	if !s.stakes.IsStaked(employer) {
		return nil, fmt.Errorf("%w: employer %s has not staked", ErrNotEligible, employer)
	}

	switch state := s.stateOf(candidate); {
	case state == StateHired:
		return nil, fmt.Errorf("%w: %s is already hired", ErrAlreadyResolved, candidate)
	case !IsTransitionAllowed(state, StateQuoted):
		// QUOTED or APPROVED: a live negotiation is in progress.
		return nil, fmt.Errorf("%w: from %s", ErrQuotePending, s.quotes[candidate].Employer)
	}

	q := &Quote{
		ID:       uuid.NewString(),
		Amount:   amount,
		Employer: employer,
		IssuedAt: time.Now().UTC(),
	}
	s.quotes[candidate] = q

	s.rec.Record(ctx, events.Event{
		Kind:      events.KindQuoteIssued,
		Candidate: candidate,
		Employer:  employer,
		Amount:    amount,
	})
	slog.Info("quote issued", "candidate", candidate, "employer", employer, "amount", amount)

	quote := *q
	return &quote, nil
}

// ApproveQuote records the candidate's consent to their pending quote.
// Irreversible for that quote instance.
func (s *Service) ApproveQuote(ctx context.Context, candidate string) error {
	return s.resolve(ctx, candidate, StateApproved)
}

// RejectQuote closes the candidate's pending quote. Irreversible for that
// quote instance; a new quote may reopen the negotiation later.
func (s *Service) RejectQuote(ctx context.Context, candidate string) error {
	return s.resolve(ctx, candidate, StateRejected)
}

// resolve moves the candidate's pending quote to APPROVED or REJECTED.
func (s *Service) resolve(ctx context.Context, candidate string, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.grads.IsGraduate(candidate) {
		return fmt.Errorf("%w: %s is not a registered graduate", ErrNotEligible, candidate)
	}

	state := s.stateOf(candidate)
	if state == StateNoQuote {
		return ErrNoQuote
	}
	if !IsTransitionAllowed(state, to) {
		return fmt.Errorf("%w: quote is %s", ErrAlreadyResolved, state)
	}

	q := s.quotes[candidate]
	kind := events.KindQuoteApproved
	if to == StateRejected {
		q.Rejected = true
		kind = events.KindQuoteRejected
	} else {
		q.Approved = true
	}

	s.rec.Record(ctx, events.Event{
		Kind:      kind,
		Candidate: candidate,
		Employer:  q.Employer,
		Amount:    q.Amount,
	})
	return nil
}

// Hire finalizes the negotiation. Three independently-owned facts must agree
// at call time: the candidate is an unhired graduate, the employer holds a
// live stake, and the candidate approved this employer's quote. The hired
// mark is permanent.
func (s *Service) Hire(ctx context.Context, employer, candidate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.grads.IsGraduate(candidate) {
		return fmt.Errorf("%w: %s is not a registered graduate", ErrNotEligible, candidate)
	}
	if _, hired := s.hiredBy[candidate]; hired {
		return fmt.Errorf("%w: %s is already hired", ErrAlreadyResolved, candidate)
	}
	// Stake is re-checked here, not trusted from quote time.
	if !s.stakes.IsStaked(employer) {
		return fmt.Errorf("%w: employer %s has not staked", ErrNotEligible, employer)
	}

	q, ok := s.quotes[candidate]
	if !ok {
		return ErrNoQuote
	}
	if q.Employer != employer {
		return fmt.Errorf("%w: quote was issued by %s", ErrUnauthorized, q.Employer)
	}
	if q.Rejected {
		return fmt.Errorf("%w: candidate rejected the quote", ErrUnauthorized)
	}
	if !q.Approved {
		return fmt.Errorf("%w: candidate has not approved the quote", ErrUnauthorized)
	}

	s.hiredBy[candidate] = employer

	s.rec.Record(ctx, events.Event{
		Kind:      events.KindHireFinalized,
		Candidate: candidate,
		Employer:  employer,
		Amount:    q.Amount,
	})
	slog.Info("hire finalized", "candidate", candidate, "employer", employer, "amount", q.Amount)
	return nil
}

// ─── Read-only accessors ─────────────────────────────────────────────────────

// QuoteFor returns a copy of the candidate's current quote instance.
func (s *Service) QuoteFor(candidate string) (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[candidate]
	if !ok {
		return Quote{}, ErrNoQuote
	}
	return *q, nil
}

// IsHired reports whether the candidate has been hired.
func (s *Service) IsHired(candidate string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hiredBy[candidate]
	return ok
}

// HiredBy returns the employer that hired the candidate.
func (s *Service) HiredBy(candidate string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.hiredBy[candidate]
	return e, ok
}

// HasApprovedQuote reports whether the candidate's current quote is approved.
func (s *Service) HasApprovedQuote(candidate string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[candidate]
	return ok && q.Approved
}

// HasRejectedQuote reports whether the candidate's current quote is rejected.
func (s *Service) HasRejectedQuote(candidate string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[candidate]
	return ok && q.Rejected
}

// PendingOlderThan returns candidates whose unresolved quote was issued
// before now-age. Used by the auditor to report stalled negotiations.
func (s *Service) PendingOlderThan(age time.Duration) []string {
	cutoff := time.Now().UTC().Add(-age)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var stale []string
	for candidate, q := range s.quotes {
		if q.Approved || q.Rejected {
			continue
		}
		if _, hired := s.hiredBy[candidate]; hired {
			continue
		}
		if q.IssuedAt.Before(cutoff) {
			stale = append(stale, candidate)
		}
	}
	return stale
}

// StateOf returns the candidate's derived negotiation state.
func (s *Service) StateOf(candidate string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateOf(candidate)
}
