// Package hiring defines the negotiation state machine for candidates.
//
// Valid state graph, tracked per candidate:
//
//	NO_QUOTE ──► QUOTED ──► APPROVED ──► HIRED
//	               ▲ │
//	               │ ▼
//	            REJECTED
//
// HIRED is terminal. REJECTED closes the quote instance but a fresh quote
// may reopen the negotiation (REJECTED → QUOTED). A pending or approved
// quote is never silently replaced.
package hiring

import "fmt"

// State values describe where a candidate's negotiation stands.
type State string

const (
	StateNoQuote  State = "NO_QUOTE"
	StateQuoted   State = "QUOTED"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
	StateHired    State = "HIRED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[State][]State{
	StateNoQuote:  {StateQuoted},
	StateQuoted:   {StateApproved, StateRejected},
	StateApproved: {StateHired},
	StateRejected: {StateQuoted}, // a closed negotiation may reopen
	// HIRED is terminal — no outgoing transitions
}

// ParseState converts a raw string to a State, returning an error for
// unknown values.
func ParseState(s string) (State, error) {
	st := State(s)
	switch st {
	case StateNoQuote, StateQuoted, StateApproved, StateRejected, StateHired:
		return st, nil
	}
	return "", fmt.Errorf("unknown negotiation state %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions.
func IsTerminal(s State) bool {
	_, ok := validTransitions[s]
	return !ok
}
