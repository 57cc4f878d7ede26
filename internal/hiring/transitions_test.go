package hiring_test

import (
	"testing"

	"github.com/AllenGeorge08/SkillBridge/internal/hiring"
)

// ── ParseState ─────────────────────────────────────────────────────────────

func TestParseState_ValidValues(t *testing.T) {
	valid := []string{"NO_QUOTE", "QUOTED", "APPROVED", "REJECTED", "HIRED"}
	for _, s := range valid {
		got, err := hiring.ParseState(s)
		if err != nil {
			t.Errorf("ParseState(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseState(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseState_InvalidValue(t *testing.T) {
	_, err := hiring.ParseState("UNKNOWN")
	if err == nil {
		t.Error("ParseState(\"UNKNOWN\") expected error, got nil")
	}
}

func TestParseState_EmptyString(t *testing.T) {
	_, err := hiring.ParseState("")
	if err == nil {
		t.Error("ParseState(\"\") expected error, got nil")
	}
}

func TestParseState_CaseSensitive(t *testing.T) {
	lowercase := []string{"no_quote", "quoted", "approved", "rejected", "hired"}
	for _, s := range lowercase {
		_, err := hiring.ParseState(s)
		if err == nil {
			t.Errorf("ParseState(%q) should reject lowercase value, got nil error", s)
		}
	}
}

// ── IsTransitionAllowed — valid transitions ────────────────────────────────

func TestIsTransitionAllowed_Valid(t *testing.T) {
	cases := []struct {
		from hiring.State
		to   hiring.State
	}{
		{hiring.StateNoQuote, hiring.StateQuoted},
		{hiring.StateQuoted, hiring.StateApproved},
		{hiring.StateQuoted, hiring.StateRejected},
		{hiring.StateApproved, hiring.StateHired},
		{hiring.StateRejected, hiring.StateQuoted}, // re-quote after rejection
	}
	for _, c := range cases {
		if !hiring.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

// ── IsTransitionAllowed — HIRED is terminal ────────────────────────────────

func TestIsTransitionAllowed_FromHired(t *testing.T) {
	targets := []hiring.State{
		hiring.StateNoQuote,
		hiring.StateQuoted,
		hiring.StateApproved,
		hiring.StateRejected,
		hiring.StateHired,
	}
	for _, to := range targets {
		if hiring.IsTransitionAllowed(hiring.StateHired, to) {
			t.Errorf("IsTransitionAllowed(HIRED → %s) should be false (terminal state)", to)
		}
	}
}

// ── IsTransitionAllowed — resolution flags freeze the instance ─────────────

func TestIsTransitionAllowed_ResolvedQuoteIsFrozen(t *testing.T) {
	cases := []struct {
		from hiring.State
		to   hiring.State
	}{
		{hiring.StateApproved, hiring.StateRejected}, // consent cannot flip
		{hiring.StateApproved, hiring.StateQuoted},   // approved blocks re-quote
		{hiring.StateRejected, hiring.StateApproved}, // rejection cannot flip
		{hiring.StateRejected, hiring.StateHired},    // rejection blocks hiring
	}
	for _, c := range cases {
		if hiring.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", c.from, c.to)
		}
	}
}

// ── IsTransitionAllowed — hiring requires consent first ────────────────────

func TestIsTransitionAllowed_HireNeedsApproval(t *testing.T) {
	cases := []hiring.State{
		hiring.StateNoQuote,
		hiring.StateQuoted,
		hiring.StateRejected,
	}
	for _, from := range cases {
		if hiring.IsTransitionAllowed(from, hiring.StateHired) {
			t.Errorf("IsTransitionAllowed(%s → HIRED) should be false (no consent)", from)
		}
	}
}

// ── IsTransitionAllowed — self-transitions are forbidden ──────────────────

func TestIsTransitionAllowed_Self(t *testing.T) {
	all := []hiring.State{
		hiring.StateNoQuote, hiring.StateQuoted, hiring.StateApproved,
		hiring.StateRejected, hiring.StateHired,
	}
	for _, s := range all {
		if hiring.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false (self)", s, s)
		}
	}
}

// ── IsTerminal ─────────────────────────────────────────────────────────────

func TestIsTerminal(t *testing.T) {
	if !hiring.IsTerminal(hiring.StateHired) {
		t.Error("IsTerminal(HIRED) should return true")
	}
	for _, s := range []hiring.State{
		hiring.StateNoQuote,
		hiring.StateQuoted,
		hiring.StateApproved,
		hiring.StateRejected,
	} {
		if hiring.IsTerminal(s) {
			t.Errorf("IsTerminal(%s) should return false", s)
		}
	}
}
