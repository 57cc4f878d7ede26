package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AllenGeorge08/SkillBridge/internal/events"
	"github.com/AllenGeorge08/SkillBridge/internal/registry"
)

func newTestRegistry() *registry.Registry {
	return registry.New(events.NewRecorder(nil, nil))
}

func TestAddGraduate_RequiresAddressAndSkill(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()

	if err := r.AddGraduate(ctx, "", "solidity", "advanced", "univ"); !errors.Is(err, registry.ErrInvalidGraduate) {
		t.Fatalf("AddGraduate = %v, want ErrInvalidGraduate", err)
	}
	if err := r.AddGraduate(ctx, "alice", "", "advanced", "univ"); !errors.Is(err, registry.ErrInvalidGraduate) {
		t.Fatalf("AddGraduate = %v, want ErrInvalidGraduate", err)
	}
	if r.Count() != 0 {
		t.Fatal("failed registrations must not add members")
	}
}

func TestAddGraduate_UpsertKeepsMembershipOrder(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()

	for _, addr := range []string{"alice", "bob", "carol"} {
		if err := r.AddGraduate(ctx, addr, "go", "junior", "univ"); err != nil {
			t.Fatalf("AddGraduate(%s) returned error: %v", addr, err)
		}
	}

	// Re-adding alice overwrites the skill fields but not her list position.
	if err := r.AddGraduate(ctx, "alice", "rust", "senior", "univ2"); err != nil {
		t.Fatalf("AddGraduate returned error: %v", err)
	}

	if got := r.Count(); got != 3 {
		t.Fatalf("Count = %d, want 3 (no duplicate membership)", got)
	}

	grads := r.Graduates()
	if len(grads) != 3 {
		t.Fatalf("Graduates returned %d records, want 3", len(grads))
	}
	order := []string{"alice", "bob", "carol"}
	for i, want := range order {
		if grads[i].Address != want {
			t.Fatalf("Graduates[%d] = %s, want %s", i, grads[i].Address, want)
		}
	}
	if grads[0].SkillName != "rust" || grads[0].Level != "senior" {
		t.Fatalf("upsert did not overwrite skill fields: %+v", grads[0])
	}
}

func TestIsGraduate(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()

	if r.IsGraduate("alice") {
		t.Fatal("IsGraduate should be false before registration")
	}
	if err := r.AddGraduate(ctx, "alice", "go", "junior", "univ"); err != nil {
		t.Fatalf("AddGraduate returned error: %v", err)
	}
	if !r.IsGraduate("alice") {
		t.Fatal("IsGraduate should be true after registration")
	}
}

// Skill fails explicitly for unknown addresses; no zero-value sentinel.
func TestSkill_UnknownAddressFails(t *testing.T) {
	r := newTestRegistry()

	if _, err := r.Skill("ghost"); !errors.Is(err, registry.ErrNotGraduate) {
		t.Fatalf("Skill = %v, want ErrNotGraduate", err)
	}
}

func TestSkill_ReturnsRecord(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()

	if err := r.AddGraduate(ctx, "alice", "go", "junior", "univ"); err != nil {
		t.Fatalf("AddGraduate returned error: %v", err)
	}

	g, err := r.Skill("alice")
	if err != nil {
		t.Fatalf("Skill returned error: %v", err)
	}
	if g.Address != "alice" || g.SkillName != "go" || g.Issuer != "univ" {
		t.Fatalf("unexpected record %+v", g)
	}
	if g.IssuedAt.IsZero() {
		t.Fatal("IssuedAt should be set on registration")
	}

	// Repeated reads with no intervening mutation return identical results.
	again, err := r.Skill("alice")
	if err != nil {
		t.Fatalf("Skill returned error: %v", err)
	}
	if again != g {
		t.Fatalf("Skill changed across reads: %+v vs %+v", again, g)
	}
}
