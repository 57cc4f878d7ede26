// Package registry tracks graduates and their issued skill credentials.
// Only an administrator may add graduates; records are never deleted.
package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AllenGeorge08/SkillBridge/internal/events"
)

// ErrNotGraduate is returned by Skill for addresses never registered.
// The registry fails explicitly rather than returning a zero-value record.
var ErrNotGraduate = errors.New("address is not a registered graduate")

// ErrInvalidGraduate is returned when a registration is missing its address
// or skill name.
var ErrInvalidGraduate = errors.New("graduate address and skill name required")

// Graduate is one credential record. Re-adding an address overwrites the
// skill fields but keeps its position in the membership list.
type Graduate struct {
	Address   string    `json:"address"`
	SkillName string    `json:"skillName"`
	Level     string    `json:"level"`
	Issuer    string    `json:"issuer"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// Registry is the graduate credential store.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Graduate
	order   []string // addresses in first-registration order, no duplicates
	rec     *events.Recorder
}

// New returns an empty Registry.
func New(rec *events.Recorder) *Registry {
	return &Registry{
		records: make(map[string]*Graduate),
		rec:     rec,
	}
}

// AddGraduate upserts the credential record for addr. Administrator-only;
// the admin gate enforces that at the transport layer. The membership list
// gains addr only on first registration.
func (r *Registry) AddGraduate(ctx context.Context, addr, skillName, level, issuer string) error {
	if addr == "" || skillName == "" {
		return ErrInvalidGraduate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.records[addr]; !seen {
		r.order = append(r.order, addr)
	}
	r.records[addr] = &Graduate{
		Address:   addr,
		SkillName: skillName,
		Level:     level,
		Issuer:    issuer,
		IssuedAt:  time.Now().UTC(),
	}

	r.rec.Record(ctx, events.Event{Kind: events.KindGraduateAdded, Candidate: addr})
	return nil
}

// IsGraduate reports registry membership.
func (r *Registry) IsGraduate(addr string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[addr]
	return ok
}

// Skill returns the credential record for addr, or ErrNotGraduate.
func (r *Registry) Skill(addr string) (Graduate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.records[addr]
	if !ok {
		return Graduate{}, ErrNotGraduate
	}
	return *g, nil
}

// Graduates returns all records in first-registration order.
func (r *Registry) Graduates() []Graduate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Graduate, 0, len(r.order))
	for _, addr := range r.order {
		out = append(out, *r.records[addr])
	}
	return out
}

// Count returns the number of registered graduates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
