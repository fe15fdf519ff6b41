// Package semblance compares structured factual assertions for
// implication, equivalence, contradiction, and consistency. The Engine
// facade stores factors, runs comparisons between them, and records the
// results.
package semblance

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/semblance/pkg/semblance/schema"
	"github.com/cognicore/semblance/pkg/semblance/store"
	"github.com/cognicore/semblance/pkg/semblance/store/memstore"
	"github.com/cognicore/semblance/pkg/semblance/term"
)

// Options configures an Engine instance.
type Options struct {
	Store store.Store
}

// Engine is the comparison engine facade.
type Engine struct {
	store store.Store

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates an Engine. Without options it keeps factors in memory.
func New(opts ...Options) *Engine {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Store == nil {
		o.Store = memstore.New()
	}
	return &Engine{
		store:   o.Store,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Close cleanly shuts down the engine.
func (e *Engine) Close() error {
	return e.store.Close()
}

func (e *Engine) newID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}

func factorKind(t term.Term) string {
	switch t.(type) {
	case *term.Entity:
		return schema.TypeEntity
	case *term.Statement:
		return schema.TypeStatement
	case *term.Assertion:
		return schema.TypeAssertion
	}
	return ""
}

// AddFactor serializes and stores a factor under a fresh ID.
func (e *Engine) AddFactor(ctx context.Context, name string, t term.Term) (store.Factor, error) {
	raw, err := schema.Dump(t)
	if err != nil {
		return store.Factor{}, err
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return store.Factor{}, err
	}
	rec := store.Factor{
		ID:        e.newID(),
		Name:      name,
		Kind:      factorKind(t),
		Text:      t.String(),
		Raw:       string(encoded),
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.PutFactor(ctx, rec); err != nil {
		return store.Factor{}, err
	}
	return rec, nil
}

// GetFactor loads a stored factor and rebuilds its term form.
func (e *Engine) GetFactor(ctx context.Context, id string) (term.Term, store.Factor, error) {
	rec, err := e.store.GetFactor(ctx, id)
	if err != nil {
		return nil, store.Factor{}, err
	}
	built, err := decodeFactor(rec)
	if err != nil {
		return nil, store.Factor{}, err
	}
	return built, rec, nil
}

// ListFactors returns the stored factor records.
func (e *Engine) ListFactors(ctx context.Context) ([]store.Factor, error) {
	return e.store.ListFactors(ctx)
}

func decodeFactor(rec store.Factor) (term.Term, error) {
	var raw schema.RawFactor
	if err := json.Unmarshal([]byte(rec.Raw), &raw); err != nil {
		return nil, fmt.Errorf("factor %s: %w", rec.ID, err)
	}
	return schema.Build(raw)
}

// Report gives the result of each relation between two factors, with
// explanation text for the ones that hold.
type Report struct {
	Implies     bool
	ImpliedBy   bool
	Means       bool
	Contradicts bool
	Consistent  bool
	Explanation string
}

// Compare runs all relations between two factors.
func Compare(left, right term.Term) Report {
	r := Report{
		Implies:     term.Implies(left, right, nil),
		ImpliedBy:   term.ImpliedBy(left, right, nil),
		Means:       term.Means(left, right, nil),
		Contradicts: term.Contradicts(left, right, nil),
		Consistent:  term.ConsistentWith(left, right, nil),
	}
	r.Explanation = explain(left, right, r)
	return r
}

func explain(left, right term.Term, r Report) string {
	var reg *term.ContextRegister
	var relation string
	switch {
	case r.Means:
		reg = term.ExplainSameMeaning(left, right, nil)
		relation = "MEANS"
	case r.Implies:
		reg = term.ExplainImplication(left, right, nil)
		relation = "IMPLIES"
	case r.Contradicts:
		reg = term.ExplainContradiction(left, right, nil)
		relation = "CONTRADICTS"
	}
	if reg == nil {
		return ""
	}
	return fmt.Sprintf("Because %s,\n  %s\n  %s\n  %s",
		reg.Reason(), left.ShortString(), relation, right.ShortString())
}

// CompareStored loads two stored factors, compares them, and records
// the result.
func (e *Engine) CompareStored(ctx context.Context, leftID, rightID string) (Report, error) {
	left, _, err := e.GetFactor(ctx, leftID)
	if err != nil {
		return Report{}, err
	}
	right, _, err := e.GetFactor(ctx, rightID)
	if err != nil {
		return Report{}, err
	}
	report := Compare(left, right)

	rec := store.Comparison{
		ID:          e.newID(),
		LeftID:      leftID,
		RightID:     rightID,
		Implies:     report.Implies,
		ImpliedBy:   report.ImpliedBy,
		Means:       report.Means,
		Contradicts: report.Contradicts,
		Consistent:  report.Consistent,
		Explanation: report.Explanation,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.store.PutComparison(ctx, rec); err != nil {
		return Report{}, err
	}
	return report, nil
}

// Implication pairs a stored factor with the register that makes it
// imply the probe.
type Implication struct {
	Record store.Factor
	Reason string
}

// Implications returns the stored factors that imply the probe.
func (e *Engine) Implications(ctx context.Context, probe term.Term) ([]Implication, error) {
	recs, err := e.store.ListFactors(ctx)
	if err != nil {
		return nil, err
	}
	var out []Implication
	for _, rec := range recs {
		built, err := decodeFactor(rec)
		if err != nil {
			return nil, err
		}
		if reg := term.ExplainImplication(built, probe, nil); reg != nil {
			out = append(out, Implication{Record: rec, Reason: reg.Reason()})
		}
	}
	return out, nil
}

// Comparisons returns the recorded comparisons involving a factor.
func (e *Engine) Comparisons(ctx context.Context, factorID string) ([]store.Comparison, error) {
	return e.store.ListComparisons(ctx, factorID)
}
