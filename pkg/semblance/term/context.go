package term

import (
	"fmt"
	"strings"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
)

// Pair is one correspondence between a term on the left side of a
// comparison and a term on the right.
type Pair struct {
	Key   Term
	Value Term
}

// ContextRegister records which generic terms on one side of a
// comparison correspond to which generic terms on the other. The
// mapping is injective in both directions and is keyed by each term's
// structural key, so structurally equal nodes unify. Merges build new
// registers; an existing register is never mutated by comparison code.
type ContextRegister struct {
	pairs   []Pair
	matches map[string]Term
	reverse map[string]Term
}

func NewContextRegister() *ContextRegister {
	return &ContextRegister{
		matches: make(map[string]Term),
		reverse: make(map[string]Term),
	}
}

// FromLists pairs up two equal-length slices of terms.
func FromLists(keys, values []Term) (*ContextRegister, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%w: %d keys but %d values",
			internalerr.ErrTermCount, len(keys), len(values))
	}
	reg := NewContextRegister()
	for i := range keys {
		if err := reg.InsertPair(keys[i], values[i]); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// NewContextFromTerms builds a register replacing t's generic terms, in
// order, with the given replacements. The replacement count must match
// the number of distinct generic terms in t.
func NewContextFromTerms(t Term, replacements []Term) (*ContextRegister, error) {
	generics := t.GenericTerms()
	if len(replacements) != len(generics) {
		return nil, fmt.Errorf("%w: %d replacements for %d generic terms",
			internalerr.ErrTermCount, len(replacements), len(generics))
	}
	return FromLists(generics, replacements)
}

func (r *ContextRegister) Len() int { return len(r.pairs) }

// Get returns the term bound to the given structural key, or nil.
func (r *ContextRegister) Get(key string) Term { return r.matches[key] }

// GetFactor returns the term bound to the given term, or nil.
func (r *ContextRegister) GetFactor(t Term) Term { return r.matches[t.Key()] }

// GetReverseFactor returns the left-side term bound to the given
// right-side term, or nil.
func (r *ContextRegister) GetReverseFactor(t Term) Term { return r.reverse[t.Key()] }

// InsertPair binds key to value. Binding a key to a second value, or a
// value to a second key, is a mapping conflict. Re-inserting an
// existing pair is a no-op.
func (r *ContextRegister) InsertPair(key, value Term) error {
	if existing := r.matches[key.Key()]; existing != nil {
		if existing.Key() == value.Key() {
			return nil
		}
		return fmt.Errorf("%w: %s already corresponds to %s",
			internalerr.ErrMappingConflict, key.ShortString(), existing.ShortString())
	}
	if claimed := r.reverse[value.Key()]; claimed != nil {
		return fmt.Errorf("%w: %s already corresponds to %s",
			internalerr.ErrMappingConflict, value.ShortString(), claimed.ShortString())
	}
	r.pairs = append(r.pairs, Pair{Key: key, Value: value})
	r.matches[key.Key()] = value
	r.reverse[value.Key()] = key
	return nil
}

// FactorPairs returns the bindings in insertion order.
func (r *ContextRegister) FactorPairs() []Pair {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

func (r *ContextRegister) Copy() *ContextRegister {
	out := NewContextRegister()
	for _, p := range r.pairs {
		out.pairs = append(out.pairs, p)
		out.matches[p.Key.Key()] = p.Value
		out.reverse[p.Value.Key()] = p.Key
	}
	return out
}

// MergedWith returns a new register holding the bindings of both, or
// ok=false when the two registers bind a term inconsistently.
func (r *ContextRegister) MergedWith(incoming *ContextRegister) (*ContextRegister, bool) {
	out := r.Copy()
	for _, p := range incoming.pairs {
		if err := out.InsertPair(p.Key, p.Value); err != nil {
			return nil, false
		}
	}
	return out, true
}

// Reversed swaps the sides of every binding.
func (r *ContextRegister) Reversed() *ContextRegister {
	out := NewContextRegister()
	for _, p := range r.pairs {
		out.pairs = append(out.pairs, Pair{Key: p.Value, Value: p.Key})
		out.matches[p.Value.Key()] = p.Key
		out.reverse[p.Key.Key()] = p.Value
	}
	return out
}

// Means reports whether both registers hold exactly the same bindings.
func (r *ContextRegister) Means(other *ContextRegister) bool {
	if other == nil || len(r.matches) != len(other.matches) {
		return false
	}
	for key, value := range r.matches {
		got := other.matches[key]
		if got == nil || got.Key() != value.Key() {
			return false
		}
	}
	return true
}

// ReplaceKeys rebuilds the register substituting left-side terms.
// Used when permuting interchangeable terms. A key with no replacement
// keeps its original term; when two keys collapse onto one replacement
// the later binding wins.
func (r *ContextRegister) ReplaceKeys(replacements map[string]Term) *ContextRegister {
	out := NewContextRegister()
	for _, p := range r.pairs {
		key := p.Key
		if repl := replacements[key.Key()]; repl != nil {
			key = repl
		}
		out.setPair(key, p.Value)
	}
	return out
}

// setPair binds without conflict checking, overwriting prior bindings.
func (r *ContextRegister) setPair(key, value Term) {
	if existing := r.matches[key.Key()]; existing != nil {
		for i, p := range r.pairs {
			if p.Key.Key() == key.Key() {
				r.pairs = append(r.pairs[:i], r.pairs[i+1:]...)
				break
			}
		}
		delete(r.reverse, existing.Key())
	}
	r.pairs = append(r.pairs, Pair{Key: key, Value: value})
	r.matches[key.Key()] = value
	r.reverse[value.Key()] = key
}

// assignsSameValueTo reports whether self and other bind the given term
// to the same value.
func (r *ContextRegister) assignsSameValueTo(other *ContextRegister, key Term) bool {
	value := r.GetFactor(key)
	if value == nil {
		return false
	}
	got := other.GetFactor(key)
	return got != nil && got.Key() == value.Key()
}

// Reason phrases the bindings as prose, for explanations.
func (r *ContextRegister) Reason() string {
	if len(r.pairs) == 0 {
		return "no context assignments are needed"
	}
	similes := make([]string, len(r.pairs))
	for i, p := range r.pairs {
		verb := "is"
		if p.Key.IsPlural() {
			verb = "are"
		}
		similes[i] = fmt.Sprintf("%s %s like %s", p.Key.ShortString(), verb, p.Value.ShortString())
	}
	if len(similes) > 1 {
		last := len(similes) - 1
		return strings.Join(similes[:last], ", ") + ", and " + similes[last]
	}
	return similes[0]
}

func (r *ContextRegister) String() string {
	return "ContextRegister(" + r.Reason() + ")"
}
