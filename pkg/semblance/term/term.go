// Package term is the unification core: the closed set of comparable
// node kinds, the context register that pairs generic terms across two
// sides of a comparison, and the lazy search that produces every valid
// pairing under which one side implies, means, contradicts, or is
// consistent with the other.
package term

import (
	"iter"
)

// Term is a node that can be compared for implication, same meaning,
// contradiction, and consistency. The set of kinds is closed: *Entity,
// *Statement, and *Assertion.
type Term interface {
	// Key is the structural identity used by context registers and
	// groups: kind tag plus ordered field values, computed without
	// natural-language formatting.
	Key() string
	Name() string
	ShortString() string
	String() string
	IsGeneric() bool
	IsAbsent() bool
	IsPlural() bool

	// TermSequence returns the child terms in clause order. Entries can
	// be nil for an optional child that is not set.
	TermSequence() []Term
	// TermPermutations yields the orderings of TermSequence that
	// preserve the node's meaning, starting with the unchanged order.
	TermPermutations() iter.Seq[[]Term]
	GenericTerms() []Term

	// NewContext returns a copy with generic terms replaced per the
	// register, keyed side mapping to value side.
	NewContext(changes *ContextRegister) (Term, error)
	MakeGeneric() Term

	kind() string
	impliesIfConcrete(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister]
	meansIfConcrete(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister]
	contradictsIfPresent(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister]
}

// genericTermsOf collects the generic terms inside t, outermost first,
// deduplicated by key. A generic node is itself the only generic term
// it exposes; its children are not searched.
func genericTermsOf(t Term) []Term {
	if t.IsGeneric() {
		return []Term{t}
	}
	var out []Term
	seen := make(map[string]bool)
	for _, child := range t.TermSequence() {
		if child == nil {
			continue
		}
		for _, g := range child.GenericTerms() {
			if !seen[g.Key()] {
				seen[g.Key()] = true
				out = append(out, g)
			}
		}
	}
	return out
}

func emptyRegisters(func(*ContextRegister) bool) {}

// singleOrdering is the TermPermutations implementation for kinds whose
// terms have no interchangeable positions.
func singleOrdering(terms []Term) iter.Seq[[]Term] {
	return func(yield func([]Term) bool) {
		yield(terms)
	}
}

// permuteTerms yields every ordering of the given terms.
func permuteTerms(terms []Term) iter.Seq[[]Term] {
	return func(yield func([]Term) bool) {
		current := make([]Term, len(terms))
		used := make([]bool, len(terms))
		var walk func(i int) bool
		walk = func(i int) bool {
			if i == len(terms) {
				out := make([]Term, len(current))
				copy(out, current)
				return yield(out)
			}
			for j := range terms {
				if used[j] {
					continue
				}
				used[j] = true
				current[i] = terms[j]
				if !walk(i + 1) {
					return false
				}
				used[j] = false
			}
			return true
		}
		walk(0)
	}
}
