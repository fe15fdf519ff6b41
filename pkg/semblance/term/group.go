package term

import (
	"fmt"
	"iter"
	"strings"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
)

// FactorGroup is an unordered collection of factors compared together.
// Implication between groups means every factor of the other group is
// implied by some factor here, all under one shared context register,
// so a generic term bound while matching one factor stays bound while
// matching the rest.
type FactorGroup struct {
	factors []Term
}

// NewFactorGroup builds a group, rejecting structural duplicates.
func NewFactorGroup(factors ...Term) (*FactorGroup, error) {
	seen := make(map[string]bool, len(factors))
	for i, f := range factors {
		if f == nil {
			return nil, fmt.Errorf("%w: factor %d is nil", internalerr.ErrInvalidInput, i)
		}
		if seen[f.Key()] {
			return nil, fmt.Errorf("%w: %s", internalerr.ErrDuplicate, f.ShortString())
		}
		seen[f.Key()] = true
	}
	return groupOf(append([]Term(nil), factors...)), nil
}

func groupOf(factors []Term) *FactorGroup {
	return &FactorGroup{factors: factors}
}

func (g *FactorGroup) Len() int { return len(g.factors) }

func (g *FactorGroup) Factors() []Term {
	return append([]Term(nil), g.factors...)
}

func (g *FactorGroup) String() string {
	if len(g.factors) == 0 {
		return "the empty group of factors"
	}
	lines := make([]string, len(g.factors))
	for i, f := range g.factors {
		lines[i] = "  " + f.ShortString()
	}
	return "the group of factors:\n" + strings.Join(lines, "\n")
}

func (g *FactorGroup) GenericTerms() []Term {
	var out []Term
	seen := make(map[string]bool)
	for _, f := range g.factors {
		for _, gen := range f.GenericTerms() {
			if !seen[gen.Key()] {
				seen[gen.Key()] = true
				out = append(out, gen)
			}
		}
	}
	return out
}

// Add returns a group with one more factor. A structural duplicate
// leaves the group unchanged.
func (g *FactorGroup) Add(factor Term) *FactorGroup {
	for _, f := range g.factors {
		if f.Key() == factor.Key() {
			return g
		}
	}
	return groupOf(append(g.Factors(), factor))
}

func (g *FactorGroup) addGroup(other *FactorGroup) *FactorGroup {
	out := g
	for _, f := range other.factors {
		out = out.Add(f)
	}
	return out
}

// NewContext replaces generic terms in every factor per the register.
func (g *FactorGroup) NewContext(changes *ContextRegister) (*FactorGroup, error) {
	factors := make([]Term, len(g.factors))
	for i, f := range g.factors {
		replaced, err := f.NewContext(changes)
		if err != nil {
			return nil, err
		}
		factors[i] = replaced
	}
	return groupOf(factors), nil
}

// comparison finds every register under which each factor in need has
// the relation op with some factor of g. The accumulated register is
// threaded into each candidate's own search, so a pairing that only
// works under a conflicting context is never accepted.
func (g *FactorGroup) comparison(op operation, need []Term, matches *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		matches := orFresh(matches)
		if len(need) == 0 {
			yield(matches)
			return
		}
		otherFactor := need[len(need)-1]
		rest := need[:len(need)-1]
		for _, selfFactor := range g.factors {
			stopped := false
			forward(func(reg *ContextRegister) bool {
				merged, ok := matches.MergedWith(reg)
				if !ok {
					return true
				}
				for result := range g.comparison(op, rest, merged) {
					if !yield(result) {
						stopped = true
						return false
					}
				}
				return true
			}, op.explanations(selfFactor, otherFactor, matches))
			if stopped {
				return
			}
		}
	}
}

// verboseComparison is comparison with the matched factor pairs
// recorded into an Explanation.
func (g *FactorGroup) verboseComparison(op operation, need []Term, expl *Explanation) iter.Seq[*Explanation] {
	return func(yield func(*Explanation) bool) {
		if len(need) == 0 {
			yield(expl)
			return
		}
		otherFactor := need[len(need)-1]
		rest := need[:len(need)-1]
		for _, selfFactor := range g.factors {
			stopped := false
			forward(func(reg *ContextRegister) bool {
				merged, ok := expl.Context().MergedWith(reg)
				if !ok {
					return true
				}
				next := expl.AddMatch(selfFactor, otherFactor).WithContext(merged)
				for result := range g.verboseComparison(op, rest, next) {
					if !yield(result) {
						stopped = true
						return false
					}
				}
				return true
			}, op.explanations(selfFactor, otherFactor, expl.Context()))
			if stopped {
				return
			}
		}
	}
}

// ExplanationsImplication yields explanations of why g implies other.
func (g *FactorGroup) ExplanationsImplication(other *FactorGroup, ctx *ContextRegister) iter.Seq[*Explanation] {
	return g.verboseComparison(opImplies, other.Factors(), newExplanation(ctx, opImplies))
}

// Implies reports whether every factor of other is implied by some
// factor of g under one shared context.
func (g *FactorGroup) Implies(other *FactorGroup, ctx *ContextRegister) bool {
	if other == nil || other.Len() == 0 {
		return true
	}
	for range g.ExplanationsImplication(other, ctx) {
		return true
	}
	return false
}

// ImpliesFactor reports whether some factor of g implies the given
// factor.
func (g *FactorGroup) ImpliesFactor(factor Term, ctx *ContextRegister) bool {
	return g.Implies(groupOf([]Term{factor}), ctx)
}

// ImpliedBy reports whether other implies g.
func (g *FactorGroup) ImpliedBy(other *FactorGroup, ctx *ContextRegister) bool {
	if other == nil {
		return g.Len() == 0
	}
	return other.Implies(g, orFresh(ctx).Reversed())
}

// ExplanationsContradiction yields explanations pairing each factor of
// g against each factor of other that it contradicts.
func (g *FactorGroup) ExplanationsContradiction(other *FactorGroup, ctx *ContextRegister) iter.Seq[*Explanation] {
	return func(yield func(*Explanation) bool) {
		ctx := orFresh(ctx)
		for _, otherFactor := range other.factors {
			for _, selfFactor := range g.factors {
				stopped := false
				forward(func(reg *ContextRegister) bool {
					expl := newExplanation(reg, opImplies)
					expl.matches = []Match{{Left: selfFactor, Relation: "CONTRADICTS", Right: otherFactor}}
					if !yield(expl) {
						stopped = true
						return false
					}
					return true
				}, ExplanationsContradiction(selfFactor, otherFactor, ctx))
				if stopped {
					return
				}
			}
		}
	}
}

// Contradicts reports whether any factor of g contradicts any factor
// of other under some context extension.
func (g *FactorGroup) Contradicts(other *FactorGroup, ctx *ContextRegister) bool {
	if other == nil {
		return false
	}
	for range g.ExplanationsContradiction(other, ctx) {
		return true
	}
	return false
}

// ContradictsFactor reports whether any factor of g contradicts the
// given factor.
func (g *FactorGroup) ContradictsFactor(factor Term, ctx *ContextRegister) bool {
	return g.Contradicts(groupOf([]Term{factor}), ctx)
}

// explanationsHasAllFactorsOf finds registers under which every factor
// of other means some factor of g.
func (g *FactorGroup) explanationsHasAllFactorsOf(other *FactorGroup, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return g.comparison(opMeans, other.Factors(), ctx)
}

// HasAllFactorsOf reports whether every factor of other has a
// same-meaning counterpart in g.
func (g *FactorGroup) HasAllFactorsOf(other *FactorGroup, ctx *ContextRegister) bool {
	return first(g.explanationsHasAllFactorsOf(other, ctx)) != nil
}

func (g *FactorGroup) explanationsSharesAllFactorsWith(other *FactorGroup, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		forwardReversed(yield, other.comparison(opMeans, g.Factors(), ctx.Reversed()))
	}
}

// SharesAllFactorsWith reports whether every factor of g has a
// same-meaning counterpart in other.
func (g *FactorGroup) SharesAllFactorsWith(other *FactorGroup, ctx *ContextRegister) bool {
	return first(g.explanationsSharesAllFactorsWith(other, ctx)) != nil
}

// ExplanationsSameMeaning yields registers under which g and other
// contain the same factors, in both directions at once.
func (g *FactorGroup) ExplanationsSameMeaning(other *FactorGroup, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		for shared := range g.explanationsSharesAllFactorsWith(other, ctx) {
			stopped := false
			forward(func(reg *ContextRegister) bool {
				if !yield(reg) {
					stopped = true
					return false
				}
				return true
			}, g.explanationsHasAllFactorsOf(other, shared))
			if stopped {
				return
			}
		}
	}
}

// Means reports whether g and other have the same factors under one
// consistent context.
func (g *FactorGroup) Means(other *FactorGroup, ctx *ContextRegister) bool {
	if other == nil {
		return false
	}
	return first(g.ExplanationsSameMeaning(other, ctx)) != nil
}

// mustContradictOneFactor reports whether some factor of g contradicts
// the given factor with the contradictory generic terms already forced
// to align by the fixed context.
func (g *FactorGroup) mustContradictOneFactor(otherFactor Term, ctx *ContextRegister) bool {
	for _, selfFactor := range g.factors {
		if Contradicts(selfFactor, otherFactor, ctx) {
			if allGenericFactorsMatch(selfFactor, otherFactor, ctx) {
				return true
			}
		}
	}
	return false
}

// ConsistentWith reports whether the two groups can both be true. A
// contradiction only counts when the fixed context forces the
// contradictory factors' generic terms to align; otherwise the terms
// can be assigned apart.
func (g *FactorGroup) ConsistentWith(other *FactorGroup, ctx *ContextRegister) bool {
	if other == nil {
		return true
	}
	ctx = orFresh(ctx)
	for _, otherFactor := range other.factors {
		if g.mustContradictOneFactor(otherFactor, ctx) {
			return false
		}
	}
	return true
}

// ConsistentWithFactor reports whether g and a single factor can both
// be true.
func (g *FactorGroup) ConsistentWithFactor(factor Term, ctx *ContextRegister) bool {
	return !g.mustContradictOneFactor(factor, orFresh(ctx))
}

// ExplanationsConsistentWith yields explanations pairing each factor of
// other with a factor of g it can hold alongside, under registers that
// rule out contradiction between the groups. Unlike ConsistentWith,
// which evaluates under the fixed context alone, each explanation
// commits to a full pairing of the unbound generic terms.
func (g *FactorGroup) ExplanationsConsistentWith(other *FactorGroup, ctx *ContextRegister) iter.Seq[*Explanation] {
	return func(yield func(*Explanation) bool) {
		for expl := range g.verboseComparison(opConsistent, other.Factors(), newExplanation(ctx, opConsistent)) {
			if g.Contradicts(other, expl.Context()) {
				continue
			}
			if !yield(expl) {
				return
			}
		}
	}
}

// InternallyConsistent reports whether no two factors of g contradict
// each other under the fixed context. Fails fast on the first
// contradictory pair.
func (g *FactorGroup) InternallyConsistent(ctx *ContextRegister) bool {
	ctx = orFresh(ctx)
	unchecked := g.Factors()
	for len(unchecked) > 0 {
		current := unchecked[len(unchecked)-1]
		unchecked = unchecked[:len(unchecked)-1]
		for _, item := range unchecked {
			if !ConsistentWith(current, item, ctx) {
				return false
			}
		}
	}
	return true
}

func (g *FactorGroup) likelyContextsForFactor(other Term, ctx *ContextRegister, i int) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		if i == len(g.factors) {
			yield(ctx)
			return
		}
		for next := range LikelyContexts(g.factors[i], other, ctx) {
			stopped := false
			forward(func(reg *ContextRegister) bool {
				if !yield(reg) {
					stopped = true
					return false
				}
				return true
			}, g.likelyContextsForFactor(other, next, i+1))
			if stopped {
				return
			}
		}
	}
}

// LikelyContexts yields registers built from cheap per-factor guesses,
// most specific first.
func (g *FactorGroup) LikelyContexts(other *FactorGroup, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	var walk func(j int, ctx *ContextRegister) iter.Seq[*ContextRegister]
	walk = func(j int, ctx *ContextRegister) iter.Seq[*ContextRegister] {
		return func(yield func(*ContextRegister) bool) {
			if j == len(other.factors) {
				yield(ctx)
				return
			}
			for next := range g.likelyContextsForFactor(other.factors[j], ctx, 0) {
				stopped := false
				forward(func(reg *ContextRegister) bool {
					if !yield(reg) {
						stopped = true
						return false
					}
					return true
				}, walk(j+1, next))
				if stopped {
					return
				}
			}
		}
	}
	return walk(0, orFresh(ctx))
}

// PossibleContexts yields every pairing of the two groups' unbound
// generic terms that the fixed context allows.
func (g *FactorGroup) PossibleContexts(other *FactorGroup, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return possibleContextsFor(g.GenericTerms(), other.GenericTerms(), ctx)
}

// DropImpliedFactors removes factors implied by another member under
// the same context, keeping the implying factor.
func (g *FactorGroup) DropImpliedFactors() *FactorGroup {
	var result []Term
	unchecked := g.Factors()
	for len(unchecked) > 0 {
		current := unchecked[len(unchecked)-1]
		unchecked = unchecked[:len(unchecked)-1]
		i := 0
		for i < len(unchecked) {
			item := unchecked[i]
			if ImpliesSameContext(item, current) {
				current = item
				unchecked = append(unchecked[:i], unchecked[i+1:]...)
			} else if ImpliesSameContext(current, item) {
				unchecked = append(unchecked[:i], unchecked[i+1:]...)
			} else {
				i++
			}
		}
		result = append(result, current)
	}
	return groupOf(result)
}

// Union combines the two groups under the most specific context that
// keeps the result internally consistent, renaming other's generic
// terms into g's context. Returns nil when every pairing of generic
// terms produces a contradiction.
func (g *FactorGroup) Union(other *FactorGroup, ctx *ContextRegister) *FactorGroup {
	ctx = orFresh(ctx)
	for guess := range g.explanationsUnion(other, ctx) {
		return g.unionFromExplanation(other, guess)
	}
	return nil
}

func (g *FactorGroup) explanationsUnion(other *FactorGroup, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		for partial := range g.explanationsUnionPartial(other, ctx) {
			for guess := range g.PossibleContexts(other, partial) {
				if g.unionFromExplanation(other, guess) != nil {
					if !yield(guess) {
						return
					}
				}
			}
		}
	}
}

func (g *FactorGroup) explanationsUnionPartial(other *FactorGroup, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		for likely := range g.LikelyContexts(other, ctx) {
			renamed, err := other.NewContext(likely.Reversed())
			if err != nil {
				continue
			}
			if g.addGroup(renamed).InternallyConsistent(nil) {
				if !yield(likely) {
					return
				}
			}
		}
	}
}

func (g *FactorGroup) unionFromExplanation(other *FactorGroup, ctx *ContextRegister) *FactorGroup {
	renamed, err := other.NewContext(ctx.Reversed())
	if err != nil {
		return nil
	}
	result := g.addGroup(renamed).DropImpliedFactors()
	if !result.InternallyConsistent(ctx) {
		return nil
	}
	return result
}
