package term

import (
	"iter"
)

// operation bundles the three faces of one comparison relation: a
// display marker for explanations, a context-free boolean form, and the
// lazy generator of context registers satisfying it.
type operation struct {
	name         string
	compare      func(self, other Term, ctx *ContextRegister) bool
	explanations func(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister]
}

var (
	opImplies    = operation{"IMPLIES", Implies, ExplanationsImplication}
	opMeans      = operation{"MEANS", Means, ExplanationsSameMeaning}
	opConsistent = operation{"IS CONSISTENT WITH", ConsistentWith, ExplanationsConsistentWith}
)

func orFresh(ctx *ContextRegister) *ContextRegister {
	if ctx == nil {
		return NewContextRegister()
	}
	return ctx
}

// first pulls one element from a register sequence.
func first(seq iter.Seq[*ContextRegister]) *ContextRegister {
	for reg := range seq {
		return reg
	}
	return nil
}

// Implies reports whether self says at least as much as other, under
// the bindings fixed by ctx. A nil other is implied by anything.
func Implies(self, other Term, ctx *ContextRegister) bool {
	if other == nil {
		return true
	}
	return first(ExplanationsImplication(self, other, ctx)) != nil
}

// ImpliedBy reports whether other implies self.
func ImpliedBy(self, other Term, ctx *ContextRegister) bool {
	if other == nil {
		return false
	}
	return first(ExplanationsImpliedBy(self, other, ctx)) != nil
}

// Means reports whether self and other have identical meanings.
func Means(self, other Term, ctx *ContextRegister) bool {
	if other == nil {
		return false
	}
	return first(ExplanationsSameMeaning(self, other, ctx)) != nil
}

// Contradicts reports whether self and other cannot both be true.
func Contradicts(self, other Term, ctx *ContextRegister) bool {
	if other == nil {
		return false
	}
	return first(ExplanationsContradiction(self, other, ctx)) != nil
}

// ConsistentWith reports whether some assignment of the unbound generic
// terms lets self and other both be true.
func ConsistentWith(self, other Term, ctx *ContextRegister) bool {
	if other == nil {
		return true
	}
	return first(ExplanationsConsistentWith(self, other, ctx)) != nil
}

// ExplainImplication returns one register showing why self implies
// other, or nil.
func ExplainImplication(self, other Term, ctx *ContextRegister) *ContextRegister {
	return first(ExplanationsImplication(self, other, ctx))
}

// ExplainSameMeaning returns one register showing why self and other
// mean the same, or nil.
func ExplainSameMeaning(self, other Term, ctx *ContextRegister) *ContextRegister {
	return first(ExplanationsSameMeaning(self, other, ctx))
}

// ExplainContradiction returns one register showing why self
// contradicts other, or nil.
func ExplainContradiction(self, other Term, ctx *ContextRegister) *ContextRegister {
	return first(ExplanationsContradiction(self, other, ctx))
}

// ExplainConsistentWith returns one register under which self and other
// need not contradict, or nil.
func ExplainConsistentWith(self, other Term, ctx *ContextRegister) *ContextRegister {
	return first(ExplanationsConsistentWith(self, other, ctx))
}

// ExplanationsImplication yields the registers under which self implies
// other. Absence is resolved here, in one place: a present node implies
// a present node through the if-present hook, a present node implies an
// absent node by contradicting what the absence denies, and an absent
// node's implications are evaluated from the other node's point of view
// and then reversed.
func ExplanationsImplication(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		if other == nil || self.kind() != other.kind() {
			return
		}
		if !self.IsAbsent() {
			if !other.IsAbsent() {
				forward(yield, impliesIfPresent(self, other, ctx))
			} else {
				forward(yield, self.contradictsIfPresent(other, ctx))
			}
			return
		}
		var test iter.Seq[*ContextRegister]
		if other.IsAbsent() {
			test = impliesIfPresent(other, self, ctx.Reversed())
		} else {
			test = other.contradictsIfPresent(self, ctx.Reversed())
		}
		forwardReversed(yield, test)
	}
}

// ExplanationsImpliedBy yields the registers under which other implies
// self, with the sides of each register restored to self's point of
// view.
func ExplanationsImpliedBy(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		forwardReversed(yield, ExplanationsImplication(other, self, ctx.Reversed()))
	}
}

// ExplanationsContradiction yields the registers under which self and
// other cannot both be true. Two absent nodes never contradict.
func ExplanationsContradiction(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		if other == nil || self.kind() != other.kind() {
			return
		}
		if !self.IsAbsent() {
			if !other.IsAbsent() {
				forward(yield, self.contradictsIfPresent(other, ctx))
			} else {
				forward(yield, impliesIfPresent(self, other, ctx))
			}
			return
		}
		if !other.IsAbsent() {
			forwardReversed(yield, impliesIfPresent(other, self, ctx.Reversed()))
		}
	}
}

// ExplanationsSameMeaning yields the registers under which self and
// other have identical meanings.
func ExplanationsSameMeaning(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		if other == nil || self.kind() != other.kind() {
			return
		}
		if self.IsGeneric() != other.IsGeneric() || self.IsAbsent() != other.IsAbsent() {
			return
		}
		if self.IsGeneric() {
			if !yield(genericRegister(self, other)) {
				return
			}
		}
		forward(yield, self.meansIfConcrete(other, ctx))
	}
}

// ExplanationsConsistentWith yields every assignment of the unbound
// generic terms under which self does not contradict other.
func ExplanationsConsistentWith(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		for possible := range PossibleContexts(self, other, ctx) {
			if !Contradicts(self, other, possible) {
				if !yield(possible) {
					return
				}
			}
		}
	}
}

func forward(yield func(*ContextRegister) bool, seq iter.Seq[*ContextRegister]) {
	for reg := range seq {
		if !yield(reg) {
			return
		}
	}
}

func forwardReversed(yield func(*ContextRegister) bool, seq iter.Seq[*ContextRegister]) {
	for reg := range seq {
		if !yield(reg.Reversed()) {
			return
		}
	}
}

func genericRegister(self, other Term) *ContextRegister {
	reg := NewContextRegister()
	reg.setPair(self, other)
	return reg
}

// impliesIfPresent handles the generic dispatch shared by every kind: a
// generic node on the right matches self as an opaque token, and a
// concrete self falls through to the kind's concrete hook.
func impliesIfPresent(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		if self.kind() != other.kind() {
			return
		}
		if other.IsGeneric() {
			bound := ctx.GetFactor(self)
			if bound == nil || bound.Key() == other.Key() {
				if !yield(genericRegister(self, other)) {
					return
				}
			}
		}
		if !self.IsGeneric() {
			forward(yield, self.impliesIfConcrete(other, ctx))
		}
	}
}

// compareTerms is the context-free gate: it checks that the relation
// holds pairwise for some meaning-preserving ordering of self's terms
// against other's terms, without threading a register.
func compareTerms(self, other Term, rel func(a, b Term, ctx *ContextRegister) bool) bool {
	otherTerms := other.TermSequence()
	for ordering := range self.TermPermutations() {
		if compareOrdering(ordering, otherTerms, rel) {
			return true
		}
	}
	return false
}

// compareOrdering applies the pair rule used throughout the ordered
// search: both terms nil passes vacuously, exactly one nil fails.
func compareOrdering(ordering, otherTerms []Term, rel func(a, b Term, ctx *ContextRegister) bool) bool {
	if len(ordering) != len(otherTerms) {
		return false
	}
	for i, left := range ordering {
		right := otherTerms[i]
		if left == nil && right == nil {
			continue
		}
		if left == nil || right == nil {
			return false
		}
		if !rel(left, right, nil) {
			return false
		}
	}
	return true
}

// contextRegisters harvests the generic-term bindings that let self
// match other. A generic node on either side binds as a single opaque
// pair; otherwise every meaning-preserving ordering of both term
// sequences is searched.
func contextRegisters(self, other Term, op operation, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		if other == nil {
			yield(ctx)
			return
		}
		if self.IsGeneric() || other.IsGeneric() {
			bound := ctx.Get(self.Key())
			if bound == nil || bound.Key() == other.Key() {
				yield(genericRegister(self, other))
			}
			return
		}
		for selfOrdering := range self.TermPermutations() {
			for otherOrdering := range other.TermPermutations() {
				done := false
				forward(func(reg *ContextRegister) bool {
					if !yield(reg) {
						done = true
						return false
					}
					return true
				}, orderedComparison(selfOrdering, otherOrdering, op, ctx))
				if done {
					return
				}
			}
		}
	}
}

// orderedComparison is the depth-first register-threading search over
// zip-padded term pairs. Each pair multiplies the ways the accumulated
// register can be extended; a conflict prunes the branch.
func orderedComparison(selfTerms, otherTerms []Term, op operation, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	n := len(selfTerms)
	if len(otherTerms) > n {
		n = len(otherTerms)
	}
	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		if i < len(selfTerms) {
			pairs[i].Key = selfTerms[i]
		}
		if i < len(otherTerms) {
			pairs[i].Value = otherTerms[i]
		}
	}
	var step func(reg *ContextRegister, i int, yield func(*ContextRegister) bool) bool
	step = func(reg *ContextRegister, i int, yield func(*ContextRegister) bool) bool {
		if i == len(pairs) {
			return yield(reg)
		}
		left, right := pairs[i].Key, pairs[i].Value
		if left == nil && right == nil {
			return step(reg, i+1, yield)
		}
		if left == nil || right == nil {
			return true
		}
		var tried []*ContextRegister
		for incoming := range updateContextRegister(left, right, reg, op) {
			duplicate := false
			for _, seen := range tried {
				if incoming.Means(seen) {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			tried = append(tried, incoming)
			if !step(incoming, i+1, yield) {
				return false
			}
		}
		return true
	}
	return func(yield func(*ContextRegister) bool) {
		step(ctx, 0, yield)
	}
}

// updateContextRegister yields every way ctx can be extended so that
// self has the relation op with other, including variations that swap
// interchangeable terms.
func updateContextRegister(self, other Term, ctx *ContextRegister, op operation) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		for incoming := range contextRegisters(self, other, op, ctx) {
			for variation := range registersForInterchangeableContext(self, incoming) {
				if merged, ok := ctx.MergedWith(variation); ok {
					if !yield(merged) {
						return
					}
				}
			}
		}
	}
}

// registersForInterchangeableContext yields the register as found, then
// each distinct variant produced by permuting self's interchangeable
// terms in the register's keys.
func registersForInterchangeableContext(self Term, matches *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		if !yield(matches) {
			return
		}
		returned := []*ContextRegister{matches}
		terms := self.TermSequence()
		skipped := false
		for ordering := range self.TermPermutations() {
			if !skipped {
				skipped = true
				continue
			}
			changes := make(map[string]Term, len(terms))
			for i, t := range terms {
				if t != nil && ordering[i] != nil {
					changes[t.Key()] = ordering[i]
				}
			}
			changed := matches.ReplaceKeys(changes)
			duplicate := false
			for _, seen := range returned {
				if changed.Means(seen) {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			returned = append(returned, changed)
			if !yield(changed) {
				return
			}
		}
	}
}

// PossibleContexts yields every pairing of the generic terms of self
// and other that the fixed context does not rule out. When either side
// has no unbound generic terms the fixed context is the only answer.
func PossibleContexts(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return possibleContextsFor(self.GenericTerms(), other.GenericTerms(), ctx)
}

func possibleContextsFor(selfGenerics, otherGenerics []Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		var unusedSelf, unusedOther []Term
		for _, g := range selfGenerics {
			if ctx.Get(g.Key()) == nil {
				unusedSelf = append(unusedSelf, g)
			}
		}
		for _, g := range otherGenerics {
			if ctx.GetReverseFactor(g) == nil {
				unusedOther = append(unusedOther, g)
			}
		}
		if len(unusedSelf) == 0 || len(unusedOther) == 0 {
			yield(ctx)
			return
		}
		for ordering := range permuteTerms(unusedOther) {
			incoming := NewContextRegister()
			n := len(unusedSelf)
			if len(ordering) < n {
				n = len(ordering)
			}
			conflict := false
			for i := 0; i < n; i++ {
				if err := incoming.InsertPair(unusedSelf[i], ordering[i]); err != nil {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}
			if merged, ok := ctx.MergedWith(incoming); ok {
				if !yield(merged) {
					return
				}
			}
		}
	}
}

// LikelyContexts guesses good register extensions cheaply before the
// exhaustive search: first from same meaning, then from implication,
// then the unchanged context.
func LikelyContexts(self, other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		ctx := orFresh(ctx)
		sameMeaning := likelyContextFromMeaning(self, other, ctx)
		base := ctx
		if sameMeaning != nil {
			base = sameMeaning
		}
		implied := likelyContextFromImplication(self, other, base)
		if implied != nil {
			if !yield(implied) {
				return
			}
		}
		if sameMeaning != nil {
			if !yield(sameMeaning) {
				return
			}
		}
		yield(ctx)
	}
}

func likelyContextFromMeaning(self, other Term, ctx *ContextRegister) *ContextRegister {
	if Means(self, other, ctx) || Means(other, self, ctx.Reversed()) {
		if updated := updateContextFromGenerics(self, other, ctx); updated != nil && !updated.Means(ctx) {
			return updated
		}
	}
	return nil
}

func likelyContextFromImplication(self, other Term, ctx *ContextRegister) *ContextRegister {
	if Implies(self, other, ctx) || Implies(other, self, ctx.Reversed()) {
		if updated := updateContextFromGenerics(self, other, ctx); updated != nil && !updated.Means(ctx) {
			return updated
		}
	}
	return nil
}

// updateContextFromGenerics pairs the generic terms of both sides in
// order. Not guaranteed to be the right correspondence, only a likely
// one.
func updateContextFromGenerics(self, other Term, ctx *ContextRegister) *ContextRegister {
	selfGenerics := self.GenericTerms()
	otherGenerics := other.GenericTerms()
	n := len(selfGenerics)
	if len(otherGenerics) < n {
		n = len(otherGenerics)
	}
	incoming := NewContextRegister()
	for i := 0; i < n; i++ {
		if err := incoming.InsertPair(selfGenerics[i], otherGenerics[i]); err != nil {
			return nil
		}
	}
	merged, ok := ctx.MergedWith(incoming)
	if !ok {
		return nil
	}
	return merged
}

// ImpliesSameContext reports whether self implies other with self's
// generic terms pinned to themselves, so other must reuse the same
// generic terms rather than renaming them.
func ImpliesSameContext(self, other Term) bool {
	ctx := NewContextRegister()
	for _, g := range self.GenericTerms() {
		if err := ctx.InsertPair(g, g); err != nil {
			return false
		}
	}
	return Implies(self, other, ctx)
}

// allGenericFactorsMatch reports whether every meaning-preserving match
// between self and other keeps self's generic terms bound exactly as
// the fixed context binds them. Vacuously true when no match exists.
func allGenericFactorsMatch(self, other Term, ctx *ContextRegister) bool {
	for reg := range contextRegisters(self, other, opMeans, ctx) {
		for _, g := range self.GenericTerms() {
			if !ctx.assignsSameValueTo(reg, g) {
				return false
			}
		}
	}
	return true
}
