package term

import "strings"

// Match is one factor pairing found during a group comparison.
type Match struct {
	Left     Term
	Relation string
	Right    Term
}

// Explanation is the product of a successful group comparison: the
// ordered factor pairings the search committed to, plus the context
// register that makes them hold. Explanations are immutable; AddMatch
// and WithContext return copies.
type Explanation struct {
	matches []Match
	context *ContextRegister
	op      operation
}

func newExplanation(ctx *ContextRegister, op operation) *Explanation {
	return &Explanation{context: orFresh(ctx), op: op}
}

func (e *Explanation) Matches() []Match {
	out := make([]Match, len(e.matches))
	copy(out, e.matches)
	return out
}

func (e *Explanation) Context() *ContextRegister { return e.context }

// AddMatch returns a copy with one more factor pairing recorded.
func (e *Explanation) AddMatch(left, right Term) *Explanation {
	out := &Explanation{
		matches: make([]Match, len(e.matches), len(e.matches)+1),
		context: e.context,
		op:      e.op,
	}
	copy(out.matches, e.matches)
	out.matches = append(out.matches, Match{Left: left, Relation: e.op.name, Right: right})
	return out
}

// WithContext returns a copy carrying the given register.
func (e *Explanation) WithContext(ctx *ContextRegister) *Explanation {
	return &Explanation{matches: e.matches, context: orFresh(ctx), op: e.op}
}

func (e *Explanation) String() string {
	var b strings.Builder
	b.WriteString("Because " + e.context.Reason() + ",\n")
	for i, m := range e.matches {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  " + m.Left.ShortString() + "\n")
		b.WriteString("  " + m.Relation + "\n")
		b.WriteString("  " + m.Right.ShortString() + "\n")
	}
	return b.String()
}
