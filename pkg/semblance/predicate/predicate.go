// Package predicate models the clause of a factual assertion: a template
// with term placeholders, a truth value, and optionally a quantity
// constraint. Two clauses can be compared for equivalence, implication,
// and contradiction without knowing anything about the terms that will
// fill the placeholders.
package predicate

import (
	"slices"
	"strings"
)

// Truth is a ternary truth value. The zero value asserts "whether" the
// clause holds, without saying which way.
type Truth int

const (
	TruthWhether Truth = iota
	TruthTrue
	TruthFalse
)

func (t Truth) String() string {
	switch t {
	case TruthTrue:
		return "true"
	case TruthFalse:
		return "false"
	}
	return "whether"
}

// Known reports whether the truth value commits to one side.
func (t Truth) Known() bool { return t != TruthWhether }

// Negated flips a known truth value. Whether stays whether.
func (t Truth) Negated() Truth {
	switch t {
	case TruthTrue:
		return TruthFalse
	case TruthFalse:
		return TruthTrue
	}
	return TruthWhether
}

func truthPrefix(t Truth) string {
	switch t {
	case TruthFalse:
		return "it was false that "
	case TruthWhether:
		return "whether "
	}
	return "that "
}

// Clause is the closed set of assertion clauses: *Predicate and
// *Comparison. A Predicate and a Comparison never imply, contradict, or
// mean one another, even with identical template text.
type Clause interface {
	Content() string
	Truth() Truth
	Placeholders() []string
	Arity() int
	Template() *Template
	// Means reports identical meaning: same template text modulo
	// placeholder names, same interchangeability pattern, same truth.
	Means(other Clause) bool
	// Implies reports that self says at least as much as other. It is
	// inclusive: a clause implies every clause it means.
	Implies(other Clause) bool
	Contradicts(other Clause) bool
	Negated() Clause
	String() string
	ContentWithTerms(terms []ContentTerm) (string, error)
	// TermIndexPermutations lists the meaning-preserving rearrangements
	// of term indices. Pattern p sends the term at position i to
	// position p[i].
	TermIndexPermutations() [][]int

	clause()
}

// Predicate is a plain clause: template text plus a truth value.
type Predicate struct {
	tmpl  *Template
	truth Truth
}

func NewPredicate(content string, truth Truth) *Predicate {
	return &Predicate{tmpl: NewTemplate(content), truth: truth}
}

func (p *Predicate) clause() {}

func (p *Predicate) Content() string        { return p.tmpl.Text() }
func (p *Predicate) Truth() Truth           { return p.truth }
func (p *Predicate) Template() *Template    { return p.tmpl }
func (p *Predicate) Placeholders() []string { return p.tmpl.Placeholders() }
func (p *Predicate) Arity() int             { return len(p.tmpl.Placeholders()) }

func (p *Predicate) String() string {
	return truthPrefix(p.truth) + p.Content()
}

// ContentWithTerms renders the clause with term names substituted and a
// truth prefix attached.
func (p *Predicate) ContentWithTerms(terms []ContentTerm) (string, error) {
	rendered, err := p.tmpl.Render(terms)
	if err != nil {
		return "", err
	}
	return truthPrefix(p.truth) + rendered, nil
}

// sameMeaningWhenTrue checks everything except truth: same concrete
// kind, same template skeleton, same interchangeability pattern.
func (p *Predicate) sameMeaningWhenTrue(other Clause) (*Predicate, bool) {
	o, ok := other.(*Predicate)
	if !ok {
		return nil, false
	}
	if !strings.EqualFold(p.tmpl.skeleton(), o.tmpl.skeleton()) {
		return nil, false
	}
	return o, samePositions(termPositions(p.Placeholders()), termPositions(o.Placeholders()))
}

func (p *Predicate) Means(other Clause) bool {
	o, ok := p.sameMeaningWhenTrue(other)
	return ok && p.truth == o.truth
}

func (p *Predicate) Implies(other Clause) bool {
	o, ok := p.sameMeaningWhenTrue(other)
	if !ok {
		return false
	}
	if p.truth == TruthWhether {
		return o.truth == TruthWhether
	}
	return o.truth == TruthWhether || o.truth == p.truth
}

func (p *Predicate) Contradicts(other Clause) bool {
	o, ok := p.sameMeaningWhenTrue(other)
	if !ok {
		return false
	}
	return p.truth.Known() && o.truth.Known() && p.truth != o.truth
}

func (p *Predicate) Negated() Clause {
	return &Predicate{tmpl: p.tmpl, truth: p.truth.Negated()}
}

func (p *Predicate) TermIndexPermutations() [][]int {
	return indexPermutations(termPositions(p.Placeholders()))
}

func endsInDigit(s string) bool {
	return s != "" && s[len(s)-1] >= '0' && s[len(s)-1] <= '9'
}

// termPositions maps each placeholder position to the set of positions
// its term could occupy without changing the clause's meaning.
// Placeholders identical except for a trailing digit mark their terms as
// interchangeable.
func termPositions(placeholders []string) [][]int {
	out := make([][]int, len(placeholders))
	for i := range placeholders {
		out[i] = []int{i}
	}
	for i, p := range placeholders {
		if !endsInDigit(p) {
			continue
		}
		for j, q := range placeholders {
			if i != j && endsInDigit(q) && p[:len(p)-1] == q[:len(q)-1] {
				out[i] = append(out[i], j)
			}
		}
		slices.Sort(out[i])
	}
	return out
}

func samePositions(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// indexPermutations takes the cartesian product of the position sets,
// keeping only assignments where no position is used twice.
func indexPermutations(positions [][]int) [][]int {
	var out [][]int
	current := make([]int, len(positions))
	used := make(map[int]bool)
	var walk func(i int)
	walk = func(i int) {
		if i == len(positions) {
			out = append(out, slices.Clone(current))
			return
		}
		for _, pos := range positions[i] {
			if used[pos] {
				continue
			}
			used[pos] = true
			current[i] = pos
			walk(i + 1)
			used[pos] = false
		}
	}
	walk(0)
	return out
}
