package term

import (
	"fmt"
	"iter"
	"strings"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/predicate"
)

// Statement is a clause applied to an ordered sequence of terms. Its
// meaning combines the clause's meaning with the identities of the
// terms filling its placeholders. A Statement can be marked absent, to
// assert that no such fact holds, or generic, to stand for any
// statement playing the same role.
type Statement struct {
	clause  predicate.Clause
	terms   []Term
	generic bool
	absent  bool
	name    string
}

// StatementOptions adjusts how a statement is built. The zero value
// gives a present, concrete statement.
type StatementOptions struct {
	Generic bool
	Absent  bool
	Name    string
}

// NewStatement binds terms to the clause's placeholders in order of
// first appearance. The number of terms must equal the clause's arity.
func NewStatement(clause predicate.Clause, terms []Term, opts ...StatementOptions) (*Statement, error) {
	if clause.Arity() != len(terms) {
		return nil, fmt.Errorf("%w: clause %q needs %d terms, got %d",
			internalerr.ErrTermCount, clause.Content(), clause.Arity(), len(terms))
	}
	for i, t := range terms {
		if t == nil {
			return nil, fmt.Errorf("%w: term %d is nil", internalerr.ErrInvalidInput, i)
		}
	}
	var o StatementOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Statement{
		clause:  clause,
		terms:   append([]Term(nil), terms...),
		generic: o.Generic,
		absent:  o.Absent,
		name:    o.Name,
	}, nil
}

// NewStatementFromMap binds terms by placeholder name instead of
// position.
func NewStatementFromMap(clause predicate.Clause, byPlaceholder map[string]Term, opts ...StatementOptions) (*Statement, error) {
	placeholders := clause.Placeholders()
	terms := make([]Term, 0, len(placeholders))
	for _, p := range placeholders {
		t, ok := byPlaceholder[p]
		if !ok {
			return nil, fmt.Errorf("%w: no term for placeholder %q", internalerr.ErrInvalidInput, p)
		}
		terms = append(terms, t)
	}
	return NewStatement(clause, terms, opts...)
}

func (s *Statement) Predicate() predicate.Clause { return s.clause }
func (s *Statement) Truth() predicate.Truth      { return s.clause.Truth() }

func clauseKey(c predicate.Clause) string {
	key := fmt.Sprintf("%s truth=%s", c.Content(), c.Truth())
	if cmp, ok := c.(*predicate.Comparison); ok {
		key += fmt.Sprintf(" %s %s", cmp.Quantity().Sign(), cmp.Quantity().Expression())
	}
	return key
}

func (s *Statement) Key() string {
	termKeys := make([]string, len(s.terms))
	for i, t := range s.terms {
		termKeys[i] = t.Key()
	}
	return fmt.Sprintf("statement(%s terms=[%s] generic=%t absent=%t)",
		clauseKey(s.clause), strings.Join(termKeys, " "), s.generic, s.absent)
}

func (s *Statement) Name() string { return s.name }

func (s *Statement) contentTerms() []predicate.ContentTerm {
	out := make([]predicate.ContentTerm, len(s.terms))
	for i, t := range s.terms {
		out[i] = t
	}
	return out
}

func (s *Statement) String() string {
	content, err := s.clause.ContentWithTerms(s.contentTerms())
	if err != nil {
		content = s.clause.String()
	}
	text := "the statement " + content
	if s.generic {
		text = "<" + text + ">"
	}
	if s.absent {
		text = "absence of " + text
	}
	return text
}

func (s *Statement) ShortString() string { return s.String() }

func (s *Statement) IsGeneric() bool { return s.generic }
func (s *Statement) IsAbsent() bool  { return s.absent }
func (s *Statement) IsPlural() bool  { return false }

func (s *Statement) TermSequence() []Term {
	return append([]Term(nil), s.terms...)
}

// TermPermutations reorders the terms along the clause's
// interchangeable placeholder patterns. Pattern p sends the term at
// position i to position p[i].
func (s *Statement) TermPermutations() iter.Seq[[]Term] {
	return func(yield func([]Term) bool) {
		for _, pattern := range s.clause.TermIndexPermutations() {
			ordering := make([]Term, len(s.terms))
			for i, pos := range pattern {
				ordering[pos] = s.terms[i]
			}
			if !yield(ordering) {
				return
			}
		}
	}
}

func (s *Statement) GenericTerms() []Term { return genericTermsOf(s) }

func (s *Statement) NewContext(changes *ContextRegister) (Term, error) {
	if replacement := changes.GetFactor(s); replacement != nil {
		return replacement, nil
	}
	out := *s
	out.terms = make([]Term, len(s.terms))
	for i, t := range s.terms {
		replaced, err := t.NewContext(changes)
		if err != nil {
			return nil, err
		}
		out.terms[i] = replaced
	}
	return &out, nil
}

func (s *Statement) MakeGeneric() Term {
	if s.generic {
		return s
	}
	out := *s
	out.generic = true
	return &out
}

// Negated returns a copy asserting the opposite.
func (s *Statement) Negated() *Statement {
	out := *s
	out.clause = s.clause.Negated()
	return &out
}

// WithAbsent returns a copy with the given absence flag.
func (s *Statement) WithAbsent(absent bool) *Statement {
	out := *s
	out.absent = absent
	return &out
}

func (s *Statement) kind() string { return "statement" }

func (s *Statement) impliesIfConcrete(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	o, ok := other.(*Statement)
	if !ok || !s.clause.Implies(o.clause) {
		return emptyRegisters
	}
	return concreteRegisters(s, other, opImplies, ctx)
}

func (s *Statement) meansIfConcrete(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	o, ok := other.(*Statement)
	if !ok || !s.clause.Means(o.clause) {
		return emptyRegisters
	}
	return concreteRegisters(s, other, opMeans, ctx)
}

// contradictsIfPresent matches the terms of two statements whose
// clauses exclude each other. The term match uses implication: the
// contradiction carries to any context where the terms line up at
// least as specifically.
func (s *Statement) contradictsIfPresent(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	o, ok := other.(*Statement)
	if !ok || !s.clause.Contradicts(o.clause) {
		return emptyRegisters
	}
	return contextRegisters(s, other, opImplies, ctx)
}

// concreteRegisters applies the context-free gate, then harvests
// registers. Shared by the concrete hooks of Statement and Assertion.
func concreteRegisters(self, other Term, op operation, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		if !compareTerms(self, other, op.compare) {
			return
		}
		forward(yield, contextRegisters(self, other, op, ctx))
	}
}
