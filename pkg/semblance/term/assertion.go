package term

import (
	"fmt"
	"iter"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
)

// Assertion is a statement endorsed by an authority, such as testimony
// attributed to a witness. The authority is optional; an assertion
// without one records only that the statement was asserted. Its child
// terms are the statement and the authority, so two assertions match
// when both children match.
type Assertion struct {
	statement *Statement
	authority *Entity
	generic   bool
	absent    bool
	name      string
}

// AssertionOptions adjusts how an assertion is built. The zero value
// gives a present, concrete assertion.
type AssertionOptions struct {
	Generic bool
	Absent  bool
	Name    string
}

func NewAssertion(statement *Statement, authority *Entity, opts ...AssertionOptions) *Assertion {
	var o AssertionOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Assertion{
		statement: statement,
		authority: authority,
		generic:   o.Generic,
		absent:    o.Absent,
		name:      o.Name,
	}
}

func (a *Assertion) Statement() *Statement { return a.statement }
func (a *Assertion) Authority() *Entity    { return a.authority }

func (a *Assertion) Key() string {
	authority := "none"
	if a.authority != nil {
		authority = a.authority.Key()
	}
	return fmt.Sprintf("assertion(%s by=%s generic=%t absent=%t)",
		a.statement.Key(), authority, a.generic, a.absent)
}

func (a *Assertion) Name() string { return a.name }

func (a *Assertion) String() string {
	text := "the assertion"
	if a.authority != nil {
		text += ", by " + a.authority.String() + ","
	}
	text += " of " + a.statement.ShortString()
	if a.generic {
		text = "<" + text + ">"
	}
	if a.absent {
		text = "absence of " + text
	}
	return text
}

func (a *Assertion) ShortString() string { return a.String() }

func (a *Assertion) IsGeneric() bool { return a.generic }
func (a *Assertion) IsAbsent() bool  { return a.absent }
func (a *Assertion) IsPlural() bool  { return false }

// TermSequence lists the statement, then the authority. The authority
// slot is nil when no authority endorsed the statement; an assertion
// with an authority and one without never match.
func (a *Assertion) TermSequence() []Term {
	terms := []Term{a.statement, nil}
	if a.authority != nil {
		terms[1] = a.authority
	}
	return terms
}

func (a *Assertion) TermPermutations() iter.Seq[[]Term] {
	return singleOrdering(a.TermSequence())
}

func (a *Assertion) GenericTerms() []Term { return genericTermsOf(a) }

func (a *Assertion) NewContext(changes *ContextRegister) (Term, error) {
	if replacement := changes.GetFactor(a); replacement != nil {
		return replacement, nil
	}
	out := *a
	replaced, err := a.statement.NewContext(changes)
	if err != nil {
		return nil, err
	}
	newStatement, ok := replaced.(*Statement)
	if !ok {
		return nil, fmt.Errorf("%w: cannot replace the statement of an assertion with %s",
			internalerr.ErrTypeMismatch, replaced.ShortString())
	}
	out.statement = newStatement
	if a.authority != nil {
		replacedAuthority, err := a.authority.NewContext(changes)
		if err != nil {
			return nil, err
		}
		newAuthority, ok := replacedAuthority.(*Entity)
		if !ok {
			return nil, fmt.Errorf("%w: cannot replace the authority of an assertion with %s",
				internalerr.ErrTypeMismatch, replacedAuthority.ShortString())
		}
		out.authority = newAuthority
	}
	return &out, nil
}

func (a *Assertion) MakeGeneric() Term {
	if a.generic {
		return a
	}
	out := *a
	out.generic = true
	return &out
}

func (a *Assertion) kind() string { return "assertion" }

func (a *Assertion) impliesIfConcrete(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	if _, ok := other.(*Assertion); !ok {
		return emptyRegisters
	}
	return concreteRegisters(a, other, opImplies, ctx)
}

func (a *Assertion) meansIfConcrete(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	if _, ok := other.(*Assertion); !ok {
		return emptyRegisters
	}
	return concreteRegisters(a, other, opMeans, ctx)
}

// Assertions record that something was said, so two assertions of
// contradictory statements can both be true.
func (a *Assertion) contradictsIfPresent(Term, *ContextRegister) iter.Seq[*ContextRegister] {
	return emptyRegisters
}
