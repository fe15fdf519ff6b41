// Package schema converts factors to and from a plain tagged form that
// marshals as JSON or YAML. Each raw factor names its kind in a "type"
// field; nesting follows the factor structure, so an assertion carries a
// raw statement which carries raw terms.
package schema

import (
	"fmt"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/predicate"
	"github.com/cognicore/semblance/pkg/semblance/term"
)

const (
	TypeEntity    = "Entity"
	TypeStatement = "Statement"
	TypeAssertion = "Assertion"
)

// RawPredicate is the serialized clause of a statement. A non-empty Sign
// marks a quantity comparison. Truth defaults to true when nil; Whether
// overrides it to the open question.
type RawPredicate struct {
	Content    string `json:"content" yaml:"content"`
	Truth      *bool  `json:"truth,omitempty" yaml:"truth,omitempty"`
	Whether    bool   `json:"whether,omitempty" yaml:"whether,omitempty"`
	Sign       string `json:"sign,omitempty" yaml:"sign,omitempty"`
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// RawFactor is the serialized form of any factor kind. Which fields are
// read depends on Type: an Entity uses Name and Plural, a Statement uses
// Predicate and Terms, an Assertion uses Statement and Authority.
// Generic defaults to true for entities and false otherwise.
type RawFactor struct {
	Type      string       `json:"type" yaml:"type"`
	Name      string       `json:"name,omitempty" yaml:"name,omitempty"`
	Generic   *bool        `json:"generic,omitempty" yaml:"generic,omitempty"`
	Plural    bool         `json:"plural,omitempty" yaml:"plural,omitempty"`
	Absent    bool         `json:"absent,omitempty" yaml:"absent,omitempty"`
	Predicate *RawPredicate `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	Terms     []RawFactor  `json:"terms,omitempty" yaml:"terms,omitempty"`
	Statement *RawFactor   `json:"statement,omitempty" yaml:"statement,omitempty"`
	Authority *RawFactor   `json:"authority,omitempty" yaml:"authority,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

func rawTruth(r *RawPredicate) predicate.Truth {
	if r.Whether {
		return predicate.TruthWhether
	}
	if r.Truth != nil && !*r.Truth {
		return predicate.TruthFalse
	}
	return predicate.TruthTrue
}

func buildClause(r *RawPredicate) (predicate.Clause, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: statement without a predicate", internalerr.ErrInvalidInput)
	}
	if r.Sign != "" || r.Expression != "" {
		return predicate.NewComparison(r.Content, r.Sign, r.Expression, rawTruth(r))
	}
	return predicate.NewPredicate(r.Content, rawTruth(r)), nil
}

// Build turns a raw factor into a term.
func Build(raw RawFactor) (term.Term, error) {
	switch raw.Type {
	case TypeEntity:
		if raw.Name == "" {
			return nil, fmt.Errorf("%w: entity without a name", internalerr.ErrInvalidInput)
		}
		specific := raw.Generic != nil && !*raw.Generic
		return term.NewEntity(raw.Name, term.EntityOptions{Specific: specific, Plural: raw.Plural}), nil
	case TypeStatement:
		return buildStatement(raw)
	case TypeAssertion:
		if raw.Statement == nil {
			return nil, fmt.Errorf("%w: assertion without a statement", internalerr.ErrInvalidInput)
		}
		built, err := buildStatement(*raw.Statement)
		if err != nil {
			return nil, err
		}
		var authority *term.Entity
		if raw.Authority != nil {
			builtAuthority, err := Build(*raw.Authority)
			if err != nil {
				return nil, err
			}
			entity, ok := builtAuthority.(*term.Entity)
			if !ok {
				return nil, fmt.Errorf("%w: assertion authority must be an entity, got %q",
					internalerr.ErrTypeMismatch, raw.Authority.Type)
			}
			authority = entity
		}
		return term.NewAssertion(built, authority, term.AssertionOptions{
			Generic: raw.Generic != nil && *raw.Generic,
			Absent:  raw.Absent,
			Name:    raw.Name,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown factor type %q", internalerr.ErrInvalidInput, raw.Type)
	}
}

func buildStatement(raw RawFactor) (*term.Statement, error) {
	if raw.Type != TypeStatement {
		return nil, fmt.Errorf("%w: expected a statement, got %q", internalerr.ErrTypeMismatch, raw.Type)
	}
	clause, err := buildClause(raw.Predicate)
	if err != nil {
		return nil, err
	}
	terms := make([]term.Term, len(raw.Terms))
	for i, rawTerm := range raw.Terms {
		built, err := Build(rawTerm)
		if err != nil {
			return nil, err
		}
		terms[i] = built
	}
	return term.NewStatement(clause, terms, term.StatementOptions{
		Generic: raw.Generic != nil && *raw.Generic,
		Absent:  raw.Absent,
		Name:    raw.Name,
	})
}

// Dump turns a term back into its raw form.
func Dump(t term.Term) (RawFactor, error) {
	switch v := t.(type) {
	case *term.Entity:
		raw := RawFactor{Type: TypeEntity, Name: v.Name(), Plural: v.IsPlural()}
		if !v.IsGeneric() {
			raw.Generic = boolPtr(false)
		}
		return raw, nil
	case *term.Statement:
		return dumpStatement(v)
	case *term.Assertion:
		statement, err := dumpStatement(v.Statement())
		if err != nil {
			return RawFactor{}, err
		}
		raw := RawFactor{
			Type:      TypeAssertion,
			Name:      v.Name(),
			Absent:    v.IsAbsent(),
			Statement: &statement,
		}
		if v.IsGeneric() {
			raw.Generic = boolPtr(true)
		}
		if v.Authority() != nil {
			authority, err := Dump(v.Authority())
			if err != nil {
				return RawFactor{}, err
			}
			raw.Authority = &authority
		}
		return raw, nil
	default:
		return RawFactor{}, fmt.Errorf("%w: cannot dump %T", internalerr.ErrTypeMismatch, t)
	}
}

func dumpStatement(s *term.Statement) (RawFactor, error) {
	raw := RawFactor{
		Type:      TypeStatement,
		Name:      s.Name(),
		Absent:    s.IsAbsent(),
		Predicate: dumpClause(s.Predicate()),
	}
	if s.IsGeneric() {
		raw.Generic = boolPtr(true)
	}
	for _, child := range s.TermSequence() {
		rawTerm, err := Dump(child)
		if err != nil {
			return RawFactor{}, err
		}
		raw.Terms = append(raw.Terms, rawTerm)
	}
	return raw, nil
}

func dumpClause(c predicate.Clause) *RawPredicate {
	raw := &RawPredicate{Content: c.Content()}
	switch c.Truth() {
	case predicate.TruthWhether:
		raw.Whether = true
	case predicate.TruthFalse:
		raw.Truth = boolPtr(false)
	}
	if cmp, ok := c.(*predicate.Comparison); ok {
		raw.Sign = cmp.Quantity().Sign()
		raw.Expression = cmp.Quantity().Expression()
	}
	return raw
}
