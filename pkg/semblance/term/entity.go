package term

import (
	"fmt"
	"iter"
)

// Entity is a leaf term naming a thing. A generic Entity stands for
// anything of its kind: its name is a label, not part of its meaning,
// and it can be matched to any other generic Entity through a context
// register. A specific Entity means only itself, so its name is
// load-bearing.
type Entity struct {
	name    string
	generic bool
	plural  bool
}

// EntityOptions adjusts how an entity is built. The zero value gives a
// generic, singular entity.
type EntityOptions struct {
	Specific bool
	Plural   bool
}

func NewEntity(name string, opts ...EntityOptions) *Entity {
	var o EntityOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Entity{name: name, generic: !o.Specific, plural: o.Plural}
}

func (e *Entity) Key() string {
	return fmt.Sprintf("entity(%s generic=%t plural=%t)", e.name, e.generic, e.plural)
}

func (e *Entity) Name() string { return e.name }

func (e *Entity) ShortString() string {
	if e.generic {
		return "<" + e.name + ">"
	}
	return e.name
}

func (e *Entity) String() string {
	return "the entity " + e.ShortString()
}

func (e *Entity) IsGeneric() bool { return e.generic }
func (e *Entity) IsAbsent() bool  { return false }
func (e *Entity) IsPlural() bool  { return e.plural }

func (e *Entity) TermSequence() []Term { return nil }

func (e *Entity) TermPermutations() iter.Seq[[]Term] {
	return singleOrdering(nil)
}

func (e *Entity) GenericTerms() []Term { return genericTermsOf(e) }

func (e *Entity) NewContext(changes *ContextRegister) (Term, error) {
	if replacement := changes.GetFactor(e); replacement != nil {
		return replacement, nil
	}
	return e, nil
}

func (e *Entity) MakeGeneric() Term {
	if e.generic {
		return e
	}
	out := *e
	out.generic = true
	return &out
}

func (e *Entity) kind() string { return "entity" }

func (e *Entity) impliesIfConcrete(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return e.meansIfConcrete(other, ctx)
}

func (e *Entity) meansIfConcrete(other Term, ctx *ContextRegister) iter.Seq[*ContextRegister] {
	return func(yield func(*ContextRegister) bool) {
		o, ok := other.(*Entity)
		if !ok || o.generic {
			return
		}
		if e.name == o.name {
			yield(orFresh(ctx))
		}
	}
}

func (e *Entity) contradictsIfPresent(Term, *ContextRegister) iter.Seq[*ContextRegister] {
	return emptyRegisters
}
