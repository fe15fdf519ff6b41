package predicate

import (
	"fmt"
	"strings"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/quantity"
)

// Comparison is a clause whose template describes a quantity, compared
// against a constant range. The template must end with the word "was" so
// the rendered sentence reads through to the quantity, as in "the
// distance between $a and $b was at least 100 yards".
//
// A false comparison is stored in normalized form: truth becomes true
// and the range flips to its complement, so "false that the weight was
// more than 10 grams" is held as "the weight was no more than 10 grams".
type Comparison struct {
	tmpl  *Template
	truth Truth
	rng   quantity.Range
}

func NewComparison(content, sign, expression string, truth Truth) (*Comparison, error) {
	rng, err := quantity.ParseExpression(sign, expression)
	if err != nil {
		return nil, err
	}
	return NewComparisonFromRange(content, truth, rng)
}

// NewComparisonFromRange builds a Comparison around an already-parsed
// range, applying the same normalization as NewComparison.
func NewComparisonFromRange(content string, truth Truth, rng quantity.Range) (*Comparison, error) {
	tmpl := NewTemplate(content)
	if !strings.HasSuffix(tmpl.Text(), "was") {
		return nil, fmt.Errorf("%w: comparison template must end with 'was', got %q",
			internalerr.ErrInvalidInput, tmpl.Text())
	}
	if truth == TruthFalse {
		truth = TruthTrue
		rng = rng.ReverseMeaning()
	}
	return &Comparison{tmpl: tmpl, truth: truth, rng: rng}, nil
}

func (c *Comparison) clause() {}

func (c *Comparison) Content() string          { return c.tmpl.Text() }
func (c *Comparison) Truth() Truth             { return c.truth }
func (c *Comparison) Template() *Template      { return c.tmpl }
func (c *Comparison) Placeholders() []string   { return c.tmpl.Placeholders() }
func (c *Comparison) Arity() int               { return len(c.tmpl.Placeholders()) }
func (c *Comparison) Quantity() quantity.Range { return c.rng }

func (c *Comparison) String() string {
	return truthPrefix(c.truth) + c.Content() + " " + c.rng.String()
}

func (c *Comparison) ContentWithTerms(terms []ContentTerm) (string, error) {
	rendered, err := c.tmpl.Render(terms)
	if err != nil {
		return "", err
	}
	return truthPrefix(c.truth) + rendered + " " + c.rng.String(), nil
}

func (c *Comparison) sameMeaningWhenTrue(other Clause) (*Comparison, bool) {
	o, ok := other.(*Comparison)
	if !ok {
		return nil, false
	}
	if !strings.EqualFold(c.tmpl.skeleton(), o.tmpl.skeleton()) {
		return nil, false
	}
	return o, samePositions(termPositions(c.Placeholders()), termPositions(o.Placeholders()))
}

func (c *Comparison) Means(other Clause) bool {
	o, ok := c.sameMeaningWhenTrue(other)
	return ok && c.truth == o.truth && c.rng.Means(o.rng)
}

func (c *Comparison) Implies(other Clause) bool {
	o, ok := c.sameMeaningWhenTrue(other)
	if !ok {
		return false
	}
	if c.truth == TruthWhether {
		return o.truth == TruthWhether && c.rng.Means(o.rng)
	}
	if o.truth != TruthWhether && o.truth != c.truth {
		return false
	}
	return c.rng.Implies(o.rng)
}

// Contradicts requires both comparisons to be affirmative; it then asks
// whether the two ranges exclude each other.
func (c *Comparison) Contradicts(other Clause) bool {
	o, ok := c.sameMeaningWhenTrue(other)
	if !ok {
		return false
	}
	if c.truth != TruthTrue || o.truth != TruthTrue {
		return false
	}
	return c.rng.Contradicts(o.rng)
}

// Negated flips the admitted range. A whether comparison negates to
// itself.
func (c *Comparison) Negated() Clause {
	if c.truth == TruthWhether {
		return &Comparison{tmpl: c.tmpl, truth: c.truth, rng: c.rng}
	}
	return &Comparison{tmpl: c.tmpl, truth: TruthTrue, rng: c.rng.ReverseMeaning()}
}

func (c *Comparison) TermIndexPermutations() [][]int {
	return indexPermutations(termPositions(c.Placeholders()))
}
