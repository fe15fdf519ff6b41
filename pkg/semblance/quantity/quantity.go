// Package quantity decides implication, contradiction, and equivalence
// between scalar constraints such as "at least 100 yards" or
// "less than 2003-01-01". It is the leaf oracle for comparison factors:
// callers establish that two statements talk about the same thing, then
// ask this package whether one constraint entails or excludes the other.
package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
)

// Signs accepted after normalization. "=" and "<>" are normalized on input.
var validSigns = map[string]bool{
	"==": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true,
}

var oppositeSigns = map[string]string{
	"==": "!=",
	"!=": "==",
	">":  "<=",
	"<":  ">=",
	">=": "<",
	"<=": ">",
}

var signPhrases = map[string]string{
	"==": "exactly equal to",
	"!=": "not equal to",
	">":  "greater than",
	"<":  "less than",
	">=": "at least",
	"<=": "no more than",
}

// NormalizeSign maps accepted spellings onto the canonical sign set.
func NormalizeSign(sign string) (string, error) {
	switch sign {
	case "=":
		sign = "=="
	case "<>":
		sign = "!="
	}
	if !validSigns[sign] {
		return "", fmt.Errorf("%w: unknown comparison sign %q", internalerr.ErrInvalidInput, sign)
	}
	return sign, nil
}

// Range is one scalar constraint: a sign plus a magnitude, admitting some
// set of values. Implies, Contradicts and Means answer false rather than
// erroring when the two ranges are not comparable (different kinds, or
// units of different dimensions).
type Range interface {
	Sign() string
	Magnitude() float64
	// Expression is the parseable magnitude text, without the sign.
	Expression() string
	// String renders the constraint as prose, e.g. "at least 100 yards".
	String() string
	// ReverseMeaning returns a copy constraining the opposite value set.
	ReverseMeaning() Range
	Implies(other Range) bool
	Contradicts(other Range) bool
	Means(other Range) bool
}

// alignedSpans puts two ranges on a shared scale, or reports that they
// cannot be compared.
func alignedSpans(a, b Range) (spanSet, spanSet, bool) {
	switch left := a.(type) {
	case *NumberRange:
		right, ok := b.(*NumberRange)
		if !ok {
			return nil, nil, false
		}
		return left.spans(), right.spans(), true
	case *DateRange:
		right, ok := b.(*DateRange)
		if !ok {
			return nil, nil, false
		}
		return left.spans(), right.spans(), true
	case *UnitRange:
		right, ok := b.(*UnitRange)
		if !ok || left.def.dim != right.def.dim {
			return nil, nil, false
		}
		return left.spans().scaled(left.def.factor), right.spans().scaled(right.def.factor), true
	}
	return nil, nil, false
}

func impliesRange(a, b Range) bool {
	sa, sb, ok := alignedSpans(a, b)
	return ok && sa.subsetOf(sb)
}

func contradictsRange(a, b Range) bool {
	sa, sb, ok := alignedSpans(a, b)
	return ok && sa.disjointFrom(sb)
}

func meansRange(a, b Range) bool {
	sa, sb, ok := alignedSpans(a, b)
	return ok && sa.equalTo(sb)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func domainFloor(includeNegatives bool) float64 {
	if includeNegatives {
		return math.Inf(-1)
	}
	return 0
}

// NumberRange constrains a dimensionless number.
type NumberRange struct {
	value            float64
	sign             string
	includeNegatives bool
}

// NewNumberRange builds a dimensionless constraint. Negative values are
// admitted only when the magnitude itself is negative; otherwise zero is
// the domain floor.
func NewNumberRange(sign string, value float64) (*NumberRange, error) {
	norm, err := NormalizeSign(sign)
	if err != nil {
		return nil, err
	}
	return &NumberRange{value: value, sign: norm, includeNegatives: value < 0}, nil
}

func (r *NumberRange) Sign() string       { return r.sign }
func (r *NumberRange) Magnitude() float64 { return r.value }
func (r *NumberRange) Expression() string { return formatNumber(r.value) }

func (r *NumberRange) String() string {
	return signPhrases[r.sign] + " " + r.Expression()
}

func (r *NumberRange) ReverseMeaning() Range {
	out := *r
	out.sign = oppositeSigns[r.sign]
	return &out
}

func (r *NumberRange) spans() spanSet {
	return spansForSign(r.sign, r.value, domainFloor(r.includeNegatives))
}

func (r *NumberRange) Implies(other Range) bool     { return impliesRange(r, other) }
func (r *NumberRange) Contradicts(other Range) bool { return contradictsRange(r, other) }
func (r *NumberRange) Means(other Range) bool       { return meansRange(r, other) }

// DateRange constrains a calendar date. Dates are compared through an
// order-preserving integer image (YYYYMMDD), which suffices because only
// ordering and equality ever matter.
type DateRange struct {
	when time.Time
	sign string
}

func NewDateRange(sign string, when time.Time) (*DateRange, error) {
	norm, err := NormalizeSign(sign)
	if err != nil {
		return nil, err
	}
	return &DateRange{when: when, sign: norm}, nil
}

func (r *DateRange) Sign() string    { return r.sign }
func (r *DateRange) Date() time.Time { return r.when }

func (r *DateRange) Magnitude() float64 {
	y, m, d := r.when.Date()
	return float64(y*10000 + int(m)*100 + d)
}

func (r *DateRange) Expression() string { return r.when.Format("2006-01-02") }

func (r *DateRange) String() string {
	return signPhrases[r.sign] + " " + r.Expression()
}

func (r *DateRange) ReverseMeaning() Range {
	out := *r
	out.sign = oppositeSigns[r.sign]
	return &out
}

func (r *DateRange) spans() spanSet {
	return spansForSign(r.sign, r.Magnitude(), 0)
}

func (r *DateRange) Implies(other Range) bool     { return impliesRange(r, other) }
func (r *DateRange) Contradicts(other Range) bool { return contradictsRange(r, other) }
func (r *DateRange) Means(other Range) bool       { return meansRange(r, other) }

// UnitRange constrains a physical quantity. Two unit ranges are comparable
// when their units share a dimension; magnitudes are converted to a common
// scale before the interval test.
type UnitRange struct {
	value            float64
	unitName         string
	def              unitDef
	sign             string
	includeNegatives bool
}

func NewUnitRange(sign string, value float64, unitName string) (*UnitRange, error) {
	norm, err := NormalizeSign(sign)
	if err != nil {
		return nil, err
	}
	def, ok := lookupUnit(unitName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown unit %q", internalerr.ErrInvalidInput, unitName)
	}
	return &UnitRange{
		value:            value,
		unitName:         unitName,
		def:              def,
		sign:             norm,
		includeNegatives: value < 0,
	}, nil
}

func (r *UnitRange) Sign() string       { return r.sign }
func (r *UnitRange) Magnitude() float64 { return r.value }
func (r *UnitRange) Unit() string       { return r.unitName }

func (r *UnitRange) Expression() string {
	return formatNumber(r.value) + " " + r.unitName
}

func (r *UnitRange) String() string {
	return signPhrases[r.sign] + " " + r.Expression()
}

func (r *UnitRange) ReverseMeaning() Range {
	out := *r
	out.sign = oppositeSigns[r.sign]
	return &out
}

func (r *UnitRange) spans() spanSet {
	return spansForSign(r.sign, r.value, domainFloor(r.includeNegatives))
}

func (r *UnitRange) Implies(other Range) bool     { return impliesRange(r, other) }
func (r *UnitRange) Contradicts(other Range) bool { return contradictsRange(r, other) }
func (r *UnitRange) Means(other Range) bool       { return meansRange(r, other) }

// ParseExpression builds a Range from a sign and a magnitude expression.
// An ISO date yields a DateRange, a bare number a NumberRange, and
// "<number> <unit>" a UnitRange.
func ParseExpression(sign, expression string) (Range, error) {
	expr := strings.TrimSpace(expression)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty quantity expression", internalerr.ErrInvalidInput)
	}
	if when, err := time.Parse("2006-01-02", expr); err == nil {
		return NewDateRange(sign, when)
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		return NewNumberRange(sign, v)
	}
	fields := strings.Fields(expr)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: cannot parse quantity %q", internalerr.ErrInvalidInput, expression)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse quantity %q", internalerr.ErrInvalidInput, expression)
	}
	return NewUnitRange(sign, v, strings.Join(fields[1:], " "))
}
