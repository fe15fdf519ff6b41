package quantity

import "math"

// span is one contiguous run of admissible values on the real line.
// Infinite bounds are always marked open.
type span struct {
	lo, hi         float64
	loOpen, hiOpen bool
}

// sameBound compares bounds with a relative tolerance, so magnitudes
// converted through different unit factors still land on each other.
func sameBound(a, b float64) bool {
	if a == b || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	diff := math.Abs(a - b)
	return diff <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func (s span) empty() bool {
	if sameBound(s.lo, s.hi) {
		return s.loOpen || s.hiOpen
	}
	return s.lo > s.hi
}

// contains reports whether o lies entirely inside s.
func (s span) contains(o span) bool {
	if sameBound(s.lo, o.lo) {
		if s.loOpen && !o.loOpen {
			return false
		}
	} else if s.lo > o.lo {
		return false
	}
	if sameBound(s.hi, o.hi) {
		if s.hiOpen && !o.hiOpen {
			return false
		}
	} else if s.hi < o.hi {
		return false
	}
	return true
}

func (s span) disjoint(o span) bool {
	if sameBound(s.hi, o.lo) {
		return s.hiOpen || o.loOpen
	}
	if sameBound(o.hi, s.lo) {
		return o.hiOpen || s.loOpen
	}
	return s.hi < o.lo || o.hi < s.lo
}

func (s span) equal(o span) bool {
	return sameBound(s.lo, o.lo) && sameBound(s.hi, o.hi) &&
		s.loOpen == o.loOpen && s.hiOpen == o.hiOpen
}

func (s span) scaled(factor float64) span {
	return span{lo: s.lo * factor, hi: s.hi * factor, loOpen: s.loOpen, hiOpen: s.hiOpen}
}

// spanSet is an ordered union of disjoint spans. The sign table below
// produces at most two.
type spanSet []span

func (ss spanSet) subsetOf(other spanSet) bool {
	for _, s := range ss {
		inside := false
		for _, o := range other {
			if o.contains(s) {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

func (ss spanSet) disjointFrom(other spanSet) bool {
	for _, s := range ss {
		for _, o := range other {
			if !s.disjoint(o) {
				return false
			}
		}
	}
	return true
}

func (ss spanSet) equalTo(other spanSet) bool {
	if len(ss) != len(other) {
		return false
	}
	for i := range ss {
		if !ss[i].equal(other[i]) {
			return false
		}
	}
	return true
}

func (ss spanSet) scaled(factor float64) spanSet {
	out := make(spanSet, len(ss))
	for i, s := range ss {
		out[i] = s.scaled(factor)
	}
	return out
}

// spansForSign translates a comparison sign into the set of values the
// assertion admits. lower is the domain floor: zero unless negatives are
// included, in which case negative infinity.
func spansForSign(sign string, magnitude, lower float64) spanSet {
	inf := math.Inf(1)
	lowerOpen := math.IsInf(lower, -1)
	switch sign {
	case "==":
		return spanSet{{lo: magnitude, hi: magnitude}}
	case ">=":
		return spanSet{{lo: magnitude, hi: inf, hiOpen: true}}
	case ">":
		return spanSet{{lo: magnitude, hi: inf, loOpen: true, hiOpen: true}}
	case "<=":
		return spanSet{{lo: lower, hi: magnitude, loOpen: lowerOpen}}
	case "<":
		return spanSet{{lo: lower, hi: magnitude, loOpen: lowerOpen, hiOpen: true}}
	case "!=":
		out := spanSet{
			{lo: lower, hi: magnitude, loOpen: lowerOpen, hiOpen: true},
			{lo: magnitude, hi: inf, loOpen: true, hiOpen: true},
		}
		filtered := out[:0]
		for _, s := range out {
			if !s.empty() {
				filtered = append(filtered, s)
			}
		}
		return filtered
	}
	return nil
}
