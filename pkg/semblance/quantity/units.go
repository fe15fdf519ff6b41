package quantity

import (
	"strings"

	"github.com/martinlindhe/unit"
)

type dimension string

const (
	dimLength   dimension = "length"
	dimMass     dimension = "mass"
	dimVolume   dimension = "volume"
	dimDuration dimension = "duration"
)

type unitDef struct {
	dim    dimension
	factor float64
}

// unitTable maps a unit token to its dimension and its scale relative to
// that dimension's base unit. Within a dimension the base cancels, so any
// consistent scale works for comparison.
var unitTable = map[string]unitDef{
	"meter":      {dimLength, float64(unit.Meter)},
	"metre":      {dimLength, float64(unit.Meter)},
	"kilometer":  {dimLength, float64(unit.Kilometer)},
	"kilometre":  {dimLength, float64(unit.Kilometer)},
	"centimeter": {dimLength, float64(unit.Centimeter)},
	"millimeter": {dimLength, float64(unit.Millimeter)},
	"inch":       {dimLength, float64(unit.Inch)},
	"foot":       {dimLength, float64(unit.Foot)},
	"feet":       {dimLength, float64(unit.Foot)},
	"yard":       {dimLength, float64(unit.Yard)},
	"mile":       {dimLength, float64(unit.Mile)},

	"gram":      {dimMass, float64(unit.Gram)},
	"kilogram":  {dimMass, float64(unit.Kilogram)},
	"milligram": {dimMass, float64(unit.Milligram)},
	"pound":     {dimMass, 453.59237 * float64(unit.Gram)},
	"ounce":     {dimMass, 28.349523125 * float64(unit.Gram)},

	"liter":      {dimVolume, float64(unit.Liter)},
	"litre":      {dimVolume, float64(unit.Liter)},
	"milliliter": {dimVolume, float64(unit.Milliliter)},
	"gallon":     {dimVolume, 3.785411784 * float64(unit.Liter)},

	"second": {dimDuration, float64(unit.Second)},
	"minute": {dimDuration, float64(unit.Minute)},
	"hour":   {dimDuration, float64(unit.Hour)},
	"day":    {dimDuration, float64(unit.Day)},
}

// lookupUnit resolves a unit token, tolerating case and a plural "s".
func lookupUnit(name string) (unitDef, bool) {
	token := strings.ToLower(strings.TrimSpace(name))
	if def, ok := unitTable[token]; ok {
		return def, true
	}
	if trimmed, found := strings.CutSuffix(token, "s"); found {
		if def, ok := unitTable[trimmed]; ok {
			return def, true
		}
	}
	return unitDef{}, false
}
