package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/term"
)

func falseValue() *bool {
	v := false
	return &v
}

func TestBuildEntity(t *testing.T) {
	built, err := Build(RawFactor{Type: TypeEntity, Name: "Alice"})
	if err != nil {
		t.Fatal(err)
	}
	if !built.IsGeneric() {
		t.Error("entities default to generic")
	}

	specific, err := Build(RawFactor{Type: TypeEntity, Name: "Godzilla", Generic: falseValue()})
	if err != nil {
		t.Fatal(err)
	}
	if specific.IsGeneric() {
		t.Error("generic: false should build a specific entity")
	}
}

func TestBuildStatementFromYAML(t *testing.T) {
	doc := `
type: Statement
predicate:
  content: $shooter shot $victim
terms:
  - type: Entity
    name: Alice
  - type: Entity
    name: Bob
`
	var raw RawFactor
	if err := yaml.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatal(err)
	}
	built, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got := built.String(); got != "the statement that <Alice> shot <Bob>" {
		t.Errorf("unexpected rendering: %q", got)
	}
}

func TestBuildComparisonStatement(t *testing.T) {
	raw := RawFactor{
		Type: TypeStatement,
		Predicate: &RawPredicate{
			Content:    "the distance between $site1 and $site2 was",
			Sign:       ">=",
			Expression: "100 yards",
		},
		Terms: []RawFactor{
			{Type: TypeEntity, Name: "the protest"},
			{Type: TypeEntity, Name: "the cordon"},
		},
	}
	built, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(built.String(), "at least 100 yards") {
		t.Errorf("comparison should render its quantity: %q", built.String())
	}
}

func TestRoundTripAssertion(t *testing.T) {
	raw := RawFactor{
		Type: TypeAssertion,
		Statement: &RawFactor{
			Type:      TypeStatement,
			Absent:    true,
			Predicate: &RawPredicate{Content: "$actor committed a crime", Truth: falseValue()},
			Terms:     []RawFactor{{Type: TypeEntity, Name: "Alice"}},
		},
		Authority: &RawFactor{Type: TypeEntity, Name: "the witness"},
	}
	built, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	dumped, err := Dump(built)
	if err != nil {
		t.Fatal(err)
	}
	rebuilt, err := Build(dumped)
	if err != nil {
		t.Fatal(err)
	}
	if !term.Means(built, rebuilt, nil) {
		t.Error("a dumped and rebuilt factor should mean the original")
	}

	encoded, err := json.Marshal(dumped)
	if err != nil {
		t.Fatal(err)
	}
	var decoded RawFactor
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatal(err)
	}
	fromJSON, err := Build(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !term.Means(built, fromJSON, nil) {
		t.Error("the JSON round trip should preserve meaning")
	}
}

func TestRoundTripComparison(t *testing.T) {
	raw := RawFactor{
		Type: TypeStatement,
		Predicate: &RawPredicate{
			Content:    "the weight of the package was",
			Sign:       ">",
			Expression: "10 grams",
			Truth:      falseValue(),
		},
	}
	built, err := Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	dumped, err := Dump(built)
	if err != nil {
		t.Fatal(err)
	}
	// A false comparison is stored normalized, so the dump shows the
	// reversed sign with an affirmative truth.
	if dumped.Predicate.Sign != "<=" || dumped.Predicate.Truth != nil {
		t.Errorf("expected the normalized form, got sign %q truth %v",
			dumped.Predicate.Sign, dumped.Predicate.Truth)
	}
	rebuilt, err := Build(dumped)
	if err != nil {
		t.Fatal(err)
	}
	if !term.Means(built, rebuilt, nil) {
		t.Error("normalization should preserve meaning")
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  RawFactor
	}{
		{"unknown type", RawFactor{Type: "Fact"}},
		{"entity without name", RawFactor{Type: TypeEntity}},
		{"statement without predicate", RawFactor{Type: TypeStatement}},
		{"assertion without statement", RawFactor{Type: TypeAssertion}},
		{"arity mismatch", RawFactor{
			Type:      TypeStatement,
			Predicate: &RawPredicate{Content: "$shooter shot $victim"},
			Terms:     []RawFactor{{Type: TypeEntity, Name: "Alice"}},
		}},
	}
	for _, tc := range cases {
		if _, err := Build(tc.raw); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}

	_, err := Build(RawFactor{
		Type:      TypeAssertion,
		Statement: &RawFactor{Type: TypeStatement, Predicate: &RawPredicate{Content: "it rained"}},
		Authority: &RawFactor{Type: TypeStatement, Predicate: &RawPredicate{Content: "it rained"}},
	})
	if !errors.Is(err, internalerr.ErrTypeMismatch) {
		t.Errorf("a non-entity authority should be ErrTypeMismatch, got %v", err)
	}
}
