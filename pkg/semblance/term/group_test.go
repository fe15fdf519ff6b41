package term

import (
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/predicate"
)

func mustGroup(t *testing.T, factors ...Term) *FactorGroup {
	t.Helper()
	g, err := NewFactorGroup(factors...)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewFactorGroupRejectsDuplicatesAndNil(t *testing.T) {
	shot := predicate.NewPredicate("$shooter shot $victim", predicate.TruthTrue)
	statement := mustStatement(t, shot, []Term{NewEntity("Alice"), NewEntity("Bob")})

	if _, err := NewFactorGroup(statement, statement); !errors.Is(err, internalerr.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if _, err := NewFactorGroup(statement, nil); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a nil factor, got %v", err)
	}
	if mustGroup(t, statement).Add(statement).Len() != 1 {
		t.Error("Add should skip a structural duplicate")
	}
}

func TestGroupImplication(t *testing.T) {
	atLeastHundredYards := mustComparison(t, "the distance between $site1 and $site2 was", ">=", "100 yards")
	atMostMile := mustComparison(t, "the distance between $site1 and $site2 was", "<=", "1 mile")
	overFiftyMeters := mustComparison(t, "the distance between $site1 and $site2 was", ">", "50 meters")
	atMostTwoKm := mustComparison(t, "the distance between $site1 and $site2 was", "<=", "2 kilometers")

	protest := NewEntity("the protest")
	cordon := NewEntity("the police cordon")
	demonstration := NewEntity("the demonstration")
	line := NewEntity("the police line")

	selfGroup := mustGroup(t,
		mustStatement(t, atLeastHundredYards, []Term{protest, cordon}),
		mustStatement(t, atMostMile, []Term{protest, cordon}),
	)
	otherGroup := mustGroup(t,
		mustStatement(t, overFiftyMeters, []Term{demonstration, line}),
		mustStatement(t, atMostTwoKm, []Term{demonstration, line}),
	)

	if !selfGroup.Implies(otherGroup, nil) {
		t.Error("between 100 yards and 1 mile should imply between 50 meters and 2 kilometers")
	}
	if otherGroup.Implies(selfGroup, nil) {
		t.Error("the looser bounds should not imply the tighter ones")
	}
	if !otherGroup.ImpliedBy(selfGroup, nil) {
		t.Error("ImpliedBy should mirror Implies")
	}

	overThreeKm := mustComparison(t, "the distance between $site1 and $site2 was", ">", "3 kilometers")
	tooFar := mustGroup(t, mustStatement(t, overThreeKm, []Term{demonstration, line}))
	if selfGroup.Implies(tooFar, nil) {
		t.Error("nothing in the group supports a distance over 3 kilometers")
	}
}

func TestGroupImplicationSharesOneRegister(t *testing.T) {
	shot := predicate.NewPredicate("$shooter shot $victim", predicate.TruthTrue)
	alice := NewEntity("Alice")
	bob := NewEntity("Bob")
	craig := NewEntity("Craig")
	dan := NewEntity("Dan")

	oneWay := mustGroup(t, mustStatement(t, shot, []Term{alice, bob}))
	bothWays := mustGroup(t,
		mustStatement(t, shot, []Term{craig, dan}),
		mustStatement(t, shot, []Term{dan, craig}),
	)

	if oneWay.Implies(bothWays, nil) {
		t.Error("one shooting cannot supply both directions: Alice cannot bind to Craig and Dan at once")
	}

	mutual := mustGroup(t,
		mustStatement(t, shot, []Term{alice, bob}),
		mustStatement(t, shot, []Term{bob, alice}),
	)
	if !mutual.Implies(bothWays, nil) {
		t.Error("mutual shootings should imply mutual shootings")
	}
}

func TestExplanationsImplicationRecordsMatches(t *testing.T) {
	shot := predicate.NewPredicate("$shooter shot $victim", predicate.TruthTrue)
	alice := NewEntity("Alice")
	bob := NewEntity("Bob")

	selfGroup := mustGroup(t, mustStatement(t, shot, []Term{alice, bob}))
	otherGroup := mustGroup(t, mustStatement(t, shot, []Term{NewEntity("Craig"), NewEntity("Dan")}))

	var found *Explanation
	for expl := range selfGroup.ExplanationsImplication(otherGroup, nil) {
		found = expl
		break
	}
	if found == nil {
		t.Fatal("expected an explanation")
	}
	if len(found.Matches()) != 1 || found.Matches()[0].Relation != "IMPLIES" {
		t.Errorf("unexpected matches: %v", found.Matches())
	}
	bound := found.Context().GetFactor(alice)
	if bound == nil || bound.Name() != "Craig" {
		t.Errorf("the explanation should carry the register that made the match, got %v", bound)
	}
	if !strings.Contains(found.String(), "Because") {
		t.Errorf("explanation text should state its reason: %q", found.String())
	}
}

func TestGroupContradiction(t *testing.T) {
	over := mustComparison(t, "the distance between $site1 and $site2 was", ">", "100 yards")
	under := mustComparison(t, "the distance between $site1 and $site2 was", "<", "50 feet")

	a := NewEntity("the protest")
	b := NewEntity("the cordon")
	farGroup := mustGroup(t, mustStatement(t, over, []Term{a, b}))
	closeGroup := mustGroup(t, mustStatement(t, under, []Term{a, b}))

	if !farGroup.Contradicts(closeGroup, nil) {
		t.Error("disjoint distance ranges should contradict")
	}
	var found *Explanation
	for expl := range farGroup.ExplanationsContradiction(closeGroup, nil) {
		found = expl
		break
	}
	if found == nil || found.Matches()[0].Relation != "CONTRADICTS" {
		t.Fatalf("expected a CONTRADICTS match, got %v", found)
	}
	if !farGroup.ContradictsFactor(closeGroup.Factors()[0], nil) {
		t.Error("ContradictsFactor should agree with the group form")
	}
}

func TestHasAllFactorsOf(t *testing.T) {
	shot := predicate.NewPredicate("$shooter shot $victim", predicate.TruthTrue)
	fled := predicate.NewPredicate("$suspect fled the scene", predicate.TruthTrue)
	alice := NewEntity("Alice")
	bob := NewEntity("Bob")

	larger := mustGroup(t,
		mustStatement(t, shot, []Term{alice, bob}),
		mustStatement(t, fled, []Term{alice}),
	)
	smaller := mustGroup(t, mustStatement(t, shot, []Term{NewEntity("Craig"), NewEntity("Dan")}))

	if !larger.HasAllFactorsOf(smaller, nil) {
		t.Error("the larger group holds a counterpart for the smaller group's factor")
	}
	if larger.SharesAllFactorsWith(smaller, nil) {
		t.Error("the smaller group has no counterpart for the fleeing statement")
	}
	if !smaller.SharesAllFactorsWith(larger, nil) {
		t.Error("every factor of the smaller group appears in the larger one")
	}
	if larger.Means(smaller, nil) {
		t.Error("groups of different content should not mean the same")
	}
	if !larger.Means(larger, nil) {
		t.Error("a group should mean itself")
	}
}

// Two delegations sign treaties in a cycle. With one country pairing
// fixed, the cycles line up in exactly two ways: following the cycle in
// the same direction or in reverse.
func TestTreatyCycleAlignments(t *testing.T) {
	signed := predicate.NewPredicate("$country1 signed a treaty with $country2", predicate.TruthTrue)

	andorra := NewEntity("Andorra")
	belgium := NewEntity("Belgium")
	cyprus := NewEntity("Cyprus")
	denmark := NewEntity("Denmark")
	estonia := NewEntity("Estonia")
	finland := NewEntity("Finland")

	cycle := func(a, b, c Term) *FactorGroup {
		return mustGroup(t,
			mustStatement(t, signed, []Term{a, b}),
			mustStatement(t, signed, []Term{b, c}),
			mustStatement(t, signed, []Term{c, a}),
		)
	}
	selfGroup := cycle(andorra, belgium, cyprus)
	otherGroup := cycle(denmark, estonia, finland)

	fixed := NewContextRegister()
	if err := fixed.InsertPair(andorra, denmark); err != nil {
		t.Fatal(err)
	}

	var distinct []*ContextRegister
	for reg := range selfGroup.ExplanationsSameMeaning(otherGroup, fixed) {
		duplicate := false
		for _, seen := range distinct {
			if reg.Means(seen) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			distinct = append(distinct, reg)
		}
	}
	if len(distinct) != 2 {
		t.Fatalf("expected 2 distinct alignments with Andorra fixed to Denmark, got %d", len(distinct))
	}
	for _, reg := range distinct {
		if got := reg.GetFactor(andorra); got == nil || got.Name() != "Denmark" {
			t.Errorf("every alignment must keep the fixed pairing, got %v", got)
		}
	}
}

func TestGroupConsistentWith(t *testing.T) {
	over := mustComparison(t, "the distance between $site1 and $site2 was", ">", "100 yards")
	under := mustComparison(t, "the distance between $site1 and $site2 was", "<", "50 feet")

	protest := NewEntity("the protest")
	cordon := NewEntity("the cordon")
	stage := NewEntity("the stage")
	rail := NewEntity("the rail")

	farGroup := mustGroup(t, mustStatement(t, over, []Term{protest, cordon}))
	closeGroup := mustGroup(t, mustStatement(t, under, []Term{stage, rail}))

	apart := NewContextRegister()
	if err := apart.InsertPair(protest, NewEntity("the sidewalk")); err != nil {
		t.Fatal(err)
	}
	if !farGroup.ConsistentWith(closeGroup, apart) {
		t.Error("with the protest assigned elsewhere, the ranges never meet")
	}

	together := NewContextRegister()
	if err := together.InsertPair(protest, stage); err != nil {
		t.Fatal(err)
	}
	if farGroup.ConsistentWith(closeGroup, together) {
		t.Error("aligning the sites should force the contradiction")
	}
	if farGroup.ConsistentWithFactor(closeGroup.Factors()[0], together) {
		t.Error("ConsistentWithFactor should agree with the group form")
	}
}

func TestGroupExplanationsConsistentWith(t *testing.T) {
	overHundredYards := mustComparison(t, "the distance between $site1 and $site2 was", ">", "100 yards")
	overFiftyMeters := mustComparison(t, "the distance between $site1 and $site2 was", ">", "50 meters")
	underFiftyFeet := mustComparison(t, "the distance between $site1 and $site2 was", "<", "50 feet")

	farGroup := mustGroup(t, mustStatement(t, overHundredYards, []Term{NewEntity("the protest"), NewEntity("the cordon")}))
	alsoFarGroup := mustGroup(t, mustStatement(t, overFiftyMeters, []Term{NewEntity("the stage"), NewEntity("the rail")}))

	var found *Explanation
	for expl := range farGroup.ExplanationsConsistentWith(alsoFarGroup, nil) {
		found = expl
		break
	}
	if found == nil {
		t.Fatal("overlapping ranges should yield a consistency explanation")
	}
	if len(found.Matches()) != 1 || found.Matches()[0].Relation != "IS CONSISTENT WITH" {
		t.Errorf("unexpected matches: %v", found.Matches())
	}

	closeGroup := mustGroup(t, mustStatement(t, underFiftyFeet, []Term{NewEntity("the stage"), NewEntity("the rail")}))
	for range farGroup.ExplanationsConsistentWith(closeGroup, nil) {
		t.Fatal("disjoint ranges clash under every pairing of the sites")
	}
}

func TestInternallyConsistent(t *testing.T) {
	over := mustComparison(t, "the distance between $site1 and $site2 was", ">", "100 yards")
	under := mustComparison(t, "the distance between $site1 and $site2 was", "<", "50 feet")
	person := predicate.NewPredicate("$resident lived in the city", predicate.TruthTrue)

	a := NewEntity("the protest")
	b := NewEntity("the cordon")

	clashing := mustGroup(t,
		mustStatement(t, over, []Term{a, b}),
		mustStatement(t, under, []Term{a, b}),
	)
	if clashing.InternallyConsistent(nil) {
		t.Error("disjoint ranges over the same sites cannot both hold")
	}

	mixed := mustGroup(t,
		mustStatement(t, over, []Term{a, b}),
		mustStatement(t, person, []Term{NewEntity("Alice")}),
	)
	if !mixed.InternallyConsistent(nil) {
		t.Error("unrelated statements should coexist")
	}
}

func TestDropImpliedFactors(t *testing.T) {
	atLeastHundredYards := mustComparison(t, "the distance between $site1 and $site2 was", ">=", "100 yards")
	overFiftyMeters := mustComparison(t, "the distance between $site1 and $site2 was", ">", "50 meters")

	a := NewEntity("the protest")
	b := NewEntity("the cordon")
	group := mustGroup(t,
		mustStatement(t, atLeastHundredYards, []Term{a, b}),
		mustStatement(t, overFiftyMeters, []Term{a, b}),
	)

	dropped := group.DropImpliedFactors()
	if dropped.Len() != 1 {
		t.Fatalf("the weaker bound should be dropped, got %d factors", dropped.Len())
	}
	if !strings.Contains(dropped.Factors()[0].String(), "100 yards") {
		t.Errorf("the implying factor should survive: %s", dropped.Factors()[0])
	}
}

func TestUnion(t *testing.T) {
	atLeastHundredYards := mustComparison(t, "the distance between $site1 and $site2 was", ">=", "100 yards")
	atMostMile := mustComparison(t, "the distance between $site1 and $site2 was", "<=", "1 mile")

	selfGroup := mustGroup(t, mustStatement(t, atLeastHundredYards, []Term{NewEntity("the protest"), NewEntity("the cordon")}))
	otherGroup := mustGroup(t, mustStatement(t, atMostMile, []Term{NewEntity("the demonstration"), NewEntity("the police line")}))

	combined := selfGroup.Union(otherGroup, nil)
	if combined == nil {
		t.Fatal("compatible bounds should combine")
	}
	if combined.Len() != 2 {
		t.Fatalf("expected both bounds in the union, got %d", combined.Len())
	}
	for _, f := range combined.Factors() {
		if !strings.Contains(f.String(), "<the protest>") {
			t.Errorf("union factors should be renamed into the receiver's terms: %s", f)
		}
	}
}

func TestUnionOfContradictoryGroupsIsNil(t *testing.T) {
	over := mustComparison(t, "the distance between $site1 and $site2 was", ">", "100 yards")
	under := mustComparison(t, "the distance between $site1 and $site2 was", "<", "50 feet")

	selfGroup := mustGroup(t, mustStatement(t, over, []Term{NewEntity("the protest"), NewEntity("the cordon")}))
	otherGroup := mustGroup(t, mustStatement(t, under, []Term{NewEntity("the demonstration"), NewEntity("the police line")}))

	if selfGroup.Union(otherGroup, nil) != nil {
		t.Error("no pairing of the sites lets both bounds hold")
	}
}

func TestGroupNewContext(t *testing.T) {
	shot := predicate.NewPredicate("$shooter shot $victim", predicate.TruthTrue)
	alice := NewEntity("Alice")
	group := mustGroup(t, mustStatement(t, shot, []Term{alice, NewEntity("Bob")}))

	changes := NewContextRegister()
	if err := changes.InsertPair(alice, NewEntity("Craig")); err != nil {
		t.Fatal(err)
	}
	renamed, err := group.NewContext(changes)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(renamed.Factors()[0].String(), "<Craig>") {
		t.Errorf("NewContext should rename through every factor: %s", renamed.Factors()[0])
	}
	if !strings.Contains(group.Factors()[0].String(), "<Alice>") {
		t.Error("NewContext must not mutate the original group")
	}
}
