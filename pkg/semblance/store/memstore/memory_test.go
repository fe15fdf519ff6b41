package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/store"
)

func TestFactorRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	rec := store.Factor{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Name:      "protest-far",
		Kind:      "Statement",
		Text:      "the statement that the distance was at least 100 yards",
		Raw:       `{"type":"Statement"}`,
		CreatedAt: time.Now(),
	}
	if err := s.PutFactor(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetFactor(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != rec.Name || got.Raw != rec.Raw {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, err := s.GetFactor(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.PutFactor(ctx, store.Factor{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for an empty id, got %v", err)
	}
}

func TestListFactorsKeepsInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := s.PutFactor(ctx, store.Factor{ID: id, Kind: "Entity"}); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := s.ListFactors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || recs[0].ID != "c" || recs[2].ID != "b" {
		t.Errorf("unexpected order: %+v", recs)
	}

	// Replacing a record must not duplicate it.
	if err := s.PutFactor(ctx, store.Factor{ID: "a", Kind: "Statement"}); err != nil {
		t.Fatal(err)
	}
	recs, _ = s.ListFactors(ctx)
	if len(recs) != 3 {
		t.Errorf("replacement should not grow the list, got %d", len(recs))
	}
}

func TestComparisonsFilterByFactor(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Now()
	recs := []store.Comparison{
		{ID: "1", LeftID: "a", RightID: "b", Implies: true, CreatedAt: base},
		{ID: "2", LeftID: "b", RightID: "c", Contradicts: true, CreatedAt: base.Add(time.Second)},
		{ID: "3", LeftID: "c", RightID: "a", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, rec := range recs {
		if err := s.PutComparison(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	forA, err := s.ListComparisons(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(forA) != 2 || forA[0].ID != "1" || forA[1].ID != "3" {
		t.Errorf("unexpected comparisons for a: %+v", forA)
	}

	forB, _ := s.ListComparisons(ctx, "b")
	if len(forB) != 2 {
		t.Errorf("expected 2 comparisons for b, got %d", len(forB))
	}
	none, _ := s.ListComparisons(ctx, "zzz")
	if len(none) != 0 {
		t.Errorf("expected no comparisons, got %d", len(none))
	}
}
