package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "semblance.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFactorPersistence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := store.Factor{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Name:      "protest-far",
		Kind:      "Statement",
		Text:      "the statement that the distance was at least 100 yards",
		Raw:       `{"type":"Statement"}`,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.PutFactor(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetFactor(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != rec.Name || got.Kind != rec.Kind || got.Raw != rec.Raw {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created_at mismatch: got %v, want %v", got.CreatedAt, rec.CreatedAt)
	}

	if _, err := s.GetFactor(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPutFactorUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := store.Factor{ID: "x", Kind: "Entity", Text: "the entity <Alice>", CreatedAt: time.Now()}
	if err := s.PutFactor(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.Text = "the entity <Bob>"
	if err := s.PutFactor(ctx, rec); err != nil {
		t.Fatal(err)
	}

	recs, err := s.ListFactors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Text != "the entity <Bob>" {
		t.Errorf("upsert should replace in place: %+v", recs)
	}
}

func TestListFactorsOrdersByCreation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"late", "early", "middle"} {
		offsets := []time.Duration{2 * time.Hour, 0, time.Hour}
		rec := store.Factor{ID: id, Kind: "Entity", CreatedAt: base.Add(offsets[i])}
		if err := s.PutFactor(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.ListFactors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || recs[0].ID != "early" || recs[2].ID != "late" {
		t.Errorf("unexpected order: %+v", recs)
	}
}

func TestComparisonPersistence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for _, rec := range []store.Factor{
		{ID: "a", Kind: "Statement", CreatedAt: now},
		{ID: "b", Kind: "Statement", CreatedAt: now},
	} {
		if err := s.PutFactor(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	cmp := store.Comparison{
		ID:          "cmp-1",
		LeftID:      "a",
		RightID:     "b",
		Implies:     true,
		Consistent:  true,
		Explanation: "Because <x> is like <y>",
		CreatedAt:   now,
	}
	if err := s.PutComparison(ctx, cmp); err != nil {
		t.Fatal(err)
	}

	forA, err := s.ListComparisons(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(forA) != 1 {
		t.Fatalf("expected 1 comparison, got %d", len(forA))
	}
	got := forA[0]
	if !got.Implies || got.Means || !got.Consistent || got.Contradicts {
		t.Errorf("relation flags did not survive: %+v", got)
	}
	if got.Explanation != cmp.Explanation {
		t.Errorf("explanation mismatch: %q", got.Explanation)
	}

	forB, _ := s.ListComparisons(ctx, "b")
	if len(forB) != 1 {
		t.Errorf("the right side should see the comparison too, got %d", len(forB))
	}
}
