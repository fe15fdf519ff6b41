package store

import (
	"context"
	"time"
)

// Store persists factors and the comparisons run against them.
type Store interface {
	Close() error

	// Factors
	PutFactor(ctx context.Context, rec Factor) error
	GetFactor(ctx context.Context, id string) (Factor, error)
	ListFactors(ctx context.Context) ([]Factor, error)

	// Comparisons
	PutComparison(ctx context.Context, rec Comparison) error
	ListComparisons(ctx context.Context, factorID string) ([]Comparison, error)
}

// Factor is a stored factor: its serialized raw form plus display
// metadata. Raw holds the JSON-encoded schema form so the factor can be
// rebuilt without re-parsing prose.
type Factor struct {
	ID        string
	Name      string
	Kind      string // Entity, Statement, Assertion
	Text      string // natural-language rendering
	Raw       string // JSON-encoded schema.RawFactor
	CreatedAt time.Time
}

// Comparison is a recorded comparison between two stored factors.
type Comparison struct {
	ID          string
	LeftID      string
	RightID     string
	Implies     bool
	ImpliedBy   bool
	Means       bool
	Contradicts bool
	Consistent  bool
	Explanation string
	CreatedAt   time.Time
}
