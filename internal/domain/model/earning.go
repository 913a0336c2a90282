package model

import "time"

// AppliedMultiplier records one named factor that contributed to a grant.
// The product of all entries equals the composite multiplier applied.
type AppliedMultiplier struct {
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
}

// EarningEvent is an append-only ledger row describing a single point
// grant with its full multiplier attribution. Never mutated after insert.
type EarningEvent struct {
	ID          int64
	UserID      int64
	ActionType  ActionType
	BasePoints  float64
	Multipliers []AppliedMultiplier
	FinalPoints int64
	CreatedAt   time.Time
}

// EarningSummary aggregates total earned points per source bucket. It is
// a read-only projection over earning events, not an authoritative store.
type EarningSummary struct {
	UserID    int64
	BySource  map[ActionType]int64
	Total     int64
	EventsNum int
}
