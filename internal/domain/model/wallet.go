package model

import "time"

// Boost is a one-shot reward multiplier attached to a wallet. It is
// consumed by exactly one grant and cleared in that grant's transaction.
type Boost struct {
	Factor    float64
	ExpiresAt time.Time
}

// Active reports whether the boost can still be applied at time t.
func (b *Boost) Active(t time.Time) bool {
	return b != nil && b.Factor > 0 && t.Before(b.ExpiresAt)
}

// Wallet is a user's mutable economy state: the authoritative point
// balance, per-source buckets and streak/boost levers.
type Wallet struct {
	UserID       int64
	TotalPoints  int64
	Buckets      map[ActionType]int64
	DailyStreak  int
	Boost        *Boost
	LastEarnedAt *time.Time
	UpdatedAt    time.Time
}

// NextStreak advances the consecutive-day streak for an earning at time
// now: unchanged if the user already earned today (UTC), incremented if
// the last earning was yesterday, reset to 1 otherwise.
func NextStreak(current int, lastEarned *time.Time, now time.Time) int {
	if lastEarned == nil {
		return 1
	}
	today := now.UTC().Truncate(24 * time.Hour)
	last := lastEarned.UTC().Truncate(24 * time.Hour)
	switch {
	case last.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case last.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}
