package domain

import "time"

// ─── Streak Evaluation ──────────────────────────────────────────────────────
// One donation per rolling 24-hour day counts toward the streak; a gap of a
// full missed day (48h+) restarts it. Decay is measured against a rolling
// window, not calendar days, so the rules are timezone-free.

const (
	// StreakWindow is the rolling "same day" window: a repeat donation
	// inside it neither increments nor resets the streak.
	StreakWindow = 24 * time.Hour

	// StreakGrace is the outer bound for continuing a streak. At or past
	// this gap the donor missed a full day and the streak restarts at 1.
	StreakGrace = 48 * time.Hour
)

// EvaluateStreak decides the donor's new streak count and last-donation
// timestamp for a donation processed at now.
//
// Pure and total: no error conditions. The timestamp advances to now on every
// processed donation — including the within-window no-op branch, matching the
// production contract — with one exception: negative elapsed time (clock
// skew) leaves both values untouched so the streak cannot be manipulated.
func EvaluateStreak(prior int, last *time.Time, now time.Time) (int, time.Time) {
	if last == nil {
		return 1, now
	}
	elapsed := now.Sub(*last)
	switch {
	case elapsed < 0:
		return prior, *last
	case elapsed < StreakWindow:
		return prior, now
	case elapsed < StreakGrace:
		return prior + 1, now
	default:
		return 1, now
	}
}
