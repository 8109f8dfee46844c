package progression

import (
	"sort"
	"time"

	"github.com/crowdfund3r/donorx/internal/domain"
)

// ─── Leaderboard Projector ──────────────────────────────────────────────────
// Ranked views derived from the donor store on demand; never push-updated
// and never mutating. A snapshot stale by one write is acceptable.

// Filter selects the leaderboard flavor.
type Filter string

const (
	FilterAll    Filter = "all"    // all-time XP descending
	FilterWeekly Filter = "weekly" // active in the trailing 7 days, XP descending
	FilterStreak Filter = "streak" // streak count descending
)

// WeeklyWindow is the trailing activity window for the weekly board:
// 7 rolling days from the request time, not a calendar week.
const WeeklyWindow = 7 * 24 * time.Hour

// DefaultLimit caps the board when the caller does not say otherwise.
const DefaultLimit = 10

// ParseFilter maps a query-string value onto a Filter. The empty string
// means all-time.
func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case FilterAll, "":
		return FilterAll, true
	case FilterWeekly:
		return FilterWeekly, true
	case FilterStreak:
		return FilterStreak, true
	default:
		return "", false
	}
}

// Leaderboard projects the donor store into a ranked, limit-capped view.
// Ties break by address ascending so the ordering is deterministic.
func (s *Service) Leaderboard(filter Filter, limit int) ([]domain.DonorSummary, error) {
	donors, err := s.donors.ListDonors()
	if err != nil {
		return nil, err
	}

	if filter == FilterWeekly {
		cutoff := s.clock().UTC().Add(-WeeklyWindow)
		kept := donors[:0]
		for _, d := range donors {
			if d.LastDonationTime != nil && !d.LastDonationTime.Before(cutoff) {
				kept = append(kept, d)
			}
		}
		donors = kept
	}

	sort.Slice(donors, func(i, j int) bool {
		a, b := donors[i], donors[j]
		if filter == FilterStreak {
			if a.StreakCount != b.StreakCount {
				return a.StreakCount > b.StreakCount
			}
		} else if a.XP != b.XP {
			return a.XP > b.XP
		}
		return a.Address < b.Address
	})

	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(donors) > limit {
		donors = donors[:limit]
	}

	out := make([]domain.DonorSummary, 0, len(donors))
	for _, d := range donors {
		out = append(out, d.Summary())
	}
	return out, nil
}
