package domain

import "github.com/shopspring/decimal"

// ─── Badge Registry ─────────────────────────────────────────────────────────
// Badges are a closed enumeration with stable string ids: the single source
// of truth for ordering and thresholds. Display text and icon mapping are a
// UI concern and never appear here. Badges are one-way — never revoked.

// BadgeID is a stable badge identifier.
type BadgeID string

const (
	BadgeWelcome BadgeID = "welcome"
	BadgeCreator BadgeID = "creator"

	BadgeStreakBronze     BadgeID = "streak-bronze"
	BadgeStreakSilver     BadgeID = "streak-silver"
	BadgeStreakGold       BadgeID = "streak-gold"
	BadgeStreakVoting     BadgeID = "streak-voting"
	BadgeStreakGovernance BadgeID = "streak-governance"

	BadgeLevel5  BadgeID = "level-5"
	BadgeLevel10 BadgeID = "level-10"

	BadgeGiver      BadgeID = "giver"
	BadgePatron     BadgeID = "patron"
	BadgeBenefactor BadgeID = "benefactor"
)

// BadgeRule pairs a badge with its eligibility predicate. Rules are ordered
// for "most recently unlocked" UX only; they are evaluated independently and
// are not mutually exclusive.
type BadgeRule struct {
	ID        BadgeID
	Name      string
	Predicate func(DonorRecord) bool
}

func streakAtLeast(n int) func(DonorRecord) bool {
	return func(d DonorRecord) bool { return d.StreakCount >= n }
}

func levelAtLeast(n int) func(DonorRecord) bool {
	return func(d DonorRecord) bool { return d.Level() >= n }
}

func donatedAtLeast(s string) func(DonorRecord) bool {
	min := decimal.RequireFromString(s)
	return func(d DonorRecord) bool { return d.TotalDonated.GreaterThanOrEqual(min) }
}

// BadgeRegistry returns the canonical ordered rule set. Streak tiers mirror
// the platform policy: 1 → bronze, 3 → silver, 7 → gold, 14 → voting rights,
// 30 → governance.
func BadgeRegistry() []BadgeRule {
	return []BadgeRule{
		{BadgeWelcome, "Welcome Badge", func(d DonorRecord) bool { return d.HasWelcomeBadge }},
		{BadgeCreator, "Creator", func(d DonorRecord) bool { return d.CampaignsCreated >= 1 }},

		{BadgeStreakBronze, "Bronze Badge NFT", streakAtLeast(1)},
		{BadgeStreakSilver, "Silver Badge NFT", streakAtLeast(3)},
		{BadgeStreakGold, "Gold Badge NFT", streakAtLeast(7)},
		{BadgeStreakVoting, "Voting Rights NFT", streakAtLeast(14)},
		{BadgeStreakGovernance, "Custom Governance", streakAtLeast(30)},

		{BadgeLevel5, "Level 5", levelAtLeast(5)},
		{BadgeLevel10, "Level 10", levelAtLeast(10)},

		{BadgeGiver, "Giver", donatedAtLeast("1")},
		{BadgePatron, "Patron", donatedAtLeast("10")},
		{BadgeBenefactor, "Benefactor", donatedAtLeast("100")},
	}
}

// EvaluateBadges runs every rule against the donor's post-update stats and
// returns the badges newly earned — badges already held are never
// re-returned, so the resulting union is idempotent. A donor crossing several
// thresholds in one jump earns all of them; no tier is skipped.
//
// Side-effect free: the caller merges the result into the record.
func EvaluateBadges(rules []BadgeRule, d DonorRecord) []BadgeID {
	var earned []BadgeID
	for _, r := range rules {
		if d.HasBadge(r.ID) {
			continue
		}
		if r.Predicate(d) {
			earned = append(earned, r.ID)
		}
	}
	return earned
}
