// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Donor Types ────────────────────────────────────────────────────────────

// DonorRecord is the aggregate state for one wallet address.
// It is mutated exclusively through the donation pipeline and the one-time
// welcome-badge claim; nothing else may touch XP, streak, badges or totals.
type DonorRecord struct {
	Address          string          `json:"address"`
	XP               int64           `json:"xp"`
	StreakCount      int             `json:"streak_count"`
	LastDonationTime *time.Time      `json:"last_donation_time,omitempty"` // nil before first donation
	TotalDonated     decimal.Decimal `json:"total_donated"`
	Badges           []BadgeID       `json:"badges"`
	HasWelcomeBadge  bool            `json:"has_welcome_badge"`
	CampaignsCreated int             `json:"campaigns_created"`

	// Version is the optimistic-lock counter maintained by the store.
	Version int64 `json:"-"`
}

// NewDonorRecord returns the defined default record for an unseen address:
// xp 0, level 1, no streak, empty badge set, zero donated.
func NewDonorRecord(address string) DonorRecord {
	return DonorRecord{
		Address:      address,
		TotalDonated: decimal.Zero,
	}
}

// Level is derived from XP and never stored redundantly.
func (d DonorRecord) Level() int {
	return Level(d.XP)
}

// NextLevelXP returns the XP threshold for the donor's next level.
func (d DonorRecord) NextLevelXP() int64 {
	return NextLevelXP(d.Level())
}

// HasBadge reports whether the donor already holds the given badge.
func (d DonorRecord) HasBadge(id BadgeID) bool {
	for _, b := range d.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// GrantBadge adds a badge to the set. Badges are never revoked; granting an
// already-held badge is a no-op. Returns true if the badge was newly added.
func (d *DonorRecord) GrantBadge(id BadgeID) bool {
	if d.HasBadge(id) {
		return false
	}
	d.Badges = append(d.Badges, id)
	return true
}

// Clone returns a deep copy, so stores can hand out snapshots safely.
func (d DonorRecord) Clone() DonorRecord {
	out := d
	out.Badges = append([]BadgeID(nil), d.Badges...)
	return out
}

// Summary projects the record into its leaderboard view.
func (d DonorRecord) Summary() DonorSummary {
	return DonorSummary{
		Address:          d.Address,
		XP:               d.XP,
		Level:            d.Level(),
		StreakCount:      d.StreakCount,
		LastDonationTime: d.LastDonationTime,
	}
}

// DonorSummary is the read-only leaderboard projection of a donor.
type DonorSummary struct {
	Address          string     `json:"address"`
	XP               int64      `json:"xp"`
	Level            int        `json:"level"`
	StreakCount      int        `json:"streak_count"`
	LastDonationTime *time.Time `json:"last_donation_time,omitempty"`
}

// ─── Donation Types ─────────────────────────────────────────────────────────

// DonationRecord is one row in the append-only donation ledger.
// Immutable once written; amendments require compensating entries.
type DonationRecord struct {
	ID           string          `json:"id"`
	DonorAddress string          `json:"donor_address"`
	CampaignID   string          `json:"campaign_id"`
	Amount       decimal.Decimal `json:"amount"`
	Timestamp    time.Time       `json:"timestamp"` // assigned at ledger-write time
}

// ─── Campaign Types ─────────────────────────────────────────────────────────

// Campaign is the minimal campaign state the engine tracks: enough to list
// donations per campaign, accumulate collected amounts, and drive the
// creator badge. Verification protocols live outside the engine.
type Campaign struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Owner           string          `json:"owner"`
	Target          decimal.Decimal `json:"target"`
	Deadline        time.Time       `json:"deadline"`
	AmountCollected decimal.Decimal `json:"amount_collected"`
	Category        string          `json:"category"`
	CreatedAt       time.Time       `json:"created_at"`
}
