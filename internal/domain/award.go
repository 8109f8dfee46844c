package domain

// ─── XP Award Policy ────────────────────────────────────────────────────────
// The engine is agnostic to the table's values; it only guarantees additive,
// non-negative accumulation. The table is injectable so deployments can tune
// reward weights without touching the pipeline.

// AwardReason is the business reason for an XP grant.
type AwardReason string

const (
	AwardDonation   AwardReason = "donation"
	AwardDailyLogin AwardReason = "daily_login"
	AwardShare      AwardReason = "share"
	AwardChallenge  AwardReason = "challenge"
)

// AwardTable maps reasons to fixed XP grants.
type AwardTable map[AwardReason]int64

// DefaultAwardTable returns the platform-defined XP rewards.
func DefaultAwardTable() AwardTable {
	return AwardTable{
		AwardDonation:   100,
		AwardDailyLogin: 10,
		AwardShare:      50,
		AwardChallenge:  200,
	}
}

// XPFor looks up the grant for a reason; unknown reasons award nothing.
func (t AwardTable) XPFor(reason AwardReason) int64 {
	return t[reason]
}
