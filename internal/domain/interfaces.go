package domain

import "github.com/shopspring/decimal"

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers. Infrastructure
// implements them; the application layer depends on them. The engine never
// assumes a specific backing store.

// DonorStore holds one record per donor address.
type DonorStore interface {
	// GetDonor returns the donor's record, or the defined default record if
	// the address has never been seen. It does not create the record.
	GetDonor(address string) (DonorRecord, error)

	// UpdateDonor runs fn inside an atomic read-modify-write for the
	// address, creating the default record first if needed. If fn returns
	// an error the record is left untouched. Returns the stored record.
	UpdateDonor(address string, fn func(*DonorRecord) error) (DonorRecord, error)

	// ListDonors returns a point-in-time snapshot of every donor record.
	ListDonors() ([]DonorRecord, error)
}

// DonationLedger is the append-only donation log.
type DonationLedger interface {
	AppendDonation(rec DonationRecord) error
	DonationsByCampaign(campaignID string) ([]DonationRecord, error)
	DonationsByDonor(address string) ([]DonationRecord, error)
}

// CampaignStore holds the minimal campaign registry.
type CampaignStore interface {
	CreateCampaign(c Campaign) error
	GetCampaign(id string) (Campaign, error)
	ListCampaigns() ([]Campaign, error)

	// AddCollected accumulates a donation amount onto the campaign.
	// Returns ErrCampaignNotFound for an unknown id.
	AddCollected(id string, amount decimal.Decimal) error
}
