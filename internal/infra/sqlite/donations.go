package sqlite

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crowdfund3r/donorx/internal/domain"
)

// ─── DonationLedger ─────────────────────────────────────────────────────────

// AppendDonation inserts a donation row. The table is append-only; there is
// no update or delete path.
func (db *DB) AppendDonation(rec domain.DonationRecord) error {
	_, err := db.db.Exec(`
		INSERT INTO donations (id, donor_address, campaign_id, amount, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.DonorAddress, rec.CampaignID, rec.Amount.String(),
		rec.Timestamp.Format(time.RFC3339Nano))
	return err
}

// DonationsByCampaign returns all donations for a campaign, oldest first.
func (db *DB) DonationsByCampaign(campaignID string) ([]domain.DonationRecord, error) {
	return db.listDonations(`campaign_id = ?`, campaignID)
}

// DonationsByDonor returns all donations made by an address, oldest first.
func (db *DB) DonationsByDonor(address string) ([]domain.DonationRecord, error) {
	return db.listDonations(`donor_address = ?`, address)
}

func (db *DB) listDonations(where string, arg string) ([]domain.DonationRecord, error) {
	rows, err := db.db.Query(`
		SELECT id, donor_address, campaign_id, amount, timestamp
		FROM donations WHERE `+where+` ORDER BY timestamp
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DonationRecord
	for rows.Next() {
		var (
			rec       domain.DonationRecord
			amountStr string
			tsStr     string
		)
		if err := rows.Scan(&rec.ID, &rec.DonorAddress, &rec.CampaignID, &amountStr, &tsStr); err != nil {
			return nil, err
		}
		rec.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		rec.Timestamp, err = time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
