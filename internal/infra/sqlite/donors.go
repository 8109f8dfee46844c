package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crowdfund3r/donorx/internal/domain"
	"github.com/crowdfund3r/donorx/internal/metrics"
)

// casAttempts bounds the optimistic-lock retry loop. Within one process the
// immediate transaction makes the read-modify-write a single critical
// section; the version guard and retries cover stores shared between
// processes.
const casAttempts = 3

// ─── DonorStore ─────────────────────────────────────────────────────────────

// GetDonor returns the stored record, or the default record for an unseen
// address.
func (db *DB) GetDonor(address string) (domain.DonorRecord, error) {
	rec, found, err := readDonor(db.db, address)
	if err != nil {
		return domain.DonorRecord{}, err
	}
	if !found {
		return domain.NewDonorRecord(address), nil
	}
	return rec, nil
}

// UpdateDonor applies fn inside a write transaction, guarded by
// compare-and-swap on the version column. The CAS retries a bounded number
// of times before surfacing ErrConcurrencyConflict.
func (db *DB) UpdateDonor(address string, fn func(*domain.DonorRecord) error) (domain.DonorRecord, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		rec, ok, err := db.updateDonorOnce(address, fn)
		if err != nil {
			return domain.DonorRecord{}, err
		}
		if ok {
			return rec, nil
		}
		metrics.StoreConflicts.Inc()
	}
	return domain.DonorRecord{}, domain.ErrConcurrencyConflict
}

func (db *DB) updateDonorOnce(address string, fn func(*domain.DonorRecord) error) (domain.DonorRecord, bool, error) {
	tx, err := db.db.Begin()
	if err != nil {
		return domain.DonorRecord{}, false, err
	}
	defer tx.Rollback()

	cur, found, err := readDonor(tx, address)
	if err != nil {
		return domain.DonorRecord{}, false, err
	}
	if !found {
		cur = domain.NewDonorRecord(address)
	}

	work := cur.Clone()
	if err := fn(&work); err != nil {
		return domain.DonorRecord{}, false, err
	}
	work.Version = cur.Version + 1

	ok, err := writeDonor(tx, work, cur.Version, found)
	if err != nil || !ok {
		return domain.DonorRecord{}, false, err
	}
	return work, true, tx.Commit()
}

// ListDonors returns a snapshot of all donor records.
func (db *DB) ListDonors() ([]domain.DonorRecord, error) {
	rows, err := db.db.Query(`
		SELECT address, xp, streak_count, last_donation_time, total_donated,
		       badges_json, has_welcome_badge, campaigns_created, version
		FROM donors
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DonorRecord
	for rows.Next() {
		rec, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ─── Row Mapping ────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

// querier abstracts *sql.DB and *sql.Tx so reads and writes can run
// standalone or inside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func scanDonor(row rowScanner) (domain.DonorRecord, error) {
	var (
		rec        domain.DonorRecord
		lastStr    sql.NullString
		totalStr   string
		badgesJSON string
		welcome    int
	)
	err := row.Scan(&rec.Address, &rec.XP, &rec.StreakCount, &lastStr, &totalStr,
		&badgesJSON, &welcome, &rec.CampaignsCreated, &rec.Version)
	if err != nil {
		return domain.DonorRecord{}, err
	}

	if lastStr.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastStr.String)
		if err != nil {
			return domain.DonorRecord{}, fmt.Errorf("parse last_donation_time: %w", err)
		}
		rec.LastDonationTime = &t
	}
	rec.TotalDonated, err = decimal.NewFromString(totalStr)
	if err != nil {
		return domain.DonorRecord{}, fmt.Errorf("parse total_donated: %w", err)
	}
	if err := json.Unmarshal([]byte(badgesJSON), &rec.Badges); err != nil {
		return domain.DonorRecord{}, fmt.Errorf("parse badges: %w", err)
	}
	rec.HasWelcomeBadge = welcome == 1
	return rec, nil
}

func readDonor(q querier, address string) (domain.DonorRecord, bool, error) {
	row := q.QueryRow(`
		SELECT address, xp, streak_count, last_donation_time, total_donated,
		       badges_json, has_welcome_badge, campaigns_created, version
		FROM donors WHERE address = ?
	`, address)
	rec, err := scanDonor(row)
	if err == sql.ErrNoRows {
		return domain.DonorRecord{}, false, nil
	}
	if err != nil {
		return domain.DonorRecord{}, false, err
	}
	return rec, true, nil
}

// writeDonor persists the record if the stored version still matches
// prevVersion. Returns false when the CAS lost the race.
func writeDonor(q querier, rec domain.DonorRecord, prevVersion int64, exists bool) (bool, error) {
	badgesJSON, err := json.Marshal(rec.Badges)
	if err != nil {
		return false, err
	}
	if rec.Badges == nil {
		badgesJSON = []byte("[]")
	}
	var lastStr *string
	if rec.LastDonationTime != nil {
		s := rec.LastDonationTime.Format(time.RFC3339Nano)
		lastStr = &s
	}
	welcome := 0
	if rec.HasWelcomeBadge {
		welcome = 1
	}

	if !exists {
		res, err := q.Exec(`
			INSERT OR IGNORE INTO donors
				(address, xp, streak_count, last_donation_time, total_donated,
				 badges_json, has_welcome_badge, campaigns_created, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.Address, rec.XP, rec.StreakCount, lastStr, rec.TotalDonated.String(),
			string(badgesJSON), welcome, rec.CampaignsCreated, rec.Version)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		return n == 1, err
	}

	res, err := q.Exec(`
		UPDATE donors SET
			xp                 = ?,
			streak_count       = ?,
			last_donation_time = ?,
			total_donated      = ?,
			badges_json        = ?,
			has_welcome_badge  = ?,
			campaigns_created  = ?,
			version            = ?
		WHERE address = ? AND version = ?
	`, rec.XP, rec.StreakCount, lastStr, rec.TotalDonated.String(),
		string(badgesJSON), welcome, rec.CampaignsCreated, rec.Version,
		rec.Address, prevVersion)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
