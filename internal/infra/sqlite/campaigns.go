package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crowdfund3r/donorx/internal/domain"
)

// ─── CampaignStore ──────────────────────────────────────────────────────────

func (db *DB) CreateCampaign(c domain.Campaign) error {
	var deadline *string
	if !c.Deadline.IsZero() {
		s := c.Deadline.Format(time.RFC3339Nano)
		deadline = &s
	}
	_, err := db.db.Exec(`
		INSERT INTO campaigns (id, title, description, owner, target, deadline,
		                       amount_collected, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Title, c.Description, c.Owner, c.Target.String(), deadline,
		c.AmountCollected.String(), c.Category, c.CreatedAt.Format(time.RFC3339Nano))
	return err
}

func (db *DB) GetCampaign(id string) (domain.Campaign, error) {
	row := db.db.QueryRow(`
		SELECT id, title, description, owner, target, deadline,
		       amount_collected, category, created_at
		FROM campaigns WHERE id = ?
	`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return domain.Campaign{}, domain.ErrCampaignNotFound
	}
	return c, err
}

func (db *DB) ListCampaigns() ([]domain.Campaign, error) {
	rows, err := db.db.Query(`
		SELECT id, title, description, owner, target, deadline,
		       amount_collected, category, created_at
		FROM campaigns ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddCollected accumulates a donation amount onto the campaign. Decimal
// arithmetic happens in Go, so the read and write share one immediate
// transaction: concurrent donors queue on the write lock instead of
// overwriting each other's totals.
func (db *DB) AddCollected(id string, amount decimal.Decimal) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var collected string
	err = tx.QueryRow(`SELECT amount_collected FROM campaigns WHERE id = ?`, id).Scan(&collected)
	if err == sql.ErrNoRows {
		return domain.ErrCampaignNotFound
	}
	if err != nil {
		return err
	}
	cur, err := decimal.NewFromString(collected)
	if err != nil {
		return fmt.Errorf("parse amount_collected: %w", err)
	}

	if _, err := tx.Exec(`UPDATE campaigns SET amount_collected = ? WHERE id = ?`,
		cur.Add(amount).String(), id); err != nil {
		return err
	}
	return tx.Commit()
}

func scanCampaign(row rowScanner) (domain.Campaign, error) {
	var (
		c            domain.Campaign
		targetStr    string
		deadlineStr  sql.NullString
		collectedStr string
		createdStr   string
	)
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Owner, &targetStr,
		&deadlineStr, &collectedStr, &c.Category, &createdStr)
	if err != nil {
		return domain.Campaign{}, err
	}
	c.Target, err = decimal.NewFromString(targetStr)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("parse target: %w", err)
	}
	c.AmountCollected, err = decimal.NewFromString(collectedStr)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("parse amount_collected: %w", err)
	}
	if deadlineStr.Valid {
		c.Deadline, err = time.Parse(time.RFC3339Nano, deadlineStr.String)
		if err != nil {
			return domain.Campaign{}, fmt.Errorf("parse deadline: %w", err)
		}
	}
	c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("parse created_at: %w", err)
	}
	return c, nil
}
