// Package sqlite is the durable implementation of the engine's store
// interfaces. Donor records carry a version column used for optimistic
// locking; donations are append-only.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection.
type DB struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database under dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, "donorx.db")

	// The pragmas ride on the DSN so every connection database/sql opens
	// gets them, not just the one that served a setup Exec. WAL lets
	// leaderboard reads proceed alongside donor writes; busy_timeout makes
	// concurrent writers queue instead of failing with SQLITE_BUSY.
	// _txlock=immediate takes the write lock at Begin, so a transaction
	// never has to upgrade mid-flight.
	dsn := "file:" + path +
		"?_txlock=immediate" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.db.Close()
}

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS donors (
			address            TEXT PRIMARY KEY,
			xp                 INTEGER NOT NULL DEFAULT 0,
			streak_count       INTEGER NOT NULL DEFAULT 0,
			last_donation_time TEXT,
			total_donated      TEXT NOT NULL DEFAULT '0',
			badges_json        TEXT NOT NULL DEFAULT '[]',
			has_welcome_badge  INTEGER NOT NULL DEFAULT 0,
			campaigns_created  INTEGER NOT NULL DEFAULT 0,
			version            INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_donors_xp ON donors(xp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_donors_streak ON donors(streak_count DESC)`,

		`CREATE TABLE IF NOT EXISTS donations (
			id            TEXT PRIMARY KEY,
			donor_address TEXT NOT NULL,
			campaign_id   TEXT NOT NULL,
			amount        TEXT NOT NULL,
			timestamp     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_campaign ON donations(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_donations_donor ON donations(donor_address)`,

		`CREATE TABLE IF NOT EXISTS campaigns (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			owner            TEXT NOT NULL,
			target           TEXT NOT NULL DEFAULT '0',
			deadline         TEXT,
			amount_collected TEXT NOT NULL DEFAULT '0',
			category         TEXT NOT NULL DEFAULT '',
			created_at       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_owner ON campaigns(owner)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
