// Package sqlite implements the repository interfaces on an embedded SQLite
// database. Nested collections (members, classes, inventory, the graffiti
// wall) are stored as JSON text columns and decoded on every read. The
// in-memory representation is fully structured, serialization happens only
// at this boundary.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The per-collection stores returned by
// Accounts, Schools, Players, Rewards and World share it.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and applies pending
// migrations. Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; a second pooled
	// connection would see a different, empty database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads during a write; the busy timeout makes
	// competing writers queue instead of failing immediately.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close closes the connection pool. Defer it wherever New is called.
func (db *DB) Close() error {
	return db.conn.Close()
}

type migration struct {
	version int
	name    string
	sql     string
}

// migrations run in order, each exactly once, tracked in schema_migrations.
// Steps are append-only: never edit a shipped step, add a new one.
var migrations = []migration{
	{
		version: 1,
		name:    "create accounts",
		sql: `
			CREATE TABLE accounts (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				contact     TEXT NOT NULL UNIQUE COLLATE NOCASE,
				secret_hash TEXT NOT NULL,
				cosmetic    TEXT NOT NULL DEFAULT '',
				created_at  DATETIME NOT NULL,
				updated_at  DATETIME NOT NULL
			);
		`,
	},
	{
		version: 2,
		name:    "create schools",
		sql: `
			CREATE TABLE schools (
				id             TEXT PRIMARY KEY,
				name           TEXT NOT NULL,
				level          INTEGER NOT NULL DEFAULT 1,
				principal_id   TEXT NOT NULL DEFAULT '',
				principal_name TEXT NOT NULL DEFAULT '',
				member_ids     TEXT NOT NULL DEFAULT '[]',
				members        TEXT NOT NULL DEFAULT '[]',
				join_requests  TEXT NOT NULL DEFAULT '[]',
				classes        TEXT NOT NULL DEFAULT '[]',
				total_tags     INTEGER NOT NULL DEFAULT 0,
				total_cleans   INTEGER NOT NULL DEFAULT 0,
				school_points  INTEGER NOT NULL DEFAULT 0,
				rename_cost    INTEGER NOT NULL DEFAULT 500,
				version        INTEGER NOT NULL DEFAULT 0,
				created_at     DATETIME NOT NULL,
				updated_at     DATETIME NOT NULL
			);
		`,
	},
	{
		version: 3,
		name:    "create players",
		sql: `
			CREATE TABLE players (
				id                    TEXT PRIMARY KEY,
				name                  TEXT NOT NULL DEFAULT '',
				level                 INTEGER NOT NULL DEFAULT 1,
				xp                    INTEGER NOT NULL DEFAULT 0,
				coins                 INTEGER NOT NULL DEFAULT 0,
				fatigue               INTEGER NOT NULL DEFAULT 0,
				fatigue_immunity_till INTEGER NOT NULL DEFAULT 0,
				backpack_capacity     INTEGER NOT NULL DEFAULT 10,
				backpack_level        INTEGER NOT NULL DEFAULT 1,
				inventory             TEXT NOT NULL DEFAULT '[]',
				rename_cost           INTEGER NOT NULL DEFAULT 100,
				cosmetic              TEXT NOT NULL DEFAULT '',
				school_id             TEXT NOT NULL DEFAULT '',
				cooldown_until        INTEGER NOT NULL DEFAULT 0,
				last_daily_treasure   INTEGER NOT NULL DEFAULT 0,
				last_active           INTEGER NOT NULL DEFAULT 0,
				last_lesson_reward    INTEGER NOT NULL DEFAULT 0,
				stats                 TEXT NOT NULL DEFAULT '{}'
			);
		`,
	},
	{
		version: 4,
		name:    "create pending_rewards",
		sql: `
			CREATE TABLE pending_rewards (
				id         TEXT PRIMARY KEY,
				player_id  TEXT NOT NULL,
				xp         INTEGER NOT NULL DEFAULT 0,
				coins      INTEGER NOT NULL DEFAULT 0,
				reason     TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			);
			CREATE INDEX idx_pending_rewards_player ON pending_rewards(player_id);
		`,
	},
	{
		version: 5,
		name:    "create and seed world_state singleton",
		sql: `
			CREATE TABLE world_state (
				id                  INTEGER PRIMARY KEY CHECK (id = 1),
				markers             TEXT NOT NULL DEFAULT '[]',
				log                 TEXT NOT NULL DEFAULT '[]',
				graffiti            TEXT NOT NULL DEFAULT '[]',
				last_treasure_reset INTEGER NOT NULL DEFAULT 0,
				event_active        INTEGER NOT NULL DEFAULT 0,
				lesson_cycle_start  INTEGER NOT NULL DEFAULT 0,
				version             INTEGER NOT NULL DEFAULT 0
			);
			INSERT OR IGNORE INTO world_state (id, lesson_cycle_start)
				VALUES (1, CAST(strftime('%s','now') AS INTEGER) * 1000);
		`,
	},
}

// migrate applies every step beyond the recorded schema version, each inside
// its own transaction together with the version bump.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	var current int
	if err := db.conn.QueryRow(
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`,
	).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
			m.version, m.name,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: recording version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.version, err)
		}
	}
	return nil
}

// encodeJSON serializes a nested collection for a blob column.
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding blob column: %w", err)
	}
	return string(b), nil
}

// decodeJSON restores a nested collection from a blob column. Empty text is
// treated as the zero value so pre-backfill rows still read cleanly.
func decodeJSON(raw string, out any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding blob column: %w", err)
	}
	return nil
}
