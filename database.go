package main

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection. Only completed-match history
// and analytics events are persisted; live rooms never touch the disk.
type DB struct {
	conn *sql.DB
}

// MatchPlayerRow is one roster member's final line in a recorded match.
type MatchPlayerRow struct {
	Nickname   string
	Lives      int
	Eliminated bool
	Powerups   PowerupCounts
}

// OpenDB opens (or creates) the SQLite database.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id INTEGER NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			duration REAL NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS match_players (
			match_id INTEGER NOT NULL REFERENCES matches(id),
			nickname TEXT NOT NULL,
			lives INTEGER NOT NULL,
			eliminated INTEGER NOT NULL,
			bomb_powerups INTEGER NOT NULL DEFAULT 0,
			flame_powerups INTEGER NOT NULL DEFAULT 0,
			speed_powerups INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			room_id INTEGER NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			data BLOB,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON events(type)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_room ON matches(room_id)`,
	}
	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordMatch stores a finished match and its roster. Returns the new
// match row id.
func (db *DB) RecordMatch(roomID int, winner string, duration float64, players []MatchPlayerRow) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO matches (room_id, winner, duration, created_at) VALUES (?, ?, ?, ?)`,
		roomID, winner, duration, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, p := range players {
		if _, err := tx.Exec(
			`INSERT INTO match_players
				(match_id, nickname, lives, eliminated, bomb_powerups, flame_powerups, speed_powerups)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			matchID, p.Nickname, p.Lives, p.Eliminated,
			p.Powerups.Bomb, p.Powerups.Flame, p.Powerups.Speed,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return matchID, nil
}

// InsertEvents writes a batch of analytics events in one transaction.
func (db *DB) InsertEvents(batch []AnalyticsEvent) error {
	if len(batch) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO events (type, room_id, player, data, created_at) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.Exec(e.Type, e.RoomID, e.Player, e.Data, e.Timestamp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// MatchCount returns the number of recorded matches.
func (db *DB) MatchCount() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&n)
	return n, err
}

// EventCount returns the number of stored analytics events.
func (db *DB) EventCount() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
