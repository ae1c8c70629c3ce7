package main

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents an account record
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// StatsRow represents persistent hide-and-seek stats
type StatsRow struct {
	PlayerID   int64
	Rounds     int
	Catches    int
	Escapes    int
	SeekerWins int
	HiderWins  int
	Playtime   float64 // seconds spent in seeking phases
}

// OpenDB opens (or creates) the SQLite database
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

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		rounds INTEGER NOT NULL DEFAULT 0,
		catches INTEGER NOT NULL DEFAULT 0,
		escapes INTEGER NOT NULL DEFAULT 0,
		seeker_wins INTEGER NOT NULL DEFAULT 0,
		hider_wins INTEGER NOT NULL DEFAULT 0,
		playtime REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		map TEXT NOT NULL DEFAULT '',
		duration REAL NOT NULL DEFAULT 0,
		seeker_won INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS round_players (
		round_id INTEGER NOT NULL REFERENCES rounds(id),
		player_id INTEGER NOT NULL REFERENCES players(id),
		role INTEGER NOT NULL DEFAULT 0,
		caught INTEGER NOT NULL DEFAULT 0,
		catches INTEGER NOT NULL DEFAULT 0,
		won INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (round_id, player_id)
	);

	CREATE TABLE IF NOT EXISTS achievements (
		player_id INTEGER NOT NULL REFERENCES players(id),
		achievement_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, achievement_id)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_analytics_created ON analytics_events(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreatePlayer inserts a new account and its empty stats row
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO players (username, pass_hash) VALUES (?, ?)`,
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec(`INSERT INTO stats (player_id) VALUES (?)`, id)
	return id, err
}

// GetPlayerByUsername returns nil when the account does not exist
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		`SELECT id, username, pass_hash FROM players WHERE username = ?`, username)
	var p PlayerRow
	if err := row.Scan(&p.ID, &p.Username, &p.PassHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM players WHERE username = ?`, username).Scan(&count)
	return count > 0, err
}

// GetStats returns a player's persistent stats, nil when absent
func (db *DB) GetStats(playerID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(`
		SELECT player_id, rounds, catches, escapes, seeker_wins, hider_wins, playtime
		FROM stats WHERE player_id = ?`, playerID)
	var s StatsRow
	err := row.Scan(&s.PlayerID, &s.Rounds, &s.Catches, &s.Escapes,
		&s.SeekerWins, &s.HiderWins, &s.Playtime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RecordRound inserts a completed round and returns its id
func (db *DB) RecordRound(mapTitle string, duration float64, seekerWon bool) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO rounds (map, duration, seeker_won) VALUES (?, ?, ?)`,
		mapTitle, duration, boolInt(seekerWon),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordRoundPlayer stores one player's participation and rolls the
// result into their aggregate stats.
func (db *DB) RecordRoundPlayer(roundID, playerID int64, role int, caught bool, catches int, won bool, duration float64) error {
	_, err := db.conn.Exec(`
		INSERT INTO round_players (round_id, player_id, role, caught, catches, won)
		VALUES (?, ?, ?, ?, ?, ?)`,
		roundID, playerID, role, boolInt(caught), catches, boolInt(won))
	if err != nil {
		return err
	}

	escaped := 0
	if role == RoleHider && !caught {
		escaped = 1
	}
	seekerWin := 0
	hiderWin := 0
	if won {
		if role == RoleSeeker {
			seekerWin = 1
		} else {
			hiderWin = 1
		}
	}
	_, err = db.conn.Exec(`
		UPDATE stats SET
			rounds = rounds + 1,
			catches = catches + ?,
			escapes = escapes + ?,
			seeker_wins = seeker_wins + ?,
			hider_wins = hider_wins + ?,
			playtime = playtime + ?
		WHERE player_id = ?`,
		catches, escaped, seekerWin, hiderWin, duration, playerID)
	return err
}

// GetAchievements returns the IDs of a player's unlocked achievements
func (db *DB) GetAchievements(playerID int64) ([]string, error) {
	rows, err := db.conn.Query(
		`SELECT achievement_id FROM achievements WHERE player_id = ?`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnlockAchievement inserts an unlock; returns false when already held
func (db *DB) UnlockAchievement(playerID int64, achievementID string) (bool, error) {
	res, err := db.conn.Exec(`
		INSERT OR IGNORE INTO achievements (player_id, achievement_id)
		VALUES (?, ?)`, playerID, achievementID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetSetting returns a setting value or ""
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting upserts a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
