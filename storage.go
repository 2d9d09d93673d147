package main

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// MatchArchive records finished match sessions in SQLite: one row per played
// game, written on rematch rollover and on session teardown. The server
// never reads it back; cmd/dump-matches prints it offline.
type MatchArchive struct {
	db *sql.DB
}

// OpenArchive opens (creating if needed) the archive database.
func OpenArchive(dbPath string) (*MatchArchive, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME,
		ended_at DATETIME,
		challenger_name TEXT,
		challenged_name TEXT,
		winner TEXT,
		termination TEXT,
		message_count INTEGER
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Match archive initialized at", dbPath)
	return &MatchArchive{db: db}, nil
}

// SaveMatch records one finished game. Nil-safe so the hub can call it
// unconditionally when archiving is disabled.
func (a *MatchArchive) SaveMatch(m *Match, termination string) {
	if a == nil || a.db == nil {
		return
	}

	_, err := a.db.Exec(`
		INSERT INTO matches (started_at, ended_at, challenger_name, challenged_name, winner, termination, message_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.StartedAt, time.Now(), m.Challenger, m.Challenged, m.LastWinner, termination, len(m.Messages))
	if err != nil {
		log.Printf("Failed to save match: %v", err)
		return
	}

	log.Printf("Match archived: %s vs %s (winner: %q, %s)", m.Challenger, m.Challenged, m.LastWinner, termination)
}

func (a *MatchArchive) Close() {
	if a != nil && a.db != nil {
		a.db.Close()
	}
}
