package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

func main() {
	dbPath := flag.String("db", "data/matches.db", "Path to SQLite match archive")
	flag.Parse()

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		log.Fatalf("Archive not found at %s", *dbPath)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, started_at, ended_at,
		       challenger_name, challenged_name,
		       winner, termination, message_count
		FROM matches
		ORDER BY started_at DESC
	`)
	if err != nil {
		log.Fatalf("Failed to query matches: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var startedAt, endedAt time.Time
		var challenger, challenged string
		var winner, termination string
		var messageCount int

		err = rows.Scan(&id, &startedAt, &endedAt,
			&challenger, &challenged,
			&winner, &termination, &messageCount)
		if err != nil {
			log.Fatalf("Failed to scan row: %v", err)
		}

		fmt.Printf("Match #%d\n", id)
		fmt.Printf("Time: %s - %s\n", startedAt.Format(time.RFC822), endedAt.Format(time.RFC822))
		fmt.Printf("Players: %s vs %s\n", challenger, challenged)
		if winner == "" {
			winner = "not reported"
		}
		fmt.Printf("Winner: %s\n", winner)
		fmt.Printf("Termination: %s\n", termination)
		fmt.Printf("Private messages: %d\n", messageCount)
		fmt.Println("---")
		count++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Row iteration failed: %v", err)
	}

	fmt.Printf("Total matches: %d\n", count)
}
