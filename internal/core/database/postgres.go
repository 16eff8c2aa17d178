package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open opens a Postgres connection and verifies it with a ping.
// connStr is a lib/pq connection string (see config.DatabaseConfig.ConnString).
func Open(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres db: %w", err)
	}

	return db, nil
}
