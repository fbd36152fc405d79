package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Simplici0/oficina/internal/migrations"
)

// pragmas are passed in the DSN so every pooled connection gets them.
const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open opens a SQLite database, sets recommended pragmas, and validates connectivity.
func Open(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?%s&_pragma=journal_mode(WAL)", dbPath, pragmas)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return db, nil
}

// OpenForTesting opens a private in-memory database with all migrations
// applied. The pool is limited to one connection so every query sees the
// same in-memory database.
func OpenForTesting() (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file::memory:?"+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
