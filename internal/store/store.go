package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

type rowScanner interface {
	Scan(dest ...any) error
}

// creationOrder lists rows in the order they were inserted.
var creationOrder = []string{"created_at ASC", "rowid ASC"}

// execAffectingOne runs a built statement and maps zero affected rows to ErrNotFound.
func execAffectingOne(ctx context.Context, db *sql.DB, b sq.Sqlizer, what string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s statement: %w", what, err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func execInsert(ctx context.Context, db *sql.DB, b sq.InsertBuilder, what string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s statement: %w", what, err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	return nil
}
