package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Simplici0/oficina/internal/domain"
)

const settingsID = 1

// SettingsStore persists the business_settings singleton row.
type SettingsStore struct {
	db                 *sql.DB
	defaultWorkingDays float64
}

// NewSettingsStore returns a store that creates the singleton with
// defaultWorkingDays the first time it is read.
func NewSettingsStore(db *sql.DB, defaultWorkingDays float64) *SettingsStore {
	return &SettingsStore{db: db, defaultWorkingDays: defaultWorkingDays}
}

// Ensure inserts the singleton row if it does not exist yet. It reports
// whether a row was inserted.
func (s *SettingsStore) Ensure(ctx context.Context) (bool, error) {
	query, args, err := sq.Insert("business_settings").
		Columns("id", "working_days").
		Values(settingsID, s.defaultWorkingDays).
		Suffix("ON CONFLICT(id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build settings insert: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to ensure settings: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Get returns the singleton settings row. The row is inserted with the
// default working days only when it is missing.
func (s *SettingsStore) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.get(ctx)
	if !errors.Is(err, sql.ErrNoRows) {
		return settings, err
	}
	if _, err := s.Ensure(ctx); err != nil {
		return nil, err
	}
	return s.get(ctx)
}

func (s *SettingsStore) get(ctx context.Context) (*domain.Settings, error) {
	query, args, err := sq.Select("working_days", "updated_at").
		From("business_settings").
		Where(sq.Eq{"id": settingsID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build settings query: %w", err)
	}

	settings := &domain.Settings{}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&settings.WorkingDays, &settings.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// SetWorkingDays stores days on the singleton row, creating it if needed.
func (s *SettingsStore) SetWorkingDays(ctx context.Context, days float64) error {
	if _, err := s.Ensure(ctx); err != nil {
		return err
	}
	update := sq.Update("business_settings").
		Set("working_days", days).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": settingsID})
	return execAffectingOne(ctx, s.db, update, "set working days")
}
