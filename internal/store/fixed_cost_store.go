package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/Simplici0/oficina/internal/domain"
)

var fixedCostColumns = []string{"id", "name", "value", "icon", "created_at"}

// FixedCostStore persists fixed monthly costs.
type FixedCostStore struct {
	db *sql.DB
}

// NewFixedCostStore returns a FixedCostStore backed by db.
func NewFixedCostStore(db *sql.DB) *FixedCostStore {
	return &FixedCostStore{db: db}
}

// Create inserts a fixed cost and returns it with its generated id.
func (s *FixedCostStore) Create(ctx context.Context, name string, value float64, icon string) (*domain.FixedCost, error) {
	id := uuid.NewString()
	insert := sq.Insert("fixed_costs").
		Columns("id", "name", "value", "icon").
		Values(id, name, value, icon)
	if err := execInsert(ctx, s.db, insert, "create fixed cost"); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns ErrNotFound when no fixed cost has id.
func (s *FixedCostStore) GetByID(ctx context.Context, id string) (*domain.FixedCost, error) {
	query, args, err := sq.Select(fixedCostColumns...).From("fixed_costs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fixed cost query: %w", err)
	}

	cost, err := scanFixedCost(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixed cost: %w", err)
	}
	return cost, nil
}

// List returns fixed costs in creation order.
func (s *FixedCostStore) List(ctx context.Context) ([]*domain.FixedCost, error) {
	query, args, err := sq.Select(fixedCostColumns...).From("fixed_costs").OrderBy(creationOrder...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fixed cost query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed costs: %w", err)
	}
	defer rows.Close()

	costs := make([]*domain.FixedCost, 0)
	for rows.Next() {
		cost, err := scanFixedCost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixed cost: %w", err)
		}
		costs = append(costs, cost)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixed costs: %w", err)
	}
	return costs, nil
}

// Update overwrites name, value and icon of cost.
func (s *FixedCostStore) Update(ctx context.Context, cost *domain.FixedCost) error {
	update := sq.Update("fixed_costs").
		Set("name", cost.Name).
		Set("value", cost.Value).
		Set("icon", cost.Icon).
		Where(sq.Eq{"id": cost.ID})
	return execAffectingOne(ctx, s.db, update, "update fixed cost")
}

// Delete returns ErrNotFound when no fixed cost has id.
func (s *FixedCostStore) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, s.db, sq.Delete("fixed_costs").Where(sq.Eq{"id": id}), "delete fixed cost")
}

// scanFixedCost reads a row selected with fixedCostColumns. A NULL value
// is a zero amount.
func scanFixedCost(row rowScanner) (*domain.FixedCost, error) {
	cost := &domain.FixedCost{}
	var value sql.NullFloat64
	if err := row.Scan(&cost.ID, &cost.Name, &value, &cost.Icon, &cost.CreatedAt); err != nil {
		return nil, err
	}
	cost.Value = value.Float64
	return cost, nil
}
