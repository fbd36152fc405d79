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

// Collaborator field names as used by the application.
const (
	CollaboratorRole          = "role"
	CollaboratorSalary        = "salary"
	CollaboratorHoursPerMonth = "hoursPerMonth"
)

// collaboratorFields is the single mapping between collaborator field
// names and their persisted columns.
var collaboratorFields = fieldMap{
	{field: CollaboratorRole, column: "role"},
	{field: CollaboratorSalary, column: "salary"},
	{field: CollaboratorHoursPerMonth, column: "hours_per_month"},
}

type fieldMapping struct {
	field  string
	column string
}

type fieldMap []fieldMapping

func (m fieldMap) column(field string) (string, bool) {
	for _, f := range m {
		if f.field == field {
			return f.column, true
		}
	}
	return "", false
}

func (m fieldMap) field(column string) (string, bool) {
	for _, f := range m {
		if f.column == column {
			return f.field, true
		}
	}
	return "", false
}

func (m fieldMap) columns() []string {
	cols := make([]string, 0, len(m))
	for _, f := range m {
		cols = append(cols, f.column)
	}
	return cols
}

// collaboratorColumns is the select list read by scanCollaborator.
var collaboratorColumns = append(append([]string{"id"}, collaboratorFields.columns()...), "created_at")

// CollaboratorStore persists collaborators.
type CollaboratorStore struct {
	db *sql.DB
}

// NewCollaboratorStore returns a CollaboratorStore backed by db.
func NewCollaboratorStore(db *sql.DB) *CollaboratorStore {
	return &CollaboratorStore{db: db}
}

// Create inserts a collaborator and returns it with its generated id.
func (s *CollaboratorStore) Create(ctx context.Context, role string, salary, hoursPerMonth float64) (*domain.Collaborator, error) {
	c := &domain.Collaborator{ID: uuid.NewString(), Role: role, Salary: salary, HoursPerMonth: hoursPerMonth}
	if err := execInsert(ctx, s.db, sq.Insert("collaborators").SetMap(collaboratorRow(c)), "create collaborator"); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, c.ID)
}

// GetByID returns ErrNotFound when no collaborator has id.
func (s *CollaboratorStore) GetByID(ctx context.Context, id string) (*domain.Collaborator, error) {
	query, args, err := sq.Select(collaboratorColumns...).From("collaborators").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build collaborator query: %w", err)
	}

	c, err := scanCollaborator(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborator: %w", err)
	}
	return c, nil
}

// List returns collaborators in creation order.
func (s *CollaboratorStore) List(ctx context.Context) ([]*domain.Collaborator, error) {
	query, args, err := sq.Select(collaboratorColumns...).From("collaborators").OrderBy(creationOrder...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build collaborator query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	defer rows.Close()

	collaborators := make([]*domain.Collaborator, 0)
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		collaborators = append(collaborators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collaborators: %w", err)
	}
	return collaborators, nil
}

// UpdateField stores a single collaborator field. field is an application
// field name such as CollaboratorHoursPerMonth.
func (s *CollaboratorStore) UpdateField(ctx context.Context, id, field string, value any) error {
	column, ok := collaboratorFields.column(field)
	if !ok {
		return fmt.Errorf("unknown collaborator field %q", field)
	}
	update := sq.Update("collaborators").Set(column, value).Where(sq.Eq{"id": id})
	return execAffectingOne(ctx, s.db, update, "update collaborator "+field)
}

// Delete returns ErrNotFound when no collaborator has id.
func (s *CollaboratorStore) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, s.db, sq.Delete("collaborators").Where(sq.Eq{"id": id}), "delete collaborator")
}

// collaboratorRow maps a collaborator to its persisted columns.
func collaboratorRow(c *domain.Collaborator) map[string]any {
	values := map[string]any{
		CollaboratorRole:          c.Role,
		CollaboratorSalary:        c.Salary,
		CollaboratorHoursPerMonth: c.HoursPerMonth,
	}
	row := map[string]any{"id": c.ID}
	for field, v := range values {
		column, _ := collaboratorFields.column(field)
		row[column] = v
	}
	return row
}

// scanCollaborator reads a row selected with collaboratorColumns back into
// application fields. A NULL salary is a zero amount.
func scanCollaborator(row rowScanner) (*domain.Collaborator, error) {
	c := &domain.Collaborator{}
	var (
		role          string
		salary, hours sql.NullFloat64
	)
	targets := map[string]any{
		CollaboratorRole:          &role,
		CollaboratorSalary:        &salary,
		CollaboratorHoursPerMonth: &hours,
	}

	dest := []any{&c.ID}
	for _, column := range collaboratorFields.columns() {
		field, _ := collaboratorFields.field(column)
		dest = append(dest, targets[field])
	}
	dest = append(dest, &c.CreatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c.Role = role
	c.Salary = salary.Float64
	c.HoursPerMonth = hours.Float64
	return c, nil
}
