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

var (
	materialColumns = []string{"id", "project_id", "name", "description", "quantity", "unit_value", "image_url", "created_at"}
	laborColumns    = []string{"id", "project_id", "role", "hourly_rate", "hours_planned", "created_at"}
)

// AddMaterial appends a material line to m.ProjectID and fills in its ID
// and creation time. It returns ErrNotFound when the project does not exist.
func (s *ProjectStore) AddMaterial(ctx context.Context, m *domain.Material) error {
	if err := s.touch(ctx, m.ProjectID); err != nil {
		return err
	}

	id := uuid.NewString()
	insert := sq.Insert("project_materials").
		Columns("id", "project_id", "name", "description", "quantity", "unit_value", "image_url").
		Values(id, m.ProjectID, m.Name, m.Description, m.Quantity, m.UnitValue, nullString(m.ImageURL))
	if err := execInsert(ctx, s.db, insert, "add material"); err != nil {
		return err
	}

	created, err := s.GetMaterial(ctx, m.ProjectID, id)
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// GetMaterial returns ErrNotFound unless id is a material of projectID.
func (s *ProjectStore) GetMaterial(ctx context.Context, projectID, id string) (*domain.Material, error) {
	query, args, err := sq.Select(materialColumns...).
		From("project_materials").
		Where(sq.Eq{"id": id, "project_id": projectID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build material query: %w", err)
	}

	m, err := scanMaterial(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return m, nil
}

// ListMaterials returns the material lines of projectID in creation order.
func (s *ProjectStore) ListMaterials(ctx context.Context, projectID string) ([]*domain.Material, error) {
	query, args, err := sq.Select(materialColumns...).
		From("project_materials").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy(creationOrder...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build material query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	materials := make([]*domain.Material, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating materials: %w", err)
	}
	return materials, nil
}

// UpdateMaterial overwrites a material line and touches its project.
func (s *ProjectStore) UpdateMaterial(ctx context.Context, m *domain.Material) error {
	update := sq.Update("project_materials").
		Set("name", m.Name).
		Set("description", m.Description).
		Set("quantity", m.Quantity).
		Set("unit_value", m.UnitValue).
		Set("image_url", nullString(m.ImageURL)).
		Where(sq.Eq{"id": m.ID, "project_id": m.ProjectID})
	if err := execAffectingOne(ctx, s.db, update, "update material"); err != nil {
		return err
	}
	return s.touch(ctx, m.ProjectID)
}

// RemoveMaterial returns ErrNotFound unless id is a material of projectID.
func (s *ProjectStore) RemoveMaterial(ctx context.Context, projectID, id string) error {
	del := sq.Delete("project_materials").Where(sq.Eq{"id": id, "project_id": projectID})
	if err := execAffectingOne(ctx, s.db, del, "remove material"); err != nil {
		return err
	}
	return s.touch(ctx, projectID)
}

// AddLabor appends a labor line to l.ProjectID. It returns ErrNotFound when
// the project does not exist.
func (s *ProjectStore) AddLabor(ctx context.Context, l *domain.DirectLabor) error {
	if err := s.touch(ctx, l.ProjectID); err != nil {
		return err
	}

	id := uuid.NewString()
	insert := sq.Insert("project_labor").
		Columns("id", "project_id", "role", "hourly_rate", "hours_planned").
		Values(id, l.ProjectID, l.Role, l.HourlyRate, l.HoursPlanned)
	if err := execInsert(ctx, s.db, insert, "add labor"); err != nil {
		return err
	}

	created, err := s.GetLabor(ctx, l.ProjectID, id)
	if err != nil {
		return err
	}
	*l = *created
	return nil
}

// GetLabor returns ErrNotFound unless id is a labor line of projectID.
func (s *ProjectStore) GetLabor(ctx context.Context, projectID, id string) (*domain.DirectLabor, error) {
	query, args, err := sq.Select(laborColumns...).
		From("project_labor").
		Where(sq.Eq{"id": id, "project_id": projectID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build labor query: %w", err)
	}

	l, err := scanLabor(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get labor: %w", err)
	}
	return l, nil
}

// ListLabor returns the labor lines of projectID in creation order.
func (s *ProjectStore) ListLabor(ctx context.Context, projectID string) ([]*domain.DirectLabor, error) {
	query, args, err := sq.Select(laborColumns...).
		From("project_labor").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy(creationOrder...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build labor query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list labor: %w", err)
	}
	defer rows.Close()

	labor := make([]*domain.DirectLabor, 0)
	for rows.Next() {
		l, err := scanLabor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan labor: %w", err)
		}
		labor = append(labor, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating labor: %w", err)
	}
	return labor, nil
}

// UpdateLabor overwrites a labor line and touches its project.
func (s *ProjectStore) UpdateLabor(ctx context.Context, l *domain.DirectLabor) error {
	update := sq.Update("project_labor").
		Set("role", l.Role).
		Set("hourly_rate", l.HourlyRate).
		Set("hours_planned", l.HoursPlanned).
		Where(sq.Eq{"id": l.ID, "project_id": l.ProjectID})
	if err := execAffectingOne(ctx, s.db, update, "update labor"); err != nil {
		return err
	}
	return s.touch(ctx, l.ProjectID)
}

// RemoveLabor returns ErrNotFound unless id is a labor line of projectID.
func (s *ProjectStore) RemoveLabor(ctx context.Context, projectID, id string) error {
	del := sq.Delete("project_labor").Where(sq.Eq{"id": id, "project_id": projectID})
	if err := execAffectingOne(ctx, s.db, del, "remove labor"); err != nil {
		return err
	}
	return s.touch(ctx, projectID)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// scanMaterial reads a row selected with materialColumns. NULL amounts are
// zero.
func scanMaterial(row rowScanner) (*domain.Material, error) {
	m := &domain.Material{}
	var (
		quantity, unitValue sql.NullFloat64
		imageURL            sql.NullString
	)
	err := row.Scan(&m.ID, &m.ProjectID, &m.Name, &m.Description, &quantity, &unitValue, &imageURL, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Quantity = quantity.Float64
	m.UnitValue = unitValue.Float64
	m.ImageURL = imageURL.String
	return m, nil
}

func scanLabor(row rowScanner) (*domain.DirectLabor, error) {
	l := &domain.DirectLabor{}
	var rate, hours sql.NullFloat64
	if err := row.Scan(&l.ID, &l.ProjectID, &l.Role, &rate, &hours, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.HourlyRate = rate.Float64
	l.HoursPlanned = hours.Float64
	return l, nil
}
