package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/Simplici0/oficina/internal/domain"
)

var projectColumns = []string{
	"id", "name", "production_days", "installation_days",
	"taxes_perc", "profit_perc", "created_at", "updated_at",
}

// ProjectStore persists projects and their material and labor lines.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore returns a ProjectStore backed by db.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// Create inserts p and fills in its ID and timestamps.
func (s *ProjectStore) Create(ctx context.Context, p *domain.Project) error {
	id := uuid.NewString()
	insert := sq.Insert("projects").
		Columns("id", "name", "production_days", "installation_days", "taxes_perc", "profit_perc").
		Values(id, p.Name, p.ProductionDays, p.InstallationDays, p.TaxesPerc, p.ProfitPerc)
	if err := execInsert(ctx, s.db, insert, "create project"); err != nil {
		return err
	}

	created, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// GetByID returns ErrNotFound when no project has id.
func (s *ProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query, args, err := sq.Select(projectColumns...).From("projects").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build project query: %w", err)
	}

	p, err := scanProject(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// List returns projects in creation order. A non-empty search keeps only
// projects whose name contains it (case-insensitive for ASCII).
func (s *ProjectStore) List(ctx context.Context, search string) ([]*domain.Project, error) {
	b := sq.Select(projectColumns...).From("projects").OrderBy(creationOrder...)
	if search = strings.TrimSpace(search); search != "" {
		b = b.Where(sq.Expr(`name LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(search)+"%"))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build project query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// Update overwrites the editable fields of p and bumps updated_at.
func (s *ProjectStore) Update(ctx context.Context, p *domain.Project) error {
	update := sq.Update("projects").
		Set("name", p.Name).
		Set("production_days", p.ProductionDays).
		Set("installation_days", p.InstallationDays).
		Set("taxes_perc", p.TaxesPerc).
		Set("profit_perc", p.ProfitPerc).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": p.ID})
	return execAffectingOne(ctx, s.db, update, "update project")
}

// Delete removes the project and all of its material and labor lines.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"project_materials", "project_labor"} {
		query, args, err := sq.Delete(table).Where(sq.Eq{"project_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	query, args, err := sq.Delete("projects").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete project: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *ProjectStore) touch(ctx context.Context, projectID string) error {
	update := sq.Update("projects").Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).Where(sq.Eq{"id": projectID})
	return execAffectingOne(ctx, s.db, update, "touch project")
}

func scanProject(row rowScanner) (*domain.Project, error) {
	p := &domain.Project{}
	err := row.Scan(&p.ID, &p.Name, &p.ProductionDays, &p.InstallationDays,
		&p.TaxesPerc, &p.ProfitPerc, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
