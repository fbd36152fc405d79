package seed

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const (
	sampleProjectName   = "Cozinha planejada"
	sampleProjectMarker = "sample_project"
)

// Config contains the values required by startup seed.
type Config struct {
	WorkingDays float64
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

type sampleMaterial struct {
	name        string
	description string
	quantity    float64
	unitValue   float64
}

type sampleLabor struct {
	role         string
	hourlyRate   float64
	hoursPlanned float64
}

var (
	sampleMaterials = []sampleMaterial{
		{"Painéis MDF 18mm", "Branco Diamante - 2.75x1.85m", 4, 380},
		{"Ferragens e Acessórios", "Dobradiças, Corrediças telescópicas", 24, 12.5},
	}
	sampleLaborLines = []sampleLabor{
		{"Marceneiro Master", 45, 32},
		{"Auxiliar de Produção", 20, 18},
	}
)

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureSettings(tx, cfg.WorkingDays, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureSampleProject(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSettings(tx *sql.Tx, workingDays float64, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM business_settings WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check business settings existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO business_settings (id, working_days) VALUES (1, ?)`, workingDays); err != nil {
		return fmt.Errorf("insert business settings singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

// ensureSampleProject inserts the sample project once per database. A marker
// row records that it ran, so renaming or deleting the project sticks.
// Databases that already hold projects are only marked.
func ensureSampleProject(tx *sql.Tx, stats *Stats) error {
	var marked bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM seed_markers WHERE name = ?)`, sampleProjectMarker).Scan(&marked); err != nil {
		return fmt.Errorf("check sample project marker: %w", err)
	}
	if marked {
		return nil
	}
	if _, err := tx.Exec(`INSERT INTO seed_markers (name) VALUES (?)`, sampleProjectMarker); err != nil {
		return fmt.Errorf("insert sample project marker: %w", err)
	}

	var hasProjects bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM projects)`).Scan(&hasProjects); err != nil {
		return fmt.Errorf("check existing projects: %w", err)
	}
	if hasProjects {
		return nil
	}

	projectID := uuid.NewString()
	if _, err := tx.Exec(`
		INSERT INTO projects (id, name, production_days, installation_days, taxes_perc, profit_perc)
		VALUES (?, ?, ?, ?, ?, ?)
	`, projectID, sampleProjectName, 5, 2, 8, 35); err != nil {
		return fmt.Errorf("insert sample project: %w", err)
	}
	stats.Inserts++

	for _, m := range sampleMaterials {
		if _, err := tx.Exec(`
			INSERT INTO project_materials (id, project_id, name, description, quantity, unit_value)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), projectID, m.name, m.description, m.quantity, m.unitValue); err != nil {
			return fmt.Errorf("insert sample material %q: %w", m.name, err)
		}
		stats.Inserts++
	}

	for _, l := range sampleLaborLines {
		if _, err := tx.Exec(`
			INSERT INTO project_labor (id, project_id, role, hourly_rate, hours_planned)
			VALUES (?, ?, ?, ?, ?)
		`, uuid.NewString(), projectID, l.role, l.hourlyRate, l.hoursPlanned); err != nil {
			return fmt.Errorf("insert sample labor %q: %w", l.role, err)
		}
		stats.Inserts++
	}
	return nil
}
