package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/oficina/internal/db"
	"github.com/Simplici0/oficina/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{WorkingDays: 21}

	for i := 0; i < 10; i++ {
		stats, err := Run(database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 6 {
				t.Fatalf("expected 6 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM business_settings WHERE id = 1`, nil, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM projects WHERE name = ?`, "Cozinha planejada", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM project_materials`, nil, 2)
	assertCount(t, database, `SELECT COUNT(*) FROM project_labor WHERE role = ?`, "Marceneiro Master", 1)

	var days float64
	if err := database.QueryRow(`SELECT working_days FROM business_settings WHERE id = 1`).Scan(&days); err != nil {
		t.Fatalf("query working days: %v", err)
	}
	if days != 21 {
		t.Fatalf("expected 21 working days, got %v", days)
	}
}

func TestRunKeepsExistingSettings(t *testing.T) {
	t.Parallel()

	database, err := db.OpenForTesting()
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(`INSERT INTO business_settings (id, working_days) VALUES (1, 26)`); err != nil {
		t.Fatalf("insert settings: %v", err)
	}

	stats, err := Run(database, Config{WorkingDays: 22})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 5 {
		t.Fatalf("expected 5 inserts, got %d", stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM business_settings WHERE working_days = 26`, nil, 1)
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}

func TestRunDoesNotRecreateRenamedOrDeletedSample(t *testing.T) {
	t.Parallel()

	database, err := db.OpenForTesting()
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	defer database.Close()

	if _, err := Run(database, Config{WorkingDays: 22}); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE projects SET name = ? WHERE name = ?`, "Cozinha da Ana", "Cozinha planejada"); err != nil {
		t.Fatalf("rename sample project: %v", err)
	}

	stats, err := Run(database, Config{WorkingDays: 22})
	if err != nil {
		t.Fatalf("seed after rename: %v", err)
	}
	if stats.Inserts != 0 {
		t.Fatalf("expected 0 inserts after rename, got %d", stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM projects`, nil, 1)

	if _, err := database.Exec(`DELETE FROM projects`); err != nil {
		t.Fatalf("delete projects: %v", err)
	}
	stats, err = Run(database, Config{WorkingDays: 22})
	if err != nil {
		t.Fatalf("seed after delete: %v", err)
	}
	if stats.Inserts != 0 {
		t.Fatalf("expected 0 inserts after delete, got %d", stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM projects`, nil, 0)
}

func TestRunOnlyMarksDatabaseWithProjects(t *testing.T) {
	t.Parallel()

	database, err := db.OpenForTesting()
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(`INSERT INTO projects (id, name) VALUES ('p1', 'Estante')`); err != nil {
		t.Fatalf("insert project: %v", err)
	}

	stats, err := Run(database, Config{WorkingDays: 22})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 1 {
		t.Fatalf("expected only the settings insert, got %d", stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM projects`, nil, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM seed_markers WHERE name = ?`, "sample_project", 1)
}
