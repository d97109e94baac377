package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/vtps-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("expected migrations dir to validate: %v", err)
	}
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	embedded, err := fs.Glob(migrate.Migrations, "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob disk: %v", err)
	}
	if len(embedded) != len(onDisk) || len(embedded) == 0 {
		t.Fatalf("embedded=%d disk=%d", len(embedded), len(onDisk))
	}
}

func TestPeopleMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_vulnerable_people")
	checks := []string{
		"CONSTRAINT vulnerable_people_gps_device_id_key UNIQUE (gps_device_id)",
		"FOREIGN KEY (assigned_supervisor_id) REFERENCES users(id) ON DELETE SET NULL",
		"FOREIGN KEY (created_by_id) REFERENCES users(id) ON DELETE SET NULL",
		"FOREIGN KEY (person_id) REFERENCES vulnerable_people(id) ON DELETE CASCADE",
		"CHECK (age >= 0)",
		"DROP TABLE IF EXISTS vulnerable_people",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestChildTablesCascadeFromPerson(t *testing.T) {
	for _, name := range []string{"create_tracking_tables", "create_alerts_and_notifications", "create_check_ins"} {
		content := readMigration(t, name)
		if !strings.Contains(content, "REFERENCES vulnerable_people(id) ON DELETE CASCADE") {
			t.Errorf("%s: expected cascade from vulnerable_people", name)
		}
	}
	checkIns := readMigration(t, "create_check_ins")
	if !strings.Contains(checkIns, "FOREIGN KEY (schedule_id) REFERENCES check_in_schedules(id) ON DELETE CASCADE") {
		t.Errorf("check_in_logs should cascade from schedules")
	}
	tracking := readMigration(t, "create_tracking_tables")
	if !strings.Contains(tracking, "CHECK (radius_meters > 0)") {
		t.Errorf("safe zones must enforce a positive radius")
	}
}

func TestDialect(t *testing.T) {
	cases := map[string]string{"": "postgres", "postgres": "postgres", "sqlite": "sqlite3", "SQLite3": "sqlite3"}
	for in, want := range cases {
		if got := migrate.Dialect(in); got != want {
			t.Fatalf("Dialect(%q) = %q, want %q", in, got, want)
		}
	}
}
