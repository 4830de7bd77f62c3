package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bizhealth/reportgen/internal/database"
	"github.com/bizhealth/reportgen/internal/model"
)

// SetupTestDB opens a migrated SQLite database in a temp directory.
// It returns a Store instance and a cleanup function.
// The cleanup function should be called with defer in tests.
func SetupTestDB(t *testing.T) (Store, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	cleanup := func() {
		database.CloseDB(db)
	}

	return NewStore(db), cleanup
}

// CreateTestRun creates a completed ReportRun with default values.
// Fields can be overridden by passing a function that modifies the run.
func CreateTestRun(t *testing.T, store Store, overrides ...func(*model.ReportRun)) *model.ReportRun {
	t.Helper()

	run := &model.ReportRun{
		RunID:       "run-" + time.Now().Format("150405.000000"),
		ReportType:  "comprehensive",
		CompanyName: "Acme Co",
		HealthScore: 72,
		HealthBand:  "good",
		Status:      model.RunStatusCompleted,
		Exports:     model.StringMap{},
	}

	for _, override := range overrides {
		override(run)
	}

	if err := store.Runs().Create(run); err != nil {
		t.Fatalf("Failed to create test run: %v", err)
	}

	return run
}
