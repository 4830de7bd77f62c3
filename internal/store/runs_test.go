package store

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/bizhealth/reportgen/internal/model"
)

// TestRunStore_Create tests creating a run
func TestRunStore_Create(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	run := &model.ReportRun{
		RunID:       "run-001",
		ReportType:  "comprehensive",
		CompanyName: "Acme Co",
		HealthScore: 72,
		HealthBand:  "good",
		Status:      model.RunStatusCompleted,
		Exports:     model.StringMap{"pdf": "out/run-001/comprehensive.pdf"},
	}

	if err := store.Runs().Create(run); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if len(run.ID) != 20 {
		t.Errorf("Expected a 20 character xid, got '%s'", run.ID)
	}

	retrieved, err := store.Runs().GetByID(run.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if retrieved.RunID != "run-001" {
		t.Errorf("Expected RunID 'run-001', got '%s'", retrieved.RunID)
	}
	if retrieved.Exports["pdf"] != "out/run-001/comprehensive.pdf" {
		t.Errorf("Expected pdf export path to round-trip, got %v", retrieved.Exports)
	}
}

// TestRunStore_CreateKeepsExplicitID tests that a preset ID is preserved
func TestRunStore_CreateKeepsExplicitID(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	run := CreateTestRun(t, store, func(r *model.ReportRun) {
		r.ID = "cv0000000000000000aa"
	})

	if run.ID != "cv0000000000000000aa" {
		t.Errorf("Expected explicit ID to be kept, got '%s'", run.ID)
	}
}

// TestRunStore_GetByID_NotFound tests retrieving a missing run
func TestRunStore_GetByID_NotFound(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	_, err := store.Runs().GetByID("non-existent")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected gorm.ErrRecordNotFound, got %v", err)
	}
}

// TestRunStore_GetLatestByRunID tests that the newest record wins
func TestRunStore_GetLatestByRunID(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	CreateTestRun(t, store, func(r *model.ReportRun) {
		r.RunID = "run-repeat"
		r.CreatedAt = now.Add(-time.Hour)
		r.Status = model.RunStatusFailed
	})
	latest := CreateTestRun(t, store, func(r *model.ReportRun) {
		r.RunID = "run-repeat"
		r.CreatedAt = now
	})

	got, err := store.Runs().GetLatestByRunID("run-repeat")
	if err != nil {
		t.Fatalf("GetLatestByRunID() failed: %v", err)
	}
	if got.ID != latest.ID {
		t.Errorf("Expected latest run '%s', got '%s'", latest.ID, got.ID)
	}

	_, err = store.Runs().GetLatestByRunID("missing")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected gorm.ErrRecordNotFound, got %v", err)
	}
}

// TestRunStore_List tests filtering and pagination
func TestRunStore_List(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		i := i
		CreateTestRun(t, store, func(r *model.ReportRun) {
			r.RunID = "acme-" + string(rune('a'+i))
			r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		})
	}
	CreateTestRun(t, store, func(r *model.ReportRun) {
		r.CompanyName = "Globex"
		r.Status = model.RunStatusDegraded
		r.CreatedAt = base
	})

	// Page 1 of Acme, newest first
	runs, total, err := store.Runs().List(RunFilter{CompanyName: "Acme Co"}, 1, 2)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected total 5, got %d", total)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs on page 1, got %d", len(runs))
	}
	if runs[0].RunID != "acme-e" || runs[1].RunID != "acme-d" {
		t.Errorf("Expected acme-e, acme-d; got %s, %s", runs[0].RunID, runs[1].RunID)
	}

	// Last page is short
	runs, _, err = store.Runs().List(RunFilter{CompanyName: "Acme Co"}, 3, 2)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "acme-a" {
		t.Errorf("Expected only acme-a on page 3, got %v", runs)
	}

	// Status filter
	runs, total, _ = store.Runs().List(RunFilter{Status: model.RunStatusDegraded}, 1, 10)
	if total != 1 || runs[0].CompanyName != "Globex" {
		t.Errorf("Expected one degraded Globex run, got %d", total)
	}

	// No filter, invalid paging falls back to defaults
	_, total, _ = store.Runs().List(RunFilter{}, 0, 0)
	if total != 6 {
		t.Errorf("Expected total 6, got %d", total)
	}
}

// TestRunStore_Counts tests CountAll and CountByStatus
func TestRunStore_Counts(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	CreateTestRun(t, store)
	CreateTestRun(t, store)
	CreateTestRun(t, store, func(r *model.ReportRun) { r.Status = model.RunStatusFailed })

	total, err := store.Runs().CountAll()
	if err != nil {
		t.Fatalf("CountAll() failed: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected 3 runs, got %d", total)
	}

	counts, err := store.Runs().CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus() failed: %v", err)
	}
	if counts[model.RunStatusCompleted] != 2 || counts[model.RunStatusFailed] != 1 {
		t.Errorf("Unexpected status counts: %v", counts)
	}
	if _, ok := counts[model.RunStatusDegraded]; ok {
		t.Errorf("Expected no degraded entry, got %v", counts)
	}
}

// TestRunStore_DeleteOlderThan tests the retention purge
func TestRunStore_DeleteOlderThan(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	old := CreateTestRun(t, store, func(r *model.ReportRun) {
		r.CreatedAt = time.Now().AddDate(0, 0, -45)
	})
	recent := CreateTestRun(t, store, func(r *model.ReportRun) {
		r.CreatedAt = time.Now().AddDate(0, 0, -5)
	})

	deleted, err := store.Runs().DeleteOlderThan(30)
	if err != nil {
		t.Fatalf("DeleteOlderThan() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted run, got %d", deleted)
	}

	if _, err := store.Runs().GetByID(old.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected old run to be purged, got %v", err)
	}
	if _, err := store.Runs().GetByID(recent.ID); err != nil {
		t.Errorf("Expected recent run to survive, got %v", err)
	}
}

// TestStore_Transaction tests commit and rollback through the aggregate
func TestStore_Transaction(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	err := store.Transaction(func(tx Store) error {
		CreateTestRun(t, tx, func(r *model.ReportRun) { r.RunID = "committed" })
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction() failed: %v", err)
	}

	rollback := errors.New("rollback")
	err = store.Transaction(func(tx Store) error {
		CreateTestRun(t, tx, func(r *model.ReportRun) { r.RunID = "rolled-back" })
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("Expected rollback error, got %v", err)
	}

	if _, err := store.Runs().GetLatestByRunID("committed"); err != nil {
		t.Errorf("Expected committed run to exist: %v", err)
	}
	if _, err := store.Runs().GetLatestByRunID("rolled-back"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected rolled back run to be absent, got %v", err)
	}
	if store.DB() == nil {
		t.Error("DB() should return the connection")
	}
}
