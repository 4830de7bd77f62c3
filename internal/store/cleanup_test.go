package store

import (
	"testing"
	"time"

	"github.com/bizhealth/reportgen/internal/model"
)

// TestHistoryCleanupService_Cleanup tests a manual purge pass
func TestHistoryCleanupService_Cleanup(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	CreateTestRun(t, store, func(r *model.ReportRun) {
		r.CreatedAt = time.Now().AddDate(0, 0, -10)
	})
	CreateTestRun(t, store)

	svc := NewHistoryCleanupService(store.Runs(), 7, "")
	if deleted := svc.Cleanup(); deleted != 1 {
		t.Errorf("Expected 1 deleted run, got %d", deleted)
	}

	count, _ := store.Runs().CountAll()
	if count != 1 {
		t.Errorf("Expected 1 remaining run, got %d", count)
	}
}

// TestHistoryCleanupService_ZeroRetentionKeepsAll tests the keep-forever setting
func TestHistoryCleanupService_ZeroRetentionKeepsAll(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	CreateTestRun(t, store, func(r *model.ReportRun) {
		r.CreatedAt = time.Now().AddDate(-1, 0, 0)
	})

	svc := NewHistoryCleanupService(store.Runs(), 0, "")
	if deleted := svc.Cleanup(); deleted != 0 {
		t.Errorf("Expected nothing deleted, got %d", deleted)
	}

	if svc := NewHistoryCleanupService(store.Runs(), -3, ""); svc.RetentionDays() != 0 {
		t.Errorf("Expected negative retention to clamp to 0, got %d", svc.RetentionDays())
	}

	svc = NewHistoryCleanupService(store.Runs(), 30, "")
	if deleted := svc.Cleanup(); deleted != 1 {
		t.Errorf("Expected year-old run to be purged, got %d", deleted)
	}
}

// TestHistoryCleanupService_StartStop tests scheduling
func TestHistoryCleanupService_StartStop(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	svc := NewHistoryCleanupService(store.Runs(), 0, "")
	if svc.schedule != DefaultCleanupSchedule {
		t.Errorf("Expected default schedule, got '%s'", svc.schedule)
	}

	if err := svc.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if len(svc.cron.Entries()) != 1 {
		t.Errorf("Expected 1 scheduled entry, got %d", len(svc.cron.Entries()))
	}
	svc.Stop()
}

// TestHistoryCleanupService_InvalidSchedule tests that a bad cron spec fails Start
func TestHistoryCleanupService_InvalidSchedule(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	svc := NewHistoryCleanupService(store.Runs(), 30, "every night")
	if err := svc.Start(); err == nil {
		t.Error("Start() should fail for an invalid schedule")
	}
}
