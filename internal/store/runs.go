package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/bizhealth/reportgen/internal/model"
	"github.com/bizhealth/reportgen/pkg/idgen"
)

// RunFilter narrows a run listing. Empty fields match everything.
type RunFilter struct {
	CompanyName string
	Status      model.RunStatus
	ReportType  string
}

// RunStore defines operations for the ReportRun history.
type RunStore interface {
	Create(run *model.ReportRun) error
	GetByID(id string) (*model.ReportRun, error)
	GetLatestByRunID(runID string) (*model.ReportRun, error)

	List(filter RunFilter, page, pageSize int) ([]model.ReportRun, int64, error)
	CountAll() (int64, error)
	CountByStatus() (map[model.RunStatus]int64, error)

	// DeleteOlderThan removes runs created more than days ago
	DeleteOlderThan(days int) (int64, error)
}

// runStore implements RunStore using GORM.
type runStore struct {
	db *gorm.DB
}

func newRunStore(db *gorm.DB) RunStore {
	return &runStore{db: db}
}

// Create inserts a run, assigning an ID when none is set
func (s *runStore) Create(run *model.ReportRun) error {
	if run.ID == "" {
		run.ID = idgen.NewRecordID()
	}
	return s.db.Create(run).Error
}

func (s *runStore) GetByID(id string) (*model.ReportRun, error) {
	var run model.ReportRun
	err := s.db.First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetLatestByRunID returns the newest record for a run ID. The same run ID
// is recorded more than once when a build is repeated into one directory.
func (s *runStore) GetLatestByRunID(runID string) (*model.ReportRun, error) {
	var run model.ReportRun
	err := s.db.Where("run_id = ?", runID).
		Order("created_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List lists runs with optional filters and pagination, newest first.
func (s *runStore) List(filter RunFilter, page, pageSize int) ([]model.ReportRun, int64, error) {
	var runs []model.ReportRun
	var total int64

	query := s.db.Model(&model.ReportRun{})

	if filter.CompanyName != "" {
		query = query.Where("company_name = ?", filter.CompanyName)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ReportType != "" {
		query = query.Where("report_type = ?", filter.ReportType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&runs).Error
	return runs, total, err
}

func (s *runStore) CountAll() (int64, error) {
	var count int64
	err := s.db.Model(&model.ReportRun{}).Count(&count).Error
	return count, err
}

// CountByStatus groups the history by outcome
func (s *runStore) CountByStatus() (map[model.RunStatus]int64, error) {
	var rows []struct {
		Status model.RunStatus
		Count  int64
	}
	err := s.db.Model(&model.ReportRun{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.RunStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *runStore) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := s.db.Where("created_at < ?", cutoff).Delete(&model.ReportRun{})
	return result.RowsAffected, result.Error
}
