package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringMap is a custom type for storing string maps in SQLite
type StringMap map[string]string

// Value implements driver.Valuer interface
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	return string(data), err
}

// Scan implements sql.Scanner interface
func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(map[string]string)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	}
	if len(bytes) == 0 {
		*m = make(map[string]string)
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// RunStatus represents the outcome of a report build
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed" // all fragments rendered
	RunStatusDegraded  RunStatus = "degraded"  // written, with render warnings
	RunStatusFailed    RunStatus = "failed"
)

// ReportRun is a persisted record of one report build
type ReportRun struct {
	ID        string    `gorm:"primarykey;size:20" json:"id"` // xid
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RunID       string `gorm:"size:64;not null;index" json:"run_id"`
	ReportType  string `gorm:"size:50;not null" json:"report_type"`
	CompanyName string `gorm:"size:255;index" json:"company_name"`

	HealthScore float64 `json:"health_score"`
	HealthBand  string  `gorm:"size:32" json:"health_band"`

	Status       RunStatus `gorm:"size:20;not null;default:completed;index" json:"status"`
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	WarningCount int       `gorm:"default:0" json:"warning_count"`

	OutputDir string    `gorm:"size:1024" json:"output_dir"`
	HTMLPath  string    `gorm:"size:1024" json:"html_path"`
	MetaPath  string    `gorm:"size:1024" json:"meta_path"`
	Exports   StringMap `gorm:"type:json" json:"exports,omitempty"`

	GeneratedAt string `gorm:"size:32" json:"generated_at"`
	DurationMs  int64  `json:"duration_ms"`
}

// TableName specifies the table name for ReportRun
func (ReportRun) TableName() string {
	return "report_runs"
}

// AllModels returns all models for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&ReportRun{},
	}
}
