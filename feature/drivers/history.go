package drivers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"driver-manager/core/database"
	"driver-manager/core/notify"
	"driver-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrHistoryDisabled is returned when no history database is configured.
var ErrHistoryDisabled = errors.New("status history is disabled")

// historyTable is the table holding one row per device and pass.
const historyTable = "driver_status_records"

var historyColumns = []string{
	"id", "pass_id", "phase", "device_id", "device_name", "category",
	"status", "version", "driver_date", "update_available", "created_at",
}

// StatusRecord is one device status of one reconciliation pass.
type StatusRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PassID          string    `gorm:"size:36;index" json:"pass_id"`
	Phase           string    `gorm:"size:16" json:"phase"`
	DeviceID        string    `gorm:"size:64;index" json:"device_id"`
	DeviceName      string    `gorm:"size:255" json:"device_name"`
	Category        string    `gorm:"size:32" json:"category"`
	Status          string    `gorm:"size:16" json:"status"`
	Version         string    `gorm:"size:64" json:"version"`
	DriverDate      string    `gorm:"column:driver_date;size:64" json:"driver_date"`
	UpdateAvailable bool      `json:"update_available"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the gorm table name.
func (StatusRecord) TableName() string {
	return historyTable
}

// History persists reconciliation passes.
type History struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHistory creates a history store on db.
func NewHistory(db *gorm.DB, logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{db: db, logger: logger}
}

// Migrate creates or updates the history table and verifies its columns.
func (h *History) Migrate() error {
	if err := h.db.AutoMigrate(&StatusRecord{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", historyTable, err)
	}

	missing, err := database.MissingColumns(h.db, historyTable, historyColumns)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", historyTable, err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns %v", historyTable, missing)
	}
	return nil
}

// Save stores one record per status. Device names come from devices.
func (h *History) Save(ctx context.Context, passID string, phase notify.Phase, devices []reconcile.DeviceDescriptor, statuses map[string]reconcile.DriverStatus) error {
	if len(statuses) == 0 {
		return nil
	}

	byID := make(map[string]reconcile.DeviceDescriptor, len(devices))
	for _, d := range devices {
		byID[d.ID] = d
	}

	now := time.Now()
	records := make([]StatusRecord, 0, len(statuses))
	for _, id := range sortedIDs(statuses) {
		st := statuses[id]
		dev := byID[id]
		records = append(records, StatusRecord{
			PassID:          passID,
			Phase:           string(phase),
			DeviceID:        id,
			DeviceName:      dev.Name,
			Category:        string(dev.Category),
			Status:          string(st.Status),
			Version:         st.Version,
			DriverDate:      st.Date,
			UpdateAvailable: st.UpdateAvailable,
			CreatedAt:       now,
		})
	}

	if err := h.db.WithContext(ctx).CreateInBatches(records, 100).Error; err != nil {
		return fmt.Errorf("failed to save pass %s: %w", passID, err)
	}

	h.logger.Debug("Pass saved",
		zap.String("pass_id", passID),
		zap.String("phase", string(phase)),
		zap.Int("records", len(records)),
	)
	return nil
}

// Recent returns the newest records first. A non-positive limit selects 100.
func (h *History) Recent(ctx context.Context, limit int) ([]StatusRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var records []StatusRecord
	err := h.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return records, nil
}
