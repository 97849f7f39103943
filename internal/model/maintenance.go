package model

import "time"

// Maintenance records work performed on an asset. Append/read only.
type Maintenance struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	AssetID         int64      `gorm:"index;not null" json:"asset_id"`
	MaintenanceType string     `gorm:"size:128" json:"maintenance_type"`
	Description     string     `json:"description"`
	Cost            float64    `json:"cost"`
	PerformedBy     string     `gorm:"size:256" json:"performed_by"`
	PerformedAt     *time.Time `json:"performed_at"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
}
