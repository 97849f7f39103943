package model

import "time"

// Scan is one immutable audit event: "this asset was seen by this identity
// at this time/place". Rows are append-only; there is no update or delete
// path, and an asset delete deliberately leaves its scans behind.
type Scan struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	AssetID    int64     `gorm:"index;not null" json:"asset_id"`
	UserID     *int64    `gorm:"index" json:"user_id"`
	ScanType   string    `gorm:"size:64;not null;default:check" json:"scan_type"`
	LocationID *int64    `json:"location_id"`
	Notes      string    `json:"notes"`
	ScannedAt  time.Time `gorm:"index;not null" json:"scanned_at"`
}

// DefaultScanType is recorded when the client does not say otherwise.
const DefaultScanType = "check"
