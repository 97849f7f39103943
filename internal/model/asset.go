package model

import "time"

// Asset is a tracked physical item. AssetTag is the scannable identifier and
// is immutable after creation; category/location references are weak on
// purpose so deleting either never cascades into the asset rows.
type Asset struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	AssetTag       string     `gorm:"uniqueIndex;size:128;not null" json:"asset_tag"`
	Name           string     `gorm:"size:256;not null" json:"name"`
	Description    string     `json:"description"`
	CategoryID     *int64     `gorm:"index" json:"category_id"`
	LocationID     *int64     `gorm:"index" json:"location_id"`
	SerialNumber   string     `gorm:"size:128" json:"serial_number"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	PurchasePrice  float64    `json:"purchase_price"`
	WarrantyExpiry *time.Time `json:"warranty_expiry"`
	Condition      string     `gorm:"size:64;not null;default:Good" json:"condition"`
	Status         string     `gorm:"size:64;not null;default:Active" json:"status"`
	Notes          string     `json:"notes"`
	ImageURL       string     `json:"image_url"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Defaults applied when the caller leaves the fields empty.
const (
	DefaultCondition = "Good"
	DefaultStatus    = "Active"
)
