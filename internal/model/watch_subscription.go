package model

import "time"

// WatchSubscription holds a browser push subscription and the set of assets
// its owner wants to be told about when they are scanned.
type WatchSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Assets []*Asset `gorm:"many2many:subscription_asset_mapping;"`
}
