package store

import (
	"context"
	"time"

	"asset-tracker-backend/internal/model"
)

// CreateScan appends one audit record. The timestamp is always
// server-assigned; scans are never updated or deleted afterwards.
func (s *gormStore) CreateScan(ctx context.Context, sc *model.Scan) error {
	if sc.ScanType == "" {
		sc.ScanType = model.DefaultScanType
	}
	if sc.ScannedAt.IsZero() {
		sc.ScannedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(sc).Error; err != nil {
		return classify(err)
	}
	return nil
}

// RecentScans returns the newest scans across all assets, enriched with
// asset/user/location display names. Orphaned references resolve to NULL.
func (s *gormStore) RecentScans(ctx context.Context, limit int) ([]ScanRow, error) {
	rows := make([]ScanRow, 0)
	err := s.db.WithContext(ctx).
		Table("scans").
		Select("scans.*, assets.asset_tag AS asset_tag, assets.name AS asset_name, "+
			"users.username AS username, locations.name AS location_name").
		Joins("JOIN assets ON assets.id = scans.asset_id").
		Joins("LEFT JOIN users ON users.id = scans.user_id").
		Joins("LEFT JOIN locations ON locations.id = scans.location_id").
		Order("scans.scanned_at DESC, scans.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}
