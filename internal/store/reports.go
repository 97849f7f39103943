package store

import (
	"context"
	"time"

	"asset-tracker-backend/internal/model"
)

// Summary computes the reporting rollup from current table state. Nothing is
// cached or materialized; the trailing-7-day scan window is relative to the
// caller's clock.
func (s *gormStore) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Asset{}).Count(&total).Error; err != nil {
		return nil, classify(err)
	}

	byStatus := make([]StatusCount, 0)
	err := db.Model(&model.Asset{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, classify(err)
	}

	// LEFT JOIN so categories with zero assets still show up.
	byCategory := make([]CategoryCount, 0)
	err = db.Table("categories").
		Select("categories.name AS name, COUNT(assets.id) AS count").
		Joins("LEFT JOIN assets ON assets.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.name").
		Scan(&byCategory).Error
	if err != nil {
		return nil, classify(err)
	}

	var recent int64
	err = db.Model(&model.Scan{}).
		Where("scanned_at >= ?", now.AddDate(0, 0, -7)).
		Count(&recent).Error
	if err != nil {
		return nil, classify(err)
	}

	return &Summary{
		TotalAssets:      total,
		AssetsByStatus:   byStatus,
		AssetsByCategory: byCategory,
		RecentScans:      recent,
	}, nil
}
