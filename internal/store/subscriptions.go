package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asset-tracker-backend/internal/model"
)

// SaveSubscription creates or replaces a push subscription and sets the
// exact list of assets it watches.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.WatchSubscription, assetIDs []int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(sub).Error; err != nil {
			return err
		}

		var assets []model.Asset
		if len(assetIDs) > 0 {
			if err := tx.Find(&assets, assetIDs).Error; err != nil {
				return err
			}
		}
		return tx.Model(sub).Association("Assets").Replace(&assets)
	})
	return classify(err)
}

func (s *gormStore) SubscriptionAssets(ctx context.Context, endpoint string) ([]int64, error) {
	var sub model.WatchSubscription
	err := s.db.WithContext(ctx).
		Preload("Assets").
		First(&sub, "endpoint = ?", endpoint).Error
	if err != nil {
		return nil, classify(err)
	}

	ids := make([]int64, len(sub.Assets))
	for i, a := range sub.Assets {
		ids[i] = a.ID
	}
	return ids, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	err := s.db.WithContext(ctx).Delete(&model.WatchSubscription{Endpoint: endpoint}).Error
	return classify(err)
}

// WatchersOfAsset returns every subscription watching the given asset.
func (s *gormStore) WatchersOfAsset(ctx context.Context, assetID int64) ([]model.WatchSubscription, error) {
	var subs []model.WatchSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_asset_mapping sam ON sam.watch_subscription_endpoint = watch_subscriptions.endpoint").
		Where("sam.asset_id = ?", assetID).
		Find(&subs).Error
	if err != nil {
		return nil, classify(err)
	}
	return subs, nil
}
