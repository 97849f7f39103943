package store

import "asset-tracker-backend/internal/model"

// AssetFilter narrows a ListAssets query. Zero-valued fields are ignored;
// set fields combine with logical AND.
type AssetFilter struct {
	CategoryID *int64
	LocationID *int64
	Status     string
	// Search matches case-insensitive substrings of asset_tag, name and
	// description.
	Search string
}

// AssetRow is an asset enriched with resolved display names. The weak
// category/location references may point at deleted rows, in which case the
// names are nil.
type AssetRow struct {
	model.Asset
	CategoryName *string `json:"category_name"`
	LocationName *string `json:"location_name"`
	Building     *string `json:"building,omitempty"`
	Floor        *string `json:"floor,omitempty"`
	Room         *string `json:"room,omitempty"`
}

// ScanRow is a scan enriched with display names instead of raw ids.
type ScanRow struct {
	model.Scan
	Username     *string `json:"username"`
	LocationName *string `json:"location_name"`
	AssetTag     string  `json:"asset_tag,omitempty"`
	AssetName    string  `json:"asset_name,omitempty"`
}

// AssetDetail is the full read model for one asset: the row itself, its 10
// most recent scans and its complete maintenance history.
type AssetDetail struct {
	AssetRow
	Scans       []ScanRow           `json:"scans"`
	Maintenance []model.Maintenance `json:"maintenance"`
}

// StatusCount is one bucket of the by-status rollup.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CategoryCount is one bucket of the by-category rollup. Categories with no
// assets appear with a zero count.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Summary is the reporting rollup, recomputed from current table state on
// every call.
type Summary struct {
	TotalAssets      int64           `json:"totalAssets"`
	AssetsByStatus   []StatusCount   `json:"assetsByStatus"`
	AssetsByCategory []CategoryCount `json:"assetsByCategory"`
	RecentScans      int64           `json:"recentScans"`
}
