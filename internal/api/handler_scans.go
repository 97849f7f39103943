package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracker-backend/internal/model"
	"asset-tracker-backend/internal/mw"
	"asset-tracker-backend/internal/notification"
	"asset-tracker-backend/internal/store"
)

type scanRequest struct {
	AssetTag   string `json:"asset_tag" binding:"required"`
	ScanType   string `json:"scan_type"`
	LocationID *int64 `json:"location_id"`
	Notes      string `json:"notes"`
}

// scanFeedEvent is what the live feed broadcasts per accepted scan.
type scanFeedEvent struct {
	ScanID    int64  `json:"scan_id"`
	AssetID   int64  `json:"asset_id"`
	AssetTag  string `json:"asset_tag"`
	ScanType  string `json:"scan_type"`
	Username  string `json:"username,omitempty"`
	ScannedAt string `json:"scanned_at"`
}

// SubmitScan handles POST /api/scans: resolve the tag, append exactly one
// audit record, fan the event out. Every well-formed request is a distinct
// event; deduplication of trigger-happy detectors is the client's job.
func (h *Handler) SubmitScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_tag is required"})
		return
	}

	asset, err := h.store.AssetByTag(c.Request.Context(), req.AssetTag)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		storeError(c, err)
		return
	}

	identity, _ := mw.IdentityFrom(c)
	scan := model.Scan{
		AssetID:    asset.ID,
		UserID:     &identity.ID,
		ScanType:   req.ScanType,
		LocationID: req.LocationID,
		Notes:      req.Notes,
	}
	if err := h.store.CreateScan(c.Request.Context(), &scan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(scanFeedEvent{
			ScanID:    scan.ID,
			AssetID:   asset.ID,
			AssetTag:  asset.AssetTag,
			ScanType:  scan.ScanType,
			Username:  identity.Username,
			ScannedAt: scan.ScannedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	if h.notifier != nil {
		h.notifier.Dispatch(notification.Job{
			AssetID:  asset.ID,
			AssetTag: asset.AssetTag,
			Scanner:  identity.Username,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"id": scan.ID, "asset_id": asset.ID})
}

// RecentScans handles GET /api/scans/recent.
func (h *Handler) RecentScans(c *gin.Context) {
	scans, err := h.store.RecentScans(c.Request.Context(), 50)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scans)
}
