package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracker-backend/internal/qrcode"
)

// AssetQRCode handles GET /api/assets/:id/qrcode, returning a printable
// label image for the asset's tag.
func (h *Handler) AssetQRCode(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	asset, err := h.store.AssetByID(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}

	dataURL, err := qrcode.DataURL(asset.AssetTag, asset.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr encoding failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"qrCode": dataURL, "asset_tag": asset.AssetTag})
}
