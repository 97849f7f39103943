package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"asset-tracker-backend/internal/model"
	"asset-tracker-backend/internal/store"
)

// assetRequest covers both create and update. Bound from JSON or from
// multipart form fields when an image rides along.
type assetRequest struct {
	AssetTag       string  `json:"asset_tag" form:"asset_tag"`
	Name           string  `json:"name" form:"name"`
	Description    string  `json:"description" form:"description"`
	CategoryID     *int64  `json:"category_id" form:"category_id"`
	LocationID     *int64  `json:"location_id" form:"location_id"`
	SerialNumber   string  `json:"serial_number" form:"serial_number"`
	PurchaseDate   string  `json:"purchase_date" form:"purchase_date"`
	PurchasePrice  float64 `json:"purchase_price" form:"purchase_price"`
	WarrantyExpiry string  `json:"warranty_expiry" form:"warranty_expiry"`
	Condition      string  `json:"condition" form:"condition"`
	Status         string  `json:"status" form:"status"`
	Notes          string  `json:"notes" form:"notes"`
	ImageURL       string  `json:"image_url" form:"image_url"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// intakeImage stores an uploaded image, if the request carries one, and
// returns its URL. Enforces the upload size ceiling.
func (h *Handler) intakeImage(c *gin.Context) (string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return "", nil
	}
	file, err := c.FormFile("image")
	if err != nil {
		// No file attached is fine; the field is optional.
		return "", nil
	}
	if file.Size > h.maxUpload {
		return "", errors.New("image exceeds the size limit")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return h.blobs.Put(c.Request.Context(), file.Filename, f)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ListAssets handles GET /api/assets with optional category, location,
// status and search filters.
func (h *Handler) ListAssets(c *gin.Context) {
	var f store.AssetFilter
	if v := c.Query("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category filter"})
			return
		}
		f.CategoryID = &id
	}
	if v := c.Query("location"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location filter"})
			return
		}
		f.LocationID = &id
	}
	f.Status = c.Query("status")
	f.Search = c.Query("search")

	assets, err := h.store.ListAssets(c.Request.Context(), f)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

// GetAsset handles GET /api/assets/:id, returning the asset together with
// its recent scans and maintenance history.
func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	detail, err := h.store.AssetDetail(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateAsset handles POST /api/assets.
func (h *Handler) CreateAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AssetTag == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset_tag and name are required"})
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_date must be YYYY-MM-DD"})
		return
	}
	warrantyExpiry, err := parseDate(req.WarrantyExpiry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "warranty_expiry must be YYYY-MM-DD"})
		return
	}

	imageURL, err := h.intakeImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset := model.Asset{
		AssetTag:       req.AssetTag,
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		LocationID:     req.LocationID,
		SerialNumber:   req.SerialNumber,
		PurchaseDate:   purchaseDate,
		PurchasePrice:  req.PurchasePrice,
		WarrantyExpiry: warrantyExpiry,
		Condition:      req.Condition,
		Status:         req.Status,
		Notes:          req.Notes,
		ImageURL:       imageURL,
	}
	if err := h.store.CreateAsset(c.Request.Context(), &asset); err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": asset.ID, "asset_tag": asset.AssetTag, "name": asset.Name})
}

// UpdateAsset handles PUT /api/assets/:id. The asset_tag is immutable: this
// path never accepts it.
func (h *Handler) UpdateAsset(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req assetRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purchase_date must be YYYY-MM-DD"})
		return
	}
	warrantyExpiry, err := parseDate(req.WarrantyExpiry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "warranty_expiry must be YYYY-MM-DD"})
		return
	}

	imageURL, err := h.intakeImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if imageURL == "" {
		imageURL = req.ImageURL
	}

	fields := map[string]any{
		"name":            req.Name,
		"description":     req.Description,
		"category_id":     req.CategoryID,
		"location_id":     req.LocationID,
		"serial_number":   req.SerialNumber,
		"purchase_date":   purchaseDate,
		"purchase_price":  req.PurchasePrice,
		"warranty_expiry": warrantyExpiry,
		"condition":       req.Condition,
		"status":          req.Status,
		"notes":           req.Notes,
		"image_url":       imageURL,
	}
	if err := h.store.UpdateAsset(c.Request.Context(), id, fields); err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "asset updated"})
}

// DeleteAsset handles DELETE /api/assets/:id (admin only, enforced by
// middleware). Scan and maintenance history survives the delete.
func (h *Handler) DeleteAsset(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.store.DeleteAsset(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "asset deleted"})
}

type maintenanceRequest struct {
	MaintenanceType string  `json:"maintenance_type"`
	Description     string  `json:"description"`
	Cost            float64 `json:"cost"`
	PerformedBy     string  `json:"performed_by"`
	PerformedAt     string  `json:"performed_at"`
	Notes           string  `json:"notes"`
}

// CreateMaintenance handles POST /api/assets/:id/maintenance.
func (h *Handler) CreateMaintenance(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	performedAt, err := parseDate(req.PerformedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "performed_at must be YYYY-MM-DD"})
		return
	}

	if _, err := h.store.AssetByID(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}

	record := model.Maintenance{
		AssetID:         id,
		MaintenanceType: req.MaintenanceType,
		Description:     req.Description,
		Cost:            req.Cost,
		PerformedBy:     req.PerformedBy,
		PerformedAt:     performedAt,
		Notes:           req.Notes,
	}
	if err := h.store.CreateMaintenance(c.Request.Context(), &record); err != nil {
		storeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": record.ID, "asset_id": record.AssetID})
}
