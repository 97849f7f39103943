package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracker-backend/internal/model"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	category := model.Category{Name: req.Name, Description: req.Description}
	if err := h.store.CreateCategory(c.Request.Context(), &category); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

type locationRequest struct {
	Name     string `json:"name" binding:"required"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Room     string `json:"room"`
}

// ListLocations handles GET /api/locations.
func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.store.ListLocations(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// CreateLocation handles POST /api/locations.
func (h *Handler) CreateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	location := model.Location{
		Name:     req.Name,
		Building: req.Building,
		Floor:    req.Floor,
		Room:     req.Room,
	}
	if err := h.store.CreateLocation(c.Request.Context(), &location); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}
