package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"asset-tracker-backend/internal/auth"
	"asset-tracker-backend/internal/blob"
	"asset-tracker-backend/internal/notification"
	"asset-tracker-backend/internal/store"
	"asset-tracker-backend/internal/ws"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	auth      *auth.Service
	tokens    auth.TokenService
	blobs     blob.Store
	hub       *ws.Hub
	notifier  *notification.WorkerPool
	webpush   *webpush.Options
	maxUpload int64
}

// HandlerConfig wires a Handler together.
type HandlerConfig struct {
	Store     store.Store
	Auth      *auth.Service
	Tokens    auth.TokenService
	Blobs     blob.Store
	Hub       *ws.Hub
	Notifier  *notification.WorkerPool
	Webpush   *webpush.Options
	MaxUpload int64
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		store:     cfg.Store,
		auth:      cfg.Auth,
		tokens:    cfg.Tokens,
		blobs:     cfg.Blobs,
		hub:       cfg.Hub,
		notifier:  cfg.Notifier,
		webpush:   cfg.Webpush,
		maxUpload: cfg.MaxUpload,
	}
}

// storeError translates the storage taxonomy into a response. Everything
// unknown collapses into a 500 without leaking driver detail.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrConstraintViolation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "constraint violation"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
	}
}
