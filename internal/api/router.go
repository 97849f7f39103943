package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"asset-tracker-backend/config"
	"asset-tracker-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	if cfg.Uploads.Backend == "local" {
		r.Static(cfg.Uploads.BaseURL, cfg.Uploads.Dir)
	}

	r.GET("/health", h.Health)
	r.GET("/ws/scans", h.ScanFeed)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	caching := mw.Cache(cache.New(cacheTTL, 2*cacheTTL), cacheTTL)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst))

	api.POST("/auth/login", h.Login)

	// Everything below passes the authentication gate.
	authed := api.Group("")
	authed.Use(mw.Authenticate(h.tokens))
	{
		authed.POST("/auth/register", h.Register)

		authed.GET("/assets", h.ListAssets)
		authed.POST("/assets", h.CreateAsset)
		authed.GET("/assets/:id", h.GetAsset)
		authed.PUT("/assets/:id", h.UpdateAsset)
		authed.DELETE("/assets/:id", mw.RequireAdmin(), h.DeleteAsset)
		// The QR image is a pure function of the asset row, so it is safe
		// to cache across callers.
		authed.GET("/assets/:id/qrcode", caching, h.AssetQRCode)
		authed.POST("/assets/:id/maintenance", h.CreateMaintenance)

		authed.POST("/scans", h.SubmitScan)
		authed.GET("/scans/recent", h.RecentScans)

		authed.GET("/categories", h.ListCategories)
		authed.POST("/categories", h.CreateCategory)
		authed.GET("/locations", h.ListLocations)
		authed.POST("/locations", h.CreateLocation)

		authed.GET("/reports/summary", h.Summary)

		authed.GET("/subscriptions", h.GetSubscription)
		authed.PUT("/subscriptions", h.PutSubscription)
		authed.DELETE("/subscriptions", h.DeleteSubscription)
		authed.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
