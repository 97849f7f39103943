package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Summary handles GET /api/reports/summary. Recomputed from table state on
// every call; deliberately not behind the response cache.
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.store.Summary(c.Request.Context(), time.Now().UTC())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
