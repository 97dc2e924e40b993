package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/marketplace-pricer/internal/store"
)

type HealthHandler struct {
	pool  *pgxpool.Pool
	store store.ProductStore
}

// NewHealthHandler accepts a nil pool when rates are not read from postgres.
func NewHealthHandler(pool *pgxpool.Pool, st store.ProductStore) *HealthHandler {
	return &HealthHandler{pool: pool, store: st}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	resp := gin.H{"status": "healthy"}
	healthy := true

	if h.pool != nil {
		resp["database"] = "connected"
		if err := h.pool.Ping(ctx); err != nil {
			resp["database"] = "disconnected"
			healthy = false
		}
	}

	resp["store"] = "connected"
	if err := h.store.Ping(ctx); err != nil {
		resp["store"] = "disconnected"
		healthy = false
	}

	if !healthy {
		resp["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
