package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything whose connectivity can be checked, e.g. the cache store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	cache Pinger
}

func NewHealthHandler(cache Pinger) IHealthHandler {
	return &HealthHandler{cache: cache}
}

// Healthz reports whether the cache backend answers
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.cache.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
