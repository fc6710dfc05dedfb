package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const welcomeMessage = "welcome to Health tracking system"

// Pinger reports whether the record store is reachable.
type Pinger func(ctx context.Context) error

type SystemHandler struct {
	ping Pinger
}

func NewSystemHandler(ping Pinger) *SystemHandler {
	return &SystemHandler{ping: ping}
}

func (h *SystemHandler) Welcome(c *gin.Context) {
	c.String(http.StatusOK, welcomeMessage)
}

func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
