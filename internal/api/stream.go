package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-reports/internal/models"
)

// streamReports sends every newly admitted report as a Server-Sent Event
// until the client disconnects or the broadcaster is closed.
func (h *Handler) streamReports(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming is disabled"})
		return
	}

	var filter *models.DisasterType
	if t := c.Query("type"); t != "" {
		dt := models.ParseDisasterType(t)
		filter = &dt
	}

	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.SSEvent("ready", gin.H{"subscriber": id})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case r, ok := <-ch:
			if !ok {
				return false
			}
			if filter != nil && r.Type != *filter {
				return true
			}
			c.SSEvent("report", newReportResponse(*r, nil))
			return true
		}
	})
}
