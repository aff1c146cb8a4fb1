package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
	"github.com/mr1hm/go-disaster-reports/internal/models"
	"github.com/mr1hm/go-disaster-reports/internal/repository"
	"github.com/mr1hm/go-disaster-reports/internal/stream"
)

// ReportSource is the read side of the report store.
type ReportSource interface {
	All() []models.Report
	Count() int
	Capacity() int
	Central() geo.Coordinate
}

// ReportIngester accepts new submissions.
type ReportIngester interface {
	Submit(ctx context.Context, sub models.Submission) (models.Report, error)
	Import(subs []models.Submission) (int, error)
}

type Handler struct {
	reports     ReportSource
	ingester    ReportIngester
	repo        repository.AdmissionRepository
	broadcaster *stream.Broadcaster
	cache       *queryCache
}

// NewHandler builds the API handler. repo and broadcaster may be nil, which
// disables the admissions and stream routes. A zero cacheTTL disables the
// query cache.
func NewHandler(reports ReportSource, ingester ReportIngester, repo repository.AdmissionRepository, broadcaster *stream.Broadcaster, cacheTTL time.Duration) *Handler {
	return &Handler{
		reports:     reports,
		ingester:    ingester,
		repo:        repo,
		broadcaster: broadcaster,
		cache:       newQueryCache(cacheTTL),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/reports", h.listReports)
	api.POST("/reports", h.submitReport)
	api.POST("/reports/import", h.importReports)
	api.GET("/reports/stream", h.streamReports)
	api.GET("/admissions", h.listAdmissions)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"reports":  h.reports.Count(),
		"capacity": h.reports.Capacity(),
		"central":  h.reports.Central(),
	})
}

type admissionResponse struct {
	ID         string         `json:"id"`
	ReportID   string         `json:"report_id,omitempty"`
	Type       string         `json:"type"`
	Outcome    string         `json:"outcome"`
	Reason     string         `json:"reason,omitempty"`
	DistanceKm float64        `json:"distance_km"`
	Location   geo.Coordinate `json:"location"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (h *Handler) listAdmissions(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admission audit is disabled"})
		return
	}

	filter := repository.AdmissionFilter{
		Limit: 50, // Default to 50 entries if limit param not supplied
	}
	if o := c.Query("outcome"); o != "" {
		outcome := models.AdmissionOutcome(o)
		switch outcome {
		case models.AdmissionAccepted, models.AdmissionRejectedCapacity,
			models.AdmissionRejectedRadius, models.AdmissionRejectedInvalid:
			filter.Outcome = &outcome
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown outcome: " + o})
			return
		}
	}
	if l := c.Query("limit"); l != "" {
		lim, err := strconv.Atoi(l)
		if err != nil || lim < 1 || lim > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		filter.Limit = lim
	}

	ctx := c.Request.Context()
	admissions, err := h.repo.ListAdmissions(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch admissions"})
		return
	}
	counts, err := h.repo.CountByOutcome(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count admissions"})
		return
	}

	out := make([]admissionResponse, 0, len(admissions))
	for _, a := range admissions {
		out = append(out, admissionResponse{
			ID:         a.ID,
			ReportID:   a.ReportID,
			Type:       a.Type.Key(),
			Outcome:    string(a.Outcome),
			Reason:     a.Reason,
			DistanceKm: a.DistanceKm,
			Location:   a.Location,
			CreatedAt:  a.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"admissions": out,
		"totals":     counts,
	})
}
