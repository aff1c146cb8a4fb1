package api

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-reports/internal/export"
	"github.com/mr1hm/go-disaster-reports/internal/geo"
	"github.com/mr1hm/go-disaster-reports/internal/ingestion"
	"github.com/mr1hm/go-disaster-reports/internal/models"
	"github.com/mr1hm/go-disaster-reports/internal/query"
	"github.com/mr1hm/go-disaster-reports/internal/store"
)

type coordinateRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
}

func (r coordinateRequest) coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type reportRequest struct {
	FullName         string            `json:"full_name" binding:"required"`
	Document         string            `json:"document" binding:"required"`
	Email            string            `json:"email" binding:"required"`
	Phone            string            `json:"phone" binding:"required"`
	ReporterLocation coordinateRequest `json:"reporter_location"`
	Type             string            `json:"type" binding:"required"`
	Description      string            `json:"description" binding:"required,max=500"`
	Location         coordinateRequest `json:"location"`
}

func (r reportRequest) submission() models.Submission {
	return models.Submission{
		FullName:         r.FullName,
		Document:         r.Document,
		Email:            r.Email,
		Phone:            r.Phone,
		ReporterLocation: r.ReporterLocation.coordinate(),
		Type:             r.Type,
		Description:      r.Description,
		Location:         r.Location.coordinate(),
	}
}

// reportResponse is the public view of a report. Reporter contact data is
// never returned.
type reportResponse struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Reporter    string         `json:"reporter"`
	Timestamp   time.Time      `json:"timestamp"`
	ReportedAt  string         `json:"reported_at"`
	Location    geo.Coordinate `json:"location"`
	DistanceKm  *float64       `json:"distance_km,omitempty"`
}

func newReportResponse(r models.Report, distanceKm *float64) reportResponse {
	return reportResponse{
		ID:          r.ID,
		Type:        r.Type.Key(),
		Description: r.Description,
		Reporter:    r.Reporter.FullName,
		Timestamp:   r.Timestamp,
		ReportedAt:  r.DisplayTime(),
		Location:    r.Location,
		DistanceKm:  distanceKm,
	}
}

func (h *Handler) submitReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.ingester.Submit(c.Request.Context(), req.submission())
	if err != nil {
		var radiusErr *store.OutOfRadiusError
		switch {
		case errors.As(err, &radiusErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":       radiusErr.Error(),
				"distance_km": radiusErr.DistanceKm,
				"max_km":      radiusErr.MaxKm,
			})
		case errors.Is(err, store.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrInvalidReport), errors.Is(err, geo.ErrInvalidCoordinate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.Error("error submitting report", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit report"})
		}
		return
	}

	c.JSON(http.StatusCreated, newReportResponse(report, nil))
}

func (h *Handler) importReports(c *gin.Context) {
	var (
		subs []models.Submission
		err  error
	)
	switch c.ContentType() {
	case "application/yaml", "application/x-yaml", "text/yaml":
		subs, err = ingestion.DecodeSubmissions(c.Request.Body)
	default:
		err = c.ShouldBindJSON(&subs)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(subs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no reports to import"})
		return
	}

	queued, err := h.ingester.Import(subs)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":  err.Error(),
			"queued": queued,
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": queued})
}

type listParams struct {
	filter query.Filter
	format string
}

func parseListParams(c *gin.Context) (listParams, error) {
	p := listParams{format: c.DefaultQuery("format", "json")}
	switch p.format {
	case "json", "geojson", "markdown":
	default:
		return p, fmt.Errorf("unknown format: %s", p.format)
	}

	if t := c.Query("type"); t != "" {
		dt := models.ParseDisasterType(t)
		p.filter.Type = &dt
	}

	start, end := c.Query("start"), c.Query("end")
	if start != "" || end != "" {
		if start == "" || end == "" {
			return p, errors.New("start and end must be given together")
		}
		wholeDay := false
		if v := c.Query("whole_end_day"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return p, fmt.Errorf("invalid whole_end_day: %s", v)
			}
			wholeDay = b
		}
		r, err := query.ParseDateRange(start, end, wholeDay)
		if err != nil {
			return p, err
		}
		p.filter.Range = &r
	}

	lat, lon, radius := c.Query("lat"), c.Query("lon"), c.Query("radius_km")
	if lat != "" || lon != "" || radius != "" {
		if lat == "" || lon == "" || radius == "" {
			return p, errors.New("lat, lon and radius_km must be given together")
		}
		ref, err := parseCoordinate(lat, lon)
		if err != nil {
			return p, err
		}
		maxKm, err := strconv.ParseFloat(radius, 64)
		if err != nil || maxKm < 0 || math.IsNaN(maxKm) {
			return p, fmt.Errorf("invalid radius_km: %s", radius)
		}
		p.filter.Near = &query.Proximity{Reference: ref, MaxKm: maxKm}
	}

	return p, nil
}

func parseCoordinate(lat, lon string) (geo.Coordinate, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: latitude %q", geo.ErrInvalidCoordinate, lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: longitude %q", geo.ErrInvalidCoordinate, lon)
	}
	return geo.NewCoordinate(la, lo)
}

func (h *Handler) listReports(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matches := h.matches(c, params.filter)
	near := params.filter.Near != nil

	switch params.format {
	case "geojson":
		c.Header("Content-Type", "application/geo+json")
		c.JSON(http.StatusOK, export.ToGeoJSON(matches, near))
	case "markdown":
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		if err := export.WriteMarkdown(c.Writer, listTitle(params.filter), matches, near); err != nil {
			slog.Error("error writing markdown", "error", err)
		}
	default:
		out := make([]reportResponse, 0, len(matches))
		for _, m := range matches {
			var d *float64
			if near {
				d = &m.DistanceKm
			}
			out = append(out, newReportResponse(m.Report, d))
		}
		c.JSON(http.StatusOK, gin.H{
			"count":   len(out),
			"reports": out,
		})
	}
}

func (h *Handler) matches(c *gin.Context, f query.Filter) []query.Match {
	q := c.Request.URL.Query()
	q.Del("format")
	key := q.Encode() + "|" + strconv.Itoa(h.reports.Count())

	if matches, ok := h.cache.Get(key); ok {
		return matches
	}
	matches := query.Apply(h.reports.All(), f)
	h.cache.Set(key, matches)
	return matches
}

func listTitle(f query.Filter) string {
	parts := []string{"Disaster reports"}
	if f.Type != nil {
		parts = append(parts, "type "+f.Type.String())
	}
	if f.Range != nil {
		parts = append(parts, f.Range.String())
	}
	if f.Near != nil {
		parts = append(parts, fmt.Sprintf("within %.1f km of %s", f.Near.MaxKm, f.Near.Reference))
	}
	return strings.Join(parts, ", ")
}
