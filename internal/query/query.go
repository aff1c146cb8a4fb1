// Package query filters report sequences by type, time range and proximity.
// Every filter is a single forward pass that keeps input order; an empty
// result is not an error.
package query

import (
	"time"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
	"github.com/mr1hm/go-disaster-reports/internal/models"
)

// Match is a report selected by a filter. DistanceKm is only meaningful when
// the report was selected by proximity.
type Match struct {
	Report     models.Report
	DistanceKm float64
}

type Proximity struct {
	Reference geo.Coordinate
	MaxKm     float64
}

// Filter combines the three filters. Nil fields are skipped.
type Filter struct {
	Type  *models.DisasterType
	Range *DateRange
	Near  *Proximity
}

func ByType(reports []models.Report, t models.DisasterType) []models.Report {
	out := make([]models.Report, 0)
	for _, r := range reports {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// ByTimeRange keeps reports with start <= timestamp <= end.
func ByTimeRange(reports []models.Report, start, end time.Time) []models.Report {
	out := make([]models.Report, 0)
	for _, r := range reports {
		if !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			out = append(out, r)
		}
	}
	return out
}

// ByProximity keeps reports whose location is at most maxKm from ref. No upper
// bound applies to maxKm.
func ByProximity(reports []models.Report, ref geo.Coordinate, maxKm float64) []Match {
	out := make([]Match, 0)
	for _, r := range reports {
		if d := geo.Distance(ref, r.Location); d <= maxKm {
			out = append(out, Match{Report: r, DistanceKm: d})
		}
	}
	return out
}

// Apply runs type, then range, then proximity.
func Apply(reports []models.Report, f Filter) []Match {
	if f.Type != nil {
		reports = ByType(reports, *f.Type)
	}
	if f.Range != nil {
		reports = ByTimeRange(reports, f.Range.Start, f.Range.End)
	}
	if f.Near != nil {
		return ByProximity(reports, f.Near.Reference, f.Near.MaxKm)
	}

	out := make([]Match, len(reports))
	for i, r := range reports {
		out[i] = Match{Report: r}
	}
	return out
}

// Reports strips the distances from matches.
func Reports(matches []Match) []models.Report {
	out := make([]models.Report, len(matches))
	for i, m := range matches {
		out[i] = m.Report
	}
	return out
}
