// Package export renders query results as GeoJSON and Markdown.
package export

import (
	"time"

	"github.com/mr1hm/go-disaster-reports/internal/query"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ToGeoJSON builds one Point feature per match. distance_km is set only when
// withDistance is true. Reporter contact fields are never exported.
func ToGeoJSON(matches []query.Match, withDistance bool) FeatureCollection {
	features := make([]Feature, 0, len(matches))

	for _, m := range matches {
		r := m.Report
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{r.Location.Longitude, r.Location.Latitude},
			},
			Properties: map[string]any{
				"id":          r.ID,
				"type":        r.Type.Key(),
				"description": r.Description,
				"reporter":    r.Reporter.FullName,
				"timestamp":   r.Timestamp.Format(time.RFC3339),
				"reported_at": r.DisplayTime(),
			},
		}
		if withDistance {
			f.Properties["distance_km"] = m.DistanceKm
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
