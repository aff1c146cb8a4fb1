package geo

import (
	"errors"
	"math"
	"testing"
)

var (
	saoPaulo      = Coordinate{Latitude: -23.5505, Longitude: -46.6333}
	rioDeJaneiro  = Coordinate{Latitude: -22.9068, Longitude: -43.1729}
	testLocations = []Coordinate{
		saoPaulo,
		rioDeJaneiro,
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 0},
		{Latitude: -90, Longitude: 180},
		{Latitude: 35.6762, Longitude: 139.6503},
		{Latitude: 51.5074, Longitude: -0.1278},
	}
)

// haversine is the textbook formula, kept here as an independent reference.
func haversine(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lon1 := a.Longitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	lon2 := b.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func TestDistance_SamePointIsZero(t *testing.T) {
	for _, c := range testLocations {
		if d := Distance(c, c); d > 1e-9 {
			t.Errorf("expected 0 for %v, got %v", c, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	for _, a := range testLocations {
		for _, b := range testLocations {
			if ab, ba := Distance(a, b), Distance(b, a); math.Abs(ab-ba) > 1e-9 {
				t.Errorf("distance(%v, %v)=%v but reverse=%v", a, b, ab, ba)
			}
		}
	}
}

func TestDistance_MatchesHaversine(t *testing.T) {
	for _, a := range testLocations {
		for _, b := range testLocations {
			got, want := Distance(a, b), haversine(a, b)
			if want == 0 {
				if got > 1e-9 {
					t.Errorf("distance(%v, %v): expected 0, got %v", a, b, got)
				}
				continue
			}
			if rel := math.Abs(got-want) / want; rel > 1e-7 {
				t.Errorf("distance(%v, %v)=%v, haversine=%v", a, b, got, want)
			}
		}
	}
}

func TestDistance_SaoPauloToRio(t *testing.T) {
	d := Distance(saoPaulo, rioDeJaneiro)
	if d < 355 || d > 362 {
		t.Errorf("expected ~357 km, got %.3f", d)
	}
}

func TestDistance_OneDegreeOfLatitude(t *testing.T) {
	d := Distance(Coordinate{Latitude: 0, Longitude: 0}, Coordinate{Latitude: 1, Longitude: 0})
	want := EarthRadiusKm * math.Pi / 180
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("expected %.6f, got %.6f", want, d)
	}
}

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinate
		wantErr bool
	}{
		{"origin", Coordinate{0, 0}, false},
		{"bounds", Coordinate{90, -180}, false},
		{"other bounds", Coordinate{-90, 180}, false},
		{"latitude too high", Coordinate{90.0001, 0}, true},
		{"latitude too low", Coordinate{-91, 0}, true},
		{"longitude too high", Coordinate{0, 180.5}, true},
		{"longitude too low", Coordinate{0, -181}, true},
		{"NaN latitude", Coordinate{math.NaN(), 0}, true},
		{"infinite longitude", Coordinate{0, math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestNewCoordinate(t *testing.T) {
	c, err := NewCoordinate(-23.5505, -46.6333)
	if err != nil {
		t.Fatalf("NewCoordinate failed: %v", err)
	}
	if c != saoPaulo {
		t.Errorf("expected %v, got %v", saoPaulo, c)
	}

	if _, err := NewCoordinate(100, 0); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}
