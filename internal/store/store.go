// Package store keeps admitted disaster reports in memory, in submission order.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
	"github.com/mr1hm/go-disaster-reports/internal/models"
)

// AdmissionRadiusKm is the maximum distance between the central point and a
// report location.
const AdmissionRadiusKm = 10.0

var (
	ErrCapacityExceeded  = errors.New("report store is full")
	ErrOutOfRadius       = errors.New("report location is outside the admission radius")
	ErrInvalidCoordinate = geo.ErrInvalidCoordinate
	ErrMissingTimestamp  = errors.New("report timestamp is not set")
	ErrInvalidCapacity   = errors.New("capacity must be at least 1")
)

// OutOfRadiusError carries the distance that failed validation.
type OutOfRadiusError struct {
	DistanceKm float64
	MaxKm      float64
}

func (e *OutOfRadiusError) Error() string {
	return fmt.Sprintf("report location is %.2f km from the central point, more than the %.1f km limit", e.DistanceKm, e.MaxKm)
}

func (e *OutOfRadiusError) Unwrap() error {
	return ErrOutOfRadius
}

type ReportStore struct {
	central  geo.Coordinate
	capacity int

	mu      sync.RWMutex
	reports []models.Report
}

func New(central geo.Coordinate, capacity int) (*ReportStore, error) {
	if err := central.Validate(); err != nil {
		return nil, fmt.Errorf("central point: %w", err)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	return &ReportStore{
		central:  central,
		capacity: capacity,
		reports:  make([]models.Report, 0),
	}, nil
}

// Admit appends r after checking capacity, coordinates and the admission
// radius, in that order. A report with a type outside the enum is stored as
// DisasterTypeOther.
func (s *ReportStore) Admit(r models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.reports) >= s.capacity {
		return ErrCapacityExceeded
	}
	if r.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	if err := r.Location.Validate(); err != nil {
		return err
	}

	if d := geo.Distance(s.central, r.Location); d > AdmissionRadiusKm {
		return &OutOfRadiusError{DistanceKm: d, MaxKm: AdmissionRadiusKm}
	}

	if !r.Type.Valid() {
		r.Type = models.DisasterTypeOther
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *ReportStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// All returns a copy of every admitted report in admission order.
func (s *ReportStore) All() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

func (s *ReportStore) Central() geo.Coordinate {
	return s.central
}

func (s *ReportStore) Capacity() int {
	return s.capacity
}

// DistanceFromCentral is the distance the radius check would compute for c.
func (s *ReportStore) DistanceFromCentral(c geo.Coordinate) float64 {
	return geo.Distance(s.central, c)
}
