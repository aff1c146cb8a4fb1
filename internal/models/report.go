package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
)

const (
	DateLayout      = "02/01/2006"       // range query input
	TimestampLayout = "02/01/2006 15:04" // report timestamp display

	MaxDescriptionLength = 500
)

var ErrInvalidReport = errors.New("invalid report")

type Reporter struct {
	FullName string
	Document string // CPF/RG or any identity document
	Email    string
	Phone    string
	Location geo.Coordinate
}

type Report struct {
	ID          string
	Reporter    Reporter
	Type        DisasterType
	Description string
	Timestamp   time.Time // set by whoever accepts the submission
	Location    geo.Coordinate
}

// DisplayTime renders the timestamp in local time as DD/MM/YYYY HH:MM.
func (r *Report) DisplayTime() string {
	return r.Timestamp.Local().Format(TimestampLayout)
}

// Submission is a report as typed by a citizen, before an ID and timestamp
// are assigned.
type Submission struct {
	FullName         string         `json:"full_name" yaml:"full_name"`
	Document         string         `json:"document" yaml:"document"`
	Email            string         `json:"email" yaml:"email"`
	Phone            string         `json:"phone" yaml:"phone"`
	ReporterLocation geo.Coordinate `json:"reporter_location" yaml:"reporter_location"`
	Type             string         `json:"type" yaml:"type"`
	Description      string         `json:"description" yaml:"description"`
	Location         geo.Coordinate `json:"location" yaml:"location"`
}

// Normalize trims surrounding whitespace from every text field.
func (s *Submission) Normalize() {
	s.FullName = strings.TrimSpace(s.FullName)
	s.Document = strings.TrimSpace(s.Document)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Type = strings.TrimSpace(s.Type)
	s.Description = strings.TrimSpace(s.Description)
}

// Validate expects a normalized submission.
func (s *Submission) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"full_name", s.FullName},
		{"document", s.Document},
		{"email", s.Email},
		{"phone", s.Phone},
		{"description", s.Description},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidReport, r.field)
		}
	}

	if n := utf8.RuneCountInString(s.Description); n > MaxDescriptionLength {
		return fmt.Errorf("%w: description has %d characters, max %d", ErrInvalidReport, n, MaxDescriptionLength)
	}
	if err := s.ReporterLocation.Validate(); err != nil {
		return fmt.Errorf("%w: reporter location: %w", ErrInvalidReport, err)
	}
	if err := s.Location.Validate(); err != nil {
		return fmt.Errorf("%w: location: %w", ErrInvalidReport, err)
	}
	return nil
}

// ToReport builds the report accepted at time ts.
func (s *Submission) ToReport(id string, ts time.Time) Report {
	return Report{
		ID: id,
		Reporter: Reporter{
			FullName: s.FullName,
			Document: s.Document,
			Email:    s.Email,
			Phone:    s.Phone,
			Location: s.ReporterLocation,
		},
		Type:        ParseDisasterType(s.Type),
		Description: s.Description,
		Timestamp:   ts,
		Location:    s.Location,
	}
}
