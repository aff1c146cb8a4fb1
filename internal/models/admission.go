package models

import (
	"time"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
)

type AdmissionOutcome string

const (
	AdmissionAccepted         AdmissionOutcome = "accepted"
	AdmissionRejectedCapacity AdmissionOutcome = "rejected_capacity"
	AdmissionRejectedRadius   AdmissionOutcome = "rejected_radius"
	AdmissionRejectedInvalid  AdmissionOutcome = "rejected_invalid"
)

// Admission is one entry of the audit trail kept for every submission,
// accepted or not.
type Admission struct {
	ID         string
	ReportID   string // empty when the submission never became a report
	Type       DisasterType
	Outcome    AdmissionOutcome
	Reason     string
	DistanceKm float64 // from the central point; 0 when unknown
	Location   geo.Coordinate
	CreatedAt  time.Time
}
