package repository

import (
	"context"
	"time"

	"github.com/mr1hm/go-disaster-reports/internal/models"
)

type AdmissionFilter struct {
	Limit   int
	Outcome *models.AdmissionOutcome
	Since   *time.Time
}

// AdmissionRepository is the audit trail of submission outcomes. Reports
// themselves live only in the in-memory store.
type AdmissionRepository interface {
	Record(ctx context.Context, a *models.Admission) error
	ListAdmissions(ctx context.Context, opts AdmissionFilter) ([]models.Admission, error)
	CountByOutcome(ctx context.Context) (map[models.AdmissionOutcome]int, error)
}
