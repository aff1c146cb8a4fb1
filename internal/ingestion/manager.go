package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/go-disaster-reports/internal/config"
	"github.com/mr1hm/go-disaster-reports/internal/models"
	"github.com/mr1hm/go-disaster-reports/internal/repository"
	"github.com/mr1hm/go-disaster-reports/internal/store"
	"github.com/mr1hm/go-disaster-reports/internal/stream"
	"github.com/mr1hm/go-disaster-reports/internal/worker"
)

var (
	ErrQueueFull  = errors.New("import queue is full")
	ErrNotStarted = errors.New("ingestion manager is not started")
	ErrStopped    = errors.New("ingestion manager is stopped")
)

// importJob carries the time the submission was received, which becomes the
// report timestamp even if a worker picks it up later.
type importJob struct {
	sub        models.Submission
	receivedAt time.Time
}

type Manager struct {
	cfg         *config.Config
	store       *store.ReportStore
	repo        repository.AdmissionRepository
	broadcaster *stream.Broadcaster

	mu      sync.Mutex
	pool    *worker.Pool[importJob]
	stopped bool

	now   func() time.Time
	newID func() string
}

// NewManager wires submissions into st. repo and broadcaster may be nil.
func NewManager(cfg *config.Config, st *store.ReportStore, repo repository.AdmissionRepository, broadcaster *stream.Broadcaster) *Manager {
	return &Manager{
		cfg:         cfg,
		store:       st,
		repo:        repo,
		broadcaster: broadcaster,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (m *Manager) Start(ctx context.Context) {
	processor := func(ctx context.Context, job importJob) error {
		_, err := m.admit(ctx, job.sub, job.receivedAt)
		return err
	}

	pool := worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processor)
	pool.OnError(func(job importJob, err error) {
		slog.Warn("imported report rejected", "type", job.sub.Type, "error", err)
	})
	pool.Start(ctx)

	m.mu.Lock()
	m.pool = pool
	m.mu.Unlock()

	slog.Info("ingestion manager started", "workers", m.cfg.Worker.Count, "buffer", m.cfg.Worker.BufferSize)
}

// Submit validates sub, stamps it with the current time and admits it.
func (m *Manager) Submit(ctx context.Context, sub models.Submission) (models.Report, error) {
	return m.admit(ctx, sub, m.now())
}

// Import queues subs for asynchronous admission without blocking. It returns
// how many were queued; on ErrQueueFull the rest were not.
func (m *Manager) Import(subs []models.Submission) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return 0, ErrStopped
	}
	if m.pool == nil {
		return 0, ErrNotStarted
	}

	receivedAt := m.now()
	for i, sub := range subs {
		if !m.pool.TrySubmit(importJob{sub: sub, receivedAt: receivedAt}) {
			slog.Warn("import queue full", "queued", i, "dropped", len(subs)-i)
			return i, ErrQueueFull
		}
	}

	slog.Info("import queued", "count", len(subs))
	return len(subs), nil
}

// Pending is the number of imported submissions still waiting for a worker.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool == nil {
		return 0
	}
	return m.pool.Pending()
}

func (m *Manager) admit(ctx context.Context, sub models.Submission, ts time.Time) (models.Report, error) {
	if m.store.Count() >= m.store.Capacity() {
		m.record(ctx, &models.Admission{
			Type:     models.ParseDisasterType(sub.Type),
			Outcome:  models.AdmissionRejectedCapacity,
			Reason:   store.ErrCapacityExceeded.Error(),
			Location: sub.Location,
		})
		return models.Report{}, store.ErrCapacityExceeded
	}

	sub.Normalize()
	if err := sub.Validate(); err != nil {
		m.record(ctx, &models.Admission{
			Type:     models.ParseDisasterType(sub.Type),
			Outcome:  models.AdmissionRejectedInvalid,
			Reason:   err.Error(),
			Location: sub.Location,
		})
		return models.Report{}, err
	}

	report := sub.ToReport(m.newID(), ts)
	admission := &models.Admission{
		Type:       report.Type,
		Location:   report.Location,
		DistanceKm: m.store.DistanceFromCentral(report.Location),
	}

	if err := m.store.Admit(report); err != nil {
		admission.Outcome = outcomeFor(err)
		admission.Reason = err.Error()
		m.record(ctx, admission)
		return models.Report{}, fmt.Errorf("admit report: %w", err)
	}

	admission.ReportID = report.ID
	admission.Outcome = models.AdmissionAccepted
	m.record(ctx, admission)

	if m.broadcaster != nil {
		m.broadcaster.Broadcast(&report)
	}

	slog.Info("report admitted",
		"id", report.ID,
		"type", report.Type.Key(),
		"distance_km", admission.DistanceKm,
		"total", m.store.Count(),
	)
	return report, nil
}

func (m *Manager) record(ctx context.Context, a *models.Admission) {
	if m.repo == nil {
		return
	}
	if err := m.repo.Record(ctx, a); err != nil {
		slog.Error("error recording admission", "outcome", a.Outcome, "error", err)
	}
}

func outcomeFor(err error) models.AdmissionOutcome {
	switch {
	case errors.Is(err, store.ErrCapacityExceeded):
		return models.AdmissionRejectedCapacity
	case errors.Is(err, store.ErrOutOfRadius):
		return models.AdmissionRejectedRadius
	default:
		return models.AdmissionRejectedInvalid
	}
}

// Stop drains queued imports. Import fails with ErrStopped afterwards.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	pool := m.pool
	m.mu.Unlock()

	if pool != nil {
		pool.Stop()
	}
	slog.Info("ingestion manager stopped")
}
