package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-disaster-reports/internal/models"
)

const defaultListLimit = 100

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS admissions (
			id TEXT PRIMARY KEY,
			report_id TEXT,
			type TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT,
			distance_km REAL NOT NULL DEFAULT 0,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_admissions_outcome ON admissions(outcome);
		CREATE INDEX IF NOT EXISTS idx_admissions_created_at ON admissions(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record inserts the admission. Empty ID and zero CreatedAt are filled in.
func (s *SQLiteDB) Record(ctx context.Context, a *models.Admission) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admissions (id, report_id, type, outcome, reason, distance_km, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		nullString(a.ReportID),
		a.Type.Key(),
		string(a.Outcome),
		a.Reason,
		a.DistanceKm,
		a.Location.Latitude,
		a.Location.Longitude,
		a.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("error recording admission: %w", err)
	}
	return nil
}

// ListAdmissions returns the newest admissions first.
func (s *SQLiteDB) ListAdmissions(ctx context.Context, opts AdmissionFilter) ([]models.Admission, error) {
	var (
		conds []string
		args  []any
	)
	if opts.Outcome != nil {
		conds = append(conds, "outcome = ?")
		args = append(args, string(*opts.Outcome))
	}
	if opts.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, opts.Since.UnixNano())
	}

	query := `SELECT id, report_id, type, outcome, reason, distance_km, latitude, longitude, created_at FROM admissions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing admissions: %w", err)
	}
	defer rows.Close()

	admissions := make([]models.Admission, 0)
	for rows.Next() {
		var (
			a        models.Admission
			reportID sql.NullString
			reason   sql.NullString
			typ      string
			outcome  string
			created  int64
		)
		if err := rows.Scan(&a.ID, &reportID, &typ, &outcome, &reason, &a.DistanceKm,
			&a.Location.Latitude, &a.Location.Longitude, &created); err != nil {
			return nil, fmt.Errorf("error scanning admission: %w", err)
		}
		a.ReportID = reportID.String
		a.Reason = reason.String
		a.Type = models.ParseDisasterType(typ)
		a.Outcome = models.AdmissionOutcome(outcome)
		a.CreatedAt = time.Unix(0, created)
		admissions = append(admissions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading admissions: %w", err)
	}

	return admissions, nil
}

func (s *SQLiteDB) CountByOutcome(ctx context.Context) (map[models.AdmissionOutcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM admissions GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("error counting admissions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AdmissionOutcome]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("error scanning admission count: %w", err)
		}
		counts[models.AdmissionOutcome(outcome)] = n
	}
	return counts, rows.Err()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
