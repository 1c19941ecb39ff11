package repository

import (
	"context"
	"database/sql"
	"time"
)

// ScanRepo keeps the intake log: every payload seen and what became of it.
type ScanRepo struct {
	db *sql.DB
}

func NewScanRepo(db *sql.DB) *ScanRepo { return &ScanRepo{db: db} }

func (r *ScanRepo) Insert(ctx context.Context, s Scan) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO scans(id, payload, outcome, problem, profile_id, created_at)
	VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, s.ID, s.Payload, s.Outcome, s.Problem, s.ProfileID)
	return err
}

// List returns the most recent scans, newest first.
func (r *ScanRepo) List(ctx context.Context, limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, payload, outcome, problem, profile_id, created_at
	FROM scans ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		var s Scan
		if err := rows.Scan(&s.ID, &s.Payload, &s.Outcome, &s.Problem, &s.ProfileID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Purge removes scan entries older than cutoff.
func (r *ScanRepo) Purge(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scans WHERE created_at < ?`, cutoff)
	return err
}
