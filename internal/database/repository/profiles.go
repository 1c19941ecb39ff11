package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ProfileFilters defines list filters.
type ProfileFilters struct {
	Source string
	Search string // matches label or SM-DP+ address
}

// ProfileRepo handles saved activation profiles.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Insert(ctx context.Context, p Profile) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO profiles(
	 id, label, smdp_address, activation_code, confirmation_code, raw, source,
	 created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		p.ID, p.Label, p.SMDPAddress, p.ActivationCode, p.ConfirmationCode, p.Raw, p.Source)
	return err
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (Profile, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, label, smdp_address, activation_code, confirmation_code, raw, source, created_at, updated_at
	FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// FindByIdentity looks a profile up by its natural key. Returns nil when no
// row matches.
func (r *ProfileRepo) FindByIdentity(ctx context.Context, address, code string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, label, smdp_address, activation_code, confirmation_code, raw, source, created_at, updated_at
	FROM profiles WHERE smdp_address = ? AND activation_code = ?`, address, code)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) List(ctx context.Context, f ProfileFilters) ([]Profile, error) {
	var where []string
	var args []interface{}

	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, f.Source)
	}
	if f.Search != "" {
		where = append(where, "(label LIKE ? OR smdp_address LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := "SELECT id, label, smdp_address, activation_code, confirmation_code, raw, source, created_at, updated_at FROM profiles"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfileRepo) UpdateLabel(ctx context.Context, id, label string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET label = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, label, id)
	return err
}

func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Label, &p.SMDPAddress, &p.ActivationCode, &p.ConfirmationCode,
		&p.Raw, &p.Source, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
