package profilerepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/natal-chart/internal/domain/profile"
)

// Schema creates the profile table when it is missing.
const Schema = `
CREATE TABLE IF NOT EXISTS birth_profiles (
	id                UUID PRIMARY KEY,
	owner             TEXT NOT NULL,
	full_name         TEXT NOT NULL DEFAULT '',
	dob               TEXT NOT NULL,
	tob               TEXT NOT NULL,
	tz_offset_minutes INTEGER NOT NULL,
	lat               DOUBLE PRECISION NOT NULL,
	lon               DOUBLE PRECISION NOT NULL,
	ayanamsa          TEXT NOT NULL DEFAULT '',
	house_system      TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS birth_profiles_owner_idx ON birth_profiles (owner, created_at);
`

const profileColumns = `id::text, owner, full_name, dob, tob, tz_offset_minutes, lat, lon, ayanamsa, house_system, created_at`

// PostgresRepository persists profiles in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema applies Schema.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure birth_profiles schema: %w", err)
	}
	return nil
}

// Create inserts a profile row.
func (r *PostgresRepository) Create(ctx context.Context, p profile.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO birth_profiles (id, owner, full_name, dob, tob, tz_offset_minutes, lat, lon, ayanamsa, house_system, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID.String(), p.Owner, p.FullName, p.DOB, p.TOB, p.TZOffsetMinutes, p.Lat, p.Lon, p.Ayanamsa, p.HouseSystem, p.CreatedAt)
	return err
}

// Get fetches by primary key.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (profile.Profile, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM birth_profiles
		WHERE id = $1::uuid
		LIMIT 1
	`, id.String())
	if err != nil {
		return profile.Profile{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return profile.Profile{}, false, rows.Err()
	}
	p, err := scanProfile(rows)
	if err != nil {
		return profile.Profile{}, false, err
	}
	return p, true, rows.Err()
}

// ListByOwner returns the owner's profiles, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]profile.Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM birth_profiles
		WHERE owner = $1
		ORDER BY created_at, id
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a profile row.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM birth_profiles WHERE id = $1::uuid`, id.String())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (profile.Profile, error) {
	var (
		p       profile.Profile
		rawID   string
		created time.Time
	)
	if err := row.Scan(&rawID, &p.Owner, &p.FullName, &p.DOB, &p.TOB, &p.TZOffsetMinutes,
		&p.Lat, &p.Lon, &p.Ayanamsa, &p.HouseSystem, &created); err != nil {
		return profile.Profile{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("parse profile id: %w", err)
	}
	p.ID = id
	p.CreatedAt = created.UTC()
	return p, nil
}

var _ profile.Repository = (*PostgresRepository)(nil)
