package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

type ProfileRecord struct {
	UserID      int64
	DisplayName string
	Bio         string
	Birthdate   *time.Time
	Age         int
	Gender      string
	LookingFor  string
	Interests   []string
	HomeCity    string
	AgeMin      int
	AgeMax      int
	RadiusKM    int
	LastLat     *float64
	LastLon     *float64
	LastGeoAt   *time.Time
	PhotoKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SaveCoreParams struct {
	UserID      int64
	DisplayName string
	Bio         string
	Birthdate   *time.Time
	Gender      string
	LookingFor  string
	Interests   []string
	HomeCity    string
	AgeMin      int
	AgeMax      int
	RadiusKM    int
}

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (ProfileRecord, error) {
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileRecord{}, ErrProfileNotFound
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	COALESCE(display_name, ''),
	COALESCE(bio, ''),
	birthdate,
	COALESCE(DATE_PART('year', AGE(NOW(), birthdate::timestamp))::int, 0),
	COALESCE(gender, ''),
	COALESCE(looking_for, ''),
	COALESCE(interests, '{}'),
	COALESCE(home_city, ''),
	age_min,
	age_max,
	radius_km,
	last_lat,
	last_lon,
	last_geo_at,
	COALESCE(photo_key, ''),
	created_at,
	updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&rec.UserID,
		&rec.DisplayName,
		&rec.Bio,
		&rec.Birthdate,
		&rec.Age,
		&rec.Gender,
		&rec.LookingFor,
		&rec.Interests,
		&rec.HomeCity,
		&rec.AgeMin,
		&rec.AgeMax,
		&rec.RadiusKM,
		&rec.LastLat,
		&rec.LastLon,
		&rec.LastGeoAt,
		&rec.PhotoKey,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) SaveCore(ctx context.Context, p SaveCoreParams) error {
	if p.UserID <= 0 || strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return nil
	}

	const query = `
INSERT INTO profiles (
	user_id,
	display_name,
	bio,
	birthdate,
	gender,
	looking_for,
	interests,
	home_city,
	age_min,
	age_max,
	radius_km,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	bio = EXCLUDED.bio,
	birthdate = EXCLUDED.birthdate,
	gender = EXCLUDED.gender,
	looking_for = EXCLUDED.looking_for,
	interests = EXCLUDED.interests,
	home_city = EXCLUDED.home_city,
	age_min = EXCLUDED.age_min,
	age_max = EXCLUDED.age_max,
	radius_km = EXCLUDED.radius_km,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(
		ctx,
		query,
		p.UserID,
		strings.TrimSpace(p.DisplayName),
		p.Bio,
		p.Birthdate,
		p.Gender,
		p.LookingFor,
		p.Interests,
		p.HomeCity,
		p.AgeMin,
		p.AgeMax,
		p.RadiusKM,
	); err != nil {
		return fmt.Errorf("save profile core: %w", err)
	}

	return nil
}

func (r *ProfileRepo) SaveLocation(ctx context.Context, userID int64, lat, lon float64, at time.Time) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil
	}

	const query = `
INSERT INTO profiles (
	user_id,
	display_name,
	last_lat,
	last_lon,
	last_geo_at,
	created_at,
	updated_at
) VALUES ($1, '', $2, $3, $4, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	last_lat = EXCLUDED.last_lat,
	last_lon = EXCLUDED.last_lon,
	last_geo_at = EXCLUDED.last_geo_at,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(ctx, query, userID, lat, lon, at.UTC()); err != nil {
		return fmt.Errorf("save profile location: %w", err)
	}

	return nil
}

func (r *ProfileRepo) SetPhotoKey(ctx context.Context, userID int64, key string) error {
	if userID <= 0 || strings.TrimSpace(key) == "" {
		return fmt.Errorf("invalid photo key payload")
	}
	if r.pool == nil {
		return nil
	}

	result, err := r.pool.Exec(ctx, `
UPDATE profiles
SET photo_key = $2, updated_at = NOW()
WHERE user_id = $1
`, userID, strings.TrimSpace(key))
	if err != nil {
		return fmt.Errorf("set profile photo key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ClearExactGeoOlderThan wipes exact coordinates that have not been
// refreshed since the cutoff. The home city on the profile is unaffected.
func (r *ProfileRepo) ClearExactGeoOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	result, err := r.pool.Exec(ctx, `
UPDATE profiles
SET last_lat = NULL, last_lon = NULL, last_geo_at = NULL, updated_at = NOW()
WHERE last_geo_at IS NOT NULL AND last_geo_at < $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("clear stale exact geo: %w", err)
	}

	return result.RowsAffected(), nil
}
