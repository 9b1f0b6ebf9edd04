package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrViewerNotFound = errors.New("discovery viewer profile not found")

type CandidateRepo struct {
	pool *pgxpool.Pool
}

func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{pool: pool}
}

type ViewerContext struct {
	UserID     int64
	LookingFor string
	AgeMin     int
	AgeMax     int
	RadiusKM   int
	LastLat    *float64
	LastLon    *float64
}

// CandidatePageQuery describes one raw page fetch. ExcludeIDs is a
// best-effort store-level filter; callers re-apply exclusion on the returned
// rows regardless, so passing an empty slice only costs wasted rows, never
// correctness. Geo filtering is deliberately absent here: coordinates are
// plain numeric columns without a spatial index, so the radius predicate is
// evaluated client-side over an over-fetched page.
type CandidatePageQuery struct {
	ViewerUserID int64
	ExcludeIDs   []int64
	AgeMin       int
	AgeMax       int
	HasCursor    bool
	CursorUserID int64
	Limit        int
	Now          time.Time
}

type CandidateRecord struct {
	UserID      int64
	DisplayName string
	Bio         string
	Age         int
	HomeCity    string
	Interests   []string
	LastLat     *float64
	LastLon     *float64
	PhotoKey    string
	CreatedAt   time.Time
}

func (r *CandidateRepo) GetViewerContext(ctx context.Context, userID int64) (ViewerContext, error) {
	if userID <= 0 {
		return ViewerContext{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ViewerContext{}, ErrViewerNotFound
	}

	var viewer ViewerContext
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	COALESCE(looking_for, ''),
	age_min,
	age_max,
	radius_km,
	last_lat,
	last_lon
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&viewer.UserID,
		&viewer.LookingFor,
		&viewer.AgeMin,
		&viewer.AgeMax,
		&viewer.RadiusKM,
		&viewer.LastLat,
		&viewer.LastLon,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ViewerContext{}, ErrViewerNotFound
		}
		return ViewerContext{}, fmt.Errorf("get discovery viewer context: %w", err)
	}

	return viewer, nil
}

// ListPage returns one raw candidate page in stable ascending user_id order,
// starting strictly after the cursor position.
func (r *CandidateRepo) ListPage(ctx context.Context, q CandidatePageQuery) ([]CandidateRecord, error) {
	if q.ViewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Now.IsZero() {
		q.Now = time.Now().UTC()
	}
	if r.pool == nil {
		return []CandidateRecord{}, nil
	}

	applyExclusion := len(q.ExcludeIDs) > 0
	applyAge := q.AgeMin > 0 && q.AgeMax >= q.AgeMin

	rows, err := r.pool.Query(ctx, `
SELECT
	p.user_id,
	p.display_name,
	COALESCE(p.bio, ''),
	COALESCE(DATE_PART('year', AGE($2::timestamptz, p.birthdate::timestamp))::int, 0),
	COALESCE(p.home_city, ''),
	COALESCE(p.interests, '{}'),
	p.last_lat,
	p.last_lon,
	COALESCE(p.photo_key, ''),
	p.created_at
FROM profiles p
WHERE
	p.user_id <> $1
	AND p.display_name <> ''
	AND ($3::boolean = FALSE OR NOT (p.user_id = ANY($4::bigint[])))
	AND ($5::boolean = FALSE OR (
		p.birthdate IS NOT NULL
		AND DATE_PART('year', AGE($2::timestamptz, p.birthdate::timestamp))::int BETWEEN $6 AND $7
	))
	AND ($8::boolean = FALSE OR p.user_id > $9::bigint)
ORDER BY p.user_id ASC
LIMIT $10
`,
		q.ViewerUserID,  // $1
		q.Now.UTC(),     // $2
		applyExclusion,  // $3
		q.ExcludeIDs,    // $4
		applyAge,        // $5
		q.AgeMin,        // $6
		q.AgeMax,        // $7
		q.HasCursor,     // $8
		q.CursorUserID,  // $9
		q.Limit,         // $10
	)
	if err != nil {
		return nil, fmt.Errorf("list candidate page: %w", err)
	}
	defer rows.Close()

	items := make([]CandidateRecord, 0, q.Limit)
	for rows.Next() {
		var item CandidateRecord
		if err := rows.Scan(
			&item.UserID,
			&item.DisplayName,
			&item.Bio,
			&item.Age,
			&item.HomeCity,
			&item.Interests,
			&item.LastLat,
			&item.LastLon,
			&item.PhotoKey,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	return items, nil
}
