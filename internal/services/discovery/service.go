package discovery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/mrbishalbaniya/wanderlink-sub000/internal/repo/postgres"
	"github.com/mrbishalbaniya/wanderlink-sub000/internal/services/geo"
)

const (
	defaultPageSize     = 20
	maxPageSize         = 50
	defaultOverfetch    = 3
	defaultExclusionCap = 500
	cardPhotoURLTTL     = 5 * time.Minute
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidCursor   = errors.New("invalid cursor")
	ErrDataUnavailable = errors.New("discovery data unavailable")
)

type CandidateStore interface {
	GetViewerContext(ctx context.Context, userID int64) (pgrepo.ViewerContext, error)
	ListPage(ctx context.Context, q pgrepo.CandidatePageQuery) ([]pgrepo.CandidateRecord, error)
}

type SwipeStore interface {
	ListTargetIDs(ctx context.Context, actorUserID int64) ([]int64, error)
}

type MatchStore interface {
	ListCounterpartIDs(ctx context.Context, userID int64) ([]int64, error)
}

type PhotoURLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Config struct {
	PageSizeDefault int
	PageSizeMax     int
	// OverfetchMultiplier widens the raw page when a radius filter will
	// discard rows client-side.
	OverfetchMultiplier int
	// ExclusionPredicateCap bounds the exclusion list pushed into the SQL
	// predicate. Larger sets are filtered in memory only.
	ExclusionPredicateCap int
	RadiusDefaultKM       int
	RadiusMaxKM           int
	AgeMinDefault         int
	AgeMaxDefault         int
}

type Service struct {
	candidates CandidateStore
	swipes     SwipeStore
	matches    MatchStore
	photoSign  PhotoURLSigner
	cfg        Config
	now        func() time.Time
}

type Candidate struct {
	UserID      int64
	DisplayName string
	Bio         string
	Age         int
	HomeCity    string
	Interests   []string
	DistanceKM  *float64
	PhotoURL    *string
}

type Result struct {
	Candidates []Candidate
	NextCursor string
}

// pageCursor pins the resume point in the raw store order so page boundaries
// stay stable while swipes and matches land between requests.
type pageCursor struct {
	UserID int64 `json:"i"`
}

func NewService(candidates CandidateStore, swipes SwipeStore, matches MatchStore, cfg Config) *Service {
	if cfg.PageSizeDefault <= 0 {
		cfg.PageSizeDefault = defaultPageSize
	}
	if cfg.PageSizeMax <= 0 {
		cfg.PageSizeMax = maxPageSize
	}
	if cfg.OverfetchMultiplier <= 1 {
		cfg.OverfetchMultiplier = defaultOverfetch
	}
	if cfg.ExclusionPredicateCap <= 0 {
		cfg.ExclusionPredicateCap = defaultExclusionCap
	}
	if cfg.RadiusMaxKM <= 0 {
		cfg.RadiusMaxKM = 500
	}
	if cfg.AgeMinDefault <= 0 {
		cfg.AgeMinDefault = 18
	}
	if cfg.AgeMaxDefault <= 0 {
		cfg.AgeMaxDefault = 99
	}

	return &Service{
		candidates: candidates,
		swipes:     swipes,
		matches:    matches,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *Service) AttachPhotoSigner(signer PhotoURLSigner) {
	s.photoSign = signer
}

// Discover returns one page of swipe candidates for userID. A positive
// radiusKM overrides the viewer's stored radius preference, an explicit zero
// disables radius filtering, and a negative value defers to the stored
// preference.
func (s *Service) Discover(ctx context.Context, userID int64, cursor string, limit, radiusKM int) (Result, error) {
	if userID <= 0 {
		return Result{}, ErrValidation
	}
	if s.candidates == nil {
		return Result{}, fmt.Errorf("candidate store is nil")
	}
	if limit <= 0 {
		limit = s.cfg.PageSizeDefault
	}
	if limit > s.cfg.PageSizeMax {
		limit = s.cfg.PageSizeMax
	}

	decoded, hasCursor, err := decodeCursor(cursor)
	if err != nil {
		return Result{}, err
	}

	viewer, err := s.candidates.GetViewerContext(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrViewerNotFound) {
			return Result{Candidates: []Candidate{}}, nil
		}
		return Result{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	excluded, err := s.buildExclusionSet(ctx, userID)
	if err != nil {
		// A partial exclusion set risks resurfacing already-swiped or
		// already-matched users, so the page fails closed.
		return Result{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	radius := normalizeRadius(radiusKM, viewer.RadiusKM, s.cfg.RadiusDefaultKM, s.cfg.RadiusMaxKM)
	applyRadius := radius > 0 && viewer.LastLat != nil && viewer.LastLon != nil

	fetchLimit := limit
	if applyRadius {
		fetchLimit = limit * s.cfg.OverfetchMultiplier
	}

	ageMin, ageMax := normalizeAgeRange(viewer.AgeMin, viewer.AgeMax, s.cfg.AgeMinDefault, s.cfg.AgeMaxDefault)
	query := pgrepo.CandidatePageQuery{
		ViewerUserID: userID,
		AgeMin:       ageMin,
		AgeMax:       ageMax,
		HasCursor:    hasCursor,
		Limit:        fetchLimit,
		Now:          s.now().UTC(),
	}
	if hasCursor {
		query.CursorUserID = decoded.UserID
	}
	if len(excluded) <= s.cfg.ExclusionPredicateCap {
		query.ExcludeIDs = exclusionIDs(excluded)
	}

	raw, err := s.candidates.ListPage(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	items := make([]Candidate, 0, limit)
	for _, record := range raw {
		if len(items) == limit {
			break
		}
		// Exclusion re-applies here regardless of the store predicate:
		// the SQL filter is skipped entirely above the predicate cap.
		if _, skip := excluded[record.UserID]; skip {
			continue
		}

		var distance *float64
		if viewer.LastLat != nil && viewer.LastLon != nil && record.LastLat != nil && record.LastLon != nil {
			d := geo.DistanceKM(*viewer.LastLat, *viewer.LastLon, *record.LastLat, *record.LastLon)
			distance = &d
		}
		if applyRadius {
			if distance == nil || !geo.WithinRadiusKM(*viewer.LastLat, *viewer.LastLon, *record.LastLat, *record.LastLon, float64(radius)) {
				continue
			}
		}

		items = append(items, Candidate{
			UserID:      record.UserID,
			DisplayName: record.DisplayName,
			Bio:         record.Bio,
			Age:         record.Age,
			HomeCity:    record.HomeCity,
			Interests:   append([]string(nil), record.Interests...),
			DistanceKM:  distance,
			PhotoURL:    s.buildPhotoURL(ctx, record.PhotoKey),
		})
	}

	result := Result{Candidates: items}
	// The cursor advances over the raw fetch order, not the filtered page,
	// so heavily filtered pages still make progress. A short raw page means
	// the store is drained and pagination terminates.
	if len(raw) == fetchLimit {
		last := raw[len(raw)-1]
		next, err := encodeCursor(pageCursor{UserID: last.UserID})
		if err != nil {
			return Result{}, err
		}
		result.NextCursor = next
	}

	return result, nil
}

func (s *Service) buildExclusionSet(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	excluded := map[int64]struct{}{userID: {}}

	if s.swipes != nil {
		swiped, err := s.swipes.ListTargetIDs(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list swiped targets: %w", err)
		}
		for _, id := range swiped {
			excluded[id] = struct{}{}
		}
	}

	if s.matches != nil {
		matched, err := s.matches.ListCounterpartIDs(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list match counterparts: %w", err)
		}
		for _, id := range matched {
			excluded[id] = struct{}{}
		}
	}

	return excluded, nil
}

func (s *Service) buildPhotoURL(ctx context.Context, key string) *string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || s.photoSign == nil {
		return nil
	}

	url, err := s.photoSign.PresignGet(ctx, trimmed, cardPhotoURLTTL)
	if err != nil {
		return nil
	}
	value := strings.TrimSpace(url)
	if value == "" {
		return nil
	}
	return &value
}

func exclusionIDs(excluded map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(excluded))
	for id := range excluded {
		ids = append(ids, id)
	}
	return ids
}

func normalizeAgeRange(ageMin, ageMax, defaultMin, defaultMax int) (int, int) {
	if ageMin <= 0 {
		ageMin = defaultMin
	}
	if ageMax <= 0 {
		ageMax = defaultMax
	}
	if ageMin > ageMax {
		ageMin, ageMax = ageMax, ageMin
	}
	return ageMin, ageMax
}

// normalizeRadius resolves the effective radius: a positive override wins,
// an explicit zero means no filtering, and a negative override falls back to
// the viewer's stored preference and then the configured default.
func normalizeRadius(override, preferred, fallback, max int) int {
	var radius int
	switch {
	case override > 0:
		radius = override
	case override == 0:
		return 0
	default:
		radius = preferred
		if radius <= 0 {
			radius = fallback
		}
	}
	if radius > max {
		radius = max
	}
	return radius
}

func decodeCursor(raw string) (pageCursor, bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return pageCursor{}, false, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return pageCursor{}, false, ErrInvalidCursor
	}

	var cursor pageCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return pageCursor{}, false, ErrInvalidCursor
	}
	if cursor.UserID <= 0 {
		return pageCursor{}, false, ErrInvalidCursor
	}

	return cursor, true, nil
}

func encodeCursor(cursor pageCursor) (string, error) {
	payload, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("marshal discovery cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}
