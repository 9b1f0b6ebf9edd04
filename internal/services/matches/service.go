package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgrepo "github.com/mrbishalbaniya/wanderlink-sub000/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

const defaultListLimit = 100

type MatchStore interface {
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchSummaryRecord, error)
	DeleteByUsers(ctx context.Context, tx pgx.Tx, userID, targetID int64) (bool, error)
}

type Service struct {
	pool       *pgxpool.Pool
	matchStore MatchStore
	runTx      func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool       *pgxpool.Pool
	MatchStore MatchStore
}

type MatchItem struct {
	ID                int64
	CounterpartUserID int64
	DisplayName       string
	Age               int
	HomeCity          string
	CreatedAt         time.Time
}

func NewService(deps Dependencies) *Service {
	svc := &Service{
		pool:       deps.Pool,
		matchStore: deps.MatchStore,
	}
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, svc.pool, fn)
	}

	return svc
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]MatchItem, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.matchStore == nil {
		return nil, fmt.Errorf("match store is nil")
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	rows, err := s.matchStore.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchItem{
			ID:                row.ID,
			CounterpartUserID: row.CounterpartUserID,
			DisplayName:       row.DisplayName,
			Age:               row.Age,
			HomeCity:          row.HomeCity,
			CreatedAt:         row.CreatedAt,
		})
	}
	return items, nil
}

// Unmatch removes the match between the pair. It reports false when no match
// existed, which callers surface as not found.
func (s *Service) Unmatch(ctx context.Context, userID, targetID int64) (bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return false, ErrValidation
	}
	if s.matchStore == nil {
		return false, fmt.Errorf("unmatch dependencies are not configured")
	}

	var deleted bool
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		ok, err := s.matchStore.DeleteByUsers(txCtx, tx, userID, targetID)
		if err != nil {
			return err
		}
		deleted = ok
		return nil
	}); err != nil {
		return false, err
	}

	return deleted, nil
}
