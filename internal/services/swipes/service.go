package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mrbishalbaniya/wanderlink-sub000/internal/domain/enums"
	pgrepo "github.com/mrbishalbaniya/wanderlink-sub000/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrUnsupportedAction = errors.New("unsupported action")
)

// TooFastError reports a throttled swipe together with the wait hint.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return fmt.Sprintf("too many swipes, retry in %ds", e.RetryAfterSec)
}

type SwipeStore interface {
	Create(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, action string, now time.Time) (pgrepo.SwipeRecord, error)
	HasLike(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (bool, error)
}

type MatchStore interface {
	CreateIfAbsent(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (pgrepo.MatchRecord, bool, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
}

type Dependencies struct {
	Pool         *pgxpool.Pool
	SwipeStore   SwipeStore
	MatchStore   MatchStore
	ProfileStore ProfileStore
	Logger       *zap.Logger
}

type Service struct {
	pool         *pgxpool.Pool
	swipeStore   SwipeStore
	matchStore   MatchStore
	profileStore ProfileStore
	rateLimiter  RateLimiter
	log          *zap.Logger
	now          func() time.Time
	runTx        func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

// MatchResult carries the counterpart's profile summary so a fresh match can
// be shown without a follow-up request.
type MatchResult struct {
	MatchID           int64
	CounterpartUserID int64
	DisplayName       string
	Age               int
	HomeCity          string
	CreatedAt         time.Time
	// Created is false when the reciprocal match already existed.
	Created bool
}

type SwipeResult struct {
	SwipeID int64
	Action  enums.SwipeAction
	Match   *MatchResult
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	svc := &Service{
		pool:         deps.Pool,
		swipeStore:   deps.SwipeStore,
		matchStore:   deps.MatchStore,
		profileStore: deps.ProfileStore,
		log:          log,
		now:          time.Now,
	}
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, svc.pool, fn)
	}

	return svc
}

func (s *Service) AttachRateLimiter(limiter RateLimiter) {
	s.rateLimiter = limiter
}

// Swipe records the verdict and, for a like, reconciles the reciprocal match.
// The swipe commits in its own transaction first: a reconcile failure leaves
// the recorded swipe in place and is repaired on a later like or retry.
func (s *Service) Swipe(ctx context.Context, userID, targetID int64, action string) (SwipeResult, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return SwipeResult{}, ErrValidation
	}
	normalized, err := normalizeAction(action)
	if err != nil {
		return SwipeResult{}, err
	}
	if s.swipeStore == nil || s.matchStore == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, userID)
		if err != nil {
			return SwipeResult{}, fmt.Errorf("apply swipe rate limiter: %w", err)
		}
		if !allowed {
			return SwipeResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	now := s.now().UTC()

	var recorded pgrepo.SwipeRecord
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		created, err := s.swipeStore.Create(txCtx, tx, userID, targetID, string(normalized), now)
		if err != nil {
			return err
		}
		recorded = created
		return nil
	}); err != nil {
		return SwipeResult{}, err
	}

	result := SwipeResult{
		SwipeID: recorded.ID,
		Action:  normalized,
	}

	if normalized != enums.SwipeActionLike {
		return result, nil
	}

	match, err := s.Reconcile(ctx, userID, targetID)
	if err != nil {
		s.log.Warn("swipe recorded but match reconcile failed",
			zap.Int64("user_id", userID),
			zap.Int64("target_user_id", targetID),
			zap.Error(err),
		)
		return result, nil
	}
	result.Match = match

	return result, nil
}

// Reconcile creates the match for a mutual like if it does not exist yet and
// returns the counterpart's profile summary. It returns nil when the target
// has not liked userID back. The create is idempotent: concurrent reconciles
// of the same pair converge on one row.
func (s *Service) Reconcile(ctx context.Context, userID, targetID int64) (*MatchResult, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return nil, ErrValidation
	}
	if s.swipeStore == nil || s.matchStore == nil {
		return nil, fmt.Errorf("swipe dependencies are not configured")
	}

	var match *MatchResult
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		reciprocal, err := s.swipeStore.HasLike(txCtx, tx, targetID, userID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		record, created, err := s.matchStore.CreateIfAbsent(txCtx, tx, userID, targetID, s.now().UTC())
		if err != nil {
			return err
		}
		match = &MatchResult{
			MatchID:           record.ID,
			CounterpartUserID: counterpartID(record, userID),
			CreatedAt:         record.CreatedAt,
			Created:           created,
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if match != nil && s.profileStore != nil {
		record, err := s.profileStore.Get(ctx, match.CounterpartUserID)
		switch {
		case err == nil:
			match.DisplayName = record.DisplayName
			match.Age = record.Age
			match.HomeCity = record.HomeCity
		case errors.Is(err, pgrepo.ErrProfileNotFound):
			// The match stands even if the counterpart never filled a profile.
		default:
			return nil, fmt.Errorf("load counterpart profile: %w", err)
		}
	}

	return match, nil
}

func counterpartID(record pgrepo.MatchRecord, userID int64) int64 {
	if record.UserAID == userID {
		return record.UserBID
	}
	return record.UserAID
}

func normalizeAction(input string) (enums.SwipeAction, error) {
	value := strings.ToUpper(strings.TrimSpace(input))
	switch enums.SwipeAction(value) {
	case enums.SwipeActionLike:
		return enums.SwipeActionLike, nil
	case enums.SwipeActionSkip:
		return enums.SwipeActionSkip, nil
	default:
		return "", ErrUnsupportedAction
	}
}
