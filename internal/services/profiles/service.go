package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrbishalbaniya/wanderlink-sub000/internal/pkg/validate"
	pgrepo "github.com/mrbishalbaniya/wanderlink-sub000/internal/repo/postgres"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("profile not found")
	ErrAgeRejected = errors.New("age rejected")
)

const (
	minAgeYears        = 18
	maxDisplayNameLen  = 80
	maxBioLen          = 500
	maxInterests       = 10
	maxInterestLen     = 30
	profilePhotoURLTTL = 5 * time.Minute
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
	SaveCore(ctx context.Context, p pgrepo.SaveCoreParams) error
}

type PhotoURLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Config struct {
	AgeMinDefault int
	AgeMaxDefault int
	RadiusMaxKM   int
}

type Service struct {
	store     ProfileStore
	photoSign PhotoURLSigner
	cfg       Config
	now       func() time.Time
}

type CoreInput struct {
	DisplayName string
	Bio         string
	Birthdate   time.Time
	Gender      string
	LookingFor  string
	Interests   []string
	HomeCity    string
	AgeMin      int
	AgeMax      int
	RadiusKM    int
}

type Profile struct {
	UserID      int64
	DisplayName string
	Bio         string
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
	PhotoURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewService(store ProfileStore, cfg Config) *Service {
	if cfg.AgeMinDefault <= 0 {
		cfg.AgeMinDefault = 18
	}
	if cfg.AgeMaxDefault <= 0 {
		cfg.AgeMaxDefault = 99
	}
	if cfg.RadiusMaxKM <= 0 {
		cfg.RadiusMaxKM = 500
	}

	return &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *Service) AttachPhotoSigner(signer PhotoURLSigner) {
	s.photoSign = signer
}

func (s *Service) Get(ctx context.Context, userID int64) (Profile, error) {
	if userID <= 0 {
		return Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return Profile{}, fmt.Errorf("profile store is nil")
	}

	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}

	return Profile{
		UserID:      record.UserID,
		DisplayName: record.DisplayName,
		Bio:         record.Bio,
		Age:         record.Age,
		Gender:      record.Gender,
		LookingFor:  record.LookingFor,
		Interests:   append([]string(nil), record.Interests...),
		HomeCity:    record.HomeCity,
		AgeMin:      record.AgeMin,
		AgeMax:      record.AgeMax,
		RadiusKM:    record.RadiusKM,
		LastLat:     record.LastLat,
		LastLon:     record.LastLon,
		LastGeoAt:   record.LastGeoAt,
		PhotoURL:    s.buildPhotoURL(ctx, record.PhotoKey),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

func (s *Service) UpdateCore(ctx context.Context, userID int64, in CoreInput) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return fmt.Errorf("profile store is nil")
	}

	normalized, err := s.normalizeAndValidate(s.now().UTC(), in)
	if err != nil {
		return err
	}

	birthdate := normalized.Birthdate
	if err := s.store.SaveCore(ctx, pgrepo.SaveCoreParams{
		UserID:      userID,
		DisplayName: normalized.DisplayName,
		Bio:         normalized.Bio,
		Birthdate:   &birthdate,
		Gender:      normalized.Gender,
		LookingFor:  normalized.LookingFor,
		Interests:   normalized.Interests,
		HomeCity:    normalized.HomeCity,
		AgeMin:      normalized.AgeMin,
		AgeMax:      normalized.AgeMax,
		RadiusKM:    normalized.RadiusKM,
	}); err != nil {
		return fmt.Errorf("save profile core: %w", err)
	}

	return nil
}

func (s *Service) normalizeAndValidate(now time.Time, in CoreInput) (CoreInput, error) {
	out := CoreInput{
		DisplayName: strings.TrimSpace(in.DisplayName),
		Bio:         strings.TrimSpace(in.Bio),
		Birthdate:   in.Birthdate,
		Gender:      strings.ToLower(strings.TrimSpace(in.Gender)),
		LookingFor:  strings.ToLower(strings.TrimSpace(in.LookingFor)),
		HomeCity:    strings.TrimSpace(in.HomeCity),
		AgeMin:      in.AgeMin,
		AgeMax:      in.AgeMax,
		RadiusKM:    in.RadiusKM,
	}

	if !validate.Required(out.DisplayName) || len(out.DisplayName) > maxDisplayNameLen {
		return CoreInput{}, fmt.Errorf("invalid display_name: %w", ErrValidation)
	}
	if len(out.Bio) > maxBioLen {
		return CoreInput{}, fmt.Errorf("bio is too long: %w", ErrValidation)
	}
	if in.Birthdate.IsZero() {
		return CoreInput{}, fmt.Errorf("birthdate is required: %w", ErrValidation)
	}
	if ageYears(in.Birthdate, now) < minAgeYears {
		return CoreInput{}, ErrAgeRejected
	}

	if out.AgeMin <= 0 {
		out.AgeMin = s.cfg.AgeMinDefault
	}
	if out.AgeMax <= 0 {
		out.AgeMax = s.cfg.AgeMaxDefault
	}
	if out.AgeMin < minAgeYears || out.AgeMin > out.AgeMax {
		return CoreInput{}, fmt.Errorf("invalid age preferences: %w", ErrValidation)
	}

	if out.RadiusKM < 0 || out.RadiusKM > s.cfg.RadiusMaxKM {
		return CoreInput{}, fmt.Errorf("invalid radius_km: %w", ErrValidation)
	}

	interests, err := normalizeInterests(in.Interests)
	if err != nil {
		return CoreInput{}, err
	}
	out.Interests = interests

	return out, nil
}

func normalizeInterests(values []string) ([]string, error) {
	if len(values) > maxInterests {
		return nil, fmt.Errorf("too many interests: %w", ErrValidation)
	}

	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			return nil, fmt.Errorf("empty interest: %w", ErrValidation)
		}
		if len(normalized) > maxInterestLen {
			return nil, fmt.Errorf("interest %q is too long: %w", normalized, ErrValidation)
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result, nil
}

func (s *Service) buildPhotoURL(ctx context.Context, key string) *string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || s.photoSign == nil {
		return nil
	}

	url, err := s.photoSign.PresignGet(ctx, trimmed, profilePhotoURLTTL)
	if err != nil {
		return nil
	}
	value := strings.TrimSpace(url)
	if value == "" {
		return nil
	}
	return &value
}

func ageYears(birthdate time.Time, now time.Time) int {
	b := birthdate.UTC()
	n := now.UTC()

	years := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		years--
	}

	return years
}
