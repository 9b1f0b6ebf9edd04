package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrValidation = errors.New("validation error")

type ProfileLocationSaver interface {
	SaveLocation(ctx context.Context, userID int64, lat, lon float64, at time.Time) error
}

// Service owns last-known-location updates. Distance math lives here as free
// functions so discovery can score candidates without carrying a Service.
type Service struct {
	saver ProfileLocationSaver
	now   func() time.Time
}

func NewService(saver ProfileLocationSaver) *Service {
	return &Service{
		saver: saver,
		now:   time.Now,
	}
}

type Location struct {
	Lat float64
	Lon float64
	At  time.Time
}

func (s *Service) UpdateLocation(ctx context.Context, userID int64, lat, lon float64) (Location, error) {
	if userID <= 0 {
		return Location{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if err := ValidateCoordinates(lat, lon); err != nil {
		return Location{}, err
	}

	at := s.now().UTC()
	if s.saver != nil {
		if err := s.saver.SaveLocation(ctx, userID, lat, lon, at); err != nil {
			return Location{}, err
		}
	}

	return Location{Lat: lat, Lon: lon, At: at}, nil
}

func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return fmt.Errorf("invalid coordinates: %w", ErrValidation)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("coordinates out of range: %w", ErrValidation)
	}
	return nil
}

// DistanceKM returns the great-circle distance between two points on a
// spherical Earth of radius 6371 km.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0

	toRad := func(v float64) float64 { return v * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// WithinRadiusKM reports whether the two points are at most radiusKM apart.
// The boundary is inclusive.
func WithinRadiusKM(lat1, lon1, lat2, lon2 float64, radiusKM float64) bool {
	return DistanceKM(lat1, lon1, lat2, lon2) <= radiusKM
}
