package geo

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestDistanceKM(t *testing.T) {
	tests := []struct {
		name    string
		lat1    float64
		lon1    float64
		lat2    float64
		lon2    float64
		wantKM  float64
		within  float64
	}{
		{name: "same point", lat1: 27.70, lon1: 85.32, lat2: 27.70, lon2: 85.32, wantKM: 0, within: 0.001},
		{name: "kathmandu to patan", lat1: 27.70, lon1: 85.32, lat2: 27.72, lon2: 85.34, wantKM: 2.97, within: 0.5},
		{name: "kathmandu to gorkha region", lat1: 27.70, lon1: 85.32, lat2: 28.50, lon2: 85.00, wantKM: 94.5, within: 5},
		{name: "london to paris", lat1: 51.5074, lon1: -0.1278, lat2: 48.8566, lon2: 2.3522, wantKM: 343.5, within: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKM(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKM) > tt.within {
				t.Fatalf("distance = %.3f km, want %.3f±%.3f", got, tt.wantKM, tt.within)
			}
			reverse := DistanceKM(tt.lat2, tt.lon2, tt.lat1, tt.lon1)
			if math.Abs(got-reverse) > 1e-9 {
				t.Fatalf("distance not symmetric: %.9f vs %.9f", got, reverse)
			}
		})
	}
}

func TestWithinRadiusKMBoundaryIsInclusive(t *testing.T) {
	d := DistanceKM(27.70, 85.32, 27.72, 85.34)
	if !WithinRadiusKM(27.70, 85.32, 27.72, 85.34, d) {
		t.Fatal("point exactly at radius boundary must be included")
	}
	if WithinRadiusKM(27.70, 85.32, 28.50, 85.00, 50) {
		t.Fatal("point ~95 km away must not pass a 50 km radius")
	}
}

func TestValidateCoordinates(t *testing.T) {
	if err := ValidateCoordinates(27.70, 85.32); err != nil {
		t.Fatalf("valid coordinates rejected: %v", err)
	}

	bad := [][2]float64{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
		{math.NaN(), 0},
		{0, math.Inf(1)},
	}
	for _, pair := range bad {
		if err := ValidateCoordinates(pair[0], pair[1]); !errors.Is(err, ErrValidation) {
			t.Fatalf("coordinates (%v, %v): want ErrValidation, got %v", pair[0], pair[1], err)
		}
	}
}

type stubLocationSaver struct {
	userID int64
	lat    float64
	lon    float64
	at     time.Time
	err    error
	calls  int
}

func (s *stubLocationSaver) SaveLocation(_ context.Context, userID int64, lat, lon float64, at time.Time) error {
	s.calls++
	s.userID = userID
	s.lat = lat
	s.lon = lon
	s.at = at
	return s.err
}

func TestUpdateLocationPersistsCoordinates(t *testing.T) {
	saver := &stubLocationSaver{}
	svc := NewService(saver)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	loc, err := svc.UpdateLocation(context.Background(), 42, 27.70, 85.32)
	if err != nil {
		t.Fatalf("update location: %v", err)
	}
	if saver.calls != 1 || saver.userID != 42 || saver.lat != 27.70 || saver.lon != 85.32 {
		t.Fatalf("unexpected saver call: %+v", saver)
	}
	if !loc.At.Equal(saver.at) {
		t.Fatalf("returned timestamp %v differs from saved %v", loc.At, saver.at)
	}
}

func TestUpdateLocationRejectsBadInput(t *testing.T) {
	svc := NewService(&stubLocationSaver{})

	if _, err := svc.UpdateLocation(context.Background(), 0, 27.70, 85.32); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation for bad user id, got %v", err)
	}
	if _, err := svc.UpdateLocation(context.Background(), 42, 95, 85.32); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation for bad latitude, got %v", err)
	}
}
