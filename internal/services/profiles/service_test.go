package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/mrbishalbaniya/wanderlink-sub000/internal/repo/postgres"
)

type profileStoreStub struct {
	record   pgrepo.ProfileRecord
	getErr   error
	saved    *pgrepo.SaveCoreParams
	saveErr  error
	getCalls int
}

func (s *profileStoreStub) Get(_ context.Context, _ int64) (pgrepo.ProfileRecord, error) {
	s.getCalls++
	if s.getErr != nil {
		return pgrepo.ProfileRecord{}, s.getErr
	}
	return s.record, nil
}

func (s *profileStoreStub) SaveCore(_ context.Context, p pgrepo.SaveCoreParams) error {
	s.saved = &p
	return s.saveErr
}

func validInput() CoreInput {
	return CoreInput{
		DisplayName: "Asha",
		Bio:         "Trekking and tea houses.",
		Birthdate:   time.Date(1996, 5, 10, 0, 0, 0, 0, time.UTC),
		Gender:      "Female",
		LookingFor:  "Any",
		Interests:   []string{"Trekking", "photography", "trekking"},
		HomeCity:    "Kathmandu",
		AgeMin:      21,
		AgeMax:      35,
		RadiusKM:    100,
	}
}

func newTestService(store *profileStoreStub) *Service {
	svc := NewService(store, Config{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestUpdateCoreNormalizesAndSaves(t *testing.T) {
	store := &profileStoreStub{}
	svc := newTestService(store)

	if err := svc.UpdateCore(context.Background(), 42, validInput()); err != nil {
		t.Fatalf("update core: %v", err)
	}
	if store.saved == nil {
		t.Fatal("expected SaveCore call")
	}

	saved := *store.saved
	if saved.UserID != 42 || saved.DisplayName != "Asha" || saved.Gender != "female" || saved.LookingFor != "any" {
		t.Fatalf("unexpected saved params: %+v", saved)
	}
	if len(saved.Interests) != 2 || saved.Interests[0] != "trekking" || saved.Interests[1] != "photography" {
		t.Fatalf("interests not normalized/deduplicated: %v", saved.Interests)
	}
}

func TestUpdateCoreRejectsMinors(t *testing.T) {
	svc := newTestService(&profileStoreStub{})

	in := validInput()
	in.Birthdate = time.Date(2010, 5, 10, 0, 0, 0, 0, time.UTC)
	if err := svc.UpdateCore(context.Background(), 42, in); !errors.Is(err, ErrAgeRejected) {
		t.Fatalf("want ErrAgeRejected, got %v", err)
	}
}

func TestUpdateCoreValidation(t *testing.T) {
	svc := newTestService(&profileStoreStub{})

	cases := []struct {
		name   string
		mutate func(*CoreInput)
	}{
		{"empty display name", func(in *CoreInput) { in.DisplayName = "  " }},
		{"missing birthdate", func(in *CoreInput) { in.Birthdate = time.Time{} }},
		{"inverted age prefs", func(in *CoreInput) { in.AgeMin = 40; in.AgeMax = 20 }},
		{"age pref below adult", func(in *CoreInput) { in.AgeMin = 16 }},
		{"negative radius", func(in *CoreInput) { in.RadiusKM = -5 }},
		{"oversized radius", func(in *CoreInput) { in.RadiusKM = 10_000 }},
		{"blank interest", func(in *CoreInput) { in.Interests = []string{"  "} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if err := svc.UpdateCore(context.Background(), 42, in); !errors.Is(err, ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateCoreDefaultsPreferences(t *testing.T) {
	store := &profileStoreStub{}
	svc := newTestService(store)

	in := validInput()
	in.AgeMin = 0
	in.AgeMax = 0
	if err := svc.UpdateCore(context.Background(), 42, in); err != nil {
		t.Fatalf("update core: %v", err)
	}
	if store.saved.AgeMin != 18 || store.saved.AgeMax != 99 {
		t.Fatalf("age prefs = (%d, %d), want defaults (18, 99)", store.saved.AgeMin, store.saved.AgeMax)
	}
}

func TestGetMapsRecordAndNotFound(t *testing.T) {
	lat := 27.70
	store := &profileStoreStub{record: pgrepo.ProfileRecord{
		UserID:      42,
		DisplayName: "Asha",
		Age:         29,
		HomeCity:    "Kathmandu",
		LastLat:     &lat,
	}}
	svc := newTestService(store)

	profile, err := svc.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile.UserID != 42 || profile.DisplayName != "Asha" || profile.Age != 29 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.LastLat == nil || *profile.LastLat != lat {
		t.Fatalf("unexpected last_lat: %v", profile.LastLat)
	}

	store.getErr = pgrepo.ErrProfileNotFound
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
