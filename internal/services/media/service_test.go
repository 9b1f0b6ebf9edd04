package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type storageStub struct {
	ensureErr  error
	putURL     string
	putErr     error
	getURL     string
	getErr     error
	deleted    []string
	putKeys    []string
	signedKeys []string
}

func (s *storageStub) EnsureBucket(context.Context) error { return s.ensureErr }

func (s *storageStub) PresignPut(_ context.Context, key string, _ time.Duration) (string, error) {
	s.putKeys = append(s.putKeys, key)
	return s.putURL, s.putErr
}

func (s *storageStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	s.signedKeys = append(s.signedKeys, key)
	return s.getURL, s.getErr
}

func (s *storageStub) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type setterStub struct {
	userID int64
	key    string
	err    error
	calls  int
}

func (s *setterStub) SetPhotoKey(_ context.Context, userID int64, key string) error {
	s.calls++
	s.userID = userID
	s.key = key
	return s.err
}

func TestCreatePhotoUploadIssuesScopedKey(t *testing.T) {
	storage := &storageStub{putURL: "https://s3.local/upload"}
	svc := NewService(storage, &setterStub{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	ticket, err := svc.CreatePhotoUpload(context.Background(), 42, "me.JPG")
	if err != nil {
		t.Fatalf("create photo upload: %v", err)
	}
	if !strings.HasPrefix(ticket.ObjectKey, "users/42/photos/") {
		t.Fatalf("object key %q not scoped to user", ticket.ObjectKey)
	}
	if !strings.HasSuffix(ticket.ObjectKey, ".jpg") {
		t.Fatalf("object key %q should keep lowercased extension", ticket.ObjectKey)
	}
	if ticket.UploadURL != "https://s3.local/upload" {
		t.Fatalf("upload url = %q", ticket.UploadURL)
	}
	if !ticket.ExpiresAt.Equal(time.Date(2026, 3, 1, 10, 10, 0, 0, time.UTC)) {
		t.Fatalf("expires_at = %v", ticket.ExpiresAt)
	}

	second, err := svc.CreatePhotoUpload(context.Background(), 42, "me.jpg")
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if second.ObjectKey == ticket.ObjectKey {
		t.Fatal("object keys must be unique per upload")
	}
}

func TestCreatePhotoUploadRejectsUnsupportedExtension(t *testing.T) {
	svc := NewService(&storageStub{}, &setterStub{})

	for _, name := range []string{"movie.mp4", "doc.pdf", "noext"} {
		if _, err := svc.CreatePhotoUpload(context.Background(), 42, name); !errors.Is(err, ErrValidation) {
			t.Fatalf("file %q: want ErrValidation, got %v", name, err)
		}
	}
}

func TestConfirmPhotoPinsKeyAndSignsURL(t *testing.T) {
	storage := &storageStub{getURL: "https://s3.local/get"}
	setter := &setterStub{}
	svc := NewService(storage, setter)

	photo, err := svc.ConfirmPhoto(context.Background(), 42, "users/42/photos/abc.jpg")
	if err != nil {
		t.Fatalf("confirm photo: %v", err)
	}
	if setter.calls != 1 || setter.userID != 42 || setter.key != "users/42/photos/abc.jpg" {
		t.Fatalf("unexpected setter call: %+v", setter)
	}
	if photo.URL != "https://s3.local/get" {
		t.Fatalf("photo url = %q", photo.URL)
	}
}

func TestConfirmPhotoRejectsForeignKey(t *testing.T) {
	setter := &setterStub{}
	svc := NewService(&storageStub{}, setter)

	if _, err := svc.ConfirmPhoto(context.Background(), 42, "users/7/photos/abc.jpg"); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation for foreign key, got %v", err)
	}
	if setter.calls != 0 {
		t.Fatal("setter must not run for a foreign object key")
	}
}

func TestConfirmPhotoCleansUpOnSetterFailure(t *testing.T) {
	storage := &storageStub{}
	setter := &setterStub{err: errors.New("profile missing")}
	svc := NewService(storage, setter)

	if _, err := svc.ConfirmPhoto(context.Background(), 42, "users/42/photos/abc.jpg"); err == nil {
		t.Fatal("expected error from setter")
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "users/42/photos/abc.jpg" {
		t.Fatalf("orphan object not deleted: %v", storage.deleted)
	}
}
