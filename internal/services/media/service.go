package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation error")

const (
	signedURLTTL = 5 * time.Minute
	uploadURLTTL = 10 * time.Minute
)

var allowedPhotoExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PresignPut(ctx context.Context, key string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type PhotoKeySetter interface {
	SetPhotoKey(ctx context.Context, userID int64, key string) error
}

// Service hands out presigned upload slots and pins confirmed uploads to the
// profile. Clients push photo bytes straight to object storage; the API never
// proxies them.
type Service struct {
	storage ObjectStorage
	setter  PhotoKeySetter
	now     func() time.Time
}

type UploadTicket struct {
	ObjectKey string
	UploadURL string
	ExpiresAt time.Time
}

type Photo struct {
	ObjectKey string
	URL       string
}

func NewService(storage ObjectStorage, setter PhotoKeySetter) *Service {
	return &Service{
		storage: storage,
		setter:  setter,
		now:     time.Now,
	}
}

// CreatePhotoUpload reserves a fresh object key and returns a presigned PUT
// URL for it.
func (s *Service) CreatePhotoUpload(ctx context.Context, userID int64, fileName string) (UploadTicket, error) {
	if userID <= 0 {
		return UploadTicket{}, ErrValidation
	}
	if s.storage == nil {
		return UploadTicket{}, fmt.Errorf("media storage is not configured")
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if _, ok := allowedPhotoExtensions[ext]; !ok {
		return UploadTicket{}, fmt.Errorf("unsupported photo extension %q: %w", ext, ErrValidation)
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return UploadTicket{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := buildPhotoObjectKey(userID, ext)
	uploadURL, err := s.storage.PresignPut(ctx, objectKey, uploadURLTTL)
	if err != nil {
		return UploadTicket{}, fmt.Errorf("presign upload url: %w", err)
	}

	return UploadTicket{
		ObjectKey: objectKey,
		UploadURL: uploadURL,
		ExpiresAt: s.now().UTC().Add(uploadURLTTL),
	}, nil
}

// ConfirmPhoto pins an uploaded object to the profile. The key must belong to
// the confirming user; a foreign key is rejected before touching storage.
func (s *Service) ConfirmPhoto(ctx context.Context, userID int64, objectKey string) (Photo, error) {
	if userID <= 0 {
		return Photo{}, ErrValidation
	}
	key := strings.TrimSpace(objectKey)
	if key == "" || !strings.HasPrefix(key, photoKeyPrefix(userID)) {
		return Photo{}, fmt.Errorf("object key does not belong to user: %w", ErrValidation)
	}
	if s.storage == nil || s.setter == nil {
		return Photo{}, fmt.Errorf("media dependencies are not configured")
	}

	if err := s.setter.SetPhotoKey(ctx, userID, key); err != nil {
		_ = s.storage.Delete(ctx, key)
		return Photo{}, fmt.Errorf("set profile photo key: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, key, signedURLTTL)
	if err != nil {
		return Photo{}, fmt.Errorf("presign photo url: %w", err)
	}

	return Photo{ObjectKey: key, URL: url}, nil
}

func photoKeyPrefix(userID int64) string {
	return fmt.Sprintf("users/%d/photos/", userID)
}

func buildPhotoObjectKey(userID int64, ext string) string {
	return photoKeyPrefix(userID) + uuid.NewString() + ext
}
