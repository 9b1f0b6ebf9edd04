package handlers

import (
	"errors"
	"net/http"
	"strings"

	authsvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/auth"
	mediasvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/media"
	"github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/dto"
	httperrors "github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/errors"
)

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	var req dto.PhotoUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "file_name is required")
		return
	}

	ticket, err := h.service.CreatePhotoUpload(r.Context(), identity.UserID, req.FileName)
	if err != nil {
		switch {
		case errors.Is(err, mediasvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported photo file")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create upload")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoUploadResponse{
		ObjectKey: ticket.ObjectKey,
		UploadURL: ticket.UploadURL,
		ExpiresAt: ticket.ExpiresAt,
	})
}

func (h *MediaHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	var req dto.PhotoConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	photo, err := h.service.ConfirmPhoto(r.Context(), identity.UserID, req.ObjectKey)
	if err != nil {
		switch {
		case errors.Is(err, mediasvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid object key")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to confirm photo")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoConfirmResponse{
		ObjectKey: photo.ObjectKey,
		URL:       photo.URL,
	})
}
