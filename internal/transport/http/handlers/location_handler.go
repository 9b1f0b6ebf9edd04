package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/auth"
	geosvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/geo"
	"github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/dto"
	httperrors "github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/errors"
)

type LocationHandler struct {
	service *geosvc.Service
}

func NewLocationHandler(service *geosvc.Service) *LocationHandler {
	return &LocationHandler{service: service}
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "GEO_SERVICE_UNAVAILABLE", "geo service is unavailable")
		return
	}

	var req dto.ProfileLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeBadRequest(w, "VALIDATION_ERROR", "lat and lon are required")
		return
	}

	location, err := h.service.UpdateLocation(r.Context(), identity.UserID, *req.Lat, *req.Lon)
	if err != nil {
		switch {
		case errors.Is(err, geosvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "coordinates are out of range")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save location")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileLocationResponse{
		OK:        true,
		Lat:       location.Lat,
		Lon:       location.Lon,
		UpdatedAt: location.At,
	})
}
