package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/auth"
	discoverysvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/discovery"
	"github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/dto"
	httperrors "github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/errors"
)

type DiscoverHandler struct {
	service *discoverysvc.Service
}

func NewDiscoverHandler(service *discoverysvc.Service) *DiscoverHandler {
	return &DiscoverHandler{service: service}
}

func (h *DiscoverHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "DISCOVERY_SERVICE_UNAVAILABLE", "discovery service is unavailable")
		return
	}

	query := r.URL.Query()
	result, err := h.service.Discover(
		r.Context(),
		identity.UserID,
		query.Get("cursor"),
		parseIntOrDefault(query.Get("limit"), 0),
		// Absent radius_km defers to the stored preference; an explicit 0
		// requests an unfiltered page.
		parseIntOrDefault(query.Get("radius_km"), -1),
	)
	if err != nil {
		switch {
		case errors.Is(err, discoverysvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid discovery request")
		case errors.Is(err, discoverysvc.ErrInvalidCursor):
			writeBadRequest(w, "INVALID_CURSOR", "cursor is malformed or expired")
		case errors.Is(err, discoverysvc.ErrDataUnavailable):
			httperrors.Write(w, http.StatusServiceUnavailable, httperrors.APIError{
				Code:    "DISCOVERY_UNAVAILABLE",
				Message: "candidate discovery is temporarily unavailable",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		}
		return
	}

	candidates := make([]dto.DiscoverCandidateResponse, 0, len(result.Candidates))
	for _, candidate := range result.Candidates {
		candidates = append(candidates, dto.DiscoverCandidateResponse{
			UserID:      candidate.UserID,
			DisplayName: candidate.DisplayName,
			Bio:         candidate.Bio,
			Age:         candidate.Age,
			HomeCity:    candidate.HomeCity,
			Interests:   candidate.Interests,
			DistanceKM:  candidate.DistanceKM,
			PhotoURL:    &dto.NullableString{Value: candidate.PhotoURL},
		})
	}

	httperrors.Write(w, http.StatusOK, dto.DiscoverResponse{
		Candidates: candidates,
		NextCursor: result.NextCursor,
	})
}
