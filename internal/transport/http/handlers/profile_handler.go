package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/auth"
	profilesvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/profiles"
	"github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/dto"
	httperrors "github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/errors"
)

const birthdateLayout = "2006-01-02"

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile is not filled in yet")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	var birthdate time.Time
	if req.Birthdate != "" {
		parsed, err := time.Parse(birthdateLayout, req.Birthdate)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "birthdate must be YYYY-MM-DD")
			return
		}
		birthdate = parsed
	}

	err := h.service.UpdateCore(r.Context(), identity.UserID, profilesvc.CoreInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Birthdate:   birthdate,
		Gender:      req.Gender,
		LookingFor:  req.LookingFor,
		Interests:   req.Interests,
		HomeCity:    req.HomeCity,
		AgeMin:      req.AgeMin,
		AgeMax:      req.AgeMax,
		RadiusKM:    req.RadiusKM,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrAgeRejected):
			httperrors.Write(w, http.StatusUnprocessableEntity, httperrors.APIError{
				Code:    "AGE_REJECTED",
				Message: "you must be at least 18 years old",
			})
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		}
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load saved profile")
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

func mapProfile(profile profilesvc.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		Age:         profile.Age,
		Gender:      profile.Gender,
		LookingFor:  profile.LookingFor,
		Interests:   profile.Interests,
		HomeCity:    profile.HomeCity,
		AgeMin:      profile.AgeMin,
		AgeMax:      profile.AgeMax,
		RadiusKM:    profile.RadiusKM,
		LastLat:     profile.LastLat,
		LastLon:     profile.LastLon,
		LastGeoAt:   profile.LastGeoAt,
		PhotoURL:    &dto.NullableString{Value: profile.PhotoURL},
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}
