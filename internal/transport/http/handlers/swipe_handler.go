package handlers

import (
	"errors"
	"net/http"
	"strings"

	authsvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/auth"
	swipesvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/swipes"
	"github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/dto"
	httperrors "github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.TargetID <= 0 || strings.TrimSpace(req.Action) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and action are required")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, req.Action)
	if err != nil {
		var tooFast swipesvc.TooFastError
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrUnsupportedAction):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported action")
		case errors.As(err, &tooFast):
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "too many swipes, slow down",
				RetryAfterSec: tooFast.RetryAfterSec,
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	response := dto.SwipeResponse{
		OK:      true,
		SwipeID: result.SwipeID,
		Action:  string(result.Action),
	}
	if result.Match != nil {
		response.Match = &dto.SwipeMatchResponse{
			MatchID:           result.Match.MatchID,
			CounterpartUserID: result.Match.CounterpartUserID,
			DisplayName:       result.Match.DisplayName,
			Age:               result.Match.Age,
			HomeCity:          result.Match.HomeCity,
			CreatedAt:         result.Match.CreatedAt,
			Created:           result.Match.Created,
		}
	}

	httperrors.Write(w, http.StatusOK, response)
}
