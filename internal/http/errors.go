package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"voting-system/internal/domain/item"
	"voting-system/internal/domain/user"
	"voting-system/internal/domain/vote"
	"voting-system/internal/platform/apperr"
	"voting-system/internal/platform/cache"
)

var (
	errMissingToken = errors.New("missing authorization header")
	errInvalidToken = errors.New("invalid token")
	errForbidden    = errors.New("insufficient permissions")
	errRateLimited  = errors.New("too many votes")
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("code", appErr.Code), zap.Error(appErr.Err))
	}
	writeJSON(w, appErr.StatusCode(), map[string]any{
		"success": false,
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

// mapError turns domain errors into fixed client-facing codes and messages.
// Wrapped store errors never reach the response body.
func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, errMissingToken):
		return apperr.Unauthorized("missing_token", "missing authorization header", err)
	case errors.Is(err, errInvalidToken):
		return apperr.Unauthorized("invalid_token", "invalid token", err)
	case errors.Is(err, errForbidden):
		return apperr.Forbidden("forbidden", "insufficient permissions", err)
	case errors.Is(err, errRateLimited):
		return apperr.TooManyRequests("rate_limited", "too many votes, try again later", err)
	case errors.Is(err, vote.ErrInvalidKind):
		return apperr.BadRequest("invalid_vote_type", "invalid vote type", err)
	case errors.Is(err, vote.ErrInvalidTarget):
		return apperr.NotFound("invalid_target", "invalid item id", err)
	case errors.Is(err, vote.ErrNotFound):
		return apperr.NotFound("votes_not_found", "vote data not found for this item", err)
	case errors.Is(err, vote.ErrPersistence):
		return apperr.Internal("vote_update_failed", "failed to update votes", err)
	case errors.Is(err, cache.ErrUnavailable):
		return apperr.Unavailable("cache_unavailable", "cache is not available", err)
	case errors.Is(err, item.ErrNotFound):
		return apperr.NotFound("item_not_found", "item not found", err)
	case errors.Is(err, item.ErrTitleRequired):
		return apperr.BadRequest("invalid_input", "title is required", err)
	case errors.Is(err, item.ErrInvalidStatus):
		return apperr.BadRequest("invalid_status", "status must be draft or published", err)
	case errors.Is(err, item.ErrInvalidCategory):
		return apperr.BadRequest("invalid_category", "category must be post or page", err)
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.BadRequest("email_taken", "email already taken", err)
	case errors.Is(err, user.ErrMissingFields):
		return apperr.BadRequest("invalid_input", "email and password required", err)
	case errors.Is(err, user.ErrInvalidRole):
		return apperr.BadRequest("invalid_role", "role must be admin or user", err)
	case errors.Is(err, user.ErrNotFound):
		return apperr.NotFound("user_not_found", "user not found", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
