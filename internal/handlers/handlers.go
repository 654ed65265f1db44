package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"infco/internal/middleware"
	"infco/internal/services"
	"infco/internal/validator"

	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, map[string]string{"error": code})
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var serviceErrors = []errorMapping{
	{services.ErrContentNotFound, http.StatusNotFound, "content_not_found"},
	{services.ErrContentNotPending, http.StatusBadRequest, "content_not_pending"},
	{services.ErrContentExists, http.StatusBadRequest, "content_exists"},
	{services.ErrCampaignNotFound, http.StatusNotFound, "campaign_not_found"},
	{services.ErrCampaignNotPending, http.StatusBadRequest, "campaign_not_pending"},
	{services.ErrCampaignNotActive, http.StatusBadRequest, "campaign_not_active"},
	{services.ErrInvalidCampaign, http.StatusBadRequest, "invalid_campaign"},
	{services.ErrSlugTaken, http.StatusConflict, "slug_taken"},
	{services.ErrApplicationExists, http.StatusConflict, "already_applied"},
	{services.ErrApplicationInvalid, http.StatusBadRequest, "invalid_application"},
	{services.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{services.ErrProfileIncomplete, http.StatusBadRequest, "profile_incomplete"},
	{services.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{services.ErrUserNotPending, http.StatusBadRequest, "user_not_pending"},
	{services.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{services.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{services.ErrMissingProfile, http.StatusBadRequest, "missing_profile_fields"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{services.ErrNotApproved, http.StatusForbidden, "account_not_approved"},
	{services.ErrRoleMismatch, http.StatusForbidden, "role_mismatch"},
	{services.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{services.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
	{services.ErrWalletNotFound, http.StatusNotFound, "wallet_not_found"},
}

// respondServiceError maps business errors to their HTTP status. Anything
// else is logged and reported as a bare internal_error.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			respondError(w, m.status, m.code)
			return
		}
	}
	zap.L().Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "internal_error")
}

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
// It writes the 400 response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return false
	}
	if err := validator.Struct(dst); err != nil {
		var fieldErr validator.FieldError
		if errors.As(err, &fieldErr) {
			respondError(w, http.StatusBadRequest, fieldErr.Code())
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated")
	}
	return userID, ok
}

func pageParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
