package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"infco/internal/auth"
	"infco/internal/models"

	"go.uber.org/zap"
)

type PrincipalStore interface {
	GetPrincipal(ctx context.Context, userID string) (auth.Principal, error)
}

// RequireRole loads the caller's persisted role and status and applies
// auth.Authorize. With no roles it only requires an approved account.
func RequireRole(principals PrincipalStore, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthenticated")
				return
			}
			principal, err := principals.GetPrincipal(r.Context(), userID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeError(w, http.StatusUnauthorized, "unauthenticated")
					return
				}
				zap.L().Error("load principal", zap.String("user_id", userID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			}
			switch err := auth.Authorize(principal, roles...); {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrUnauthenticated):
				writeError(w, http.StatusUnauthorized, "unauthenticated")
			case errors.Is(err, auth.ErrNotApproved):
				writeError(w, http.StatusForbidden, "account_not_approved")
			default:
				writeError(w, http.StatusForbidden, "forbidden")
			}
		})
	}
}
