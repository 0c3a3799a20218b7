package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

// AccessChecker decides whether a user may read or write analytics data.
type AccessChecker interface {
	CheckAccess(ctx context.Context, id uuid.UUID) error
}

// RequireApproved rejects users whose profile is not approved or whose trial ended.
func RequireApproved(checker AccessChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserUUIDFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}
			if checker != nil {
				if err := checker.CheckAccess(r.Context(), userID); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
