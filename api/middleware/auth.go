package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	"github.com/angelmondragon/resellernumbers-backend/pkg/auth"
	"github.com/angelmondragon/resellernumbers-backend/pkg/config"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

// ProfileEnsurer creates the profile row on a user's first authenticated request.
type ProfileEnsurer interface {
	Ensure(ctx context.Context, id uuid.UUID, email string) (*models.Profile, error)
}

// Auth validates a Supabase bearer token and seeds the request context with
// the user id. When profiles is set, the user's profile is created on first sight.
func Auth(cfg config.AuthConfig, profiles ProfileEnsurer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := auth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid subject"))
				return
			}

			ctx := WithUserID(r.Context(), userID.String())
			ctx = withEmail(ctx, claims.Email)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}

			if profiles != nil {
				if _, err := profiles.Ensure(ctx, userID, claims.Email); err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
