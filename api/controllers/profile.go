package controllers

import (
	"net/http"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	"github.com/angelmondragon/resellernumbers-backend/internal/profiles"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

// ProfileMe returns the caller's account and whether it may use the app.
// It is served before the approval gate so pending users can see their status.
func ProfileMe(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "profile service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		p, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profileResponse{
			ID:                 p.ID.String(),
			Email:              p.Email,
			FullName:           p.FullName,
			Status:             p.Status,
			SubscriptionStatus: p.SubscriptionStatus,
			TrialEndsAt:        p.TrialEndsAt,
			ApprovedAt:         p.ApprovedAt,
			Allowed:            svc.CheckAccess(r.Context(), userID) == nil,
		})
	}
}
