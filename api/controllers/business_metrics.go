package controllers

import (
	"net/http"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	"github.com/angelmondragon/resellernumbers-backend/api/validators"
	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/businessmetrics"
	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

func BusinessMetricsGet(svc businessmetrics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business metrics service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		m, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, m)
	}
}

func BusinessMetricsSave(svc businessmetrics.Service, cache analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "business metrics service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var input profitability.BusinessMetrics
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved, err := svc.Save(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invalidate(r, cache, logg, userID)
		responses.WriteSuccess(w, saved)
	}
}
