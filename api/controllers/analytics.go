package controllers

import (
	"net/http"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	"github.com/angelmondragon/resellernumbers-backend/api/validators"
	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

func AnalyticsInventory(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "analytics service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		summary, err := svc.Inventory(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// AnalyticsSales accepts optional from/to query dates.
func AnalyticsSales(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "analytics service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		report, err := svc.Sales(r.Context(), userID, analytics.Range{From: from, To: to})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func AnalyticsCustomers(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "analytics service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		summary, err := svc.Customers(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func AnalyticsCollections(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "analytics service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		report, err := svc.Collections(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func AnalyticsDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "analytics service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		dash, err := svc.Dashboard(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dash)
	}
}
