package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	"github.com/angelmondragon/resellernumbers-backend/api/validators"
	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/uploads"
	"github.com/angelmondragon/resellernumbers-backend/pkg/config"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
	"github.com/angelmondragon/resellernumbers-backend/pkg/metrics"
)

// Upload parses a CSV for the kind in the path and syncs it into the
// caller's history.
func Upload(svc uploads.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "upload service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		kind, err := validators.ParseDataKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		text, err := validators.ReadCSVBody(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Process(r.Context(), userID, kind, text)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// Analyze returns the summaries for one CSV without storing anything.
func Analyze(cfg config.AnalyticsConfig, maxBytes int64, observer *metrics.IngestMetrics, logg *logger.Logger) http.HandlerFunc {
	opts := analytics.CSVOptions{PoolUnknown: cfg.PoolUnidentifiedBuyers, QualifiedMin: cfg.QualifiedCollectionMin}
	loc := cfg.Location()
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := validators.ParseDataKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		text, err := validators.ReadCSVBody(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		started := time.Now()
		report, err := analytics.AnalyzeCSV(kind, text, time.Now().In(loc), opts)
		observer.ObserveParse(kind.String(), time.Since(started))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		observer.ObserveRows(kind.String(), report.Stats.Kept, report.Stats.Dropped)
		responses.WriteSuccess(w, report)
	}
}
