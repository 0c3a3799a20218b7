package controllers

import (
	"bytes"
	"net/http"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	"github.com/angelmondragon/resellernumbers-backend/api/validators"
	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/history"
	"github.com/angelmondragon/resellernumbers-backend/internal/reports"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

// ReportSalesCSV exports every stored sale in the optional from/to range.
func ReportSalesCSV(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "history service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		filter := history.Filter{Limit: history.Unbounded}
		var err error
		if filter.From, err = validators.ParseQueryDate(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filter.To, err = validators.ParseQueryDate(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sold, err := svc.Sales(r.Context(), userID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var buf bytes.Buffer
		if err := reports.WriteSalesCSV(&buf, sold); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render sales csv"))
			return
		}
		responses.WriteText(w, "text/csv; charset=utf-8", "sales.csv", buf.Bytes())
	}
}

func ReportSummary(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
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
		var buf bytes.Buffer
		if err := reports.WriteSummary(&buf, dash); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render summary"))
			return
		}
		responses.WriteText(w, "text/plain; charset=utf-8", "summary.txt", buf.Bytes())
	}
}
