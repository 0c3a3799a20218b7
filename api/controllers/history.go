package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	"github.com/angelmondragon/resellernumbers-backend/api/validators"
	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/history"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

const maxUploadListLimit = 100

// HistoryList returns stored records for the kind in the path. Query
// parameters: from, to, limit and (inventory only) status.
func HistoryList(svc history.Service, maxLimit int, logg *logger.Logger) http.HandlerFunc {
	if maxLimit <= 0 {
		maxLimit = history.DefaultQueryLimit
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "history service")
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
		filter, err := historyFilter(r, maxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var records any
		switch kind {
		case enums.DataKindInventory:
			records, err = svc.Inventory(r.Context(), userID, filter)
		case enums.DataKindSold:
			records, err = svc.Sales(r.Context(), userID, filter)
		case enums.DataKindUnsold:
			records, err = svc.Unsold(r.Context(), userID, filter)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"kind": kind, "records": records})
	}
}

func historyFilter(r *http.Request, maxLimit int) (history.Filter, error) {
	var filter history.Filter
	var err error
	if filter.From, err = validators.ParseQueryDate(r, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = validators.ParseQueryDate(r, "to"); err != nil {
		return filter, err
	}
	if filter.Limit, err = validators.ParseQueryInt(r, "limit", maxLimit, 1, maxLimit); err != nil {
		return filter, err
	}
	if raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))); raw != "" {
		status, err := enums.ParseInventoryStatus(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").WithDetails(map[string]any{"field": "status"})
		}
		filter.Status = status
	}
	return filter, nil
}

// HistoryClear deletes every stored record and upload snapshot of the caller.
func HistoryClear(svc history.Service, cache analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "history service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		if err := svc.ClearAll(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if cache != nil {
			if err := cache.Invalidate(r.Context(), userID); err != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "analytics cache invalidation failed")
			}
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}

func SyncStatus(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "history service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		status, err := svc.SyncStatus(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, syncStatusResponse{
			LastInventorySync:   status.LastInventorySync,
			TotalInventoryItems: status.TotalInventoryItems,
			LastSalesSync:       status.LastSalesSync,
			TotalSales:          status.TotalSales,
			LastUnsoldSync:      status.LastUnsoldSync,
			TotalUnsold:         status.TotalUnsold,
		})
	}
}

// UploadList returns the caller's most recent upload snapshots.
func UploadList(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "history service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, maxUploadListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.Uploads(r.Context(), userID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]uploadResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newUploadResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

// LatestUpload returns the newest upload of the kind in the path together
// with the records parsed from it.
func LatestUpload(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "history service")
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
		upload, err := svc.LatestUpload(r.Context(), userID, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, latestUploadResponse{
			uploadResponse: newUploadResponse(*upload),
			Records:        upload.Records,
		})
	}
}
