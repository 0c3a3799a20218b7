package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/api/responses"
	"github.com/angelmondragon/resellernumbers-backend/api/validators"
	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/collections"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
)

func CollectionList(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "collection service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CollectionCreate(svc collections.Service, cache analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "collection service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var input collections.Input
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invalidate(r, cache, logg, userID)
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func CollectionUpdate(svc collections.Service, cache analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "collection service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "collectionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid collection id"))
			return
		}
		var input collections.Input
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Update(r.Context(), userID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invalidate(r, cache, logg, userID)
		responses.WriteSuccess(w, updated)
	}
}

func CollectionDelete(svc collections.Service, cache analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "collection service")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "collectionId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid collection id"))
			return
		}
		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invalidate(r, cache, logg, userID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// invalidate drops cached profitability after purchases or metrics change.
func invalidate(r *http.Request, cache analytics.Service, logg *logger.Logger, userID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(r.Context(), userID); err != nil && logg != nil {
		logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "analytics cache invalidation failed")
	}
}
