package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/resellernumbers-backend/internal/collections"
	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

type testCollectionService struct {
	collections.Service

	createFn func(ctx context.Context, userID uuid.UUID, input collections.Input) (*collections.DTO, error)
	deleteFn func(ctx context.Context, userID, id uuid.UUID) error
}

func (s *testCollectionService) Create(ctx context.Context, userID uuid.UUID, input collections.Input) (*collections.DTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, userID, input)
	}
	return &collections.DTO{ID: uuid.New(), Name: input.Name, Cost: input.Cost}, nil
}

func (s *testCollectionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, userID, id)
	}
	return nil
}

func TestCollectionCreate(t *testing.T) {
	userID := uuid.New()
	var got collections.Input
	svc := &testCollectionService{createFn: func(_ context.Context, uid uuid.UUID, input collections.Input) (*collections.DTO, error) {
		require.Equal(t, userID, uid)
		got = input
		return &collections.DTO{ID: uuid.New(), Name: input.Name, Cost: input.Cost}, nil
	}}
	cache := &testAnalyticsService{}

	body := `{"name":"Estate Sale","cost":"150.00","purchase_date":"2024-09-01T00:00:00Z"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/collections", strings.NewReader(body)), userID)
	resp := httptest.NewRecorder()
	CollectionCreate(svc, cache, testLogger())(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, "Estate Sale", got.Name)
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(150)))
	assert.Len(t, cache.invalidated, 1)
}

func TestCollectionCreateValidation(t *testing.T) {
	cache := &testAnalyticsService{}
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/collections", strings.NewReader(`{"cost":"10"}`)), uuid.New())
	resp := httptest.NewRecorder()
	CollectionCreate(&testCollectionService{}, cache, testLogger())(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, cache.invalidated)
}

func TestCollectionCreateRejectsUnknownFields(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/collections", strings.NewReader(`{"name":"x","colour":"red"}`)), uuid.New())
	resp := httptest.NewRecorder()
	CollectionCreate(&testCollectionService{}, nil, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCollectionDelete(t *testing.T) {
	id := uuid.New()
	svc := &testCollectionService{deleteFn: func(_ context.Context, _, got uuid.UUID) error {
		if got != id {
			return pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
		}
		return nil
	}}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/collections/"+id.String(), nil)
	req = addRouteParam(withUser(req, uuid.New()), "collectionId", id.String())
	resp := httptest.NewRecorder()
	CollectionDelete(svc, nil, testLogger())(resp, req)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	other := uuid.NewString()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/collections/"+other, nil)
	req = addRouteParam(withUser(req, uuid.New()), "collectionId", other)
	resp = httptest.NewRecorder()
	CollectionDelete(svc, nil, testLogger())(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCollectionDeleteInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/collections/nope", nil)
	req = addRouteParam(withUser(req, uuid.New()), "collectionId", "nope")
	resp := httptest.NewRecorder()
	CollectionDelete(&testCollectionService{}, nil, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

type testMetricsService struct {
	saved profitability.BusinessMetrics
}

func (s *testMetricsService) Get(context.Context, uuid.UUID) (profitability.BusinessMetrics, error) {
	return s.saved, nil
}

func (s *testMetricsService) Save(_ context.Context, _ uuid.UUID, input profitability.BusinessMetrics) (profitability.BusinessMetrics, error) {
	s.saved = input
	return input, nil
}

func TestBusinessMetricsSave(t *testing.T) {
	svc := &testMetricsService{}
	cache := &testAnalyticsService{}
	body := `{"minutes_per_item":"12","ideal_hourly_rate":"25","avg_fee_percent":"13.25","tax_bracket":"22"}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/business-metrics", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	BusinessMetricsSave(svc, cache, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.True(t, svc.saved.AvgFeePercent.Equal(decimal.RequireFromString("13.25")))
	assert.Len(t, cache.invalidated, 1)
}
