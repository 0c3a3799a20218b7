package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/history"
	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
)

func TestReportSalesCSV(t *testing.T) {
	var got history.Filter
	svc := &testHistoryService{salesFn: func(_ context.Context, _ uuid.UUID, filter history.Filter) ([]ingest.SoldRecord, error) {
		got = filter
		return []ingest.SoldRecord{{
			Title:       "Vintage Tee",
			SoldPrice:   decimal.RequireFromString("24.5"),
			SaleDate:    time.Date(2024, time.September, 17, 0, 0, 0, 0, time.UTC),
			Quantity:    1,
			CustomLabel: "Estate Sale",
		}}, nil
	}}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales.csv?from=2024-09-01", nil), uuid.New())
	resp := httptest.NewRecorder()
	ReportSalesCSV(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, history.Unbounded, got.Limit)
	assert.False(t, got.From.IsZero())
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "sales.csv")

	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Sale Date,Item Title"))
	assert.Contains(t, lines[1], "Vintage Tee")
	assert.Contains(t, lines[1], "24.50")
}

func TestReportSummary(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary.txt", nil), uuid.New())
	resp := httptest.NewRecorder()
	ReportSummary(&testAnalyticsService{}, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Body.String(), "Reseller Numbers summary")
	assert.Contains(t, resp.Body.String(), "No collections with a matching purchase.")
}

func TestAnalyticsSalesPassesRange(t *testing.T) {
	var got struct{ from, to time.Time }
	svc := &testAnalyticsService{salesFn: func(_ context.Context, _ uuid.UUID, r analytics.Range) (*analytics.SalesReport, error) {
		got.from, got.to = r.From, r.To
		return &analytics.SalesReport{}, nil
	}}
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/sales?from=Sep-01-24&to=Sep-30-24", nil), uuid.New())
	resp := httptest.NewRecorder()
	AnalyticsSales(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, got.from.Day())
	assert.Equal(t, 30, got.to.Day())
}

func TestAnalyticsSalesRejectsBadDate(t *testing.T) {
	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/analytics/sales?to=later", nil), uuid.New())
	resp := httptest.NewRecorder()
	AnalyticsSales(&testAnalyticsService{}, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
