package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/customers"
	"github.com/angelmondragon/resellernumbers-backend/internal/inventory"
	"github.com/angelmondragon/resellernumbers-backend/internal/profiles"
	"github.com/angelmondragon/resellernumbers-backend/internal/uploads"
	pkgAuth "github.com/angelmondragon/resellernumbers-backend/pkg/auth"
	"github.com/angelmondragon/resellernumbers-backend/pkg/config"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
	"github.com/angelmondragon/resellernumbers-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubProfileService struct {
	status enums.ProfileStatus
}

func (s stubProfileService) profile(id uuid.UUID, email string) *models.Profile {
	return &models.Profile{ID: id, Email: email, Status: s.status, SubscriptionStatus: enums.SubscriptionStatusTrial}
}

func (s stubProfileService) Ensure(_ context.Context, id uuid.UUID, email string) (*models.Profile, error) {
	return s.profile(id, email), nil
}

func (s stubProfileService) Get(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.profile(id, ""), nil
}

func (s stubProfileService) CheckAccess(_ context.Context, id uuid.UUID) error {
	return profiles.Allowed(s.profile(id, ""))
}

func (stubProfileService) ExpireTrials(context.Context) (int64, error) {
	return 0, nil
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Inventory(context.Context, uuid.UUID) (*inventory.Summary, error) {
	return &inventory.Summary{}, nil
}

func (stubAnalyticsService) Sales(context.Context, uuid.UUID, analytics.Range) (*analytics.SalesReport, error) {
	return &analytics.SalesReport{}, nil
}

func (stubAnalyticsService) Customers(context.Context, uuid.UUID) (*customers.Summary, error) {
	return &customers.Summary{}, nil
}

func (stubAnalyticsService) Collections(context.Context, uuid.UUID) (*analytics.CollectionsReport, error) {
	return &analytics.CollectionsReport{}, nil
}

func (stubAnalyticsService) Dashboard(context.Context, uuid.UUID) (*analytics.Dashboard, error) {
	return &analytics.Dashboard{}, nil
}

func (stubAnalyticsService) Invalidate(context.Context, uuid.UUID) error {
	return nil
}

type stubUploadService struct {
	calls int
}

func (s *stubUploadService) Process(_ context.Context, _ uuid.UUID, kind enums.DataKind, _ string) (*uploads.Result, error) {
	s.calls++
	return &uploads.Result{UploadID: uuid.New(), Kind: kind}, nil
}

// stubRedis denies every request once the window allowance is used up and
// never stores idempotency records.
type stubRedis struct {
	stubPinger
	allowance int64
	seen      int64
}

func (s *stubRedis) Get(context.Context, string) (string, error) { return "", nil }

func (s *stubRedis) SetNX(context.Context, string, any, time.Duration) (bool, error) {
	return true, nil
}

func (s *stubRedis) IdempotencyKey(scope, id string) string { return scope + ":" + id }

func (s *stubRedis) Del(context.Context, ...string) error { return nil }

func (s *stubRedis) FixedWindowAllow(_ context.Context, _ string, limit int64, _ time.Duration) (bool, int64, error) {
	s.seen++
	return s.seen <= limit && s.seen <= s.allowance, s.seen, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0", MaxUploadMB: 1},
		Auth: config.AuthConfig{
			JWTSecret: "secret",
			Issuer:    "https://example.supabase.co/auth/v1",
			Audience:  "authenticated",
		},
		FeatureFlags: config.FeatureFlagsConfig{RateLimitUploads: 30},
		History:      config.HistoryConfig{QueryLimit: 100},
		Analytics:    config.AnalyticsConfig{QualifiedCollectionMin: 5, Timezone: "UTC"},
	}
}

type routerDeps struct {
	status   enums.ProfileStatus
	redis    redisClient
	uploads  *stubUploadService
	gatherer prometheus.Gatherer
}

func newTestRouter(cfg *config.Config, deps routerDeps) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	if deps.uploads == nil {
		deps.uploads = &stubUploadService{}
	}
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		deps.redis,
		deps.gatherer,
		nil,
		stubProfileService{status: deps.status},
		deps.uploads,
		nil,
		stubAnalyticsService{},
		nil,
		nil,
	)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.Auth, time.Now(), time.Hour, pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "seller@example.com",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), routerDeps{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAPIRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), routerDeps{status: enums.ProfileStatusApproved})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/dashboard", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPendingProfileSeesOnlyMe(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, routerDeps{status: enums.ProfileStatusPending})
	token := buildToken(t, cfg)

	me := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	me.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, me)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for /me got %d", resp.Code)
	}

	dash := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/dashboard", nil)
	dash.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, dash)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for pending profile got %d", resp.Code)
	}
}

func TestApprovedProfileReachesAnalytics(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, routerDeps{status: enums.ProfileStatusApproved})
	for _, path := range []string{
		"/api/v1/analytics/inventory",
		"/api/v1/analytics/sales?from=2024-01-01",
		"/api/v1/analytics/customers",
		"/api/v1/analytics/collections",
		"/api/v1/analytics/dashboard",
		"/api/v1/reports/summary.txt",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestUploadRouteRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	uploadsSvc := &stubUploadService{}
	router := newTestRouter(cfg, routerDeps{
		status:  enums.ProfileStatusApproved,
		redis:   &stubRedis{allowance: 10},
		uploads: uploadsSvc,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/inventory", strings.NewReader("Title,Price\nTee,5\n"))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/uploads/inventory", strings.NewReader("Title,Price\nTee,5\n"))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	req.Header.Set("Idempotency-Key", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if uploadsSvc.calls != 1 {
		t.Fatalf("expected one upload, got %d", uploadsSvc.calls)
	}
}

func TestUploadRouteIsRateLimited(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, routerDeps{
		status: enums.ProfileStatusApproved,
		redis:  &stubRedis{allowance: 1},
	})
	token := buildToken(t, cfg)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/sold", strings.NewReader("Title,Sold For\nTee,5\n"))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", uuid.NewString())
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 201 then 429, got %v", codes)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewIngestMetrics(reg)
	m.ObserveUpload("inventory", true)

	router := newTestRouter(testConfig(), routerDeps{gatherer: reg})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "reseller_") {
		t.Fatalf("expected reseller metrics in output")
	}
}
