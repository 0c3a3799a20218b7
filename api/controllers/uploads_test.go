package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/internal/uploads"
	"github.com/angelmondragon/resellernumbers-backend/pkg/config"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

type testUploadService struct {
	processFn func(ctx context.Context, userID uuid.UUID, kind enums.DataKind, csvText string) (*uploads.Result, error)
}

func (s *testUploadService) Process(ctx context.Context, userID uuid.UUID, kind enums.DataKind, csvText string) (*uploads.Result, error) {
	if s.processFn != nil {
		return s.processFn(ctx, userID, kind, csvText)
	}
	return &uploads.Result{Kind: kind}, nil
}

const inventoryCSV = "Title,Current price,Available quantity\nVintage Tee,$20.00,2\n"

func TestUploadSuccess(t *testing.T) {
	userID := uuid.New()
	var gotKind enums.DataKind
	var gotText string
	svc := &testUploadService{
		processFn: func(ctx context.Context, uid uuid.UUID, kind enums.DataKind, csvText string) (*uploads.Result, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			gotKind, gotText = kind, csvText
			return &uploads.Result{UploadID: uuid.New(), Kind: kind, Stats: ingest.Stats{Kind: kind, Kept: 1}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/sales", strings.NewReader(inventoryCSV))
	req.Header.Set("Content-Type", "text/csv")
	req = addRouteParam(withUser(req, userID), "kind", "sales")
	resp := httptest.NewRecorder()
	Upload(svc, 1<<20, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotKind != enums.DataKindSold {
		t.Fatalf("expected sold kind, got %q", gotKind)
	}
	if gotText != inventoryCSV {
		t.Fatalf("unexpected csv text %q", gotText)
	}
	var envelope struct {
		Data struct {
			Kind  string `json:"kind"`
			Stats struct {
				Kept int `json:"kept"`
			} `json:"stats"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Kind != "sold" || envelope.Data.Stats.Kept != 1 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestUploadRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/inventory", strings.NewReader(inventoryCSV))
	req = addRouteParam(req, "kind", "inventory")
	resp := httptest.NewRecorder()
	Upload(&testUploadService{}, 1<<20, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestUploadRejectsUnknownKind(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/orders", strings.NewReader(inventoryCSV))
	req = addRouteParam(withUser(req, uuid.New()), "kind", "orders")
	resp := httptest.NewRecorder()
	Upload(&testUploadService{}, 1<<20, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUploadSurfacesSyncConflict(t *testing.T) {
	svc := &testUploadService{
		processFn: func(context.Context, uuid.UUID, enums.DataKind, string) (*uploads.Result, error) {
			return nil, pkgerrors.New(pkgerrors.CodeSyncInProgress, "sync already running")
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/inventory", strings.NewReader(inventoryCSV))
	req = addRouteParam(withUser(req, uuid.New()), "kind", "inventory")
	resp := httptest.NewRecorder()
	Upload(svc, 1<<20, testLogger())(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestUploadRejectsOversizedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/inventory", strings.NewReader(inventoryCSV))
	req = addRouteParam(withUser(req, uuid.New()), "kind", "inventory")
	resp := httptest.NewRecorder()
	Upload(&testUploadService{}, 8, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAnalyzeInventoryCSV(t *testing.T) {
	cfg := config.AnalyticsConfig{QualifiedCollectionMin: 3, Timezone: "UTC"}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/inventory", strings.NewReader(inventoryCSV))
	req = addRouteParam(req, "kind", "inventory")
	resp := httptest.NewRecorder()
	Analyze(cfg, 1<<20, nil, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Kind      string          `json:"kind"`
			Inventory json.RawMessage `json:"inventory"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Kind != "inventory" || len(envelope.Data.Inventory) == 0 {
		t.Fatalf("expected inventory summary, got %s", resp.Body.String())
	}
}

func TestAnalyzeHeaderOnlyIsFormatError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/unsold", strings.NewReader("Title,Start price\n"))
	req = addRouteParam(req, "kind", "unsold")
	resp := httptest.NewRecorder()
	Analyze(config.AnalyticsConfig{}, 1<<20, nil, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), string(pkgerrors.CodeFormat)) {
		t.Fatalf("expected format error code, got %s", resp.Body.String())
	}
}
