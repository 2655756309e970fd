package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ovolkov/spimexpulse/internal/domain/dto"
	"github.com/ovolkov/spimexpulse/internal/service"
)

var _ service.TradingResultsService = (*fakeResultsService)(nil)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeResultsService{dates: []time.Time{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}}
	r := NewRouter(NewHandler(svc))

	// Hit the dates route through the router created by NewRouter
	w := doGet(t, r, "/api/v1/dates?limit=1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Ensure RequestID middleware injected header
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out dto.TradingDatesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(out.Dates) != 1 || out.Dates[0] != "2024-04-01" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestNewRouter_UnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := NewRouter(NewHandler(&fakeResultsService{}))
	w := doGet(t, r, "/api/v1/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
