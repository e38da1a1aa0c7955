package prom

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/tricktrack/pkg/observability"
)

func TestPipelineMetrics(t *testing.T) {
	h := New(nil)
	ctx := context.Background()

	h.OnGrowComplete(ctx, 40, 25, time.Millisecond, nil)
	h.OnEvolveComplete(ctx, 3, time.Millisecond)
	h.OnExtractComplete(ctx, 5, 4, time.Millisecond, nil)
	h.OnExtractComplete(ctx, 5, 0, time.Millisecond, errors.New("cancelled"))

	if got := testutil.CollectAndCount(h.StageDuration); got != 3 {
		t.Errorf("StageDuration series = %d, want 3", got)
	}
	if got := testutil.ToFloat64(h.StageErrors.WithLabelValues(StageExtract)); got != 1 {
		t.Errorf("StageErrors[extract] = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.StageErrors.WithLabelValues(StageGrow)); got != 0 {
		t.Errorf("StageErrors[grow] = %v, want 0", got)
	}
}

func TestCacheMetrics(t *testing.T) {
	h := New(nil)
	ctx := context.Background()

	h.OnCacheMiss(ctx, "result")
	h.OnCacheSet(ctx, "result", 512)
	h.OnCacheHit(ctx, "result")
	h.OnCacheHit(ctx, "result")

	tests := []struct {
		result string
		want   float64
	}{
		{"hit", 2},
		{"miss", 1},
		{"set", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(h.CacheEvents.WithLabelValues("result", tt.result)); got != tt.want {
			t.Errorf("CacheEvents[result,%s] = %v, want %v", tt.result, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(h.CacheWritten.WithLabelValues("result")); got != 512 {
		t.Errorf("CacheWritten[result] = %v, want 512", got)
	}
}

func TestHTTPMetrics(t *testing.T) {
	h := New(nil)
	ctx := context.Background()

	h.OnRequest(ctx, "GET", "/healthz")
	if got := testutil.ToFloat64(h.InFlight); got != 1 {
		t.Errorf("InFlight = %v, want 1", got)
	}
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	if got := testutil.ToFloat64(h.InFlight); got != 0 {
		t.Errorf("InFlight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(h.Requests.WithLabelValues("GET", "/healthz", "200")); got != 1 {
		t.Errorf("Requests[GET,/healthz,200] = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	h.OnCacheHit(context.Background(), "artifact")

	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `tricktrack_cache_events_total{key_type="artifact",result="hit"} 1`) {
		t.Errorf("metrics output missing cache counter:\n%s", body)
	}
}

func TestRegister(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	h := New(nil)
	h.Register()
	if observability.Pipeline() != observability.PipelineHooks(h) {
		t.Error("Register() did not install pipeline hooks")
	}
	if observability.Cache() != observability.CacheHooks(h) {
		t.Error("Register() did not install cache hooks")
	}
	if observability.HTTP() != observability.HTTPHooks(h) {
		t.Error("Register() did not install HTTP hooks")
	}
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("New() twice on one registry should panic")
		}
	}()
	New(reg)
}
