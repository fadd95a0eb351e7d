package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Ctsong73/fathom-microservice/internal/model"
)

func TestDisabledCache_NoOps(t *testing.T) {
	c := NewDisabled()
	ctx := context.Background()

	if c.Enabled() {
		t.Fatal("expected disabled cache")
	}
	if got := c.FetchResult(ctx, "C"); got != nil {
		t.Errorf("expected absent fetch result, got %+v", got)
	}
	if got := c.Momentum(ctx, "C"); got != nil {
		t.Errorf("expected absent momentum, got %+v", got)
	}

	// Sets and invalidations must be silent no-ops, never panics.
	c.SetFetchResult(ctx, "C", &model.FetchResult{Symbol: "C", Count: 1, Timestamp: time.Now()})
	c.SetMomentum(ctx, "C", &model.MomentumSummary{Symbol: "C"})
	c.Invalidate(ctx, "C")
	c.DropMomentum(ctx, "C")

	if err := c.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestDisabledCache_Stats(t *testing.T) {
	stats := NewDisabled().CacheStats(context.Background())
	if stats.Status != "disabled" {
		t.Errorf("expected disabled status, got %q", stats.Status)
	}
}

func TestNew_UnreachableBackendDegrades(t *testing.T) {
	// Port 1 is never a redis server; construction must still succeed.
	c := New("127.0.0.1", 1, 0, time.Hour, 5*time.Minute)
	if c == nil {
		t.Fatal("expected a cache instance")
	}
	if c.Enabled() {
		t.Error("expected degraded mode against unreachable backend")
	}
	if got := c.FetchResult(context.Background(), "C"); got != nil {
		t.Errorf("expected absent result in degraded mode, got %+v", got)
	}
}

func TestParseInfo(t *testing.T) {
	info := "# Clients\r\nconnected_clients:3\r\ncluster_connections:0\r\n"

	if got := parseInfoInt(info, "connected_clients"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := parseInfoInt(info, "missing_field"); got != 0 {
		t.Errorf("expected 0 for missing field, got %d", got)
	}
	if got := parseInfoStr("used_memory_human:1.05M\r\n", "used_memory_human"); got != "1.05M" {
		t.Errorf("expected 1.05M, got %q", got)
	}
}
