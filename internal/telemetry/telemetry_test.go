package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/firehallhq/cadintel/internal/telemetry"
)

// providerOnce ensures we only create one Provider per test run to avoid
// duplicate Prometheus metric registration errors from promauto's global registry
var (
	testProvider *telemetry.Provider
	providerOnce sync.Once
)

func getTestProvider(t *testing.T) *telemetry.Provider {
	t.Helper()
	providerOnce.Do(func() {
		testProvider = telemetry.NewProvider()
	})
	return testProvider
}

func TestNewProvider(t *testing.T) {
	provider := getTestProvider(t)
	if provider == nil {
		t.Fatal("expected non-nil provider")
	}
	if provider.Tracer == nil {
		t.Error("expected non-nil tracer")
	}
	if provider.Metrics == nil {
		t.Error("expected non-nil metrics")
	}
}

func TestRecordParse(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	// Should not panic
	provider.RecordParse(ctx, false, 10*time.Millisecond)
	provider.RecordParse(ctx, true, 5*time.Millisecond)
	provider.RecordComment(ctx, "PATTERN", true, false)
	provider.RecordComment(ctx, "ML", false, true)
	provider.RecordDetection(ctx, "HIGH", true)
}

func TestRecordRetrain(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	// Should not panic
	provider.RecordRetrain(ctx, "manual", nil, 0.91, 120)
	provider.RecordRetrain(ctx, "scheduled", errors.New("corpus too small"), 0, 0)
}
