package telemetry_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualMeter(t *testing.T) (metric.Meter, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp.Meter("test"), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %q not collected", name)
	return metricdata.Metrics{}
}

func attrString(set attribute.Set, key attribute.Key) string {
	v, ok := set.Value(key)
	if !ok {
		return ""
	}
	return v.Emit()
}

func TestHTTPMetrics(t *testing.T) {
	meter, reader := newManualMeter(t)
	m, err := telemetry.NewHTTPMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.Start(ctx, http.MethodGet)("/api/v1/customers/:id", http.StatusOK)
	m.Start(ctx, http.MethodGet)("/api/v1/customers/:id", http.StatusNotFound)
	pending := m.Start(ctx, http.MethodPost)

	rm := collect(t, reader)

	requests := findMetric(t, rm, "http.server.request.count").Data.(metricdata.Sum[int64])
	require.Len(t, requests.DataPoints, 2)
	for _, dp := range requests.DataPoints {
		assert.Equal(t, int64(1), dp.Value)
		assert.Equal(t, "/api/v1/customers/:id", attrString(dp.Attributes, telemetry.AttrHTTPRoute))
	}

	active := findMetric(t, rm, "http.server.active_requests").Data.(metricdata.Sum[int64])
	byMethod := map[string]int64{}
	for _, dp := range active.DataPoints {
		byMethod[attrString(dp.Attributes, telemetry.AttrHTTPMethod)] = dp.Value
	}
	assert.Equal(t, int64(0), byMethod[http.MethodGet])
	assert.Equal(t, int64(1), byMethod[http.MethodPost])

	duration := findMetric(t, rm, "http.server.request.duration").Data.(metricdata.Histogram[float64])
	assert.Len(t, duration.DataPoints, 2)

	pending("/api/v1/customers", http.StatusCreated)
}

func TestRepositoryMetrics(t *testing.T) {
	meter, reader := newManualMeter(t)
	m, err := telemetry.NewRepositoryMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.Record(ctx, "save", telemetry.OutcomeOK, 0)
	m.Record(ctx, "save", telemetry.OutcomeOK, 0)
	m.Record(ctx, "update", telemetry.OutcomeNotFound, 0)

	ops := findMetric(t, collect(t, reader), "customers.repository.operations").Data.(metricdata.Sum[int64])
	got := map[string]int64{}
	for _, dp := range ops.DataPoints {
		got[attrString(dp.Attributes, telemetry.AttrOperation)+"/"+attrString(dp.Attributes, telemetry.AttrOutcome)] = dp.Value
	}
	assert.Equal(t, map[string]int64{"save/ok": 2, "update/not_found": 1}, got)
}
