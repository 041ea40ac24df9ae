package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func tracedRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Tracing(TracingConfig{ServiceName: "customers-api", Enabled: true}), SpanEnricher())
	router.GET("/customers/:id", func(c *gin.Context) {
		if c.Param("id") == "boom" {
			_ = c.Error(assert.AnError)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func findAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}), SpanEnricher())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_TagsRequestID(t *testing.T) {
	sr := setupTestTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/customers/7", nil)
	req.Header.Set(RequestIDHeader, "trace-req-1")
	w := httptest.NewRecorder()
	tracedRouter().ServeHTTP(w, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /customers/:id", spans[0].Name())
	v, ok := findAttr(spans[0].Attributes(), "request_id")
	require.True(t, ok)
	assert.Equal(t, "trace-req-1", v.AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_MarksServerErrors(t *testing.T) {
	sr := setupTestTracer(t)

	w := httptest.NewRecorder()
	tracedRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers/boom", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	_, ok := findAttr(spans[0].Attributes(), "error.message")
	assert.True(t, ok)
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := telemetry.NewHTTPMetrics(mp.Meter("test"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetrics(metrics))
	router.GET("/customers/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/customers/1", "/customers/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.request.count" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
				counts[route.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{"/customers/:id": 2, unmatchedRoute: 1}, counts)
}

func TestHTTPMetricsMiddleware_Nil(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
