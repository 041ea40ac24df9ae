package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	appcustomer "github.com/hitzu/taxdown-tech-challenge/internal/application/customer"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/config"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/persistence"
	"github.com/hitzu/taxdown-tech-challenge/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "customers-api", Env: config.EnvTest, Port: "3000"},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: ":memory:",
		},
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			CORSAllowMethods: []string{"GET", "POST"},
			CORSAllowHeaders: []string{"Content-Type"},
		},
		Swagger:   config.SwaggerConfig{Enabled: true},
		Telemetry: config.TelemetryConfig{ServiceName: "customers-api"},
	}
}

func testEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	log := zaptest.NewLogger(t)

	db, err := persistence.NewDatabase(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrateSchema(cfg, db, log))

	providers, err := telemetry.Setup(t.Context(), cfg.Telemetry, log)
	require.NoError(t, err)
	repo, err := customerRepository(cfg, db, providers, log)
	require.NoError(t, err)

	return newEngine(cfg, log, db, appcustomer.NewCustomerService(repo), nil)
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewEngine_CustomerLifecycle(t *testing.T) {
	engine := testEngine(t, testConfig())

	w := serve(engine, http.MethodPost, "/api/v1/customers",
		`{"name":"Ada","email":"ada@example.com","phoneNumber":"600000000","initialAvailableCredit":100}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = serve(engine, http.MethodPatch, "/api/v1/customers/1/available-credit", `{"availableCredit":-40}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/customers/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"availableCredit":"60"`)

	w = serve(engine, http.MethodDelete, "/api/v1/customers/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = serve(engine, http.MethodGet, "/api/v1/customers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestNewEngine_Health(t *testing.T) {
	engine := testEngine(t, testConfig())

	w := serve(engine, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
}

func TestNewEngine_Swagger(t *testing.T) {
	t.Run("served when enabled", func(t *testing.T) {
		engine := testEngine(t, testConfig())
		w := serve(engine, http.MethodGet, "/swagger/doc.json", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/customers/{id}/available-credit")
	})

	t.Run("absent when disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Swagger.Enabled = false
		engine := testEngine(t, cfg)
		w := serve(engine, http.MethodGet, "/swagger/doc.json", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewEngine_BodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.MaxBodySize = 32
	engine := testEngine(t, cfg)

	w := serve(engine, http.MethodPost, "/api/v1/customers",
		`{"name":"Ada","email":"ada@example.com","phoneNumber":"600000000","initialAvailableCredit":100}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
