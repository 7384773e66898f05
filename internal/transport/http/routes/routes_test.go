package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/infra/config"
	"github.com/Balerman2/CallShift/internal/infra/security"
	"github.com/Balerman2/CallShift/internal/infra/telemetry"
	httproutes "github.com/Balerman2/CallShift/internal/transport/http/routes"
)

func testConfig() *config.AppConfig {
	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}
	cfg.Admin = config.AdminSettings{
		Username:  "admin",
		Password:  "secure_password",
		SecretKey: "dev_secret_key",
		TokenTTL:  24 * time.Hour,
	}
	return cfg
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()
	cfg := testConfig()

	return httproutes.Register(httproutes.Dependencies{
		Config:      cfg,
		Logger:      logger,
		AdminTokens: security.NewAdminTokenManager(cfg.Admin.SecretKey, cfg.Admin.TokenTTL),
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessEndpointWithoutChecks(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsMiddlewareRegistersAlongsideProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()
	cfg := testConfig()

	if _, err := telemetry.Attach(context.Background(), cfg); err != nil {
		t.Fatalf("attach telemetry: %v", err)
	}

	r := httproutes.Register(httproutes.Dependencies{
		Config:      cfg,
		Logger:      logger,
		AdminTokens: security.NewAdminTokenManager(cfg.Admin.SecretKey, cfg.Admin.TokenTTL),
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "callshift_http_requests_total") {
		t.Fatal("expected http request series in metrics output")
	}
}

func TestTokenEndpointIssuesBearerToken(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/token", nil)
	req.SetBasicAuth("admin", "secure_password")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var payload struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
		ExpiresIn int    `json:"expires_in"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal token response: %v", err)
	}
	if payload.Token == "" {
		t.Error("expected non-empty token")
	}
	if payload.TokenType != "Bearer" {
		t.Errorf("unexpected token_type %q", payload.TokenType)
	}
	if payload.ExpiresIn != int((24 * time.Hour).Seconds()) {
		t.Errorf("unexpected expires_in %d", payload.ExpiresIn)
	}
}

func TestTokenEndpointRejectsBadCredentials(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/token", nil)
	req.SetBasicAuth("admin", "wrong")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestEngine()

	for _, path := range []string{"/admin/users", "/admin/audit"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401 for %s, got %d", path, w.Code)
		}
	}
}
