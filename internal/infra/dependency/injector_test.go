package dependency

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/db"
	"github.com/finance-tracker/ledger/internal/integration/notification"
)

func newTestInjector(t *testing.T) *Injector {
	t.Helper()

	cfg := config.Defaults()
	cfg.Server.Environment = "test"
	cfg.JWT.BcryptCost = bcrypt.MinCost
	cfg.Database.URL = "sqlite://file:injectortest?mode=memory&cache=shared"

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := database.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewInjector(cfg, database.DB(), Options{Feed: notification.NewLogFeed()})
}

func serve(engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestNewInjector_HealthReportsLogOnlyNotifications(t *testing.T) {
	injector := newTestInjector(t)
	engine := injector.Router.Setup("test")

	rec := serve(engine, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["database"] != "connected" {
		t.Errorf("expected connected database, got %q", body["database"])
	}
	if body["notifications"] != "log-only" {
		t.Errorf("expected log-only notifications, got %q", body["notifications"])
	}
}

func TestNewInjector_RegisterThenDashboard(t *testing.T) {
	injector := newTestInjector(t)
	engine := injector.Router.Setup("test")

	rec := serve(engine, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":          "wired@example.com",
		"name":           "Wired",
		"password":       "Secret123",
		"terms_accepted": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var auth struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &auth); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	rec = serve(engine, http.MethodGet, "/api/v1/dashboard", auth.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if injector.Dashboards.Len() != 1 {
		t.Errorf("expected one dashboard view, got %d", injector.Dashboards.Len())
	}

	var dashboard struct {
		Transactions []any `json:"transactions"`
		Summary      struct {
			Balance struct {
				Amount string `json:"amount"`
			} `json:"balance"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dashboard); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(dashboard.Transactions) != 0 {
		t.Errorf("expected no transactions, got %d", len(dashboard.Transactions))
	}
	if dashboard.Summary.Balance.Amount != "0.00" {
		t.Errorf("expected zero balance, got %q", dashboard.Summary.Balance.Amount)
	}
}
