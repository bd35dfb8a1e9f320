package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/lcorp/storefront/api/middleware"
	"github.com/lcorp/storefront/internal/cart"
	"github.com/lcorp/storefront/internal/session"
	"github.com/lcorp/storefront/pkg/config"
	"github.com/lcorp/storefront/pkg/enums"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/kvstore"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/metrics"
	"github.com/lcorp/storefront/pkg/models"
)

type stubAuthBackend struct {
	role enums.Role
}

func (s stubAuthBackend) Login(_ context.Context, in models.LoginRequest) (*models.LoginResponse, error) {
	if in.Password != "secret" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Incorrect username or password")
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test"))
	return &models.LoginResponse{AccessToken: token, TokenType: "bearer", Role: s.role, Username: in.Username}, nil
}

func (s stubAuthBackend) CurrentUser(context.Context) (*models.CurrentUser, error) {
	return &models.CurrentUser{ID: 7, Username: "ana", Role: s.role}, nil
}

func (stubAuthBackend) RegisterCustomer(_ context.Context, in models.CustomerRegister) (*models.CustomerRegisterResponse, error) {
	return &models.CustomerRegisterResponse{Username: in.Username}, nil
}

type stubProducts struct{}

func (stubProducts) GetProduct(_ context.Context, id int) (*models.Product, error) {
	return &models.Product{ID: id, Name: "Widget", SellingPrice: decimal.RequireFromString("4.99"), Stock: 10}, nil
}

func newTestRouter(t *testing.T, role enums.Role) http.Handler {
	t.Helper()
	store := kvstore.NewMemory(0)
	locks := session.NewLocks()
	logg := logger.Nop()

	sessions, err := session.NewManager(store, stubAuthBackend{role: role}, locks, logg)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	cartSvc, err := cart.NewService(store, stubProducts{}, locks, logg)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}

	cfg := &config.Config{
		App:       config.AppConfig{Env: "test"},
		Telemetry: config.TelemetryConfig{ServiceName: "storefront-test"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		Sessions: sessions,
		Cart:     cartSvc,
		Registry: metrics.NewRegistry(),
		Ready:    nil,
	})
}

func do(t *testing.T, h http.Handler, method, path, sid, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.Header.Set(middleware.SessionHeader, sid)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorDetails(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload struct {
		Error struct {
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload.Error.Details
}

func TestHealthLive(t *testing.T) {
	h := newTestRouter(t, enums.RoleCustomer)
	rec := do(t, h, http.MethodGet, "/health/live", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestCustomerRoutesRequireLogin(t *testing.T) {
	h := newTestRouter(t, enums.RoleCustomer)

	rec := do(t, h, http.MethodGet, "/api/customer/cart", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.SessionHeader) == "" {
		t.Fatalf("expected a session id to be issued")
	}
	if got := errorDetails(t, rec)["redirect"]; got != "/login" {
		t.Fatalf("expected redirect /login, got %v", got)
	}
}

func TestLoginThenCartAndAdminGate(t *testing.T) {
	h := newTestRouter(t, enums.RoleCustomer)

	first := do(t, h, http.MethodGet, "/api/auth/session", "", "")
	sid := first.Header().Get(middleware.SessionHeader)
	if !session.ValidID(sid) {
		t.Fatalf("expected issued session id, got %q", sid)
	}

	login := do(t, h, http.MethodPost, "/api/auth/login", sid, `{"username":"ana","password":"secret"}`)
	if login.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", login.Code, login.Body.String())
	}

	add := do(t, h, http.MethodPost, "/api/customer/cart/items", sid, `{"product_id":3}`)
	if add.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", add.Code, add.Body.String())
	}
	var envelope struct {
		Data cart.View `json:"data"`
	}
	if err := json.Unmarshal(add.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if envelope.Data.TotalItems != 1 || len(envelope.Data.Selected) != 1 {
		t.Fatalf("expected one auto-selected item, got %+v", envelope.Data)
	}

	admin := do(t, h, http.MethodGet, "/api/admin/dashboard", sid, "")
	if admin.Code != http.StatusUnauthorized {
		t.Fatalf("customer on admin route: expected 401, got %d", admin.Code)
	}
	if got := errorDetails(t, admin)["redirect"]; got != "/admin" {
		t.Fatalf("expected redirect /admin, got %v", got)
	}

	logout := do(t, h, http.MethodPost, "/api/auth/logout", sid, "")
	if logout.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", logout.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/customer/cart", sid, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", rec.Code)
	}
}

func TestAdminPortalRejectsCustomerLogin(t *testing.T) {
	h := newTestRouter(t, enums.RoleCustomer)
	rec := do(t, h, http.MethodPost, "/api/auth/login", "", `{"username":"ana","password":"secret","portal":"admin"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, enums.RoleCustomer)
	do(t, h, http.MethodGet, "/health/live", "", "")

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `storefront_http_requests_total{method="GET",route="/health/live",status="200"} 1`) {
		t.Fatalf("expected request counter for /health/live")
	}
}
