package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/polly-storefront/api/middleware"
	"github.com/angelmondragon/polly-storefront/internal/cart"
	"github.com/angelmondragon/polly-storefront/internal/categories"
	"github.com/angelmondragon/polly-storefront/internal/notifications"
	product "github.com/angelmondragon/polly-storefront/internal/products"
	pkgAuth "github.com/angelmondragon/polly-storefront/pkg/auth"
	"github.com/angelmondragon/polly-storefront/pkg/auth/session"
	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/kvstore"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
	"github.com/angelmondragon/polly-storefront/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubProducts struct {
	mine map[uuid.UUID][]product.ProductDTO
}

func (s stubProducts) Browse(ctx context.Context, input product.BrowseInput) (*product.BrowseResult, error) {
	return &product.BrowseResult{Products: []product.ProductDTO{}, Categories: []string{product.AllCategories}}, nil
}

func (s stubProducts) Get(ctx context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s stubProducts) ListMine(ctx context.Context, adminID uuid.UUID) ([]product.ProductDTO, error) {
	return s.mine[adminID], nil
}

func (s stubProducts) Create(ctx context.Context, adminID uuid.UUID, input product.CreateProductInput) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: uuid.New(), AdminID: adminID, Name: input.Name}, nil
}

func (s stubProducts) Update(ctx context.Context, adminID, productID uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s stubProducts) Delete(ctx context.Context, adminID, productID uuid.UUID) error {
	return nil
}

type stubCategories struct{}

func (stubCategories) List(ctx context.Context) ([]categories.CategoryDTO, error) {
	return []categories.CategoryDTO{}, nil
}

func (stubCategories) Create(ctx context.Context, adminID uuid.UUID, name string) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{ID: uuid.New(), Name: name, AdminID: adminID}, nil
}

func (stubCategories) Rename(ctx context.Context, adminID, categoryID uuid.UUID, name string) (*categories.CategoryDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
}

func (stubCategories) Delete(ctx context.Context, adminID, categoryID uuid.UUID) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) CartProduct(ctx context.Context, productID string) (cart.Product, error) {
	return cart.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func testConfig(env string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: env, Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "polly-test", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, redisErr error, products product.Service) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	cartSvc, err := cart.NewService(cart.ServiceParams{
		KV:        kvstore.NewMemory(),
		Catalog:   stubCatalog{},
		Sink:      notifications.ContextSink{},
		Logger:    logger.Nop(),
		Metrics:   metrics.NewCartMetrics(reg),
		Namespace: "polly",
	})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}

	h := NewRouter(cfg, logger.Nop(), stubPinger{}, stubPinger{err: redisErr}, nil, stubSessions{}, reg, metrics.NewHTTPMetrics(reg), Services{
		Products:   products,
		Categories: stubCategories{},
		Cart:       cartSvc,
	})
	return h, reg
}

func serve(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func mintToken(t *testing.T, cfg *config.Config, adminID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		AdminID: adminID,
		Role:    enums.AdminRoleAdmin,
		JTI:     session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := newTestRouter(t, testConfig("dev"), nil, stubProducts{})
	if rec := serve(h, http.MethodGet, "/health/live", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}

	down, _ := newTestRouter(t, testConfig("dev"), errors.New("redis down"), stubProducts{})
	rec := serve(down, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready with redis down: expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redis":"down"`) {
		t.Fatalf("expected redis check in details, got %s", rec.Body.String())
	}
}

func TestMetricsEndpointExposesCollectors(t *testing.T) {
	h, _ := newTestRouter(t, testConfig("dev"), nil, stubProducts{})
	serve(h, http.MethodGet, "/api/v1/products", "", "")

	rec := serve(h, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "polly_http_requests_total") {
		t.Fatalf("expected http metrics in exposition")
	}
}

func TestPublicRoutes(t *testing.T) {
	h, _ := newTestRouter(t, testConfig("dev"), nil, stubProducts{})

	if rec := serve(h, http.MethodGet, "/api/v1/products?sort=price-asc", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("products: expected 200, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/api/v1/products?sort=cheapest", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad sort: expected 400, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/api/v1/products/"+uuid.NewString(), "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("product detail: expected 404, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/api/v1/categories", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("categories: expected 200, got %d", rec.Code)
	}

	rec := serve(h, http.MethodGet, "/api/v1/cart", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cart: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.CartSessionHeader) == "" {
		t.Fatal("expected cart session header")
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	cfg := testConfig("dev")
	adminID := uuid.New()
	products := stubProducts{mine: map[uuid.UUID][]product.ProductDTO{
		adminID: {{ID: uuid.New(), AdminID: adminID, Name: "Vestido"}},
	}}
	h, _ := newTestRouter(t, cfg, nil, products)

	if rec := serve(h, http.MethodGet, "/api/admin/v1/products", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token := mintToken(t, cfg, adminID)
	rec := serve(h, http.MethodGet, "/api/admin/v1/products", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Vestido") {
		t.Fatalf("expected admin products in body, got %s", rec.Body.String())
	}

	rec = serve(h, http.MethodPost, "/api/admin/v1/categories", token, `{"name":"Saias"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating category, got %d", rec.Code)
	}
}

func TestRegisterRouteHiddenInProd(t *testing.T) {
	h, _ := newTestRouter(t, testConfig("prod"), nil, stubProducts{})
	rec := serve(h, http.MethodPost, "/api/admin/v1/auth/register", "", `{"name":"A","email":"a@polly.com","password":"secret1"}`)
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected register to be unavailable in prod, got %d", rec.Code)
	}
}

