package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/polly-storefront/api/middleware"
	"github.com/angelmondragon/polly-storefront/internal/admins"
	"github.com/angelmondragon/polly-storefront/internal/auth"
	product "github.com/angelmondragon/polly-storefront/internal/products"
	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
)

type stubProductService struct {
	browseInput product.BrowseInput
	created     product.CreateProductInput
	updated     product.UpdateProductInput
	adminID     uuid.UUID
	err         error
}

func (s *stubProductService) Browse(ctx context.Context, input product.BrowseInput) (*product.BrowseResult, error) {
	s.browseInput = input
	return &product.BrowseResult{Products: []product.ProductDTO{}, Categories: []string{product.AllCategories}}, s.err
}

func (s *stubProductService) Get(ctx context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &product.ProductDTO{ID: id, Name: "Vestido"}, nil
}

func (s *stubProductService) ListMine(ctx context.Context, adminID uuid.UUID) ([]product.ProductDTO, error) {
	s.adminID = adminID
	return []product.ProductDTO{}, s.err
}

func (s *stubProductService) Create(ctx context.Context, adminID uuid.UUID, input product.CreateProductInput) (*product.ProductDTO, error) {
	s.adminID = adminID
	s.created = input
	if s.err != nil {
		return nil, s.err
	}
	return &product.ProductDTO{ID: uuid.New(), AdminID: adminID, Name: input.Name, Price: input.Price}, nil
}

func (s *stubProductService) Update(ctx context.Context, adminID, productID uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error) {
	s.adminID = adminID
	s.updated = input
	if s.err != nil {
		return nil, s.err
	}
	return &product.ProductDTO{ID: productID, AdminID: adminID}, nil
}

func (s *stubProductService) Delete(ctx context.Context, adminID, productID uuid.UUID) error {
	s.adminID = adminID
	return s.err
}

func withAdmin(req *http.Request, adminID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithAdminID(req.Context(), adminID.String()))
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestProductListParsesQuery(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?q=+vestido+&category=Saias&sort=name-desc", nil)
	resp := httptest.NewRecorder()
	ProductList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.browseInput.Query != "vestido" || svc.browseInput.Category != "Saias" || svc.browseInput.Sort != enums.ProductSortNameDesc {
		t.Fatalf("unexpected browse input %+v", svc.browseInput)
	}
}

func TestProductDetailInvalidID(t *testing.T) {
	req := withRouteParam(httptest.NewRequest(http.MethodGet, "/", nil), "productId", "abc")
	resp := httptest.NewRecorder()
	ProductDetail(&stubProductService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminCreateProductAcceptsFormattedInput(t *testing.T) {
	svc := &stubProductService{}
	adminID := uuid.New()
	body := `{"name":"Saia Midi","price":"89,90","category":"Saias","stock":3,"tags":"verão, midi ,","description":"  leve "}`
	req := withAdmin(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), adminID)
	resp := httptest.NewRecorder()
	AdminCreateProduct(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.adminID != adminID {
		t.Fatalf("expected admin scope %s got %s", adminID, svc.adminID)
	}
	if !svc.created.Price.Equal(decimal.RequireFromString("89.90")) {
		t.Fatalf("unexpected price %s", svc.created.Price)
	}
	if len(svc.created.Tags) != 2 || svc.created.Tags[0] != "verão" || svc.created.Tags[1] != "midi" {
		t.Fatalf("unexpected tags %#v", svc.created.Tags)
	}
	if svc.created.Description == nil || *svc.created.Description != "leve" {
		t.Fatalf("unexpected description %v", svc.created.Description)
	}
}

func TestAdminCreateProductRejectsBadPayload(t *testing.T) {
	cases := map[string]string{
		"missing name": `{"price":10,"category":"Saias"}`,
		"bad price":    `{"name":"Saia","price":"dez","category":"Saias"}`,
		"negative":     `{"name":"Saia","price":10,"category":"Saias","stock":-1}`,
	}
	for name, body := range cases {
		svc := &stubProductService{}
		req := withAdmin(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), uuid.New())
		resp := httptest.NewRecorder()
		AdminCreateProduct(svc, nil).ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", name, resp.Code)
		}
	}
}

func TestAdminCreateProductRequiresAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	AdminCreateProduct(&stubProductService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminUpdateProductPartial(t *testing.T) {
	svc := &stubProductService{}
	productID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"price":12.5,"tags":["a","b"]}`))
	req = withRouteParam(withAdmin(req, uuid.New()), "productId", productID.String())
	resp := httptest.NewRecorder()
	AdminUpdateProduct(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.updated.Price == nil || !svc.updated.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected price %v", svc.updated.Price)
	}
	if svc.updated.Tags == nil || len(*svc.updated.Tags) != 2 {
		t.Fatalf("unexpected tags %v", svc.updated.Tags)
	}
	if svc.updated.Name != nil || svc.updated.Stock != nil {
		t.Fatal("expected untouched fields to stay nil")
	}
}

func TestAdminDeleteProductNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	req := withRouteParam(withAdmin(httptest.NewRequest(http.MethodDelete, "/", nil), uuid.New()), "productId", uuid.NewString())
	resp := httptest.NewRecorder()
	AdminDeleteProduct(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

type stubProfileService struct {
	deleted uuid.UUID
	req     auth.UpdateProfileRequest
	err     error
}

func (s *stubProfileService) Get(ctx context.Context, adminID uuid.UUID) (*admins.AdminDTO, error) {
	return &admins.AdminDTO{ID: adminID, Email: "ana@polly.com"}, s.err
}

func (s *stubProfileService) Update(ctx context.Context, adminID uuid.UUID, req auth.UpdateProfileRequest) (*admins.AdminDTO, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &admins.AdminDTO{ID: adminID}, nil
}

func (s *stubProfileService) Delete(ctx context.Context, adminID uuid.UUID) error {
	s.deleted = adminID
	return s.err
}

func TestProfileUpdatePassesOptionalFields(t *testing.T) {
	svc := &stubProfileService{}
	req := withAdmin(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"company_name":"Polly Moda"}`)), uuid.New())
	resp := httptest.NewRecorder()
	ProfileUpdate(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.req.CompanyName == nil || *svc.req.CompanyName != "Polly Moda" || svc.req.Name != nil {
		t.Fatalf("unexpected request %+v", svc.req)
	}
}

func TestProfileDeleteRevokesSession(t *testing.T) {
	svc := &stubProfileService{}
	sessions := &stubAuthService{}
	adminID := uuid.New()
	req := withAdmin(httptest.NewRequest(http.MethodDelete, "/", nil), adminID)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "jti-9"))
	resp := httptest.NewRecorder()
	ProfileDelete(svc, sessions, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if svc.deleted != adminID || sessions.loggedOut != "jti-9" {
		t.Fatalf("expected delete and revoke, got %s / %q", svc.deleted, sessions.loggedOut)
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"database": stubPinger{}, "redis": stubPinger{}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"database": stubPinger{err: errors.New("down")}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Details["database"] != "down" {
		t.Fatalf("expected database down detail, got %+v", envelope.Error)
	}
}
