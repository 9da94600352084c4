package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/polly-storefront/api/middleware"
	"github.com/angelmondragon/polly-storefront/internal/admins"
	"github.com/angelmondragon/polly-storefront/internal/auth"
	"github.com/angelmondragon/polly-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
)

type stubRegisterService struct {
	admin *admins.AdminDTO
	err   error
	calls int
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*admins.AdminDTO, error) {
	s.calls++
	return s.admin, s.err
}

type stubAuthService struct {
	login      *auth.LoginResponse
	pair       *auth.TokenPair
	err        error
	loggedOut  string
	refreshArg string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.TokenPair, error) {
	s.refreshArg = accessToken
	return s.pair, s.err
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	admin := &admins.AdminDTO{ID: uuid.New(), Email: "ana@polly.com", Name: "Ana"}
	svc := &stubAuthService{login: &auth.LoginResponse{AccessToken: "access-token", RefreshToken: "refresh-token", Admin: admin}}
	handler := AuthLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/login", bytes.NewReader([]byte(`{"email":"ana@polly.com","password":"secret1"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get(middleware.AccessTokenHeader); got != "access-token" {
		t.Fatalf("expected token header got %q", got)
	}
	var envelope struct {
		Data struct {
			RefreshToken string           `json:"refresh_token"`
			Admin        *admins.AdminDTO `json:"admin"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RefreshToken != "refresh-token" || envelope.Data.Admin == nil || envelope.Data.Admin.Email != admin.Email {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"email":"ana@polly.com","password":"nope"}`)))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRegisterSuccess(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	register := &stubRegisterService{admin: &admins.AdminDTO{ID: uuid.New(), Email: "ana@polly.com"}}
	svc := &stubAuthService{login: &auth.LoginResponse{AccessToken: "access-token", RefreshToken: "refresh-token"}}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", bytes.NewReader([]byte(`{"name":"Ana","email":"ana@polly.com","password":"secret1"}`)))
	resp := httptest.NewRecorder()
	AuthRegister(register, svc, cfg, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if register.calls != 1 {
		t.Fatalf("expected one register call, got %d", register.calls)
	}
	if got := resp.Header().Get(middleware.AccessTokenHeader); got != "access-token" {
		t.Fatalf("expected token header got %q", got)
	}
}

func TestAuthRegisterInvalidPayload(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	register := &stubRegisterService{}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"email":"ana@polly.com","password":"123"}`)))
	resp := httptest.NewRecorder()
	AuthRegister(register, &stubAuthService{}, cfg, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if register.calls != 0 {
		t.Fatal("expected register not to be called")
	}
}

func TestAuthRegisterDisabledInProd(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "prod"}}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"name":"Ana","email":"ana@polly.com","password":"secret1"}`)))
	resp := httptest.NewRecorder()
	AuthRegister(nil, nil, cfg, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAuthRefreshRequiresBearer(t *testing.T) {
	svc := &stubAuthService{pair: &auth.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"refresh_token":"r1"}`)))
	resp := httptest.NewRecorder()
	AuthRefresh(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"refresh_token":"r1"}`)))
	req.Header.Set("Authorization", "Bearer old-access")
	resp = httptest.NewRecorder()
	AuthRefresh(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.refreshArg != "old-access" {
		t.Fatalf("expected access token passed through, got %q", svc.refreshArg)
	}
	if got := resp.Header().Get(middleware.AccessTokenHeader); got != "new-access" {
		t.Fatalf("expected rotated token header got %q", got)
	}
}

func TestAuthLogoutUsesAccessID(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "jti-1"))
	resp := httptest.NewRecorder()
	AuthLogout(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.loggedOut != "jti-1" {
		t.Fatalf("expected jti-1 revoked, got %q", svc.loggedOut)
	}

	resp = httptest.NewRecorder()
	AuthLogout(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session got %d", resp.Code)
	}
}
