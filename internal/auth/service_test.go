package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/polly-storefront/pkg/auth"
	"github.com/angelmondragon/polly-storefront/pkg/auth/session"
	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "polly-storefront",
	ExpirationMinutes: 30,
}

func TestServiceLoginIssuesTokens(t *testing.T) {
	password := "s3nha-forte"
	admin := &models.Admin{
		ID:           uuid.New(),
		Email:        "ana@polly.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Ana",
		CompanyName:  DefaultCompanyName,
	}
	svc, sessions := buildTestService(t, admin)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "  ANA@polly.com ", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.AdminID != admin.ID {
		t.Fatalf("expected admin %s, got %s", admin.ID, claims.AdminID)
	}
	if claims.Role != enums.AdminRoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
	if sessions.generated[claims.ID] != admin.ID {
		t.Fatalf("refresh session should be stored under the token jti")
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if resp.Admin == nil || resp.Admin.LastLoginAt == nil {
		t.Fatal("expected admin with last login")
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	admin := &models.Admin{
		ID:           uuid.New(),
		Email:        "ana@polly.com",
		PasswordHash: mustHashPassword(t, "right"),
	}
	svc, _ := buildTestService(t, admin)

	cases := []LoginRequest{
		{Email: "ana@polly.com", Password: "wrong"},
		{Email: "nobody@polly.com", Password: "right"},
		{Email: "", Password: "right"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("%+v: expected unauthorized, got %v", req, err)
		}
		if typed.Message() != "invalid credentials" {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	password := "pw"
	admin := &models.Admin{ID: uuid.New(), Email: "ana@polly.com", PasswordHash: mustHashPassword(t, password)}
	svc, sessions := buildTestService(t, admin)

	login, err := svc.Login(context.Background(), LoginRequest{Email: admin.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	oldClaims, _ := pkgAuth.ParseAccessToken(testJWTConfig, login.AccessToken)

	pair, err := svc.Refresh(context.Background(), login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	newClaims, err := pkgAuth.ParseAccessToken(testJWTConfig, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if newClaims.ID == oldClaims.ID {
		t.Fatal("expected a new jti after refresh")
	}
	if _, ok := sessions.generated[oldClaims.ID]; ok {
		t.Fatal("old session should be rotated out")
	}

	if _, err := svc.Refresh(context.Background(), login.AccessToken, login.RefreshToken); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("reusing a rotated refresh token should fail, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "garbage", "x"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for a bad access token, got %v", err)
	}
}

func TestServiceLogoutRevokes(t *testing.T) {
	svc, sessions := buildTestService(t, nil)
	sessions.generated["jti-1"] = uuid.New()

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.generated["jti-1"]; ok {
		t.Fatal("expected session to be revoked")
	}
}

func buildTestService(t *testing.T, admin *models.Admin) (Service, *stubSessionManager) {
	t.Helper()
	sessions := &stubSessionManager{generated: map[string]uuid.UUID{}, tokens: map[string]string{}}
	svc, err := NewService(ServiceParams{
		AdminRepo:      &stubAdminRepo{admin: admin},
		SessionManager: sessions,
		Hasher:         security.NewHasher(config.PasswordConfig{}),
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.NewHasher(config.PasswordConfig{}).Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubAdminRepo struct {
	admin *models.Admin
}

func (s *stubAdminRepo) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	if s.admin == nil || s.admin.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.admin, nil
}

func (s *stubAdminRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if s.admin != nil && s.admin.ID == id {
		s.admin.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	generated map[string]uuid.UUID
	tokens    map[string]string
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string, adminID uuid.UUID) (string, error) {
	token := "refresh-" + accessID
	s.generated[accessID] = adminID
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID string, adminID uuid.UUID, provided string) (string, string, error) {
	owner, ok := s.generated[oldAccessID]
	if !ok || owner != adminID || s.tokens[oldAccessID] != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.generated, oldAccessID)
	delete(s.tokens, oldAccessID)
	next := session.NewAccessID()
	token, err := s.Generate(ctx, next, adminID)
	return next, token, err
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(s.generated, accessID)
	delete(s.tokens, accessID)
	return nil
}
