package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/polly-storefront/internal/admins"
	pkgAuth "github.com/angelmondragon/polly-storefront/pkg/auth"
	"github.com/angelmondragon/polly-storefront/pkg/auth/session"
	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
}

type service struct {
	admins  adminRepository
	session sessionManager
	hasher  passwordVerifier
	jwtCfg  config.JWTConfig
	now     func() time.Time
}

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, adminID uuid.UUID) (string, error)
	Rotate(ctx context.Context, oldAccessID string, adminID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type passwordVerifier interface {
	Verify(password, encoded string) (bool, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	AdminRepo      adminRepository
	SessionManager sessionManager
	Hasher         passwordVerifier
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AdminRepo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	return &service{
		admins:  params.AdminRepo,
		session: params.SessionManager,
		hasher:  params.Hasher,
		jwtCfg:  params.JWTConfig,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	admin.LastLoginAt = &now

	pair, err := s.issue(ctx, admin.ID, now)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Admin:        admins.FromModel(admin),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Refresh rotates the session behind an access token, which may be expired.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	accessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, claims.AdminID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	token, err := s.mint(claims.AdminID, accessID, s.now())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: token, RefreshToken: newRefresh}, nil
}

func (s *service) issue(ctx context.Context, adminID uuid.UUID, now time.Time) (*TokenPair, error) {
	accessID := session.NewAccessID()
	token, err := s.mint(adminID, accessID, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.session.Generate(ctx, accessID, adminID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &TokenPair{AccessToken: token, RefreshToken: refresh}, nil
}

func (s *service) mint(adminID uuid.UUID, accessID string, now time.Time) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		AdminID: adminID,
		Role:    enums.AdminRoleAdmin,
		JTI:     accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	input := normalizeEmail(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	admin, err := s.admins.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	valid, err := s.hasher.Verify(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return admin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
