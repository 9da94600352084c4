package auth

import (
	"github.com/angelmondragon/polly-storefront/internal/admins"
)

// DefaultCompanyName is used when an admin registers without a company.
const DefaultCompanyName = "Polly E-commerce"

// LoginRequest captures the admin credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest contains the payload required to create an admin account.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	CompanyName string `json:"company_name"`
}

// RefreshRequest carries the refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse contains the tokens and admin produced by a successful login.
type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	Admin        *admins.AdminDTO `json:"admin"`
}

// TokenPair is returned by a refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest holds optional profile changes. A new password must be
// accompanied by the current one.
type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty"`
	CompanyName     *string `json:"company_name,omitempty"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	NewPassword     *string `json:"new_password,omitempty" validate:"omitempty,min=6"`
	CurrentPassword *string `json:"current_password,omitempty"`
}
