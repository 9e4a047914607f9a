package api

import (
	"context"
	"net/http"
	"time"
)

const (
	TIER_FREE         = "free"
	TIER_BASIC        = "basic"
	TIER_PROFESSIONAL = "professional"
)

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Province string `json:"province"`
	City     string `json:"city"`
	County   string `json:"county"`
	Village  string `json:"village,omitempty"`
}

type Farmer struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email,omitempty"`
	Avatar            string    `json:"avatar,omitempty"`
	Province          string    `json:"province"`
	City              string    `json:"city"`
	County            string    `json:"county"`
	Village           string    `json:"village,omitempty"`
	IsVerified        bool      `json:"is_verified"`
	CertificationType string    `json:"certification_type,omitempty"`
	Tier              string    `json:"tier"`
	ServicesCount     int       `json:"services_count"`
	APICallsToday     int       `json:"api_calls_today"`
	EnableCommission  bool      `json:"enable_commission"`
	CommissionRate    int       `json:"commission_rate"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Farmer      Farmer `json:"farmer"`
}

type FarmerUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Province *string `json:"province,omitempty"`
	City     *string `json:"city,omitempty"`
	County   *string `json:"county,omitempty"`
	Village  *string `json:"village,omitempty"`
}

type PasswordChange struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type Quota struct {
	Tier              string `json:"tier"`
	ServicesCount     int    `json:"services_count"`
	MaxServices       int    `json:"max_services"`
	APICallsToday     int    `json:"api_calls_today"`
	MaxRequestsPerDay int    `json:"max_requests_per_day"`
	RemainingServices int    `json:"remaining_services"`
	RemainingRequests int    `json:"remaining_requests"`
}

// Login wraps POST /farmers/login.
func (c *Client) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.send(ctx, http.MethodPost, "/farmers/login", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*Farmer, error) {
	var out Farmer
	if err := c.send(ctx, http.MethodPost, "/farmers/register", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me wraps GET /farmers/me.
func (c *Client) Me(ctx context.Context) (*Farmer, error) {
	var out Farmer
	if err := c.get(ctx, "/farmers/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMe(ctx context.Context, in FarmerUpdate) (*Farmer, error) {
	var out Farmer
	if err := c.send(ctx, http.MethodPut, "/farmers/me", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, in PasswordChange) error {
	return c.send(ctx, http.MethodPost, "/farmers/change-password", nil, in, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/farmers/logout", nil, nil, nil)
}

func (c *Client) Quota(ctx context.Context) (*Quota, error) {
	var out Quota
	if err := c.get(ctx, "/farmers/quota", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
