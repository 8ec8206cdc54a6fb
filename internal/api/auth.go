package api

import (
	"context"
	"net/http"

	"annfsu/app/internal/models"
)

// AuthResult is the backend's login/signup payload: an opaque bearer token
// and the authenticated profile.
type AuthResult struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        models.UserProfile `json:"user"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login exchanges identifier (email, username or phone) and password for a
// session.
func (c *Client) Login(ctx context.Context, identifier, password string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Identifier: identifier,
		Password:   password,
	}, &result)
	return result, err
}

type SignupInput struct {
	Username    string           `json:"username,omitempty"`
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	FullName    string           `json:"full_name"`
	Phone       string           `json:"phone"`
	Address     string           `json:"address"`
	Institution string           `json:"institution"`
	Committee   models.Committee `json:"committee"`
	Position    string           `json:"position,omitempty"`
	BloodGroup  string           `json:"blood_group,omitempty"`
	Photo       string           `json:"photo,omitempty"`
}

// Signup registers a new account and logs it in.
func (c *Client) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", input, &result)
	return result, err
}

type otpRequest struct {
	Phone string `json:"phone"`
}

type OTPInfo struct {
	Message          string `json:"message"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

// RequestOTP asks the backend to deliver a one-time password out of band.
// Safe to call repeatedly; it has no session side effect.
func (c *Client) RequestOTP(ctx context.Context, phone string) (OTPInfo, error) {
	var info OTPInfo
	err := c.do(ctx, http.MethodPost, "/api/auth/request-otp", otpRequest{Phone: phone}, &info)
	return info, err
}

type otpVerifyRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", otpVerifyRequest{
		Phone: phone,
		OTP:   otp,
	}, &result)
	return result, err
}

// Me fetches the profile belonging to the current bearer token.
func (c *Client) Me(ctx context.Context) (models.UserProfile, error) {
	var user models.UserProfile
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user)
	return user, err
}
