package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Login authenticates with a username or email and stores the issued tokens.
func (c *Client) Login(ctx context.Context, login, password string) (*api.TokenPair, error) {
	var pair api.TokenPair
	err := c.call(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/login/",
		body:      api.LoginRequest{Login: login, Password: password},
		anonymous: true,
	}, &pair)
	if err != nil {
		return nil, err
	}
	if pair.Access != "" || pair.Refresh != "" {
		if err := c.tokens.SetTokens(ctx, domain.Session{AccessToken: pair.Access, RefreshToken: pair.Refresh}); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}
	return &pair, nil
}

func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	var user api.User
	err := c.call(ctx, request{method: http.MethodPost, path: "/auth/register/", body: req, anonymous: true}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Me(ctx context.Context) (*api.User, error) {
	var user api.User
	if err := c.call(ctx, request{method: http.MethodGet, path: "/auth/me/"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout forgets the local session. The service keeps no server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.ClearTokens(ctx)
}

// TokenExpiry reads the exp claim of the stored access token without
// verifying its signature. A zero time means there is no token or no claim.
func (c *Client) TokenExpiry(ctx context.Context) (time.Time, error) {
	session, err := c.tokens.Tokens(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if session.AccessToken == "" {
		return time.Time{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(session.AccessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}
