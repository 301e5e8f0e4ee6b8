package api

import (
	"context"

	"github.com/pittsix/cmsctl/internal/errors"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session token. It does not touch
// the session store; callers hand the token to session.Store.Login.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	var loginResp LoginResponse
	if err := c.Post(ctx, "/auth/login", req, &loginResp); err != nil {
		return "", errors.NewAuthLoginFailedError(err)
	}

	return loginResp.Token, nil
}

// Register creates a new user account. The backend does not log the
// account in; callers follow up with Login.
func (c *Client) Register(ctx context.Context, email, password string) error {
	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	return c.Post(ctx, "/auth/register", req, nil)
}
