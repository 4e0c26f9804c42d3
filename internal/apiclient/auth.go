package apiclient

import (
	"context"
	"net/http"

	"github.com/Brownie44l1/sellerhub/internal/models"
)

// Login exchanges credentials for a token. Admins use a separate endpoint.
func (c *Client) Login(ctx context.Context, role models.Role, req models.LoginRequest) (*models.LoginResponse, error) {
	path := "/users/login"
	if role == models.RoleAdmin {
		path = "/admin/login"
	}
	var out models.LoginResponse
	if err := c.doJSON(ctx, Anonymous, request{method: http.MethodPost, path: path, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the signed-in user's profile snapshot.
func (c *Client) Profile(ctx context.Context, cred Credentials) (*models.UserProfile, error) {
	var out struct {
		models.UserProfile
		User *models.UserProfile `json:"user"`
	}
	if err := c.doJSON(ctx, cred, request{method: http.MethodGet, path: "/users/profile"}, &out); err != nil {
		return nil, err
	}
	if out.User != nil {
		return out.User, nil
	}
	return &out.UserProfile, nil
}
