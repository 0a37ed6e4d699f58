package client

import (
	"context"
	"fmt"

	"social-lens-go/pkg/models"
)

// CreateUser registers a new user and returns it with its API key
func (c *Client) CreateUser(ctx context.Context, email string) (*models.User, error) {
	req := struct {
		Email string `json:"email"`
	}{Email: email}

	var user models.User
	if err := c.postJSON(ctx, "/api/v1/users", req, &user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return &user, nil
}
