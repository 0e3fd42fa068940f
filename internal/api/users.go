package api

import (
	"context"
	"fmt"
)

// User is a public user profile
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// GetUser retrieves a user profile by id
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, "GET", fmt.Sprintf("/user/%s", userID), nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := parseAuthedResponse(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
