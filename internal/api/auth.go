package api

import (
	"context"
)

// AuthResponse is the payload returned by login and register
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// loginRequest is the login payload. The identifier field accepts a
// username or an email address.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// registerRequest is the registration payload
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// forgotPasswordRequest asks the backend to mail a reset code
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// resetPasswordRequest redeems a reset code for a new password
type resetPasswordRequest struct {
	ResetCode   string `json:"resetCode"`
	NewPassword string `json:"newPassword"`
}

// Login authenticates with a username or email plus password.
// On success the returned token is set on the client for future requests.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, "POST", "/user/login", loginRequest{
		Identifier: identifier,
		Password:   password,
	})
	if err != nil {
		return nil, err
	}

	var authResp AuthResponse
	if err := parseResponse(resp, &authResp); err != nil {
		return nil, err
	}

	c.SetToken(authResp.Token)

	return &authResp, nil
}

// Register creates a new account. The backend logs the user in as part
// of registration and returns a token alongside the new user id.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, "POST", "/user/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var authResp AuthResponse
	if err := parseResponse(resp, &authResp); err != nil {
		return nil, err
	}

	// The register response omits the username field.
	if authResp.Username == "" {
		authResp.Username = username
	}

	c.SetToken(authResp.Token)

	return &authResp, nil
}

// ForgotPassword asks the backend to send a reset code to the given email
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	resp, err := c.doRequest(ctx, "POST", "/user/forgot-pass", forgotPasswordRequest{Email: email})
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// ResetPassword redeems a reset code for a new password
func (c *Client) ResetPassword(ctx context.Context, resetCode, newPassword string) error {
	resp, err := c.doRequest(ctx, "POST", "/user/reset-password", resetPasswordRequest{
		ResetCode:   resetCode,
		NewPassword: newPassword,
	})
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}
