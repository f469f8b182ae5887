package partnerapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"partner-sync/internal/model"
)

// Credentials is the email/password login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSignup is the end-user registration body.
type UserSignup struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// User is an account as returned by the auth endpoints.
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AuthSession is the data of a successful login or signup.
type AuthSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login exchanges email and password for a session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthSession, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, model.NewValidationError("credentials", "email and password are required")
	}
	return c.authenticate(ctx, pathLogin, creds)
}

// Signup registers an end user.
func (c *Client) Signup(ctx context.Context, s UserSignup) (*AuthSession, error) {
	return c.authenticate(ctx, pathSignup, s)
}

// GoogleAuth exchanges a Google ID token credential for a session.
func (c *Client) GoogleAuth(ctx context.Context, credential, clientID string) (*AuthSession, error) {
	if credential == "" {
		return nil, model.NewValidationError("credential", "google credential is required")
	}
	body := map[string]string{"credential": credential}
	if clientID != "" {
		body["clientId"] = clientID
	}
	return c.authenticate(ctx, pathGoogleAuth, body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthSession, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, fmt.Errorf("creating auth request: %w", err)
	}
	var s AuthSession
	if _, err := c.do(req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PartnerSignup submits the multi-step partner registration payload.
func (c *Client) PartnerSignup(ctx context.Context, payload any) (*model.Ack, error) {
	req, err := c.newRequest(ctx, http.MethodPost, pathPartnerSignup, nil, payload)
	if err != nil {
		return nil, fmt.Errorf("creating partner signup request: %w", err)
	}
	msg, err := c.do(req, nil)
	if err != nil {
		return nil, err
	}
	return &model.Ack{Message: msg}, nil
}

// GetUser returns the account with id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, model.NewValidationError("id", "user id is required")
	}
	req, err := c.newRequest(ctx, http.MethodGet, pathUser+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating user request: %w", err)
	}
	var u User
	if _, err := c.do(req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies a partial update to the account with id.
func (c *Client) UpdateUser(ctx context.Context, id string, changes map[string]any) (*User, error) {
	if id == "" {
		return nil, model.NewValidationError("id", "user id is required")
	}
	req, err := c.newRequest(ctx, http.MethodPut, pathUser+url.PathEscape(id), nil, changes)
	if err != nil {
		return nil, fmt.Errorf("creating user update request: %w", err)
	}
	var u User
	if _, err := c.do(req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
