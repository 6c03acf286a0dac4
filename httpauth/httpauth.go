// Package httpauth implements the authclient.NetworkAuth collaborator
// against the application's REST auth endpoints.
package httpauth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-session-client/authclient"
	"github.com/jrsteele09/go-session-client/credentials"
	"github.com/jrsteele09/go-session-client/users"
)

var _ authclient.NetworkAuth = (*Client)(nil)

const defaultTimeout = 15 * time.Second

// Client talks to the auth endpoints under baseURL, e.g.
// https://api.example.com/api/auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option modifies the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (15s timeout). The
// client's own timeout is the only abort policy; a renewal is never
// abandoned from this side once issued.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client for the auth endpoints under baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.Profile `json:"user,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (credentials.Pair, *users.Profile, error) {
	var resp tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/login", body, "", &resp); err != nil {
		return credentials.Pair{}, nil, err
	}
	return credentials.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, resp.User, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (credentials.Pair, error) {
	var resp tokenResponse
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.post(ctx, "/refresh", body, "", &resp); err != nil {
		return credentials.Pair{}, err
	}
	return credentials.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.post(ctx, "/logout", map[string]string{"refresh_token": refreshToken}, "", nil)
}

func (c *Client) Register(ctx context.Context, registration authclient.Registration) (*users.Profile, error) {
	var resp struct {
		User *users.Profile `json:"user"`
	}
	if err := c.post(ctx, "/register", registration, "", &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return c.post(ctx, "/change-password", body, accessToken, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, accessToken string, update authclient.ProfileUpdate) (*users.Profile, error) {
	var resp struct {
		User *users.Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/profile", update, accessToken, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) post(ctx context.Context, path string, body any, accessToken string, out any) error {
	return c.do(ctx, http.MethodPost, path, body, accessToken, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, accessToken string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "[httpauth] encode request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "[httpauth] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(authclient.ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("credentials rejected")
		return errors.Wrapf(authclient.ErrCredentialsRejected, "%s %s: status %d", method, path, resp.StatusCode)
	default:
		return errors.Wrapf(authclient.ErrUnavailable, "%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "[httpauth] decode response")
	}
	return nil
}
