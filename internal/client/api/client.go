// Package api is a typed HTTP client for the passvault REST API. Non-2xx
// responses are turned back into the sentinel errors of package common so
// callers can branch with errors.Is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// ErrUnavailable is returned when the server cannot be reached at all.
var ErrUnavailable = errors.New("server unavailable")

type Account struct {
	Username             string `json:"username"`
	RequireSecondaryAuth bool   `json:"requireSecondaryAuth"`
}

type LoginResult struct {
	Token                string `json:"token"`
	RequireSecondaryAuth bool   `json:"requireSecondaryAuth"`
}

type Secret struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Username     string    `json:"username"`
	Secret       string    `json:"secret"`
	CreatedAtUTC time.Time `json:"createdAtUtc"`
}

type NewSecret struct {
	Description string `json:"description"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
}

// GenerateOptions mirrors the generator request; nil fields take the server
// defaults.
type GenerateOptions struct {
	Length           *int  `json:"length,omitempty"`
	IncludeUppercase *bool `json:"includeUppercase,omitempty"`
	IncludeLowercase *bool `json:"includeLowercase,omitempty"`
	IncludeNumbers   *bool `json:"includeNumbers,omitempty"`
	IncludeSymbols   *bool `json:"includeSymbols,omitempty"`
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// NewClient validates baseURL and returns a client. A nil httpClient uses a
// client with the given timeout.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: host is required", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

// SetToken sets the bearer token sent with vault requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Register(ctx context.Context, username, password string, requireSecondaryAuth bool) (*Account, error) {
	body := map[string]any{
		"username":             username,
		"password":             password,
		"requireSecondaryAuth": requireSecondaryAuth,
	}
	var out Account
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", false, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login returns common.ErrorPreconditionRequired when the account needs a
// secondary factor and confirmed is false.
func (c *Client) Login(ctx context.Context, username, password string, confirmed bool) (*LoginResult, error) {
	body := map[string]any{
		"username":               username,
		"password":               password,
		"secondaryAuthConfirmed": confirmed,
	}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context) ([]Secret, error) {
	out := make([]Secret, 0)
	if err := c.do(ctx, http.MethodGet, "/api/passwords", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, in NewSecret) (*Secret, error) {
	var out Secret
	if err := c.do(ctx, http.MethodPost, "/api/passwords", true, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/passwords/"+url.PathEscape(id), true, nil, nil)
}

func (c *Client) Generate(ctx context.Context, opts GenerateOptions) (string, error) {
	var out struct {
		Password string `json:"password"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/passwords/generate", true, opts, &out); err != nil {
		return "", err
	}
	return out.Password, nil
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authed {
		if c.token == "" {
			return fmt.Errorf("%w: not logged in", common.ErrorUnauthorized)
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrorInternal, err)
	}
	return nil
}

// errorFromResponse maps a status code to a common sentinel and attaches the
// server message when there is one.
func errorFromResponse(resp *http.Response) error {
	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = common.ErrorValidation
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusConflict:
		sentinel = common.ErrorConflict
	case http.StatusPreconditionRequired:
		sentinel = common.ErrorPreconditionRequired
	default:
		sentinel = common.ErrorInternal
	}

	var e struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &e) == nil {
		msg := strings.TrimPrefix(e.Message, sentinel.Error()+": ")
		if msg != "" && msg != sentinel.Error() {
			return fmt.Errorf("%w: %s", sentinel, msg)
		}
	}
	if sentinel == common.ErrorInternal {
		return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
	}
	return sentinel
}
