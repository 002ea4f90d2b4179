package gotrue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/platform/httpclient"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("gotrue client not configured")
	ErrUpstream      = errors.New("gotrue upstream error")
)

const userPath = "/auth/v1/user"

// Config del backend de auth (GoTrue o compatible).
type Config struct {
	BaseURL string
	APIKey  string // anon key del proyecto; va en el header "apikey"
	Timeout time.Duration
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.New(cfg.BaseURL, timeout)
	if err != nil {
		return nil, err
	}
	hc.Headers["apikey"] = strings.TrimSpace(cfg.APIKey)
	return &Client{http: hc}, nil
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// User devuelve los claims del dueño del access token.
func (c *Client) User(ctx context.Context, token string) (auth.Claims, error) {
	if c == nil || c.http == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	var out userResponse
	err := c.http.DoJSON(ctx, http.MethodGet, userPath, map[string]string{
		"Authorization": "Bearer " + token,
	}, nil, &out)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, auth.ErrUnauthorized
		default:
			return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing id", ErrUpstream)
	}

	return auth.Claims{
		UserID: out.ID,
		Email:  strings.TrimSpace(out.Email),
		Role:   strings.TrimSpace(out.Role),
	}, nil
}
