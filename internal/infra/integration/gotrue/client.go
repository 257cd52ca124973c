package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to a hosted GoTrue compatible auth service under {baseURL}/auth/v1.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
}

func NewClient(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey:    anonKey,
		serviceKey: serviceKey,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) SignUp(ctx context.Context, email, password string, meta entity.UserMetadata) (*entity.Session, error) {
	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/signup", c.anonKey, "", credentialsRequest{Email: email, Password: password, Data: &meta}, &out)
	if err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*entity.Session, error) {
	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.anonKey, "", credentialsRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", c.anonKey, "", refreshRequest{RefreshToken: refreshToken}, &out)
	if err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?" + url.Values{"redirect_to": {redirectTo}}.Encode()
	}
	return c.do(ctx, http.MethodPost, path, c.anonKey, "", recoverRequest{Email: email}, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) error {
	return c.do(ctx, http.MethodPut, "/user", c.anonKey, accessToken, passwordRequest{Password: password}, nil)
}

func (c *Client) AdminCreateUser(ctx context.Context, email, password string, meta entity.UserMetadata) (string, error) {
	var out user
	req := adminCreateRequest{Email: email, Password: password, EmailConfirm: true, UserMetadata: meta}
	if err := c.do(ctx, http.MethodPost, "/admin/users", c.serviceKey, c.serviceKey, req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) AdminUpdateMetadata(ctx context.Context, userID string, meta entity.UserMetadata) error {
	req := adminUpdateRequest{UserMetadata: meta}
	if meta.Replace {
		// user_metadata is merged key by key, so blanks must be sent explicitly to clear them
		full := map[string]any{"name": meta.Name, "avatar_url": meta.AvatarURL}
		if meta.Role != "" {
			full["role"] = meta.Role
		}
		req.UserMetadata = full
	}
	return c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(userID), c.serviceKey, c.serviceKey, req, nil)
}

func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), c.serviceKey, c.serviceKey, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, apiKey, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(raw)
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.text() != "" {
			msg = e.text()
		}
		if msg == "" {
			msg = resp.Status
		}
		return &entity.ProviderError{Provider: "gotrue", Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (r *sessionResponse) session() *entity.Session {
	u := r.user
	if r.User != nil {
		u = *r.User
	}
	s := &entity.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         u.identity(),
	}
	switch {
	case r.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		s.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return s
}
