package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/korjavin/druglookup/internal/drug"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server responded with %d: %s", e.Status, e.Message)
}

// APIClient calls the JSON API and keeps the session cookie between calls.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) (*APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

type accountResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Message string `json:"message"`
}

func (c *APIClient) Lookup(ctx context.Context, name string) (*drug.Result, error) {
	var res drug.Result
	if err := c.do(ctx, http.MethodGet, "/api/drug?name="+url.QueryEscape(name), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *APIClient) Signup(ctx context.Context, username, password string) (string, error) {
	var res accountResponse
	err := c.do(ctx, http.MethodPost, "/api/signup", map[string]string{"username": username, "password": password}, &res)
	return res.Message, err
}

func (c *APIClient) Login(ctx context.Context, username, password string) (string, error) {
	var res accountResponse
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{"username": username, "password": password}, &res)
	return res.Message, err
}

func (c *APIClient) Rename(ctx context.Context, newUsername string) (string, error) {
	var res accountResponse
	err := c.do(ctx, http.MethodPost, "/api/account/username", map[string]string{"newUsername": newUsername}, &res)
	return res.Message, err
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body any, dst any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if dst == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
