package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Makepad-fr/boken/internal/model"
)

const (
	DefaultLoginPath = "/login/"
	DefaultItemsPath = "/api/webtoons/"
)

// Options configures a Client. Zero values fall back to the defaults above;
// a zero Timeout leaves the transport without a deadline.
type Options struct {
	BaseURL    string
	LoginPath  string
	ItemsPath  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the webtoon API: one login call, one protected list call.
type Client struct {
	baseURL   string
	loginPath string
	itemsPath string
	http      *http.Client
}

func NewClient(opt Options) *Client {
	hc := opt.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opt.Timeout}
	}
	c := &Client{
		baseURL:   strings.TrimRight(opt.BaseURL, "/"),
		loginPath: opt.LoginPath,
		itemsPath: opt.ItemsPath,
		http:      hc,
	}
	if c.loginPath == "" {
		c.loginPath = DefaultLoginPath
	}
	if c.itemsPath == "" {
		c.itemsPath = DefaultItemsPath
	}
	return c
}

// ItemsPath is the collection endpoint path, used in shape diagnostics.
func (c *Client) ItemsPath() string { return c.itemsPath }

// Login posts the credentials and returns the session token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (string, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.loginPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	token, err := ParseToken(body)
	if err != nil {
		log.Printf("login response (no token): %s", body)
		return "", err
	}
	return token, nil
}

// ListItems fetches the protected collection with token as bearer credential.
func (c *Client) ListItems(ctx context.Context, token string) ([]model.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.itemsPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	items, err := ParseItems(c.itemsPath, body)
	if err != nil {
		log.Printf("unexpected %s payload: %s", c.itemsPath, body)
		return nil, err
	}
	return items, nil
}

// do sends req and returns the body of a 2xx response, or a *RequestError.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
		return nil, &RequestError{Status: resp.StatusCode, Body: body}
	}
	return body, nil
}
