package zammad

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
)

const (
	apiPrefix        = "/api/v1"
	defaultUserAgent = "zammad-bridge/1.0"
	defaultTimeout   = 30 * time.Second
)

// Client is the entry point to the Zammad REST API. Resource operations
// hang off the typed sub-clients (Tickets, Users, ...).
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string

	token      string
	oauthToken string
	username   string
	password   string

	Tickets       *TicketsClient
	Articles      *ArticlesClient
	Users         *UsersClient
	Groups        *GroupsClient
	Organizations *OrganizationsClient
	Roles         *RolesClient
	Tags          *TagsClient
	Links         *LinksClient
	Tokens        *TokensClient
}

// Option customizes client construction.
type Option func(*Client)

// WithToken authenticates requests with a Zammad API token
// (Authorization: Token token=...).
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithOAuth authenticates requests with an OAuth2 bearer token.
func WithOAuth(token string) Option {
	return func(c *Client) { c.oauthToken = token }
}

// WithBasicAuth authenticates requests with username and password.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the Zammad instance at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Tickets = &TicketsClient{client: c}
	c.Articles = &ArticlesClient{client: c}
	c.Users = &UsersClient{client: c}
	c.Groups = &GroupsClient{client: c}
	c.Organizations = &OrganizationsClient{client: c}
	c.Roles = &RolesClient{client: c}
	c.Tags = &TagsClient{client: c}
	c.Links = &LinksClient{client: c}
	c.Tokens = &TokensClient{client: c}
	return c, nil
}

// do performs one API request. path is relative to /api/v1. A non-nil body
// is JSON-encoded; a non-nil out receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + apiPrefix + path
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) applyAuth(req *http.Request) {
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Token token="+c.token)
	case c.oauthToken != "":
		req.Header.Set("Authorization", "Bearer "+c.oauthToken)
	case c.username != "":
		req.SetBasicAuth(c.username, c.password)
	}
}
