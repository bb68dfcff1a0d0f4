// Package client is a typed HTTP client for the PrintMate API.
// It keeps the session and CSRF cookies in a jar and echoes the CSRF token
// on state-changing requests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/printmate/printmate/internal/middleware"
	"github.com/printmate/printmate/internal/model"
)

const maxBodySize = 1 << 20

var (
	ErrNetwork = errors.New("client: network failure")
	ErrNotJSON = errors.New("client: response is not JSON")
	// ErrProtocol is returned for JSON replies that do not have the expected shape.
	ErrProtocol = errors.New("client: unexpected response")
)

// APIError is a non-2xx reply carrying the server's JSON envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors"`
}

type authReply struct {
	Data struct {
		User *model.Identity `json:"user"`
	} `json:"data"`
}

// Login starts a session for an email or phone number identifier.
func (c *Client) Login(ctx context.Context, identifier, password string) (*model.Identity, error) {
	body := map[string]string{"identifier": identifier, "password": password}

	var reply authReply
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &reply)
	if err != nil {
		return nil, err
	}
	if reply.Data.User == nil {
		return nil, fmt.Errorf("%w: login reply has no user", ErrProtocol)
	}
	return reply.Data.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*model.Identity, error) {
	var reply authReply
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &reply)
	if err != nil {
		return nil, err
	}
	return reply.Data.User, nil
}

// RecentFiles fetches one page of userID's files. An empty cursor requests the first page
// and a zero limit uses the server default.
func (c *Client) RecentFiles(ctx context.Context, userID, cursor string, limit int) (*model.Page, error) {
	q := url.Values{"userId": {userID}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var page model.Page
	err := c.do(ctx, http.MethodGet, "/api/files/recent", q, nil, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Print submits a print job for a file URL.
func (c *Client) Print(ctx context.Context, fileURL string) (*model.PrintAck, error) {
	return c.print(ctx, model.PrintRequest{FileURL: fileURL})
}

// PrintFile submits a print job for one of the session user's files.
func (c *Client) PrintFile(ctx context.Context, fileID string) (*model.PrintAck, error) {
	return c.print(ctx, model.PrintRequest{FileID: fileID})
}

func (c *Client) print(ctx context.Context, req model.PrintRequest) (*model.PrintAck, error) {
	var ack model.PrintAck
	err := c.do(ctx, http.MethodPost, "/api/print", nil, req, &ack)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

func (c *Client) Help(ctx context.Context) ([]*model.HelpPage, error) {
	var reply struct {
		Pages []*model.HelpPage `json:"pages"`
	}
	err := c.do(ctx, http.MethodGet, "/api/help", nil, nil, &reply)
	if err != nil {
		return nil, err
	}
	return reply.Pages, nil
}

func (c *Client) HelpPage(ctx context.Context, slug string) (*model.HelpPage, error) {
	var page model.HelpPage
	err := c.do(ctx, http.MethodGet, "/api/help/"+url.PathEscape(slug), nil, nil, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead {
		token, err := c.csrfToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set(middleware.CSRFHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: reading reply: %v", ErrNetwork, err)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: %s %s answered %d with %q", ErrNotJSON, method, path, resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("%w: %v", ErrNotJSON, err)
		}
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: msg, Fields: env.Errors}
	}

	if out == nil {
		return nil
	}
	err = json.Unmarshal(raw, out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	return nil
}

// csrfToken returns the token from the jar, fetching one from the health endpoint
// when the jar has none yet.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	if token := c.cookie(middleware.CSRFCookieName); token != "" {
		return token, nil
	}

	err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			return "", err
		}
	}

	token := c.cookie(middleware.CSRFCookieName)
	if token == "" {
		return "", fmt.Errorf("%w: server did not issue a csrf token", ErrProtocol)
	}
	return token, nil
}

func (c *Client) cookie(name string) string {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
