package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/printmate/printmate/internal/model"
)

var (
	ErrUnavailable = errors.New("print backend unavailable")
	ErrNotJSON     = errors.New("print backend returned a non-JSON response")
)

// BackendError is a non-2xx answer from the print backend.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("print backend rejected job (%d): %s", e.Status, e.Message)
}

// maxBodySize bounds how much of a backend reply is read.
const maxBodySize = 1 << 20

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	FileURL string `json:"fileUrl"`
}

type backendReply struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Submit posts one print job. It does not retry and does not track the job afterwards.
func (c *Client) Submit(ctx context.Context, fileURL string) (*model.PrintAck, error) {
	body, err := json.Marshal(submitRequest{FileURL: fileURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode print request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/print", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build print request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading reply: %v", ErrUnavailable, err)
	}

	var reply backendReply
	jsonErr := json.Unmarshal(raw, &reply)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := reply.Message
		if msg == "" {
			msg = reply.Error
		}
		if jsonErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &BackendError{Status: resp.StatusCode, Message: msg}
	}

	if jsonErr != nil {
		return nil, ErrNotJSON
	}

	return &model.PrintAck{Message: reply.Message}, nil
}
