package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Client produces a completion for a prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Endpoint() string
}

var (
	// ErrUnreachable is returned when no connection to the endpoint could be made.
	ErrUnreachable = errors.New("inference endpoint unreachable")
	ErrBadStatus   = errors.New("inference endpoint returned non-2xx status")
	ErrBadResponse = errors.New("inference response could not be decoded")
)

type completionRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type completionResponse struct {
	Response string `json:"response"`
}

// HTTPClient posts prompts to a local inference server.
type HTTPClient struct {
	endpoint   string
	maxTokens  int
	httpClient *http.Client
}

// NewHTTPClient builds a client for endpoint. A zero timeout means none.
func NewHTTPClient(endpoint string, maxTokens int, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint:   endpoint,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Complete sends one request and returns the "response" field, which may be
// empty. It never retries.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{Prompt: prompt, MaxTokens: c.maxTokens})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectError(err) {
			return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return "", fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	return out.Response, nil
}

func isConnectError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
