// Package transport opens the streamed reply for a conversation turn.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Rorical/RoriForge/internal/models"
)

var (
	ErrRateLimited     = errors.New("rate limit exceeded")
	ErrPaymentRequired = errors.New("payment required")
	ErrNoBody          = errors.New("response has no body")
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Transport returns the raw event stream answering a message history.
type Transport interface {
	Open(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error)

func (f Func) Open(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error) {
	return f(ctx, messages)
}

// Error is a non-success response from the chat endpoint. Rate limiting and
// exhausted credit unwrap to ErrRateLimited and ErrPaymentRequired.
type Error struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("chat endpoint returned %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.kind
}

type chatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
}

type errorBody struct {
	Error string `json:"error"`
}

// HTTPTransport posts the history as JSON and hands back the response body.
type HTTPTransport struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPTransport creates a transport for endpoint. The key, when set, is
// sent as a bearer token. A nil client means http.DefaultClient.
func NewHTTPTransport(endpoint, apiKey string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{endpoint: endpoint, apiKey: apiKey, client: client}
}

func (t *HTTPTransport) Open(ctx context.Context, messages []models.ChatMessage) (io.ReadCloser, error) {
	payload, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach chat endpoint: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, responseError(resp)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, ErrNoBody
	}
	return resp.Body, nil
}

func responseError(resp *http.Response) error {
	e := &Error{StatusCode: resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		e.kind = ErrRateLimited
	case http.StatusPaymentRequired:
		e.kind = ErrPaymentRequired
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		e.Message = body.Error
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
