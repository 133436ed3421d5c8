package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 16 << 20

// Transport performs one Bot API call: it delivers payload to method and
// returns the raw response envelope. Implementations must honour ctx.
type Transport interface {
	Call(ctx context.Context, method string, payload []byte) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, method string, payload []byte) ([]byte, error)

func (f TransportFunc) Call(ctx context.Context, method string, payload []byte) ([]byte, error) {
	return f(ctx, method, payload)
}

// HTTPTransport posts JSON payloads to {apiURL}/bot{token}/{method}.
type HTTPTransport struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithAPIURL points the transport at another Bot API server, such as a
// self-hosted one or a test double.
func WithAPIURL(url string) HTTPOption {
	return func(t *HTTPTransport) {
		t.apiURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// WithRequestTimeout sets the client timeout applied to every request.
// Long polls are bounded by their context deadline instead, so keep this
// above the poll timeout or leave it zero.
func WithRequestTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		t.httpClient = &http.Client{Timeout: d, Transport: t.httpClient.Transport}
	}
}

// NewHTTPTransport creates a transport for the bot identified by token.
func NewHTTPTransport(token string, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		token:      token,
		apiURL:     DefaultAPIURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HTTPTransport) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.apiURL, t.token, method)
}

// Call implements Transport. Responses with a non-2xx status are returned as
// payload when their body is JSON, since the Bot API reports rejections that
// way. Anything else is a *TransportError.
func (t *HTTPTransport) Call(ctx context.Context, method string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(method), bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Method: method, Err: redactToken(err, t.token)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &TransportError{Method: method, Err: ctxErr}
		}
		return nil, &TransportError{Method: method, Err: redactToken(err, t.token)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Method: method, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if !json.Valid(body) {
			return nil, &TransportError{Method: method, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		}
	}
	return body, nil
}

// redactToken keeps the bot token out of url.Error and url parse errors,
// which embed the request URL.
func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
