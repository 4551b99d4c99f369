package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
	"github.com/cursorsafe/mcp-client-go/pkg/protocol"
)

// HTTPTransport speaks JSON-RPC over plain HTTP: every request is a POST to a
// single endpoint whose response body carries the JSON-RPC response. There is
// no server-push channel, so notifications from the server are never received.
type HTTPTransport struct {
	*BaseTransport

	endpoint   string
	client     *http.Client
	reqTimeout time.Duration
}

// NewHTTPTransport creates an HTTP transport for the configured endpoint.
func NewHTTPTransport(config TransportConfig) *HTTPTransport {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		BaseTransport: NewBaseTransport(config.Logger),
		endpoint:      config.Endpoint,
		client:        &http.Client{Timeout: timeout},
		reqTimeout:    timeout,
	}
}

// SetHTTPClient replaces the underlying HTTP client, e.g. to add custom
// transports or TLS configuration. Must be called before use.
func (t *HTTPTransport) SetHTTPClient(client *http.Client) {
	if client != nil {
		t.client = client
	}
}

// Initialize verifies the configuration.
func (t *HTTPTransport) Initialize(ctx context.Context) error {
	if t.endpoint == "" {
		return fmt.Errorf("no endpoint configured")
	}
	return nil
}

// Start blocks until the context is done. The HTTP transport has no receive
// loop of its own; it exists so callers can manage all transports uniformly.
func (t *HTTPTransport) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Stop releases idle connections.
func (t *HTTPTransport) Stop(ctx context.Context) error {
	t.client.CloseIdleConnections()
	t.BaseTransport.Cleanup()
	return nil
}

// SendRequest posts a request and decodes the JSON-RPC response from the
// reply body.
func (t *HTTPTransport) SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	id := t.GenerateID()
	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	body, err := t.post(ctx, method, req)
	if err != nil {
		return nil, err
	}

	var response protocol.Response
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, mcperrors.TransportError(fmt.Errorf("malformed response body: %w", err), method)
	}
	return resultOrError(method, &response)
}

// SendNotification posts a one-way message; the reply body is discarded.
func (t *HTTPTransport) SendNotification(ctx context.Context, method string, params interface{}) error {
	notification, err := protocol.NewNotification(method, params)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	_, err = t.post(ctx, method, notification)
	return err
}

func (t *HTTPTransport) post(ctx context.Context, method string, message interface{}) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("marshalling message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, mcperrors.TransportError(err, method)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		// The context's own error wins so callers see cancellation as
		// cancellation, not as a transport failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, mcperrors.ConnectionFailed(t.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mcperrors.ConnectionLost(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mcperrors.TransportError(
			fmt.Errorf("unexpected HTTP status %d", resp.StatusCode), method)
	}
	return body, nil
}
