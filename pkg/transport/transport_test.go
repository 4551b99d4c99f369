package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
	"github.com/cursorsafe/mcp-client-go/pkg/protocol"
)

func TestNewTransportFactory(t *testing.T) {
	tr, err := NewTransport(DefaultTransportConfig(TransportTypeStdio))
	require.NoError(t, err)
	assert.IsType(t, &StdioTransport{}, tr)

	config := DefaultTransportConfig(TransportTypeHTTP)
	_, err = NewTransport(config)
	require.Error(t, err, "HTTP transport requires an endpoint")

	config.Endpoint = "http://localhost:9999/rpc"
	tr, err = NewTransport(config)
	require.NoError(t, err)
	assert.IsType(t, &HTTPTransport{}, tr)

	_, err = NewTransport(TransportConfig{Type: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrUnsupportedTransportType)
}

func TestBaseTransportGenerateID(t *testing.T) {
	base := NewBaseTransport(nil)
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := base.GenerateID()
		assert.False(t, ids[id], "duplicate id %s", id)
		ids[id] = true
	}
}

func TestBaseTransportUnknownResponseIsIgnored(t *testing.T) {
	base := NewBaseTransport(nil)
	resp, err := protocol.NewResponse("req_999", map[string]string{"ok": "true"})
	require.NoError(t, err)

	// Must not panic or block.
	base.HandleResponse(resp)
}

func TestBaseTransportNotificationPanicRecovered(t *testing.T) {
	base := NewBaseTransport(nil)
	base.RegisterNotificationHandler("boom", func(ctx context.Context, params json.RawMessage) error {
		panic("handler bug")
	})

	notif, err := protocol.NewNotification("boom", nil)
	require.NoError(t, err)

	err = base.HandleNotification(context.Background(), notif)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler bug")
}

// stdioHarness wires a StdioTransport to an in-process fake server over pipes.
type stdioHarness struct {
	transport *StdioTransport
	fromSrv   *io.PipeWriter // fake server writes here
	toSrv     *bufio.Scanner // fake server reads client output here
}

func newStdioHarness(t *testing.T) *stdioHarness {
	t.Helper()

	clientIn, srvOut := io.Pipe()
	srvIn, clientOut := io.Pipe()

	tr := NewStdioTransport(DefaultTransportConfig(TransportTypeStdio))
	tr.SetStreams(clientIn, clientOut)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = tr.Start(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		_ = tr.Stop(context.Background())
	})
	return &stdioHarness{
		transport: tr,
		fromSrv:   srvOut,
		toSrv:     bufio.NewScanner(srvIn),
	}
}

func TestStdioSendRequestRoundTrip(t *testing.T) {
	h := newStdioHarness(t)

	// Fake server: answer the first request with a tools/list style result.
	go func() {
		require.True(t, h.toSrv.Scan())
		var req protocol.Request
		require.NoError(t, json.Unmarshal(h.toSrv.Bytes(), &req))
		assert.Equal(t, "tools/list", req.Method)

		resp, err := protocol.NewResponse(req.ID, map[string]interface{}{
			"tools":      []map[string]string{{"name": "echo"}},
			"nextCursor": "c1",
		})
		require.NoError(t, err)
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		fmt.Fprintf(h.fromSrv, "%s\n", data)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := h.transport.SendRequest(ctx, "tools/list", &protocol.ListToolsParams{})
	require.NoError(t, err)

	var listResult protocol.ListToolsResult
	require.NoError(t, json.Unmarshal(result, &listResult))
	assert.Len(t, listResult.Tools, 1)
	assert.Equal(t, "c1", listResult.NextCursor)
}

func TestStdioSendRequestServerError(t *testing.T) {
	h := newStdioHarness(t)

	go func() {
		require.True(t, h.toSrv.Scan())
		var req protocol.Request
		require.NoError(t, json.Unmarshal(h.toSrv.Bytes(), &req))

		resp := protocol.NewErrorResponse(req.ID, protocol.MethodNotFound, "no such method", nil)
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		fmt.Fprintf(h.fromSrv, "%s\n", data)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.transport.SendRequest(ctx, "nope", nil)
	require.Error(t, err)
	assert.True(t, mcperrors.IsTransportError(err))

	var rpcErr *protocol.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.MethodNotFound, rpcErr.Code)
}

func TestStdioSendRequestCancellation(t *testing.T) {
	h := newStdioHarness(t)

	// Server consumes the request but never answers.
	go func() {
		h.toSrv.Scan()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := h.transport.SendRequest(ctx, "tools/list", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStdioNotificationDispatch(t *testing.T) {
	h := newStdioHarness(t)

	received := make(chan json.RawMessage, 1)
	h.transport.RegisterNotificationHandler(protocol.MethodToolsChanged,
		func(ctx context.Context, params json.RawMessage) error {
			received <- params
			return nil
		})

	notif, err := protocol.NewNotification(protocol.MethodToolsChanged, map[string]string{"reason": "update"})
	require.NoError(t, err)
	data, err := json.Marshal(notif)
	require.NoError(t, err)
	fmt.Fprintf(h.fromSrv, "%s\n", data)

	select {
	case params := <-received:
		assert.Contains(t, string(params), "update")
	case <-time.After(5 * time.Second):
		t.Fatal("notification never dispatched")
	}
}

func TestStdioDiscardsGarbage(t *testing.T) {
	h := newStdioHarness(t)

	fmt.Fprintf(h.fromSrv, "this is not json\n")

	// Transport survives: a subsequent round trip still works.
	go func() {
		require.True(t, h.toSrv.Scan())
		var req protocol.Request
		require.NoError(t, json.Unmarshal(h.toSrv.Bytes(), &req))
		resp, err := protocol.NewResponse(req.ID, map[string]interface{}{})
		require.NoError(t, err)
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		fmt.Fprintf(h.fromSrv, "%s\n", data)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := h.transport.SendRequest(ctx, "ping", nil)
	assert.NoError(t, err)
}

func TestHTTPSendRequestRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req protocol.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "prompts/list", req.Method)

		resp, err := protocol.NewResponse(req.ID, map[string]interface{}{
			"prompts": []map[string]string{{"name": "greeting"}},
		})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	config := DefaultTransportConfig(TransportTypeHTTP)
	config.Endpoint = srv.URL
	tr := NewHTTPTransport(config)
	require.NoError(t, tr.Initialize(context.Background()))

	result, err := tr.SendRequest(context.Background(), "prompts/list", &protocol.ListPromptsParams{})
	require.NoError(t, err)

	var listResult protocol.ListPromptsResult
	require.NoError(t, json.Unmarshal(result, &listResult))
	assert.Len(t, listResult.Prompts, 1)
}

func TestHTTPNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	config := DefaultTransportConfig(TransportTypeHTTP)
	config.Endpoint = srv.URL
	tr := NewHTTPTransport(config)

	_, err := tr.SendRequest(context.Background(), "tools/list", nil)
	require.Error(t, err)
	assert.True(t, mcperrors.IsTransportError(err))
}

func TestHTTPCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	config := DefaultTransportConfig(TransportTypeHTTP)
	config.Endpoint = srv.URL
	tr := NewHTTPTransport(config)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := tr.SendRequest(ctx, "tools/list", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
