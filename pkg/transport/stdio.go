package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/cursorsafe/mcp-client-go/pkg/errors"
	"github.com/cursorsafe/mcp-client-go/pkg/logging"
	"github.com/cursorsafe/mcp-client-go/pkg/protocol"
)

// StdioTransport exchanges newline-delimited JSON-RPC messages over a pair of
// streams, typically the stdin/stdout of a spawned server process.
type StdioTransport struct {
	*BaseTransport

	reader io.Reader
	writer io.Writer

	writeMu   sync.Mutex
	bufWriter *bufio.Writer

	done     chan struct{}
	stopOnce sync.Once
}

// NewStdioTransport creates a stdio transport reading from os.Stdin and
// writing to os.Stdout unless overridden with SetStreams.
func NewStdioTransport(config TransportConfig) *StdioTransport {
	return &StdioTransport{
		BaseTransport: NewBaseTransport(config.Logger),
		reader:        os.Stdin,
		writer:        os.Stdout,
		bufWriter:     bufio.NewWriter(os.Stdout),
		done:          make(chan struct{}),
	}
}

// SetStreams replaces the transport's streams. Used for connecting to a
// subprocess's pipes and for tests. Must be called before Start.
func (t *StdioTransport) SetStreams(reader io.Reader, writer io.Writer) {
	t.reader = reader
	t.writer = writer
	t.bufWriter = bufio.NewWriter(writer)
}

// Initialize prepares the transport. The streams already exist, so this is a
// no-op.
func (t *StdioTransport) Initialize(ctx context.Context) error {
	return nil
}

// Start reads incoming messages until EOF, the context is cancelled, or Stop
// is called. It blocks; run it in its own goroutine.
func (t *StdioTransport) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	scannerDone := make(chan struct{})

	g.Go(func() error {
		defer close(scannerDone)

		scanner := bufio.NewScanner(t.reader)
		for scanner.Scan() {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-t.done:
				return nil
			default:
			}

			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			// Scanner reuses its buffer; the dispatch below may outlive
			// this iteration.
			data := make([]byte, len(line))
			copy(data, line)
			t.dispatch(gctx, data)
		}

		if err := scanner.Err(); err != nil && err != io.EOF {
			return mcperrors.ConnectionLost(err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			t.closeReader()
			return gctx.Err()
		case <-t.done:
			t.closeReader()
			return nil
		case <-scannerDone:
			return nil
		}
	})

	return g.Wait()
}

// closeReader unblocks a pending scanner.Scan when the stream is closable.
func (t *StdioTransport) closeReader() {
	if closer, ok := t.reader.(io.Closer); ok {
		_ = closer.Close()
	}
}

// Stop shuts the transport down and flushes any buffered output.
func (t *StdioTransport) Stop(ctx context.Context) error {
	var flushErr error
	t.stopOnce.Do(func() {
		close(t.done)

		t.writeMu.Lock()
		if t.bufWriter != nil {
			flushErr = t.bufWriter.Flush()
		}
		t.writeMu.Unlock()

		t.BaseTransport.Cleanup()
	})
	return flushErr
}

// SendRequest sends a request and blocks until its response arrives or the
// context is done.
func (t *StdioTransport) SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	id := t.GenerateID()
	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	ch := t.RegisterPending(id)
	if err := t.writeLine(data); err != nil {
		t.UnregisterPending(id)
		return nil, mcperrors.TransportError(err, method)
	}

	response, err := t.WaitForResponse(ctx, id, ch)
	if err != nil {
		return nil, err
	}
	return resultOrError(method, response)
}

// SendNotification sends a one-way message.
func (t *StdioTransport) SendNotification(ctx context.Context, method string, params interface{}) error {
	notification, err := protocol.NewNotification(method, params)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshalling notification: %w", err)
	}
	if err := t.writeLine(data); err != nil {
		return mcperrors.TransportError(err, method)
	}
	return nil
}

// writeLine writes one message terminated by a newline and flushes.
func (t *StdioTransport) writeLine(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.bufWriter.Write(data); err != nil {
		return err
	}
	if err := t.bufWriter.WriteByte('\n'); err != nil {
		return err
	}
	return t.bufWriter.Flush()
}

// dispatch classifies one incoming message and routes it. Responses are
// matched to pending requests; notifications go to their handlers. Requests
// from the server are not supported by this client and are ignored with a
// warning.
func (t *StdioTransport) dispatch(ctx context.Context, data []byte) {
	var probe struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Result json.RawMessage `json:"result"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		t.logger.Warn("discarding unparseable message", logging.ErrorField(err))
		return
	}

	switch {
	case probe.ID != nil && (probe.Result != nil || probe.Error != nil):
		var response protocol.Response
		if err := json.Unmarshal(data, &response); err != nil {
			t.logger.Warn("discarding malformed response", logging.ErrorField(err))
			return
		}
		t.HandleResponse(&response)

	case probe.Method != "" && probe.ID == nil:
		var notification protocol.Notification
		if err := json.Unmarshal(data, &notification); err != nil {
			t.logger.Warn("discarding malformed notification", logging.ErrorField(err))
			return
		}
		if err := t.HandleNotification(ctx, &notification); err != nil {
			t.logger.WithError(err).Warn("notification handler failed",
				logging.String("method", notification.Method))
		}

	case probe.Method != "":
		t.logger.Warn("ignoring server-initiated request",
			logging.String("method", probe.Method))

	default:
		t.logger.Warn("discarding message of unknown shape")
	}
}
