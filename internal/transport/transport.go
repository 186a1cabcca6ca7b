package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/textproto"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/averycrespi/vooshi/pkg/types"
)

const (
	receiveTimeout = 10 * time.Second
)

var _ types.Transport = &JsonRpcTransport{}

// ResponseError is the error object of a JSON-RPC response
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

type response struct {
	result json.RawMessage
	err    *ResponseError
}

// JsonRpcTransport handles low-level JSON-RPC communication framed with LSP headers
type JsonRpcTransport struct {
	writer    io.Writer
	reader    *textproto.Reader
	requestID int64
	responses map[int64]chan response
	mu        sync.RWMutex
	writeMu   sync.Mutex
	done      chan struct{}
	stopOnce  sync.Once
}

// NewJsonRpcTransport creates a new JSON-RPC transport
func NewJsonRpcTransport(writer io.Writer, reader io.Reader) *JsonRpcTransport {
	return &JsonRpcTransport{
		writer:    writer,
		reader:    textproto.NewReader(bufio.NewReader(reader)),
		responses: make(map[int64]chan response),
		done:      make(chan struct{}),
	}
}

func (t *JsonRpcTransport) Start() error {
	slog.Debug("Starting JSON-RPC transport")
	go t.readResponses()
	return nil
}

func (t *JsonRpcTransport) Stop() error {
	t.stopOnce.Do(func() {
		slog.Debug("Stopping JSON-RPC transport")
		close(t.done)
	})
	return nil
}

func (t *JsonRpcTransport) isClosed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *JsonRpcTransport) readResponses() {
	defer func() {
		_ = t.Stop()
	}()

	for !t.isClosed() {
		body, err := t.readMessage()
		if err != nil {
			if err != io.EOF {
				slog.Error("Failed to read JSON-RPC message", "error", err)
			}
			return
		}
		t.handleResponse(body)
	}
}

// readMessage reads one Content-Length framed message
func (t *JsonRpcTransport) readMessage() ([]byte, error) {
	header, err := t.reader.ReadMIMEHeader()
	if err != nil {
		return nil, err
	}

	contentLength, err := strconv.Atoi(header.Get("Content-Length"))
	if err != nil || contentLength < 0 {
		return nil, fmt.Errorf("invalid Content-Length header %q", header.Get("Content-Length"))
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.reader.R, body); err != nil {
		return nil, fmt.Errorf("failed to read JSON-RPC message body: %w", err)
	}
	return body, nil
}

func (t *JsonRpcTransport) handleResponse(content []byte) {
	var resp struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Result json.RawMessage `json:"result"`
		Error  *ResponseError  `json:"error"`
	}
	if err := json.Unmarshal(content, &resp); err != nil {
		slog.Error("Failed to unmarshal JSON-RPC response", "error", err, "content", string(content))
		return
	}

	if resp.Method != "" {
		if resp.ID != nil {
			t.replyToServerRequest(resp.ID, resp.Method)
		}
		return // ignore notifications
	}
	if resp.ID == nil {
		return
	}

	var id int64
	if err := json.Unmarshal(resp.ID, &id); err != nil {
		slog.Error("Failed to unmarshal JSON-RPC response ID", "error", err, "raw_id", string(resp.ID))
		return
	}

	t.mu.RLock()
	ch, ok := t.responses[id]
	t.mu.RUnlock()

	if ok {
		ch <- response{result: resp.Result, err: resp.Error}
	}
}

// SendRequest sends a JSON-RPC request and waits for the response
func (t *JsonRpcTransport) SendRequest(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if t.isClosed() {
		return nil, fmt.Errorf("cannot send request: transport is closed")
	}

	id := atomic.AddInt64(&t.requestID, 1)
	startTime := time.Now()

	slog.Debug("Sending JSON-RPC request", "request_id", id, "method", method)

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	}

	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON-RPC request: %w", err)
	}

	ch := make(chan response, 1)
	t.mu.Lock()
	t.responses[id] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.responses, id)
		t.mu.Unlock()
	}()

	if err := t.writeMessage(data); err != nil {
		return nil, fmt.Errorf("failed to write JSON-RPC request: %w", err)
	}

	timer := time.NewTimer(receiveTimeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		slog.Debug("Received JSON-RPC response",
			"request_id", id,
			"method", method,
			"duration_ms", time.Since(startTime).Milliseconds())
		if resp.err != nil {
			return nil, resp.err
		}
		return resp.result, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("request %s cancelled: %w", method, ctx.Err())
	case <-t.done:
		return nil, fmt.Errorf("transport closed while waiting for response to method %s", method)
	case <-timer.C:
		slog.Error("Timeout waiting for JSON-RPC response",
			"request_id", id,
			"method", method,
			"timeout_ms", receiveTimeout.Milliseconds())
		return nil, fmt.Errorf("timeout waiting for response to method %s", method)
	}
}

// SendNotification sends a JSON-RPC notification (no response expected)
func (t *JsonRpcTransport) SendNotification(method string, params any) error {
	if t.isClosed() {
		return fmt.Errorf("cannot send notification: transport is closed")
	}

	slog.Debug("Sending JSON-RPC notification", "method", method)

	notification := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
	}
	if params != nil {
		notification["params"] = params
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON-RPC notification: %w", err)
	}

	if err := t.writeMessage(data); err != nil {
		return fmt.Errorf("failed to write JSON-RPC notification: %w", err)
	}

	return nil
}

// replyToServerRequest answers server-to-client requests with a null result
func (t *JsonRpcTransport) replyToServerRequest(id json.RawMessage, method string) {
	slog.Debug("Answering server request", "method", method, "raw_id", string(id))

	data, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  nil,
	})
	if err != nil {
		slog.Error("Failed to marshal JSON-RPC reply", "error", err, "method", method)
		return
	}
	if err := t.writeMessage(data); err != nil {
		slog.Error("Failed to write JSON-RPC reply", "error", err, "method", method)
	}
}

func (t *JsonRpcTransport) writeMessage(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	if _, err := io.WriteString(t.writer, header); err != nil {
		return fmt.Errorf("failed to write JSON-RPC message header: %w", err)
	}

	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON-RPC message data: %w", err)
	}

	return nil
}
