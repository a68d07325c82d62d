package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Transport is the message channel a session runs over: one structured
// message in at a time, replies and notifications going back out.
type Transport interface {
	Receive() (*rpcMessage, error)
	Reply(id json.RawMessage, result any) error
	Error(id json.RawMessage, code int, message string) error
	Notify(method string, params any) error
	Closed() bool
}

// StdioTransport frames JSON-RPC messages with Content-Length headers
// over a byte stream, the way editors speak to a language server.
type StdioTransport struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	closed bool
}

func NewStdioTransport(in io.Reader, out io.Writer) *StdioTransport {
	return &StdioTransport{
		in:  bufio.NewReader(in),
		out: bufio.NewWriter(out),
	}
}

// Receive blocks for the next framed message. A broken frame or stream
// end closes the transport; a body that fails to parse does not, the
// stream stays framed and the session can keep going.
func (t *StdioTransport) Receive() (*rpcMessage, error) {
	payload, err := readMessage(t.in)
	if err != nil {
		t.closed = true
		return nil, err
	}
	var msg rpcMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	return &msg, nil
}

func (t *StdioTransport) Reply(id json.RawMessage, result any) error {
	return t.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      normalizeID(id),
		"result":  result,
	})
}

func (t *StdioTransport) Error(id json.RawMessage, code int, message string) error {
	return t.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      normalizeID(id),
		"error":   rpcError{Code: code, Message: message},
	})
}

func (t *StdioTransport) Notify(method string, params any) error {
	return t.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
}

func (t *StdioTransport) Closed() bool {
	return t.closed
}

func (t *StdioTransport) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	if err := writeMessage(t.out, payload); err != nil {
		return err
	}
	return t.out.Flush()
}

// normalizeID keeps error replies to id-less notifications well formed.
func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}

func readMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			length, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = length
		}
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeMessage(w io.Writer, payload []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
