package lsp

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Entry is one message of a recorded session: direction, arrival time
// and the JSON body as it crossed the wire.
type Entry struct {
	Dir     string
	Time    time.Time
	Payload []byte
}

const (
	DirIn  = "in"
	DirOut = "out"
)

// RecordingTransport tees every message crossing the wrapped transport
// into a msgpack stream, for replaying sessions offline.
type RecordingTransport struct {
	inner Transport
	enc   *msgpack.Encoder
	mu    sync.Mutex
	now   func() time.Time
}

func NewRecordingTransport(inner Transport, w io.Writer) *RecordingTransport {
	return &RecordingTransport{
		inner: inner,
		enc:   msgpack.NewEncoder(w),
		now:   time.Now,
	}
}

func (t *RecordingTransport) Receive() (*rpcMessage, error) {
	msg, err := t.inner.Receive()
	if err != nil {
		return nil, err
	}
	if payload, merr := json.Marshal(msg); merr == nil {
		t.record(DirIn, payload)
	}
	return msg, nil
}

func (t *RecordingTransport) Reply(id json.RawMessage, result any) error {
	t.recordOut(map[string]any{
		"jsonrpc": "2.0",
		"id":      normalizeID(id),
		"result":  result,
	})
	return t.inner.Reply(id, result)
}

func (t *RecordingTransport) Error(id json.RawMessage, code int, message string) error {
	t.recordOut(map[string]any{
		"jsonrpc": "2.0",
		"id":      normalizeID(id),
		"error":   rpcError{Code: code, Message: message},
	})
	return t.inner.Error(id, code, message)
}

func (t *RecordingTransport) Notify(method string, params any) error {
	t.recordOut(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
	return t.inner.Notify(method, params)
}

func (t *RecordingTransport) Closed() bool {
	return t.inner.Closed()
}

func (t *RecordingTransport) recordOut(msg any) {
	if payload, err := json.Marshal(msg); err == nil {
		t.record(DirOut, payload)
	}
}

// record appends one entry to the stream. Encode failures are dropped:
// a broken recording must not break the live session.
func (t *RecordingTransport) record(dir string, payload []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.enc.Encode(Entry{Dir: dir, Time: t.now(), Payload: payload})
}

// DecodeSession reads recorded entries until the stream ends.
func DecodeSession(r io.Reader) ([]Entry, error) {
	dec := msgpack.NewDecoder(r)
	var entries []Entry
	for {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return entries, err
		}
		entries = append(entries, e)
	}
}
