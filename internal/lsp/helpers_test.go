package lsp

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"chert/internal/driver"
)

// fakeTransport feeds a scripted message queue to the server and
// records everything sent back. Receive reports EOF and closes once
// the queue drains, the way a client hanging up does.
type fakeTransport struct {
	queue   []*rpcMessage
	replies []sentReply
	errors  []sentError
	notes   []sentNote
	closed  bool
}

type sentReply struct {
	id     string
	result any
}

type sentError struct {
	id      string
	code    int
	message string
}

type sentNote struct {
	method string
	params any
}

func (ft *fakeTransport) Receive() (*rpcMessage, error) {
	if len(ft.queue) == 0 {
		ft.closed = true
		return nil, io.EOF
	}
	msg := ft.queue[0]
	ft.queue = ft.queue[1:]
	return msg, nil
}

func (ft *fakeTransport) Reply(id json.RawMessage, result any) error {
	ft.replies = append(ft.replies, sentReply{id: string(id), result: result})
	return nil
}

func (ft *fakeTransport) Error(id json.RawMessage, code int, message string) error {
	ft.errors = append(ft.errors, sentError{id: string(id), code: code, message: message})
	return nil
}

func (ft *fakeTransport) Notify(method string, params any) error {
	ft.notes = append(ft.notes, sentNote{method: method, params: params})
	return nil
}

func (ft *fakeTransport) Closed() bool { return ft.closed }

func (ft *fakeTransport) replyFor(id int) (sentReply, bool) {
	for _, r := range ft.replies {
		if r.id == strconv.Itoa(id) {
			return r, true
		}
	}
	return sentReply{}, false
}

func (ft *fakeTransport) publishes() []publishDiagnosticsParams {
	var out []publishDiagnosticsParams
	for _, n := range ft.notes {
		if n.method == "textDocument/publishDiagnostics" {
			out = append(out, n.params.(publishDiagnosticsParams))
		}
	}
	return out
}

func request(t *testing.T, id int, method string, params any) *rpcMessage {
	t.Helper()
	msg := &rpcMessage{
		JSONRPC: "2.0",
		ID:      json.RawMessage(strconv.Itoa(id)),
		Method:  method,
	}
	if params != nil {
		payload, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("marshal %s params: %v", method, err)
		}
		msg.Params = payload
	}
	return msg
}

func notification(t *testing.T, method string, params any) *rpcMessage {
	t.Helper()
	msg := request(t, 0, method, params)
	msg.ID = nil
	return msg
}

// script builds a message sequence against a temp workspace and runs a
// server over it to completion.
type script struct {
	t    *testing.T
	root string
	msgs []*rpcMessage
}

type session struct {
	root      string
	transport *fakeTransport
	server    *Server
	err       error
}

func newScript(t *testing.T) *script {
	t.Helper()
	return &script{t: t, root: t.TempDir()}
}

func (sc *script) uri(rel string) string {
	return pathToURI(filepath.Join(sc.root, filepath.FromSlash(rel)))
}

func (sc *script) push(msg *rpcMessage) {
	sc.msgs = append(sc.msgs, msg)
}

func (sc *script) initialize() {
	sc.push(request(sc.t, 1, "initialize", initializeParams{RootURI: pathToURI(sc.root)}))
}

func (sc *script) open(rel, text string) {
	sc.push(notification(sc.t, "textDocument/didOpen", didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: sc.uri(rel), LanguageID: "chert", Version: 1, Text: text},
	}))
}

func (sc *script) change(rel string, version int, changes ...textDocumentContentChangeEvent) {
	sc.push(notification(sc.t, "textDocument/didChange", didChangeTextDocumentParams{
		TextDocument:   versionedTextDocumentIdentifier{URI: sc.uri(rel), Version: version},
		ContentChanges: changes,
	}))
}

func (sc *script) query(id int, method, rel string, pos position) {
	sc.push(request(sc.t, id, method, textDocumentPositionParams{
		TextDocument: textDocumentIdentifier{URI: sc.uri(rel)},
		Position:     pos,
	}))
}

func (sc *script) run(opts ServerOptions) *session {
	sc.t.Helper()
	ft := &fakeTransport{queue: sc.msgs}
	srv := NewServer(ft, opts)
	err := srv.Run(context.Background())
	return &session{root: sc.root, transport: ft, server: srv, err: err}
}

func replaceAll(text string) textDocumentContentChangeEvent {
	return textDocumentContentChangeEvent{Text: text}
}

func spliceAt(start, end position, text string) textDocumentContentChangeEvent {
	return textDocumentContentChangeEvent{Range: &lspRange{Start: start, End: end}, Text: text}
}

// engineSpy counts compiles while delegating to the real engine.
type engineSpy struct {
	calls int
}

func (e *engineSpy) analyze(ctx context.Context, sources map[string]string, opts driver.Options) *driver.Snapshot {
	e.calls++
	return driver.Analyze(ctx, sources, opts)
}

func nthIndex(t *testing.T, text, needle string, n int) int {
	t.Helper()
	idx := -1
	for ; n > 0; n-- {
		next := strings.Index(text[idx+1:], needle)
		if next < 0 {
			t.Fatalf("occurrence of %q not found", needle)
		}
		idx += 1 + next
	}
	return idx
}

// wirePos converts a byte offset to a wire position. Fixture sources
// are ASCII, so byte columns equal UTF-16 columns.
func wirePos(text string, offset int) position {
	line := strings.Count(text[:offset], "\n")
	col := offset
	if nl := strings.LastIndexByte(text[:offset], '\n'); nl >= 0 {
		col = offset - nl - 1
	}
	return position{Line: line, Character: col}
}

func posOf(t *testing.T, text, needle string) position {
	t.Helper()
	return posOfN(t, text, needle, 1)
}

func posOfN(t *testing.T, text, needle string, n int) position {
	t.Helper()
	return wirePos(text, nthIndex(t, text, needle, n))
}

// wireRange is the range of the n-th occurrence of needle.
func wireRange(t *testing.T, text, needle string, n int) lspRange {
	t.Helper()
	idx := nthIndex(t, text, needle, n)
	return lspRange{Start: wirePos(text, idx), End: wirePos(text, idx+len(needle))}
}
