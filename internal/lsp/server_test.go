package lsp

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chert/internal/version"
)

func TestInitializeReportsCapabilities(t *testing.T) {
	sc := newScript(t)
	sc.initialize()
	sess := sc.run(ServerOptions{})
	if sess.err != nil {
		t.Fatalf("run: %v", sess.err)
	}

	reply, ok := sess.transport.replyFor(1)
	if !ok {
		t.Fatal("no initialize reply")
	}
	result, ok := reply.result.(initializeResult)
	if !ok {
		t.Fatalf("unexpected reply type %T", reply.result)
	}
	caps := result.Capabilities
	if !caps.TextDocumentSync.OpenClose || caps.TextDocumentSync.Change != syncIncremental {
		t.Fatalf("unexpected sync options: %+v", caps.TextDocumentSync)
	}
	if !caps.HoverProvider || !caps.DefinitionProvider || !caps.ImplementationProvider ||
		!caps.DocumentHighlightProvider || !caps.ReferencesProvider {
		t.Fatalf("missing providers: %+v", caps)
	}
	if result.ServerInfo.Name != "chert" || result.ServerInfo.Version != version.Number {
		t.Fatalf("unexpected server info: %+v", result.ServerInfo)
	}
}

func TestShutdownThenExit(t *testing.T) {
	sc := newScript(t)
	sc.initialize()
	sc.push(request(t, 2, "shutdown", nil))
	sc.push(notification(t, "exit", nil))
	sess := sc.run(ServerOptions{})

	if !errors.Is(sess.err, ErrExit) {
		t.Fatalf("got %v", sess.err)
	}
	reply, ok := sess.transport.replyFor(2)
	if !ok {
		t.Fatal("no shutdown reply")
	}
	if reply.result != nil {
		t.Fatalf("shutdown reply should be null, got %v", reply.result)
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	sc := newScript(t)
	sc.initialize()
	sc.push(notification(t, "exit", nil))
	sess := sc.run(ServerOptions{})
	if !errors.Is(sess.err, ErrExitWithoutShutdown) {
		t.Fatalf("got %v", sess.err)
	}
}

func TestClientHangupEndsCleanly(t *testing.T) {
	sc := newScript(t)
	sc.initialize()
	sess := sc.run(ServerOptions{})
	if sess.err != nil {
		t.Fatalf("got %v", sess.err)
	}
	if !sess.transport.Closed() {
		t.Fatal("transport should be closed after the queue drains")
	}
}

func TestUnknownMethodKeepsServing(t *testing.T) {
	src := "uint total = 1;\n"
	sc := newScript(t)
	sc.initialize()
	sc.open("main.ch", src)
	sc.push(request(t, 2, "nonsense/brew", nil))
	sc.push(notification(t, "nonsense/note", nil))
	sc.query(3, "textDocument/hover", "main.ch", posOf(t, src, "total"))
	sess := sc.run(ServerOptions{})

	if len(sess.transport.errors) != 2 {
		t.Fatalf("expected 2 errors, got %+v", sess.transport.errors)
	}
	first := sess.transport.errors[0]
	if first.id != "2" || first.code != codeMethodNotFound || first.message != "unknown method nonsense/brew" {
		t.Fatalf("unexpected error: %+v", first)
	}
	second := sess.transport.errors[1]
	if second.id != "" || second.code != codeMethodNotFound || second.message != "unknown method nonsense/note" {
		t.Fatalf("unexpected error: %+v", second)
	}

	reply, ok := sess.transport.replyFor(3)
	if !ok {
		t.Fatal("hover after unknown method got no reply")
	}
	h, ok := reply.result.(hover)
	if !ok {
		t.Fatalf("unexpected reply type %T", reply.result)
	}
	if h.Contents.Value != "uint" {
		t.Fatalf("hover: got %q", h.Contents.Value)
	}
}

func TestMalformedParamsReportInvalid(t *testing.T) {
	src := "uint total = 1;\n"
	sc := newScript(t)
	sc.initialize()
	sc.push(&rpcMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  json.RawMessage(`{"textDocument": 7}`),
	})
	sc.push(request(t, 2, "textDocument/hover", nil))
	sc.open("main.ch", src)
	sc.query(3, "textDocument/hover", "main.ch", posOf(t, src, "total"))
	sess := sc.run(ServerOptions{})

	if len(sess.transport.errors) != 2 {
		t.Fatalf("expected 2 errors, got %+v", sess.transport.errors)
	}
	if sess.transport.errors[0].code != codeInvalidParams || sess.transport.errors[0].id != "" {
		t.Fatalf("didOpen error: %+v", sess.transport.errors[0])
	}
	if sess.transport.errors[1].code != codeInvalidParams || sess.transport.errors[1].id != "2" {
		t.Fatalf("hover error: %+v", sess.transport.errors[1])
	}
	if _, ok := sess.transport.replyFor(3); !ok {
		t.Fatal("session should keep serving after bad params")
	}
}

func TestEmptyChangeBatchSkipsCompile(t *testing.T) {
	spy := &engineSpy{}
	sc := newScript(t)
	sc.initialize()
	sc.open("main.ch", "uint total = 1;\n")
	sc.change("main.ch", 2)
	sess := sc.run(ServerOptions{Analyze: spy.analyze})
	if sess.err != nil {
		t.Fatalf("run: %v", sess.err)
	}
	if spy.calls != 1 {
		t.Fatalf("expected 1 compile, got %d", spy.calls)
	}
}

func TestChangeBatchCompilesOnce(t *testing.T) {
	spy := &engineSpy{}
	sc := newScript(t)
	sc.initialize()
	sc.open("main.ch", "uint total = 1;\n")
	sc.change("main.ch", 2,
		replaceAll("int a=1;"),
		spliceAt(position{Line: 0, Character: 4}, position{Line: 0, Character: 5}, "bb"),
	)
	sess := sc.run(ServerOptions{Analyze: spy.analyze})

	if spy.calls != 2 {
		t.Fatalf("expected 2 compiles, got %d", spy.calls)
	}
	if got, _ := sess.server.docs.Get("main.ch"); got != "int bb=1;" {
		t.Fatalf("got %q", got)
	}
}

func TestDidCloseKeepsDocumentTracked(t *testing.T) {
	src := "uint total = 1;\n"
	spy := &engineSpy{}
	sc := newScript(t)
	sc.initialize()
	sc.open("main.ch", src)
	sc.push(notification(t, "textDocument/didClose", map[string]any{
		"textDocument": map[string]any{"uri": sc.uri("main.ch")},
	}))
	sc.query(2, "textDocument/hover", "main.ch", posOf(t, src, "total"))
	sess := sc.run(ServerOptions{Analyze: spy.analyze})

	if spy.calls != 1 {
		t.Fatalf("didClose should not compile, got %d calls", spy.calls)
	}
	reply, ok := sess.transport.replyFor(2)
	if !ok {
		t.Fatal("hover after didClose got no reply")
	}
	if h, ok := reply.result.(hover); !ok || h.Contents.Value != "uint" {
		t.Fatalf("hover after didClose: %+v", reply.result)
	}
}

func TestQueryUntrackedDocumentIsEmpty(t *testing.T) {
	sc := newScript(t)
	sc.initialize()
	sc.query(2, "textDocument/definition", "ghost.ch", position{})
	sess := sc.run(ServerOptions{})

	reply, ok := sess.transport.replyFor(2)
	if !ok {
		t.Fatal("no reply")
	}
	locs, ok := reply.result.([]location)
	if !ok || len(locs) != 0 {
		t.Fatalf("expected empty location list, got %+v", reply.result)
	}
}

func TestManifestSeedsSessionOptions(t *testing.T) {
	sc := newScript(t)
	manifest := "[package]\nname = \"demo\"\n\n[build]\ntarget = \"1.0\"\n"
	if err := os.WriteFile(filepath.Join(sc.root, "chert.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	sc.initialize()
	sess := sc.run(ServerOptions{})
	if sess.server.opts.Target != "1.0" {
		t.Fatalf("target: got %q", sess.server.opts.Target)
	}
}

func TestInitializationOptionsOverrideManifest(t *testing.T) {
	sc := newScript(t)
	manifest := "[package]\nname = \"demo\"\n\n[build]\ntarget = \"1.0\"\n"
	if err := os.WriteFile(filepath.Join(sc.root, "chert.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	sc.push(request(t, 1, "initialize", initializeParams{
		RootURI:               pathToURI(sc.root),
		InitializationOptions: json.RawMessage(`{"target":"1.1"}`),
	}))
	sess := sc.run(ServerOptions{})
	if sess.server.opts.Target != "1.1" {
		t.Fatalf("target: got %q", sess.server.opts.Target)
	}
}

func TestInitializeSetsTraceLevel(t *testing.T) {
	sc := newScript(t)
	sc.push(request(t, 1, "initialize", initializeParams{
		RootURI: pathToURI(sc.root),
		Trace:   "off",
	}))
	sess := sc.run(ServerOptions{})
	if sess.server.trace != traceOff {
		t.Fatalf("trace: got %d", sess.server.trace)
	}
}

func TestDefaultTargetApplied(t *testing.T) {
	sc := newScript(t)
	sc.initialize()
	sess := sc.run(ServerOptions{})
	if sess.server.opts.Target == "" {
		t.Fatal("target should default")
	}
}
