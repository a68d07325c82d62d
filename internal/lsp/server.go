package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chert/internal/driver"
	"chert/internal/project"
	"chert/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures session behavior.
type ServerOptions struct {
	Analyze        driver.AnalyzeFunc // nil means the real engine
	Options        driver.Options
	MaxDiagnostics int
}

// Server owns one editor session. All session state lives here and is
// touched only from the Run loop: one message is received, dispatched
// and fully handled before the next, so handlers see a consistent
// store and snapshot without locking.
type Server struct {
	transport Transport
	docs      *DocumentStore
	analyze   driver.AnalyzeFunc
	opts      driver.Options

	ctx      context.Context
	basePath string
	trace    traceLevel

	snapshot  *driver.Snapshot
	published map[string]struct{}

	initialized       bool
	shutdownRequested bool
	exitRequested     bool
}

// NewServer wires a session over the given transport.
func NewServer(t Transport, opts ServerOptions) *Server {
	analyze := opts.Analyze
	if analyze == nil {
		analyze = driver.Analyze
	}
	engineOpts := opts.Options
	if engineOpts.Target == "" {
		engineOpts.Target = driver.DefaultTarget
	}
	if opts.MaxDiagnostics > 0 {
		engineOpts.MaxDiagnostics = opts.MaxDiagnostics
	}
	return &Server{
		transport: t,
		docs:      NewDocumentStore(),
		analyze:   analyze,
		opts:      engineOpts,
		trace:     traceMessages,
		published: make(map[string]struct{}),
	}
}

// Run serves the session until the client exits or the transport
// closes. Returns ErrExit after a clean shutdown/exit pair and
// ErrExitWithoutShutdown when the client skipped shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx
	for !s.exitRequested && !s.transport.Closed() {
		msg, err := s.transport.Receive()
		if err != nil {
			if !s.transport.Closed() {
				s.logf("receive failed: %v", err)
				continue
			}
			if !errors.Is(err, io.EOF) {
				s.logf("receive failed: %v", err)
			}
			break
		}
		if msg == nil || msg.Method == "" {
			continue
		}
		s.dispatch(msg)
	}
	if s.exitRequested {
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	}
	return nil
}

// dispatch runs one handler with panic isolation: a crashing handler
// loses its own request, never the session.
func (s *Server) dispatch(msg *rpcMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("panic in %s: %v", msg.Method, r)
		}
	}()
	if err := s.handleMessage(msg); err != nil {
		s.logf("%s: %v", msg.Method, err)
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	s.tracef("<- %s", msg.Method)
	if !s.initialized && msg.Method != "initialize" && msg.Method != "exit" {
		s.tracef("%s before initialize", msg.Method)
	}
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized", "cancelRequest", "$/cancelRequest":
		return nil
	case "shutdown":
		s.shutdownRequested = true
		return s.transport.Reply(msg.ID, nil)
	case "exit":
		s.exitRequested = true
		return nil
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		// the document stays tracked; closing a tab is not forgetting the file
		return nil
	case "textDocument/definition", "textDocument/implementation":
		return s.handleDefinition(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/documentHighlight":
		return s.handleDocumentHighlight(msg)
	case "textDocument/references":
		return s.handleReferences(msg)
	default:
		return s.transport.Error(msg.ID, codeMethodNotFound, "unknown method "+msg.Method)
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.transport.Error(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.basePath = root
	if params.Trace != "" {
		if level, ok := parseTraceLevel(params.Trace); ok {
			s.trace = level
		}
	}
	s.seedManifestOptions()
	if len(params.InitializationOptions) > 0 {
		s.applySettings(params.InitializationOptions)
	}
	s.initialized = true

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    syncIncremental,
			},
			HoverProvider:             true,
			DefinitionProvider:        true,
			ImplementationProvider:    true,
			DocumentHighlightProvider: true,
			ReferencesProvider:        true,
		},
		ServerInfo: serverInfo{Name: "chert", Version: version.Number},
	}
	return s.transport.Reply(msg.ID, result)
}

// seedManifestOptions loads chert.toml defaults from the session root.
// Explicit initializationOptions override them afterwards.
func (s *Server) seedManifestOptions() {
	if s.basePath == "" {
		return
	}
	m, ok, err := project.LoadAt(s.basePath)
	if err != nil {
		s.logf("manifest: %v", err)
		return
	}
	if !ok {
		return
	}
	merged := m.Options()
	merged.MaxDiagnostics = s.opts.MaxDiagnostics
	merged.Jobs = s.opts.Jobs
	merged.Progress = s.opts.Progress
	s.opts = merged
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.transport.Error(msg.ID, codeInvalidParams, "invalid params")
	}
	if len(params.Settings) > 0 {
		s.applySettings(params.Settings)
	}
	return nil
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.transport.Error(msg.ID, codeInvalidParams, "invalid params")
	}
	path := s.docPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.docs.Open(path, params.TextDocument.Text)
	s.compile(path)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.transport.Error(msg.ID, codeInvalidParams, "invalid params")
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	path := s.docPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	for _, change := range params.ContentChanges {
		if change.Range == nil {
			if !s.docs.Replace(path, change.Text) {
				s.tracef("didChange: %s is not tracked", path)
			}
			continue
		}
		if !s.docs.Splice(path, *change.Range, change.Text) {
			s.tracef("didChange: splice failed for %s", path)
		}
	}
	s.compile(path)
	return nil
}

func (s *Server) handleDefinition(msg *rpcMessage) error {
	params, ok := s.positionParams(msg)
	if !ok {
		return s.transport.Error(msg.ID, codeInvalidParams, "invalid params")
	}
	node := s.locate(s.docPath(params.TextDocument.URI), params.Position)
	if node == nil {
		return s.transport.Reply(msg.ID, []location{})
	}
	return s.transport.Reply(msg.ID, s.definitionLocations(node))
}

func (s *Server) handleHover(msg *rpcMessage) error {
	params, ok := s.positionParams(msg)
	if !ok {
		return s.transport.Error(msg.ID, codeInvalidParams, "invalid params")
	}
	path := s.docPath(params.TextDocument.URI)
	node := s.locate(path, params.Position)
	if node == nil {
		return s.transport.Reply(msg.ID, []location{})
	}
	text := hoverText(s.snapshot.Info, node)
	if text == "" {
		// nothing to say: no reply at all, unlike the located-nothing case
		return nil
	}
	file, ok := s.snapshot.FileSet.GetByPath(path)
	if !ok {
		return s.transport.Reply(msg.ID, []location{})
	}
	rng := rangeForSpan(file, node.Span())
	return s.transport.Reply(msg.ID, hover{
		Contents: markupContent{Kind: "markdown", Value: text},
		Range:    &rng,
	})
}

func (s *Server) handleDocumentHighlight(msg *rpcMessage) error {
	params, ok := s.positionParams(msg)
	if !ok {
		return s.transport.Error(msg.ID, codeInvalidParams, "invalid params")
	}
	path := s.docPath(params.TextDocument.URI)
	node := s.locate(path, params.Position)
	if node == nil {
		return s.transport.Reply(msg.ID, []documentHighlight{})
	}
	return s.transport.Reply(msg.ID, s.highlightLocations(node, path))
}

func (s *Server) handleReferences(msg *rpcMessage) error {
	params, ok := s.positionParams(msg)
	if !ok {
		return s.transport.Error(msg.ID, codeInvalidParams, "invalid params")
	}
	path := s.docPath(params.TextDocument.URI)
	node := s.locate(path, params.Position)
	if node == nil {
		return s.transport.Reply(msg.ID, []location{})
	}
	return s.transport.Reply(msg.ID, s.referenceLocations(node, path))
}

func (s *Server) positionParams(msg *rpcMessage) (textDocumentPositionParams, bool) {
	var params textDocumentPositionParams
	if len(msg.Params) == 0 {
		return params, false
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return params, false
	}
	return params, true
}

// compile re-analyzes the whole tracked source set and installs the
// resulting snapshot unconditionally, then publishes its diagnostics.
// The path argument only gates the call: untracked paths do nothing.
func (s *Server) compile(path string) {
	if _, ok := s.docs.Get(path); !ok {
		s.logf("compile: %s is not tracked", path)
		return
	}
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	snap := s.analyze(ctx, s.docs.Snapshot(), s.opts)
	s.snapshot = snap
	if snap != nil {
		s.publishSnapshot(snap)
	}
}

// docPath normalizes a document URI onto the workspace-relative slash
// path the store and the engine key by. Paths outside the base stay
// absolute.
func (s *Server) docPath(uri string) string {
	path := uriToPath(uri)
	if path == "" {
		return ""
	}
	if s.basePath != "" {
		if rel, err := filepath.Rel(s.basePath, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// absPath undoes docPath for building reply URIs.
func (s *Server) absPath(path string) string {
	if filepath.IsAbs(path) || s.basePath == "" {
		return filepath.FromSlash(path)
	}
	return filepath.Join(s.basePath, filepath.FromSlash(path))
}

func (s *Server) logf(format string, args ...any) {
	if s.trace < traceMessages {
		return
	}
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}

func (s *Server) tracef(format string, args ...any) {
	if s.trace < traceVerbose {
		return
	}
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}
