// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: a Severity, a stable numeric Code, a
// message, the primary source.Span, ordered secondary Notes, and optional
// structured Fixes. Phases emit through a Reporter so they stay decoupled
// from storage; BagReporter collects into a Bag, which supports merging,
// deterministic sorting, and deduplication.
//
// The package performs no formatting or IO. Rendering lives in
// internal/diagfmt; the language server translates Diagnostics to the
// editor protocol in internal/lsp.
package diag
