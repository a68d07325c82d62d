package lsp

import "sort"

// DocumentStore owns the authoritative text of every tracked document,
// keyed by workspace-relative slash path. Entries appear only through
// Open; edits against untracked paths are dropped, because they mean
// the client got its notification order wrong.
type DocumentStore struct {
	docs map[string]string
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]string)}
}

// Open inserts or overwrites a tracked document.
func (ds *DocumentStore) Open(path, text string) {
	ds.docs[path] = text
}

// Replace swaps the full content of a tracked document. Untracked
// paths report false and change nothing.
func (ds *DocumentStore) Replace(path, text string) bool {
	if _, ok := ds.docs[path]; !ok {
		return false
	}
	ds.docs[path] = text
	return true
}

// Splice replaces the half-open interval named by rng with text. Both
// endpoints resolve against the current content, so batched edits must
// be applied in wire order: each range is relative to the document
// after the previous edit.
func (ds *DocumentStore) Splice(path string, rng lspRange, text string) bool {
	current, ok := ds.docs[path]
	if !ok {
		return false
	}
	start, ok := offsetForPositionInText(current, rng.Start)
	if !ok {
		return false
	}
	end, ok := offsetForPositionInText(current, rng.End)
	if !ok {
		return false
	}
	if end < start {
		end = start
	}
	ds.docs[path] = current[:start] + text + current[end:]
	return true
}

// Get returns the current content of a tracked document.
func (ds *DocumentStore) Get(path string) (string, bool) {
	text, ok := ds.docs[path]
	return text, ok
}

// Snapshot copies the tracked set for handing to the engine.
func (ds *DocumentStore) Snapshot() map[string]string {
	out := make(map[string]string, len(ds.docs))
	for path, text := range ds.docs {
		out[path] = text
	}
	return out
}

// Paths returns the tracked paths, sorted.
func (ds *DocumentStore) Paths() []string {
	out := make([]string, 0, len(ds.docs))
	for path := range ds.docs {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func (ds *DocumentStore) Len() int {
	return len(ds.docs)
}
