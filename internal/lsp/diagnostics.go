package lsp

import (
	"sort"

	"chert/internal/diag"
	"chert/internal/driver"
	"chert/internal/source"
)

// severityValue maps engine severities onto the wire scale. Anything
// that is not a warning reports as an error.
func severityValue(sev diag.Severity) int {
	if sev == diag.SevWarning {
		return 2
	}
	return 1
}

// fileFor is FileSet.Get with a bounds check, for spans that may come
// from a substituted engine.
func fileFor(fset *source.FileSet, id source.FileID) *source.File {
	if fset == nil || int(id) >= fset.Len() {
		return nil
	}
	return fset.Get(id)
}

// sameLineRange renders a span confined to its start line: the end
// clamps to the line end when the span runs past it. Published ranges
// never cross lines.
func sameLineRange(file *source.File, sp source.Span) lspRange {
	start := positionForOffsetInFile(file, sp.Start)
	end := positionForOffsetInFile(file, sp.End)
	if end.Line != start.Line {
		end = positionForOffsetInFile(file, lineEndOffset(file, sp.Start))
	}
	return lspRange{Start: start, End: end}
}

// toWireDiagnostic translates one engine finding. Notes become ordered
// relatedInformation entries; a zero code is omitted on the wire.
func (s *Server) toWireDiagnostic(snap *driver.Snapshot, d diag.Diagnostic) (string, lspDiagnostic, bool) {
	file := fileFor(snap.FileSet, d.Primary.File)
	if file == nil {
		return "", lspDiagnostic{}, false
	}
	out := lspDiagnostic{
		Range:    sameLineRange(file, d.Primary),
		Severity: severityValue(d.Severity),
		Code:     int(d.Code),
		Source:   "chert",
		Message:  d.Message,
	}
	for _, note := range d.Notes {
		noteFile := fileFor(snap.FileSet, note.Span.File)
		if noteFile == nil {
			continue
		}
		out.RelatedInformation = append(out.RelatedInformation, diagnosticRelatedInformation{
			Location: location{
				URI:   pathToURI(s.absPath(noteFile.Path)),
				Range: sameLineRange(noteFile, note.Span),
			},
			Message: note.Msg,
		})
	}
	return file.Path, out, true
}

// publishSnapshot pushes the snapshot's findings to the client, one
// publish per file in sorted order, replacing whatever was published
// for that file before. Files published last cycle but clean now get
// an explicit empty publish so stale markers clear.
func (s *Server) publishSnapshot(snap *driver.Snapshot) {
	grouped := make(map[string][]lspDiagnostic)
	for _, d := range snap.Diagnostics {
		path, wire, ok := s.toWireDiagnostic(snap, d)
		if !ok {
			continue
		}
		grouped[path] = append(grouped[path], wire)
	}

	targets := make([]string, 0, len(grouped))
	for path := range grouped {
		targets = append(targets, path)
	}
	sort.Strings(targets)

	prev := s.published
	s.published = make(map[string]struct{}, len(targets))
	for _, path := range targets {
		s.published[path] = struct{}{}
	}

	for _, path := range targets {
		if err := s.sendDiagnostics(path, grouped[path]); err != nil {
			s.logf("publish diagnostics: %v", err)
		}
	}
	for path := range prev {
		if _, ok := s.published[path]; ok {
			continue
		}
		if err := s.sendDiagnostics(path, nil); err != nil {
			s.logf("clear diagnostics: %v", err)
		}
	}
}

func (s *Server) sendDiagnostics(path string, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.transport.Notify("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         pathToURI(s.absPath(path)),
		Diagnostics: list,
	})
}
