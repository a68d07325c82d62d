package diagfmt

import (
	"encoding/json"
	"io"

	"chert/internal/diag"
	"chert/internal/source"
)

// LocationJSON is a file location in machine-readable output. Byte
// offsets are always present; line/col appear when requested.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is a secondary location attached to a diagnostic.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is one text replacement of a fix.
type FixEditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
}

// FixJSON is a suggested correction.
type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one diagnostic in machine-readable output.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	f := fs.Get(span.File)
	loc := LocationJSON{
		File:      f.FormatPath(pathMode.formatMode(), fs.BaseDir()),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildOutput assembles the JSON output structure without serializing.
func BuildOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		d := items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}
		if opts.IncludeFixes && len(d.Fixes) > 0 {
			dj.Fixes = make([]FixJSON, len(d.Fixes))
			for j, fix := range d.Fixes {
				fj := FixJSON{Title: fix.Title}
				if len(fix.Edits) > 0 {
					fj.Edits = make([]FixEditJSON, len(fix.Edits))
					for k, edit := range fix.Edits {
						fj.Edits[k] = FixEditJSON{
							Location: makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions),
							NewText:  edit.NewText,
						}
					}
				}
				dj.Fixes[j] = fj
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{Diagnostics: diagnostics, Count: len(diagnostics)}
}

// JSON writes diagnostics as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(bag, fs, opts))
}
