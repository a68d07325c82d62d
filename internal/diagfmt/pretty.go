package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"chert/internal/diag"
	"chert/internal/source"
)

// Pretty renders diagnostics for a terminal. The bag is printed in
// order, so sort it first. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  3 | int x = total;
//	    |         ^~~~~
//
// followed by its notes in the same shape and one line per fix.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		style := severityStyle(d.Severity, opts.Color)
		printHeader(w, fs, d.Primary, style, d.Severity.String(), d.Code.ID(), d.Message, opts)
		printSourceLine(w, fs, d.Primary, style)
		if opts.ShowNotes {
			ns := noteStyle(opts.Color)
			for _, n := range d.Notes {
				printHeader(w, fs, n.Span, ns, "NOTE", "", n.Msg, opts)
				printSourceLine(w, fs, n.Span, ns)
			}
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				fmt.Fprintf(w, "  fix: %s\n", f.Title)
			}
		}
	}
}

func printHeader(w io.Writer, fs *source.FileSet, sp source.Span, style *color.Color, label, code, msg string, opts PrettyOpts) {
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	loc := fmt.Sprintf("%s:%d:%d", f.FormatPath(opts.PathMode.formatMode(), fs.BaseDir()), start.Line, start.Col)
	if code != "" {
		fmt.Fprintf(w, "%s: %s %s: %s\n", loc, style.Sprint(label), code, msg)
		return
	}
	fmt.Fprintf(w, "%s: %s: %s\n", loc, style.Sprint(label), msg)
}

// printSourceLine shows the first spanned line with a caret underline.
// Widths are measured with runewidth so the underline stays aligned
// under wide runes.
func printSourceLine(w io.Writer, fs *source.FileSet, sp source.Span, style *color.Color) {
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	f := fs.Get(sp.File)
	line := f.GetLine(start.Line)

	startCol := clamp(int(start.Col)-1, 0, len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = clamp(int(end.Col)-1, startCol, len(line))
	}

	prefix := expandTabs(line[:startCol])
	marked := expandTabs(line[startCol:endCol])
	width := runewidth.StringWidth(marked)
	if width < 1 {
		width = 1
	}
	underline := "^" + strings.Repeat("~", width-1)

	gutter := fmt.Sprintf("%d", start.Line)
	fmt.Fprintf(w, "  %s | %s\n", gutter, expandTabs(line))
	fmt.Fprintf(w, "  %s | %s%s\n",
		strings.Repeat(" ", len(gutter)),
		strings.Repeat(" ", runewidth.StringWidth(prefix)),
		style.Sprint(underline))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func severityStyle(sev diag.Severity, enabled bool) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan, color.Bold)
	}
	return applyColor(c, enabled)
}

func noteStyle(enabled bool) *color.Color {
	return applyColor(color.New(color.FgCyan), enabled)
}

func applyColor(c *color.Color, enabled bool) *color.Color {
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
