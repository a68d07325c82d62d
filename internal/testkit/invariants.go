// Package testkit holds invariant checks shared by parser and
// analysis tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"chert/internal/ast"
	"chert/internal/source"
)

// CheckSpanInvariants walks a parsed unit and verifies every node span
// is well formed: start not past end, end within the file, and a
// declaration's name span contained in the declaration. The parser
// must uphold these even on garbage input, since position queries
// trust spans blindly.
func CheckSpanInvariants(unit *ast.SourceUnit, f *source.File) error {
	if unit == nil || f == nil {
		return fmt.Errorf("nil unit or file")
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("file too large: %w", err)
	}

	var bad error
	ast.Inspect(unit, func(n ast.Node) bool {
		if bad != nil {
			return false
		}
		sp := n.Span()
		if sp.Start > sp.End || sp.End > size {
			bad = fmt.Errorf("%T span [%d,%d) outside file of %d bytes", n, sp.Start, sp.End, size)
			return false
		}
		if d, ok := n.(ast.Decl); ok {
			ns := d.NameSpan()
			if ns.End > ns.Start && (ns.Start < sp.Start || ns.End > sp.End) {
				bad = fmt.Errorf("decl %q name span [%d,%d) escapes [%d,%d)", d.Name(), ns.Start, ns.End, sp.Start, sp.End)
				return false
			}
		}
		return true
	})
	return bad
}
