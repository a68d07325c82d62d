package symbols

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"chert/internal/ast"
	"chert/internal/diag"
)

type remapping struct {
	prefix string
	target string
}

// parseRemappings splits "prefix=target" pairs and orders them longest
// prefix first, so apply picks the most specific rule.
func parseRemappings(raw []string) []remapping {
	rs := make([]remapping, 0, len(raw))
	for _, r := range raw {
		i := strings.IndexByte(r, '=')
		if i <= 0 {
			continue
		}
		rs = append(rs, remapping{prefix: r[:i], target: r[i+1:]})
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return len(rs[i].prefix) > len(rs[j].prefix)
	})
	return rs
}

func applyRemappings(rs []remapping, p string) string {
	for _, r := range rs {
		if strings.HasPrefix(p, r.prefix) {
			return r.target + p[len(r.prefix):]
		}
	}
	return p
}

// resolveImportPath turns an import string into a file set path.
// Remappings rewrite first; "./" and "../" resolve against the
// importing unit's directory; everything else is workspace-relative.
func (b *binder) resolveImportPath(fromPath, raw string) string {
	p := applyRemappings(b.remaps, raw)
	if strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		return path.Join(path.Dir(fromPath), p)
	}
	return path.Clean(p)
}

// resolveImports binds every import directive of the unit: aliased
// imports declare a module symbol, plain imports merge the target's
// top-level declarations into lookup.
func (b *binder) resolveImports(u *Unit) {
	for _, imp := range u.Ast.Imports() {
		resolved := b.resolveImportPath(u.Path, imp.Path)
		target := b.table.Unit(resolved)
		if target == nil {
			diag.ReportError(b.reporter, diag.SemaImportNotFound, imp.PathSpan,
				fmt.Sprintf("imported file not found: %q", imp.Path)).Emit()
			continue
		}
		b.table.ImportTargets[imp] = resolved

		if imp.Alias != "" {
			modType := b.table.Types.RegisterModule(imp.Path, resolved, imp.Sp)
			sym := &Decl{
				Name:     imp.Alias,
				Kind:     KindModule,
				NameSpan: imp.AliasSp,
				Span:     imp.Sp,
				Type:     modType,
				Doc:      imp.DocText,
				UnitPath: u.Path,
				Node:     imp,
			}
			if b.declare(u, sym) {
				b.table.Defs[imp] = sym
			}
			continue
		}
		if target != u {
			u.merged = append(u.merged, target)
		}
	}
}

// reportImportCycles walks the resolved import graph and reports each
// cycle once, on the directive that closes it.
func (b *binder) reportImportCycles(paths []string) {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(paths))
	var stack []string

	var visit func(p string)
	visit = func(p string) {
		color[p] = grey
		stack = append(stack, p)
		u := b.table.Unit(p)
		for _, imp := range u.Ast.Imports() {
			t, ok := b.table.ImportTargets[imp]
			if !ok {
				continue
			}
			switch color[t] {
			case white:
				visit(t)
			case grey:
				b.reportCycle(imp, stack, t)
			}
		}
		stack = stack[:len(stack)-1]
		color[p] = black
	}

	for _, p := range paths {
		if color[p] == white {
			visit(p)
		}
	}
}

func (b *binder) reportCycle(imp *ast.ImportDecl, stack []string, target string) {
	start := 0
	for i, p := range stack {
		if p == target {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(stack)-start+1)
	cycle = append(cycle, stack[start:]...)
	cycle = append(cycle, target)
	msg := "import cycle detected: " + strings.Join(cycle, " -> ")
	diag.ReportError(b.reporter, diag.SemaImportCycle, imp.PathSpan, msg).Emit()
}
