package lsp

import (
	"chert/internal/ast"
	"chert/internal/refs"
	"chert/internal/sema"
	"chert/internal/symbols"
	"chert/internal/types"
)

// locate maps a cursor position onto the smallest enclosing syntax
// node of the analyzed snapshot. A missing snapshot compiles first.
// Untracked paths, parse-stage snapshots and unresolvable positions
// all return nil; lookup misses are answers, not errors.
func (s *Server) locate(path string, pos position) ast.Node {
	if _, ok := s.docs.Get(path); !ok {
		return nil
	}
	if s.snapshot == nil {
		s.compile(path)
	}
	snap := s.snapshot
	if !snap.Analyzed() {
		return nil
	}
	unit := snap.Unit(path)
	if unit == nil {
		return nil
	}
	file, ok := snap.FileSet.GetByPath(path)
	if !ok {
		return nil
	}
	off, ok := offsetForPositionInFile(file, pos)
	if !ok {
		return nil
	}
	return ast.NodeAt(unit, off)
}

// resolveNode is the per-shape dispatch at the heart of every position
// query. One arm per node shape the session answers for; the result is
// the candidate declarations, primary first. Import directives carry
// their own definition semantics and resolve to no declarations here;
// every other shape resolves to nothing.
func resolveNode(info *sema.Result, node ast.Node) []*symbols.Decl {
	switch n := node.(type) {
	case *ast.Ident:
		return info.DeclsForIdent(n)
	case *ast.MemberExpr:
		return info.DeclsForMember(n)
	case *ast.NamedType:
		if len(n.Segments) == 0 {
			return nil
		}
		if d := info.Table.TypeRefs[n]; d != nil {
			return []*symbols.Decl{d}
		}
		return nil
	case *ast.ImportDecl:
		return nil
	case ast.Decl:
		if d := info.Table.Defs[n]; d != nil {
			return []*symbols.Decl{d}
		}
		return nil
	}
	return nil
}

// definitionLocations resolves the definition targets for a node: one
// location per candidate declaration, candidate order preserved.
func (s *Server) definitionLocations(node ast.Node) []location {
	if imp, ok := node.(*ast.ImportDecl); ok {
		return s.importLocation(imp)
	}
	out := []location{}
	for _, d := range resolveNode(s.snapshot.Info, node) {
		loc, ok := s.declarationLocation(d)
		if !ok {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// importLocation points at the start of the imported unit, zero
// length, and only when that unit is part of the tracked source set.
func (s *Server) importLocation(imp *ast.ImportDecl) []location {
	target, ok := s.snapshot.Info.Table.ImportTargets[imp]
	if !ok {
		return []location{}
	}
	if _, tracked := s.docs.Get(target); !tracked {
		return []location{}
	}
	return []location{{URI: pathToURI(s.absPath(target))}}
}

// declarationLocation prefers the declaration's name range and falls
// back to its full range; synthesized declarations with neither are
// skipped.
func (s *Server) declarationLocation(d *symbols.Decl) (location, bool) {
	sp := d.NameSpan
	if sp.Empty() {
		sp = d.Span
	}
	if sp.Empty() {
		return location{}, false
	}
	file := fileFor(s.snapshot.FileSet, sp.File)
	if file == nil {
		return location{}, false
	}
	return location{
		URI:   pathToURI(s.absPath(file.Path)),
		Range: rangeForSpan(file, sp),
	}, true
}

// hoverText picks the hover body: authored documentation verbatim,
// else the rendered semantic type, else nothing.
func hoverText(info *sema.Result, node ast.Node) string {
	if d := primaryDecl(info, node); d != nil && d.Doc != "" {
		return d.Doc
	}
	if id := nodeType(info, node); id != types.NoTypeID {
		return types.Label(info.Table.Types, id)
	}
	return ""
}

// primaryDecl returns the first declaration a node refers to, or the
// node's own symbol for declarations.
func primaryDecl(info *sema.Result, node ast.Node) *symbols.Decl {
	switch n := node.(type) {
	case *ast.Ident:
		if ds := info.DeclsForIdent(n); len(ds) > 0 {
			return ds[0]
		}
	case *ast.MemberExpr:
		if ds := info.DeclsForMember(n); len(ds) > 0 {
			return ds[0]
		}
	case *ast.NamedType:
		return info.Table.TypeRefs[n]
	case ast.Decl:
		return info.Table.Defs[n]
	}
	return nil
}

func nodeType(info *sema.Result, node ast.Node) types.TypeID {
	if d := primaryDecl(info, node); d != nil {
		return d.Type
	}
	if expr, ok := node.(ast.Expr); ok {
		return info.ExprTypes[expr]
	}
	return types.NoTypeID
}

// occurrences collects same-file mentions of the node's candidate
// declarations, one collection run per candidate concatenated in
// candidate order. Duplicate ranges between overlapping candidates are
// acceptable; clients key highlights by range.
func (s *Server) occurrences(node ast.Node, path string) []refs.Occurrence {
	info := s.snapshot.Info
	decls := resolveNode(info, node)
	if len(decls) == 0 {
		return nil
	}
	unit := info.Table.Unit(path)
	if unit == nil {
		return nil
	}
	var out []refs.Occurrence
	for _, d := range decls {
		out = append(out, refs.Collect(unit, info, []*symbols.Decl{d})...)
	}
	return out
}

func (s *Server) highlightLocations(node ast.Node, path string) []documentHighlight {
	out := []documentHighlight{}
	file, ok := s.snapshot.FileSet.GetByPath(path)
	if !ok {
		return out
	}
	for _, occ := range s.occurrences(node, path) {
		out = append(out, documentHighlight{
			Range: rangeForSpan(file, occ.Span),
			Kind:  int(occ.Kind),
		})
	}
	return out
}

func (s *Server) referenceLocations(node ast.Node, path string) []location {
	out := []location{}
	file, ok := s.snapshot.FileSet.GetByPath(path)
	if !ok {
		return out
	}
	uri := pathToURI(s.absPath(path))
	for _, occ := range s.occurrences(node, path) {
		out = append(out, location{URI: uri, Range: rangeForSpan(file, occ.Span)})
	}
	return out
}
