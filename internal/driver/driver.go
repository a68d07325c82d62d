// Package driver is the compiler facade: one call that takes a set of
// in-memory sources and returns an immutable analysis snapshot. The
// session server and the check command both sit on top of it.
package driver

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"chert/internal/ast"
	"chert/internal/diag"
	"chert/internal/parser"
	"chert/internal/sema"
	"chert/internal/source"
	"chert/internal/symbols"
)

// Targets the engine accepts, oldest first.
var Targets = []string{"1.0", "1.1", "2.0"}

// DefaultTarget is assumed when no manifest or setting names one.
const DefaultTarget = "2.0"

// RevertStrings modes, matching the manifest and settings surface.
const (
	RevertDefault = "default"
	RevertStrip   = "strip"
	RevertDebug   = "debug"
)

// Analyzer engine modes.
const (
	EngineNone  = "none"
	EngineLints = "lints"
	EngineAll   = "all"
)

// Lint target names selectable through analyzer-targets.
const (
	LintUnused = "unused"
	LintShadow = "shadow"
)

const defaultMaxDiagnostics = 256

// AnalyzerOptions bounds and scopes the analysis lints.
type AnalyzerOptions struct {
	Contracts []string      // restrict lint findings to these contracts, empty means everywhere
	Engine    string        // EngineNone disables lints; empty means EngineAll
	Targets   []string      // lint selection, empty means every lint
	Timeout   time.Duration // bound on the whole analysis, 0 means none
}

// Options is the session option set. Target and RevertStrings are
// carried through to the snapshot; they select code generation
// behavior and do not change analysis results.
type Options struct {
	Target         string
	RevertStrings  string
	Remappings     []string // "prefix=target" import rewrites
	Analyzer       AnalyzerOptions
	MaxDiagnostics int
	Jobs           int // parallel parse width, <=0 means GOMAXPROCS
	Progress       ProgressSink
}

// Stage records how far the analysis got.
type Stage uint8

const (
	// StageParsed means at least one file failed to parse; no symbol
	// information exists.
	StageParsed Stage = iota
	// StageAnalyzed means binding and checking ran over every unit.
	StageAnalyzed
)

// Snapshot is one complete analysis result. It owns every node and
// declaration it references; callers copy plain values out of it and
// drop the whole snapshot on the next compile.
type Snapshot struct {
	FileSet     *source.FileSet
	Units       map[string]*ast.SourceUnit
	Info        *sema.Result // nil until StageAnalyzed
	Diagnostics []diag.Diagnostic
	Stage       Stage
	Options     Options
}

// Unit returns the parsed unit for a file set path, nil when the file
// did not parse or is unknown.
func (s *Snapshot) Unit(path string) *ast.SourceUnit {
	if s == nil {
		return nil
	}
	return s.Units[path]
}

// Analyzed reports whether symbol queries can be answered.
func (s *Snapshot) Analyzed() bool {
	return s != nil && s.Stage == StageAnalyzed && s.Info != nil
}

// AnalyzeFunc matches Analyze. The session server takes one so tests
// can substitute a fake engine.
type AnalyzeFunc func(ctx context.Context, sources map[string]string, opts Options) *Snapshot

// Analyze runs the whole pipeline over the given sources: parallel lex
// and parse, then binding and type checking across all units. It never
// fails; everything wrong with the input is a diagnostic, and the
// returned snapshot is never nil. A parse error stops the pipeline
// before binding, leaving the snapshot without symbol information.
func Analyze(ctx context.Context, sources map[string]string, opts Options) *Snapshot {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = defaultMaxDiagnostics
	}
	if opts.Analyzer.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Analyzer.Timeout)
		defer cancel()
	}

	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fset := source.NewFileSet()
	ids := make([]source.FileID, len(paths))
	for i, p := range paths {
		ids[i] = fset.AddVirtual(p, []byte(sources[p]))
	}

	snap := &Snapshot{
		FileSet: fset,
		Units:   make(map[string]*ast.SourceUnit, len(paths)),
		Stage:   StageParsed,
		Options: opts,
	}

	units := make([]*ast.SourceUnit, len(paths))
	bags := make([]*diag.Bag, len(paths))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	if len(paths) > 0 {
		g.SetLimit(min(jobs, len(paths)))
	}
	for i, p := range paths {
		i, p := i, p
		emit(opts.Progress, Event{File: p, Phase: PhaseParse, Status: StatusQueued})
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(opts.Progress, Event{File: p, Phase: PhaseParse, Status: StatusWorking})
			fileStart := time.Now()
			bag := diag.NewBag(maxDiags)
			units[i] = parser.ParseFile(fset.Get(ids[i]), p, parser.Options{
				Reporter: diag.BagReporter{Bag: bag},
			})
			bags[i] = bag
			status := StatusDone
			if bag.HasErrors() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: p, Phase: PhaseParse, Status: status, Elapsed: time.Since(fileStart)})
			return nil
		})
	}
	waitErr := g.Wait()

	all := diag.NewBag(maxDiags)
	for i, p := range paths {
		if units[i] != nil {
			snap.Units[p] = units[i]
		}
		if bags[i] != nil {
			all.Merge(bags[i])
		}
	}

	if waitErr != nil || all.HasErrors() {
		all.Sort()
		snap.Diagnostics = all.Items()
		return snap
	}

	rep := diag.BagReporter{Bag: all}
	bindStart := time.Now()
	emit(opts.Progress, Event{Phase: PhaseBind, Status: StatusWorking})
	table := symbols.Bind(fset, snap.Units, symbols.BindOptions{
		Reporter:   rep,
		Remappings: opts.Remappings,
	})
	emit(opts.Progress, Event{Phase: PhaseBind, Status: StatusDone, Elapsed: time.Since(bindStart)})

	checkStart := time.Now()
	emit(opts.Progress, Event{Phase: PhaseCheck, Status: StatusWorking})
	snap.Info = sema.Check(fset, table, sema.Options{
		Reporter: rep,
		Lints:    lintSelection(opts.Analyzer),
	})
	emit(opts.Progress, Event{Phase: PhaseCheck, Status: StatusDone, Elapsed: time.Since(checkStart)})

	snap.Stage = StageAnalyzed
	all.Sort()
	snap.Diagnostics = filterLints(all.Items(), opts.Analyzer, table)
	return snap
}

// lintSelection maps the analyzer settings onto the checker's lint
// switches. Lints default to on; EngineNone turns them off wholesale.
func lintSelection(a AnalyzerOptions) sema.Lints {
	if a.Engine == EngineNone {
		return sema.Lints{}
	}
	if len(a.Targets) == 0 {
		return sema.Lints{UnusedLocals: true, ShadowedDecls: true}
	}
	var l sema.Lints
	for _, t := range a.Targets {
		switch t {
		case LintUnused:
			l.UnusedLocals = true
		case LintShadow:
			l.ShadowedDecls = true
		}
	}
	return l
}

// filterLints drops lint findings outside the named contracts when the
// analyzer scope is restricted. Errors always pass.
func filterLints(items []diag.Diagnostic, a AnalyzerOptions, table *symbols.Table) []diag.Diagnostic {
	if len(a.Contracts) == 0 {
		return items
	}
	names := make(map[string]bool, len(a.Contracts))
	for _, c := range a.Contracts {
		names[c] = true
	}
	var spans []source.Span
	for _, u := range table.Units() {
		for _, d := range u.Scope.Decls() {
			if d.Kind == symbols.KindContract && names[d.Name] {
				spans = append(spans, d.Span)
			}
		}
	}

	out := make([]diag.Diagnostic, 0, len(items))
	for _, it := range items {
		if isLintCode(it.Code) && !insideAny(spans, it.Primary) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func isLintCode(c diag.Code) bool {
	return c == diag.SemaUnusedLocal || c == diag.SemaShadowedDecl
}

func insideAny(spans []source.Span, sp source.Span) bool {
	for _, s := range spans {
		if s.File == sp.File && s.Start <= sp.Start && sp.End <= s.End {
			return true
		}
	}
	return false
}
