package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chert/internal/diag"
	"chert/internal/diagfmt"
	"chert/internal/driver"
	"chert/internal/observ"
	"chert/internal/prof"
	"chert/internal/project"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Analyze chert sources and report diagnostics",
	Long: `Analyze a source file, a directory, or the enclosing project and report
every finding. A directory argument is widened to the project root when a
chert.toml manifest is found above it; with no argument the project
containing the current directory is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().String("ui", "auto", "progress display while analyzing (auto|on|off)")
	checkCmd.Flags().Int("jobs", 0, "max parallel parse workers (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().String("cpuprofile", "", "write a CPU profile to this path")
	checkCmd.Flags().String("memprofile", "", "write a heap profile to this path")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}

	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	sources, paths, root, err := collectCheckInput(path)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files under %q", project.SourceExt, root)
	}

	manifest, _, err := project.LoadAt(root)
	if err != nil {
		return err
	}
	opts := manifest.Options()
	opts.Jobs = jobs
	opts.MaxDiagnostics = maxDiagnostics

	var timings *observ.Timings
	if showTimings {
		timings = observ.NewTimings()
		opts.Progress = timings
	}

	profSession, err := startProfiling(cmd)
	if err != nil {
		return err
	}

	var snap *driver.Snapshot
	if format == "pretty" && shouldUseTUI(mode) {
		snap, err = runAnalyzeWithUI(cmd.Context(), fmt.Sprintf("checking %s", filepath.Base(root)), paths, sources, opts)
	} else {
		snap = driver.Analyze(cmd.Context(), sources, opts)
	}
	if profErr := profSession.Close(); err == nil {
		err = profErr
	}
	if err != nil {
		return err
	}
	if timings != nil {
		timings.Summary(os.Stderr)
	}

	bag := diag.NewBag(len(snap.Diagnostics))
	for _, d := range snap.Diagnostics {
		bag.Add(d)
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, snap.FileSet, diagfmt.PrettyOpts{
			Color:     useColor,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowFixes: suggest,
		})
		if !quiet {
			printCheckSummary(os.Stdout, bag, len(paths))
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, snap.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest,
		}); err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	}

	if bag.HasErrors() {
		// Findings are already printed; exit nonzero without usage noise.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

// startProfiling reads the profiling flags and opens a session. The
// zero-value session from empty flags is a no-op to close.
func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	cpuPath, err := cmd.Flags().GetString("cpuprofile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	memPath, err := cmd.Flags().GetString("memprofile")
	if err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	return prof.Start(prof.Options{CPUPath: cpuPath, MemPath: memPath})
}

// collectCheckInput resolves the path argument into a source map keyed
// by root-relative slash paths. A file argument is checked alone but
// still anchored to the enclosing project root when one exists, so
// manifest options and path display stay consistent with a full check.
func collectCheckInput(path string) (sources map[string]string, paths []string, root string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to stat path: %w", err)
	}

	if !st.IsDir() {
		if filepath.Ext(abs) != project.SourceExt {
			return nil, nil, "", fmt.Errorf("%q is not a %s file", path, project.SourceExt)
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to read %q: %w", path, err)
		}
		root = filepath.Dir(abs)
		if projRoot, ok, err := project.FindRoot(root); err != nil {
			return nil, nil, "", err
		} else if ok {
			root = projRoot
		}
		key := filepath.Base(abs)
		if rel, err := filepath.Rel(root, abs); err == nil {
			key = filepath.ToSlash(rel)
		}
		return map[string]string{key: string(content)}, []string{key}, root, nil
	}

	root = abs
	if projRoot, ok, err := project.FindRoot(abs); err != nil {
		return nil, nil, "", err
	} else if ok {
		root = projRoot
	}
	sources, paths, err = project.CollectSources(root)
	if err != nil {
		return nil, nil, "", err
	}
	return sources, paths, root, nil
}

func printCheckSummary(w io.Writer, bag *diag.Bag, files int) {
	if bag.Len() == 0 {
		fmt.Fprintf(w, "ok: %d files, no findings\n", files)
		return
	}
	errs, warns := 0, 0
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	fmt.Fprintf(w, "%d findings in %d files (%d errors, %d warnings)\n", bag.Len(), files, errs, warns)
}
