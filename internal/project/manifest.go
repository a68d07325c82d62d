package project

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"chert/internal/driver"
)

// Manifest is a parsed chert.toml. Sections the file omits keep the
// engine defaults; sections it names are validated on load.
type Manifest struct {
	Path string // manifest file location
	Root string // directory holding the manifest

	Package  PackageSection
	Build    BuildSection
	Analyzer AnalyzerSection
}

// PackageSection is the required [package] table.
type PackageSection struct {
	Name string
}

// BuildSection mirrors [build]: code generation knobs plus import
// remappings as "prefix=target" pairs.
type BuildSection struct {
	Target        string
	RevertStrings string
	Remappings    []string
}

// AnalyzerSection mirrors [analyzer]: lint scoping and the analysis
// time bound.
type AnalyzerSection struct {
	Contracts []string
	Engine    string
	Targets   []string
	Timeout   time.Duration
}

type manifestConfig struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Build struct {
		Target        string   `toml:"target"`
		RevertStrings string   `toml:"revert-strings"`
		Remappings    []string `toml:"remappings"`
	} `toml:"build"`
	Analyzer struct {
		Contracts []string `toml:"contracts"`
		Engine    string   `toml:"engine"`
		Targets   []string `toml:"targets"`
		TimeoutMS int64    `toml:"timeout-ms"`
	} `toml:"analyzer"`
}

// Load parses and validates a chert.toml. Unknown keys are tolerated
// so newer manifests keep loading on older tools.
func Load(path string) (*Manifest, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	m := &Manifest{Path: path, Root: filepath.Dir(path)}

	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if !meta.IsDefined("package", "name") || name == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	m.Package.Name = name

	if meta.IsDefined("build", "target") {
		if !validTarget(cfg.Build.Target) {
			return nil, fmt.Errorf("%s: unknown [build].target %q (known: %s)",
				path, cfg.Build.Target, strings.Join(driver.Targets, ", "))
		}
		m.Build.Target = cfg.Build.Target
	}
	if meta.IsDefined("build", "revert-strings") {
		switch cfg.Build.RevertStrings {
		case driver.RevertDefault, driver.RevertStrip, driver.RevertDebug:
			m.Build.RevertStrings = cfg.Build.RevertStrings
		default:
			return nil, fmt.Errorf("%s: unknown [build].revert-strings %q", path, cfg.Build.RevertStrings)
		}
	}
	if meta.IsDefined("build", "remappings") {
		for _, r := range cfg.Build.Remappings {
			if !strings.Contains(r, "=") {
				return nil, fmt.Errorf("%s: malformed remapping %q, want \"prefix=target\"", path, r)
			}
		}
		m.Build.Remappings = cfg.Build.Remappings
	}

	if meta.IsDefined("analyzer", "engine") {
		switch cfg.Analyzer.Engine {
		case driver.EngineNone, driver.EngineLints, driver.EngineAll:
			m.Analyzer.Engine = cfg.Analyzer.Engine
		default:
			return nil, fmt.Errorf("%s: unknown [analyzer].engine %q", path, cfg.Analyzer.Engine)
		}
	}
	if meta.IsDefined("analyzer", "targets") {
		for _, t := range cfg.Analyzer.Targets {
			if t != driver.LintUnused && t != driver.LintShadow {
				return nil, fmt.Errorf("%s: unknown [analyzer].targets entry %q", path, t)
			}
		}
		m.Analyzer.Targets = cfg.Analyzer.Targets
	}
	if meta.IsDefined("analyzer", "contracts") {
		m.Analyzer.Contracts = cfg.Analyzer.Contracts
	}
	if meta.IsDefined("analyzer", "timeout-ms") {
		if cfg.Analyzer.TimeoutMS < 0 {
			return nil, fmt.Errorf("%s: negative [analyzer].timeout-ms", path)
		}
		m.Analyzer.Timeout = time.Duration(cfg.Analyzer.TimeoutMS) * time.Millisecond
	}
	return m, nil
}

// LoadAt finds and loads the manifest governing startDir. ok reports
// whether a chert.toml exists anywhere above startDir.
func LoadAt(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Options maps the manifest onto a session option set. Fields the
// manifest leaves out get the engine defaults, so the result is always
// complete.
func (m *Manifest) Options() driver.Options {
	opts := driver.Options{
		Target:        driver.DefaultTarget,
		RevertStrings: driver.RevertDefault,
	}
	if m == nil {
		return opts
	}
	if m.Build.Target != "" {
		opts.Target = m.Build.Target
	}
	if m.Build.RevertStrings != "" {
		opts.RevertStrings = m.Build.RevertStrings
	}
	opts.Remappings = append([]string(nil), m.Build.Remappings...)
	opts.Analyzer = driver.AnalyzerOptions{
		Contracts: append([]string(nil), m.Analyzer.Contracts...),
		Engine:    m.Analyzer.Engine,
		Targets:   append([]string(nil), m.Analyzer.Targets...),
		Timeout:   m.Analyzer.Timeout,
	}
	return opts
}

func validTarget(t string) bool {
	for _, known := range driver.Targets {
		if t == known {
			return true
		}
	}
	return false
}
