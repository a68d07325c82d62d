// Package prof wires optional pprof capture around one command run.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Options names the artifact paths. Empty fields stay off.
type Options struct {
	CPUPath string
	MemPath string
}

// Session is an active profiling run. Close stops the CPU profile and
// writes the heap profile, so it must run even when the command fails.
type Session struct {
	cpu     *os.File
	memPath string
}

// Start begins the requested profiles.
func Start(opts Options) (*Session, error) {
	s := &Session{memPath: opts.MemPath}
	if opts.CPUPath != "" {
		f, err := os.Create(opts.CPUPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to start cpu profile: %w", err)
		}
		s.cpu = f
	}
	return s, nil
}

// Close finalizes the session. The heap profile is captured here, after
// the measured work, behind a forced GC so live objects dominate.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		if err := s.cpu.Close(); err != nil {
			return fmt.Errorf("failed to close cpu profile: %w", err)
		}
		s.cpu = nil
	}
	if s.memPath != "" {
		f, err := os.Create(s.memPath)
		if err != nil {
			return fmt.Errorf("failed to create heap profile: %w", err)
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write heap profile: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close heap profile: %w", err)
		}
		s.memPath = ""
	}
	return nil
}
