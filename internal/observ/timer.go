// Package observ reduces engine progress events to timing reports for
// the command line.
package observ

import (
	"fmt"
	"io"
	"sync"
	"time"

	"chert/internal/driver"
)

// PhaseTiming aggregates completion events for one pipeline phase.
// Parse sums per-file durations; bind and check complete once.
type PhaseTiming struct {
	Phase   driver.Phase
	Files   int
	Total   time.Duration
	Slowest string
	Max     time.Duration
}

// Timings is a driver.ProgressSink that keeps per-phase durations.
// Parse completions arrive from worker goroutines, so recording locks.
type Timings struct {
	mu    sync.Mutex
	first time.Time
	last  time.Time
	parse PhaseTiming
	bind  PhaseTiming
	check PhaseTiming
}

func NewTimings() *Timings {
	return &Timings{
		parse: PhaseTiming{Phase: driver.PhaseParse},
		bind:  PhaseTiming{Phase: driver.PhaseBind},
		check: PhaseTiming{Phase: driver.PhaseCheck},
	}
}

// OnEvent implements driver.ProgressSink. Only completion events carry
// durations; the rest just advance the wall-clock bounds.
func (t *Timings) OnEvent(ev driver.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if t.first.IsZero() {
		t.first = now
	}
	t.last = now
	if ev.Status != driver.StatusDone && ev.Status != driver.StatusError {
		return
	}

	var pt *PhaseTiming
	switch ev.Phase {
	case driver.PhaseParse:
		pt = &t.parse
	case driver.PhaseBind:
		pt = &t.bind
	case driver.PhaseCheck:
		pt = &t.check
	default:
		return
	}
	pt.Total += ev.Elapsed
	if ev.File != "" {
		pt.Files++
		if ev.Elapsed > pt.Max {
			pt.Max = ev.Elapsed
			pt.Slowest = ev.File
		}
	}
}

// PhaseReport is one phase in serializable form.
type PhaseReport struct {
	Phase      string  `json:"phase"`
	Files      int     `json:"files,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	Slowest    string  `json:"slowest,omitempty"`
	SlowestMS  float64 `json:"slowest_ms,omitempty"`
}

// Report is the aggregate of one engine run. WallMS spans the first
// to the last observed event.
type Report struct {
	WallMS float64       `json:"wall_ms"`
	Phases []PhaseReport `json:"phases"`
}

func (t *Timings) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	if !t.first.IsZero() {
		r.WallMS = durationToMillis(t.last.Sub(t.first))
	}
	for _, pt := range []PhaseTiming{t.parse, t.bind, t.check} {
		if pt.Total == 0 && pt.Files == 0 {
			continue
		}
		r.Phases = append(r.Phases, PhaseReport{
			Phase:      string(pt.Phase),
			Files:      pt.Files,
			DurationMS: durationToMillis(pt.Total),
			Slowest:    pt.Slowest,
			SlowestMS:  durationToMillis(pt.Max),
		})
	}
	return r
}

// Summary writes the report as aligned text lines.
func (t *Timings) Summary(w io.Writer) {
	r := t.Report()
	fmt.Fprintln(w, "timings:")
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-8s %8.2f ms", p.Phase, p.DurationMS)
		if p.Files > 0 {
			line += fmt.Sprintf("  (%d files", p.Files)
			if p.Slowest != "" {
				line += fmt.Sprintf(", slowest %s %.2f ms", p.Slowest, p.SlowestMS)
			}
			line += ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "  %-8s %8.2f ms\n", "wall", r.WallMS)
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
