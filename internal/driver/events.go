package driver

import "time"

// Phase describes a step of the analysis pipeline.
type Phase string

const (
	// PhaseParse is the per-file lex and parse step.
	PhaseParse Phase = "parse"
	// PhaseBind is the cross-unit declaration binding step.
	PhaseBind Phase = "bind"
	// PhaseCheck is the body type-checking step.
	PhaseCheck Phase = "check"
)

// Status captures progress state within a phase.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task finished with error diagnostics.
	StatusError Status = "error"
)

// Event reports progress for a file, or for the whole pipeline when
// File is empty. Parse events arrive from worker goroutines; sinks
// must tolerate concurrent calls.
type Event struct {
	File    string
	Phase   Phase
	Status  Status
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// MultiSink forwards each event to every sink in order.
type MultiSink []ProgressSink

func (m MultiSink) OnEvent(evt Event) {
	for _, s := range m {
		if s != nil {
			s.OnEvent(evt)
		}
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
