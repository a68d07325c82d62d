package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"chert/internal/driver"
	"chert/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// runAnalyzeWithUI runs the engine in a goroutine feeding progress
// events into a Bubble Tea model. The snapshot is complete once the
// program exits; a UI failure still returns it so findings print.
func runAnalyzeWithUI(ctx context.Context, title string, files []string, sources map[string]string, opts driver.Options) (*driver.Snapshot, error) {
	events := make(chan driver.Event, 256)
	snapCh := make(chan *driver.Snapshot, 1)

	go func() {
		optsCopy := opts
		sink := driver.ProgressSink(driver.ChannelSink{Ch: events})
		if optsCopy.Progress != nil {
			sink = driver.MultiSink{optsCopy.Progress, sink}
		}
		optsCopy.Progress = sink
		snapCh <- driver.Analyze(ctx, sources, optsCopy)
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	snap := <-snapCh
	return snap, uiErr
}
