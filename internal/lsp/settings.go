package lsp

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"chert/internal/driver"
)

// traceLevel follows the protocol's trace values. logf output is gated
// at messages, tracef at verbose.
type traceLevel uint8

const (
	traceOff traceLevel = iota
	traceMessages
	traceVerbose
)

func parseTraceLevel(s string) (traceLevel, bool) {
	switch s {
	case "off":
		return traceOff, true
	case "messages":
		return traceMessages, true
	case "verbose":
		return traceVerbose, true
	}
	return traceOff, false
}

// applySettings probes a settings object key by key, so every key
// validates on its own: a bad value is logged and the previous value
// kept while the rest of the batch still applies. Settings never
// trigger a compile; the next one picks them up.
func (s *Server) applySettings(raw []byte) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return
	}
	if v := gjson.GetBytes(raw, "target"); v.Exists() {
		if knownTarget(v.String()) {
			s.opts.Target = v.String()
		} else {
			s.tracef("settings: unknown target %q, keeping %q", v.String(), s.opts.Target)
		}
	}
	if v := gjson.GetBytes(raw, "revertStrings"); v.Exists() {
		switch v.String() {
		case driver.RevertDefault, driver.RevertStrip, driver.RevertDebug:
			s.opts.RevertStrings = v.String()
		default:
			s.tracef("settings: unknown revertStrings %q, keeping %q", v.String(), s.opts.RevertStrings)
		}
	}
	if v := gjson.GetBytes(raw, "remappings"); v.Exists() {
		if list, ok := s.stringList(v, "remappings", validRemapping); ok {
			s.opts.Remappings = list
		}
	}
	if v := gjson.GetBytes(raw, "analyzer-contracts"); v.Exists() {
		if list, ok := s.stringList(v, "analyzer-contracts", notBlank); ok {
			s.opts.Analyzer.Contracts = list
		}
	}
	if v := gjson.GetBytes(raw, "analyzer-engine"); v.Exists() {
		switch v.String() {
		case driver.EngineNone, driver.EngineLints, driver.EngineAll:
			s.opts.Analyzer.Engine = v.String()
		default:
			s.tracef("settings: unknown analyzer-engine %q, keeping %q", v.String(), s.opts.Analyzer.Engine)
		}
	}
	if v := gjson.GetBytes(raw, "analyzer-targets"); v.Exists() {
		if list, ok := s.stringList(v, "analyzer-targets", knownLint); ok {
			s.opts.Analyzer.Targets = list
		}
	}
	if v := gjson.GetBytes(raw, "analyzer-timeout"); v.Exists() {
		if v.Type == gjson.Number && v.Int() >= 0 {
			s.opts.Analyzer.Timeout = time.Duration(v.Int()) * time.Millisecond
		} else {
			s.tracef("settings: bad analyzer-timeout %v, keeping previous", v.Value())
		}
	}
}

// stringList validates an array value entry by entry: entries failing
// the check are logged and skipped, the rest replace the previous list.
func (s *Server) stringList(v gjson.Result, key string, valid func(string) bool) ([]string, bool) {
	if !v.IsArray() {
		s.tracef("settings: %s is not an array, keeping previous", key)
		return nil, false
	}
	entries := v.Array()
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != gjson.String || !valid(entry.String()) {
			s.tracef("settings: bad %s entry %v, skipping", key, entry.Value())
			continue
		}
		out = append(out, entry.String())
	}
	return out, true
}

func knownTarget(name string) bool {
	for _, t := range driver.Targets {
		if t == name {
			return true
		}
	}
	return false
}

func knownLint(name string) bool {
	return name == driver.LintUnused || name == driver.LintShadow
}

func validRemapping(entry string) bool {
	prefix, _, ok := strings.Cut(entry, "=")
	return ok && prefix != ""
}

func notBlank(entry string) bool {
	return strings.TrimSpace(entry) != ""
}
