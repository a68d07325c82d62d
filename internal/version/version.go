package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata for the chert CLI and language server.
// These variables can be overridden at build time via -ldflags.
var (
	// Number is the plain semantic version, used on the wire and in
	// machine-readable output.
	Number = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Pretty returns Number with each semver component tinted for
// terminal output. Versions that do not look like major.minor.patch
// come back untouched.
func Pretty() string {
	core, rest := Number, ""
	if i := strings.IndexAny(Number, "-+"); i >= 0 {
		core, rest = Number[:i], Number[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Number
	}
	return majorColor.Sprint(parts[0]) + "." +
		minorColor.Sprint(parts[1]) + "." +
		patchColor.Sprint(parts[2]) + rest
}
