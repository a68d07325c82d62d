// Command chert is the toolchain binary for the chert contract
// language: batch diagnostics, an editor session server and session
// replay.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chert/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "chert",
	Short:             "Chert language toolchain",
	Long:              `Chert is a contract language frontend with batch diagnostics and an editor session server`,
	PersistentPreRunE: applyColorMode,
}

func main() {
	rootCmd.Version = version.Number

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "print engine phase timings to stderr")
	rootCmd.PersistentFlags().Int("max-diagnostics", 256, "maximum number of diagnostics to report")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyColorMode validates --color and pins the global color switch so
// every renderer, including the version banner, honors it.
func applyColorMode(cmd *cobra.Command, _ []string) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on":
		color.NoColor = false
	case "auto":
		// fatih/color decides from the terminal
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
