package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"chert/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowHash bool
	versionShowDate bool
	versionShowFull bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "text", "output format (text|json)")
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show chert build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		showHash := versionShowHash || versionShowFull
		showDate := versionShowDate || versionShowFull

		switch strings.ToLower(versionFormat) {
		case "text":
			renderVersionText(cmd.OutOrStdout(), showHash, showDate)
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), showHash, showDate)
		default:
			return fmt.Errorf("unsupported format %q (must be text or json)", versionFormat)
		}
	},
}

func renderVersionText(out io.Writer, showHash, showDate bool) {
	fmt.Fprintf(out, "chert %s\n", version.Pretty())
	if showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.GitCommit))
	}
	if showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, showHash, showDate bool) error {
	payload := versionPayload{
		Tool:    "chert",
		Version: version.Number,
	}
	if showHash {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
	}
	if showDate {
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
