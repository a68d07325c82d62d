package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"chert/internal/lsp"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Print the transcript of a recorded session",
	Long: `Decode a session recording produced by "chert lsp --record" and print
one line per message: arrival time, direction and a short summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().Bool("payloads", false, "print full message payloads")
}

func runReplay(cmd *cobra.Command, args []string) error {
	payloads, err := cmd.Flags().GetBool("payloads")
	if err != nil {
		return fmt.Errorf("failed to get payloads flag: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := lsp.DecodeSession(f)
	if err != nil {
		return fmt.Errorf("failed to decode recording: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(out, "%s %-3s %s\n", e.Time.Format("15:04:05.000"), e.Dir, summarizeEntry(e.Payload))
		if payloads {
			fmt.Fprintf(out, "      %s\n", e.Payload)
		}
	}
	return nil
}

// summarizeEntry renders one transcript line: the method for requests
// and notifications, the id and status for replies.
func summarizeEntry(payload []byte) string {
	method := gjson.GetBytes(payload, "method")
	id := gjson.GetBytes(payload, "id")
	switch {
	case method.Exists() && id.Exists():
		return fmt.Sprintf("request  %s (id %s)", method.String(), idLabel(id))
	case method.Exists():
		return fmt.Sprintf("notify   %s", method.String())
	case gjson.GetBytes(payload, "error").Exists():
		return fmt.Sprintf("error    id %s: %s", idLabel(id), gjson.GetBytes(payload, "error.message").String())
	default:
		return fmt.Sprintf("reply    id %s", idLabel(id))
	}
}

func idLabel(id gjson.Result) string {
	if !id.Exists() {
		return "-"
	}
	if id.Type == gjson.Null {
		return "null"
	}
	return id.String()
}
