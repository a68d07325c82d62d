package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chert/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the chert language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().String("record", "", "tee the session into a replayable recording file")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	recordPath, err := cmd.Flags().GetString("record")
	if err != nil {
		return fmt.Errorf("failed to get record flag: %w", err)
	}

	var transport lsp.Transport = lsp.NewStdioTransport(os.Stdin, os.Stdout)
	if recordPath != "" {
		f, err := os.Create(recordPath)
		if err != nil {
			return fmt.Errorf("failed to create recording file: %w", err)
		}
		defer func() { _ = f.Close() }()
		transport = lsp.NewRecordingTransport(transport, f)
	}

	server := lsp.NewServer(transport, lsp.ServerOptions{MaxDiagnostics: maxDiagnostics})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
