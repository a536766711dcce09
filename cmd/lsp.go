// Copyright © 2025 The Parlor authors

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/parlorsh/parlor/lsp"
	"github.com/spf13/cobra"
)

// lspCmd represents the lsp command
var lspCmd = func() *cobra.Command {
	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the parlor Language Server Protocol server",
		Long: `Start an LSP server for PHP-style source files.

The language server provides real-time syntax diagnostics and
context-aware completion, backed by the same engine as the interactive
shell.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  parlor lsp                         Start with stdio transport
  parlor lsp --stdio                 Same as above (explicit)
  parlor lsp --port 7998             Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "parlor lsp --stdio" for .php files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			srv := lsp.New()

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Printf("parlor LSP server listening on %s", addr)
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}()

func init() {
	rootCmd.AddCommand(lspCmd)
}
