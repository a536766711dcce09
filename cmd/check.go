// Copyright © 2025 The Parlor authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/parlorsh/parlor/parser"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Syntax-check source files",
	Long: `Parse the given source files and report the first syntax error in
each, rendered as an annotated snippet. Files with unterminated strings,
heredocs, or unclosed braces are reported the same way they would be in
the shell.

The exit status is 0 when every file is well formed and 1 otherwise.

Examples:
  parlor check app.php
  parlor check src/*.php`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := 0
		for _, file := range args {
			if err := checkFile(os.Stderr, file); err != nil {
				failed++
			}
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

// checkFile checks one file, rendering any diagnostic to w.  The returned
// error signals check failure; it has already been reported.
func checkFile(w io.Writer, file string) error {
	data, err := os.ReadFile(file) //nolint:gosec // user-specified source file
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", file, err)
		return err
	}
	info := parser.Check(file, string(data))
	if info == nil {
		return nil
	}
	r := newRenderer()
	_ = r.Render(w, checkErrorToDiagnostic(file, info))
	return info
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
