// Copyright © 2025 The Parlor authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parlorsh/parlor/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive parlor shell",
	Long: `Start an interactive read-eval-print loop.

Input accumulates across lines until it forms a complete statement; the
continuation prompt shows that more input is expected. Line editing,
history, and tab completion are supported via readline. Use Ctrl-D or
the exit command to leave; Ctrl-C abandons the current input.

Example session:
  parlor> $greeting = "hello";
  parlor> echo strtoupper($greeting);
  HELLO
  parlor> function area($r) {
     ...>     return $r * $r * 3;
     ...> }
  parlor> ls functions
  ...
  parlor> dump [1, 2, 3]
  array(3) {
    [0]=> int(1)
  ...

The history file location can be set with history-file in the config
file; it defaults to ~/.parlor_history and is created with mode 0600.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := []repl.Option{
			repl.WithPrompt(filepath.Base(os.Args[0]) + "> "),
		}
		if path := viper.GetString("history-file"); path != "" {
			opts = append(opts, repl.WithHistoryFile(path))
		}
		if err := repl.Run(opts...); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
