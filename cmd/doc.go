// Copyright © 2025 The Parlor authors

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/parlorsh/parlor/docs"
	"github.com/parlorsh/parlor/scope"
	"github.com/parlorsh/parlor/shell"
)

var docListAll bool
var docGuide bool

// docCmd represents the doc command
var docCmd = &cobra.Command{
	Use:   "doc [flags] NAME",
	Short: "Show documentation for builtin functions",
	Long: `Show documentation for the functions the interactive shell evaluates.

By default, looks up one function by name. Use -l to list every builtin
with its signature, or --guide to print the shell guide.

Examples:
  parlor doc strlen                Show docs for strlen
  parlor doc -l                    List all builtins
  parlor doc --guide               Print the shell guide`,
	Run: func(cmd *cobra.Command, args []string) {
		if docGuide {
			fmt.Print(docs.ShellGuide)
			return
		}
		if docListAll {
			docListBuiltins()
			return
		}
		if len(args) != 1 {
			_ = cmd.Help()
			os.Exit(1)
		}
		if err := docExec(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func docListBuiltins() {
	env := shell.NewEnv()
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush() //nolint:errcheck // best-effort flush on exit
	names := env.Symbols(scope.Function)
	sort.Strings(names)
	for _, name := range names {
		fn, ok := env.Func(name)
		if !ok {
			continue
		}
		fmt.Fprintln(out, fn.Signature)
	}
}

func docExec(query string) error {
	env := shell.NewEnv()
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush() //nolint:errcheck // best-effort flush on exit
	fn, ok := env.Func(query)
	if !ok {
		return fmt.Errorf("no documentation for %q", query)
	}
	fmt.Fprintln(out, fn.Signature)
	if fn.Doc != "" {
		fmt.Fprintln(out, formatDoc(fn.Doc))
	}
	return nil
}

// formatDoc wraps and indents a documentation string for terminal
// display.
func formatDoc(doc string) string {
	doc = indent.String(wordwrap.String(doc, 72), 2)
	return strings.TrimSuffix(doc, "\n")
}

func init() {
	rootCmd.AddCommand(docCmd)

	docCmd.Flags().BoolVarP(&docListAll, "list", "l", false,
		"List every builtin function with its signature.")
	docCmd.Flags().BoolVar(&docGuide, "guide", false,
		"Print the shell guide.")
}
