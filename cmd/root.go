// Copyright © 2025 The Parlor authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "parlor",
	Short: "Parlor interactive shell for PHP-style source",
	Long: `Parlor is an interactive shell and analysis toolkit for PHP-style
source code. It accumulates input across lines until a statement is
complete, offers context-aware tab completion, and renders annotated
syntax errors.

Getting started:
  parlor repl                  Start the interactive shell
  parlor check file.php        Syntax-check source files
  parlor doc strlen            Show documentation for a builtin
  parlor lsp                   Start a language server for editors

Inside the shell:
  parlor> $x = 40 + 2;
  parlor> echo $x;
  42
  parlor> function area($r) {
     ...>     return $r * $r * 3;
     ...> }
  parlor> help
  ...

Shell commands (help, ls, doc, dump, clear, exit) work alongside regular
source input. Tab completes variables, functions, classes, members after
-> and ::, and shell commands.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.parlor.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".parlor" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".parlor")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
