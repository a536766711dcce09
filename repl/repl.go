// Copyright © 2025 The Parlor authors

// Package repl implements the interactive parlor shell: a line loop that
// accumulates input until it forms a complete unit, then hands it to the
// session for execution.
package repl

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/parlorsh/parlor/complete"
	"github.com/parlorsh/parlor/input"
	"github.com/parlorsh/parlor/shell"
)

const defaultPrompt = "parlor> "

type config struct {
	stdin   io.ReadCloser
	stdout  io.WriteCloser
	prompt  string
	history string
}

func newConfig(opts ...Option) *config {
	config := &config{prompt: defaultPrompt}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin overrides the input to the shell.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout overrides the output of the shell.
func WithStdout(stdout io.WriteCloser) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithPrompt overrides the primary prompt.
func WithPrompt(prompt string) Option {
	return func(c *config) {
		c.prompt = prompt
	}
}

// WithHistoryFile overrides the history file location.  An empty path
// disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// Run reads, analyzes, and executes interactive input until EOF or the
// exit command.
func Run(opts ...Option) error {
	cfg := newConfig(opts...)
	var out io.Writer = os.Stdout
	if cfg.stdout != nil {
		out = cfg.stdout
	}

	session := shell.NewSession(out)
	detector := input.NewDetector(input.WithStrip(session.Registry.Strip))
	var buf input.Buffer
	engine := complete.NewEngine(session.Env,
		complete.WithAux(complete.AuxCommands, session.Registry.Names()),
	)

	history := cfg.history
	if history == "" {
		history = historyPath()
	}
	ensureHistoryFilePermissions(history)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            cfg.prompt,
		HistoryFile:       history,
		HistorySearchFold: true,
		AutoComplete:      &bufferCompleter{engine: engine, buffer: &buf},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	cont := continuationPrompt(cfg.prompt)
	for {
		if buf.Empty() {
			rl.SetPrompt(cfg.prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			// Ctrl-C abandons whatever was being typed.
			buf.Reset()
			continue
		}
		if err != nil {
			return nil
		}
		text := string(line)
		if buf.Empty() && strings.TrimSpace(text) == "" {
			continue
		}
		if !buf.Empty() && isClearCommand(session, text) {
			buf.Reset()
			continue
		}
		buf.Append(text)

		state, info := detector.Detect(context.Background(), buf.Source())
		switch state {
		case input.Incomplete:
			continue
		case input.SyntaxError:
			renderSyntaxError(out, buf.Source(), info)
			buf.Reset()
			continue
		}

		source := buf.Source()
		buf.Reset()
		switch err := session.Execute(source); {
		case errors.Is(err, shell.ErrExit):
			return nil
		case errors.Is(err, shell.ErrClear):
			// Nothing pending; the buffer was just consumed.
		case err != nil:
			renderEvalError(out, source, err)
		}
	}
}

// isClearCommand reports whether a continuation line invokes clear, which
// discards the pending buffer instead of joining it.  Other commands typed
// mid-buffer are left alone; they become part of the source and fail like
// any other stray word.
func isClearCommand(s *shell.Session, text string) bool {
	cmd, rest, ok := s.Registry.Split(text)
	return ok && rest == "" && cmd.Name == "clear"
}

// continuationPrompt is right-aligned with the primary prompt so source
// columns line up across continuation lines.
func continuationPrompt(prompt string) string {
	const tail = "...> "
	if len(prompt) <= len(tail) {
		return tail
	}
	return strings.Repeat(" ", len(prompt)-len(tail)) + tail
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".parlor_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the owning user.  Interactive history can contain
// secrets pasted at the prompt.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0600) //nolint:gosec // fixed mode
	if err == nil {
		_ = f.Close()
	}
	_ = os.Chmod(path, 0600)
}
