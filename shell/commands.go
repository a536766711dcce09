// Copyright © 2025 The Parlor authors

package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/parlorsh/parlor/parser"
	"github.com/parlorsh/parlor/parser/token"
	"github.com/sirupsen/logrus"
)

// ErrExit is returned by the exit command to tell the session loop to
// terminate.
var ErrExit = errors.New("exit")

// ErrClear is returned by the clear command to tell the session loop to
// discard its pending input buffer.
var ErrClear = errors.New("clear")

// Session ties an environment to an output sink and the meta-command
// registry.  One session serves one interactive user.
type Session struct {
	Env      *Env
	Out      io.Writer
	Log      logrus.FieldLogger
	Registry *Registry
}

// NewSession returns a session over a fresh environment.
func NewSession(out io.Writer) *Session {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Session{
		Env:      NewEnv(),
		Out:      out,
		Log:      logger,
		Registry: DefaultRegistry(),
	}
}

// Execute runs one unit of complete input: either a meta-command line or
// source code.
func (s *Session) Execute(input string) error {
	if cmd, rest, ok := s.Registry.Split(input); ok {
		s.Log.WithField("command", cmd.Name).Debug("executing meta-command")
		return cmd.Run(s, rest)
	}
	return Eval(s.Env, s.Out, input)
}

// Command is one shell meta-command.
type Command struct {
	Name    string
	Aliases []string
	Summary string
	Usage   string
	// TakesCode marks commands whose argument is source code rather than
	// words; the incompleteness detector analyzes the argument so the
	// command can span continuation lines.
	TakesCode bool
	Run       func(s *Session, arg string) error
}

// Registry holds the meta-commands in declaration order.
type Registry struct {
	commands []*Command
	byName   map[string]*Command
}

// NewRegistry returns a registry containing the given commands.
func NewRegistry(commands ...*Command) *Registry {
	r := &Registry{byName: make(map[string]*Command)}
	for _, cmd := range commands {
		r.commands = append(r.commands, cmd)
		r.byName[cmd.Name] = cmd
		for _, alias := range cmd.Aliases {
			r.byName[alias] = cmd
		}
	}
	return r
}

// Names returns the primary command names, in declaration order.  The
// completion engine offers these at the start of an empty line.
func (r *Registry) Names() []string {
	names := make([]string, len(r.commands))
	for i, cmd := range r.commands {
		names[i] = cmd.Name
	}
	return names
}

// Lookup finds a command by name or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Split separates a raw input line into a command and its argument text.
// It reports false when the line does not start with a known command, in
// which case the line is source code.
func (r *Registry) Split(input string) (*Command, string, bool) {
	trimmed := strings.TrimSpace(input)
	word := trimmed
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		word = trimmed[:i]
	}
	// "ls" is a command; "ls(" lexes as one word and misses the table, so
	// it stays source code calling a function of the same name.
	cmd, ok := r.byName[word]
	if !ok {
		return nil, "", false
	}
	return cmd, strings.TrimSpace(trimmed[len(word):]), true
}

// Strip implements the detector's framing filter: it removes a leading
// meta-command word so that only real source reaches syntax analysis.
// Commands whose argument is not code strip to nothing, which makes any
// argument list a complete input.
func (r *Registry) Strip(raw string) (string, int) {
	cmd, _, ok := r.Split(raw)
	if !ok {
		return raw, 0
	}
	if !cmd.TakesCode {
		return "", len(raw)
	}
	// Trim only from the left so the returned offset maps code positions
	// back into raw exactly.
	lead := strings.TrimLeft(raw, " \t")
	if i := strings.IndexAny(lead, " \t"); i >= 0 {
		lead = lead[i:]
	} else {
		lead = ""
	}
	code := strings.TrimLeft(lead, " \t")
	return code, len(raw) - len(code)
}

// DefaultRegistry returns the standard command set.
func DefaultRegistry() *Registry {
	return NewRegistry(
		&Command{
			Name:    "help",
			Aliases: []string{"?"},
			Summary: "List commands, or show help for one command.",
			Usage:   "help [command]",
			Run:     runHelp,
		},
		&Command{
			Name:    "ls",
			Summary: "List variables, functions, classes, or constants in scope.",
			Usage:   "ls [vars|functions|classes|constants]",
			Run:     runLs,
		},
		&Command{
			Name:    "doc",
			Summary: "Show documentation for a function or class.",
			Usage:   "doc <name>",
			Run:     runDoc,
		},
		&Command{
			Name:      "dump",
			Summary:   "Evaluate an expression and dump its value structurally.",
			Usage:     "dump <expression>",
			TakesCode: true,
			Run:       runDump,
		},
		&Command{
			Name:    "clear",
			Summary: "Discard the pending multi-line input buffer.",
			Usage:   "clear",
			Run:     func(*Session, string) error { return ErrClear },
		},
		&Command{
			Name:    "exit",
			Aliases: []string{"quit", "q"},
			Summary: "Leave the shell.",
			Usage:   "exit",
			Run:     func(*Session, string) error { return ErrExit },
		},
	)
}

func runHelp(s *Session, arg string) error {
	args, err := SplitArgs(arg)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cmd, ok := s.Registry.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown command %q", args[0])
		}
		fmt.Fprintf(s.Out, "%s\n  %s\n", cmd.Usage, cmd.Summary)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(s.Out, "  aliases: %s\n", strings.Join(cmd.Aliases, ", "))
		}
		return nil
	}
	width := 0
	for _, cmd := range s.Registry.commands {
		if len(cmd.Name) > width {
			width = len(cmd.Name)
		}
	}
	for _, cmd := range s.Registry.commands {
		fmt.Fprintf(s.Out, "%-*s  %s\n", width, cmd.Name, cmd.Summary)
	}
	return nil
}

func runLs(s *Session, arg string) error {
	args, err := SplitArgs(arg)
	if err != nil {
		return err
	}
	section := ""
	if len(args) > 0 {
		section = args[0]
	}
	show := func(name string) bool { return section == "" || section == name }
	if show("vars") {
		for _, name := range sortedKeys(s.Env.vars) {
			fmt.Fprintf(s.Out, "$%s = %s\n", name, Repr(s.Env.vars[name]))
		}
	}
	if show("functions") {
		for _, name := range sortedKeys(s.Env.funcs) {
			fmt.Fprintf(s.Out, "%s\n", s.Env.funcs[name].Signature)
		}
	}
	if show("classes") {
		for _, name := range sortedKeys(s.Env.classes) {
			ci := s.Env.classes[name]
			kind := "class"
			if ci.Iface {
				kind = "interface"
			}
			fmt.Fprintf(s.Out, "%s %s\n", kind, name)
		}
	}
	if show("constants") {
		for _, name := range sortedKeys(s.Env.consts) {
			fmt.Fprintf(s.Out, "%s = %s\n", name, Repr(s.Env.consts[name]))
		}
	}
	return nil
}

func runDoc(s *Session, arg string) error {
	args, err := SplitArgs(arg)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: doc <name>")
	}
	name := args[0]
	if fn, ok := s.Env.Func(name); ok {
		fmt.Fprintf(s.Out, "%s\n", fn.Signature)
		if fn.Doc != "" {
			fmt.Fprintf(s.Out, "  %s\n", fn.Doc)
		}
		return nil
	}
	if ci, ok := s.Env.Class(name); ok {
		kind := "class"
		if ci.Iface {
			kind = "interface"
		}
		fmt.Fprintf(s.Out, "%s %s", kind, ci.Name)
		if ci.Parent != "" {
			fmt.Fprintf(s.Out, " extends %s", ci.Parent)
		}
		fmt.Fprintln(s.Out)
		for _, mem := range ci.Members {
			static := ""
			if mem.Static {
				static = "static "
			}
			fmt.Fprintf(s.Out, "  %s%s %s\n", static, mem.Kind, mem.Name)
		}
		return nil
	}
	return fmt.Errorf("no documentation for %q", name)
}

func runDump(s *Session, arg string) error {
	if strings.TrimSpace(arg) == "" {
		return errors.New("usage: dump <expression>")
	}
	val, err := evalExpression(s.Env, arg)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out, dumpValue(val))
	return nil
}

// evalExpression evaluates arg as a single expression without the
// statement-level printing Eval performs.
func evalExpression(env *Env, source string) (Value, error) {
	toks := make([]*token.Token, 0, 8)
	for _, tok := range parser.Tokenize("<arg>", source) {
		if tok.Type == token.COMMENT {
			continue
		}
		toks = append(toks, tok)
	}
	ev := &evaluator{env: env, out: io.Discard, toks: toks}
	val, err := ev.expression()
	if err != nil {
		return nil, err
	}
	if tok := ev.peek(); tok.Type != token.EOF && tok.Type != token.SEMI {
		return nil, ev.errf(tok, "unexpected %s after expression", tok.Text)
	}
	return val, nil
}
