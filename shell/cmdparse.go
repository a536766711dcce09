// Copyright © 2025 The Parlor authors

package shell

import (
	"fmt"
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// SplitArgs tokenizes a meta-command argument line into words.  Double-
// and single-quoted arguments may contain whitespace; quotes are
// stripped.
func SplitArgs(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	s := parsec.NewScanner([]byte(line))
	node, s := argLineParser()(s)
	_, s = s.SkipWS()
	if !s.Endof() {
		rest, _ := s.Match(`.{1,16}`)
		return nil, fmt.Errorf("bad argument starting: %s", rest)
	}
	return collectArgs(node), nil
}

func argLineParser() parsec.Parser {
	word := parsec.Token(`[^\s"']+`, "WORD")
	single := parsec.Token(`'[^']*'`, "SQSTRING")
	arg := parsec.OrdChoice(nil, parsec.String(), single, word)
	return parsec.Kleene(nil, arg)
}

// collectArgs flattens the parsec node tree into argument strings.  The
// goparsec String() parser wraps its already-unescaped result back in
// double quotes, so both quoted forms get the same surrounding-quote
// strip here.
func collectArgs(node parsec.ParsecNode) []string {
	var args []string
	switch node := node.(type) {
	case []parsec.ParsecNode:
		for _, child := range node {
			args = append(args, collectArgs(child)...)
		}
	case *parsec.Terminal:
		text := node.GetValue()
		if node.GetName() == "SQSTRING" && len(text) >= 2 {
			text = text[1 : len(text)-1]
		}
		args = append(args, text)
	case string:
		if len(node) >= 2 {
			node = node[1 : len(node)-1]
		}
		args = append(args, node)
	}
	return args
}
