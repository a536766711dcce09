// Copyright © 2025 The Parlor authors

package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from an in-memory source
// buffer.  REPL buffers and editor documents are always fully materialized
// strings, so the scanner indexes the buffer directly instead of streaming.
type Scanner struct {
	file string
	src  string

	start     int // byte offset of the first byte of the current token
	pos       int // byte offset of the next rune to scan
	line      int // line number at pos (starting at 1)
	col       int // column number at pos (starting at 1, in runes)
	startLine int // line number at start
	startCol  int // column number at start
}

// NewScanner initializes and returns a new Scanner over src.
func NewScanner(file, src string) *Scanner {
	return &Scanner{
		file:      file,
		src:       src,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// EOF reports whether the scanner has consumed all input.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.src)
}

// Peek returns the next rune without consuming it, or utf8.RuneError with a
// false second value at end of input.
func (s *Scanner) Peek() (rune, bool) {
	if s.EOF() {
		return utf8.RuneError, false
	}
	c, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return c, true
}

// PeekAt returns the rune n positions beyond the cursor (PeekAt(0) ==
// Peek).  Multi-rune lookahead is needed for operators like <<< and <=>.
func (s *Scanner) PeekAt(n int) (rune, bool) {
	pos := s.pos
	for i := 0; i <= n; i++ {
		if pos >= len(s.src) {
			return utf8.RuneError, false
		}
		c, size := utf8.DecodeRuneInString(s.src[pos:])
		if i == n {
			return c, true
		}
		pos += size
	}
	return utf8.RuneError, false
}

// ScanRune consumes one rune and returns it.  At end of input ScanRune
// returns a false second value.
func (s *Scanner) ScanRune() (rune, bool) {
	if s.EOF() {
		return utf8.RuneError, false
	}
	c, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c, true
}

// Accept consumes the next rune if fn approves it.
func (s *Scanner) Accept(fn func(rune) bool) bool {
	c, ok := s.Peek()
	if !ok || !fn(c) {
		return false
	}
	s.ScanRune()
	return true
}

// AcceptRune consumes the next rune if it equals c.
func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

// AcceptAny consumes the next rune if it appears in charset.
func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

// AcceptSeq consumes a run of runes approved by fn and returns its length.
func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

// AcceptSeqDigit consumes a run of decimal digits.
func (s *Scanner) AcceptSeqDigit() int {
	return s.AcceptSeq(func(c rune) bool { return '0' <= c && c <= '9' })
}

// AcceptSeqSpace consumes a run of whitespace.
func (s *Scanner) AcceptSeqSpace() int {
	return s.AcceptSeq(unicode.IsSpace)
}

// AcceptString consumes literal exactly, or nothing at all.
func (s *Scanner) AcceptString(literal string) bool {
	if !strings.HasPrefix(s.src[s.pos:], literal) {
		return false
	}
	for range literal {
		s.ScanRune()
	}
	return true
}

// Text returns the text scanned since the last call to EmitToken or Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.pos]
}

// Ignore discards all text scanned since the last EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.pos
	s.startLine = s.line
	s.startCol = s.col
}

// EmitToken returns a token containing the text scanned since the last call
// to either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// LocStart returns a Location referencing the beginning of the current
// token, just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}
