// Package input provides the byte-oriented Source the parser consumes, and
// a concatenating multi-file implementation for the CLI driver.
package input

import (
	"bufio"
	"io"

	"regex2c/internal/charutil"
)

// Source is the collaborator interface the parser calls to read its input,
// matching spec.md §6: Peek/Consume give the parser a one-byte lookahead
// buffer, IsEnd tells it which byte terminates the top-level expression.
type Source interface {
	// Peek returns the current byte, or charutil.EOF at end of input.
	Peek() int
	// Consume returns the current byte (or EOF) and advances.
	Consume() int
	// IsEnd reports whether c terminates the top-level regex.
	IsEnd(c int) bool
}

// DefaultIsEnd is the terminator predicate from spec.md §6: EOF, LF, CR,
// TAB, NUL or SPACE end the top-level regular expression.
func DefaultIsEnd(c int) bool {
	switch c {
	case charutil.EOF, '\n', '\r', '\t', 0, ' ':
		return true
	default:
		return false
	}
}

// Reader adapts a single io.Reader into a Source with one byte of
// lookahead, mirroring regex2c.c's peek_next/consume_next pair over a
// buffered stdio stream.
type Reader struct {
	br   *bufio.Reader
	next int
	pos  int
}

// NewReader wraps r, priming the one-byte lookahead buffer immediately so
// Peek is valid before the first Consume call.
func NewReader(r io.Reader) *Reader {
	s := &Reader{br: bufio.NewReader(r)}
	s.advance()
	return s
}

func (s *Reader) advance() {
	b, err := s.br.ReadByte()
	if err != nil {
		s.next = charutil.EOF
		return
	}
	s.next = int(b)
}

// Peek returns the current lookahead byte.
func (s *Reader) Peek() int { return s.next }

// Consume returns the current lookahead byte and advances past it.
func (s *Reader) Consume() int {
	c := s.next
	if c != charutil.EOF {
		s.pos++
	}
	s.advance()
	return c
}

// Pos returns the number of bytes consumed so far, for diagnostics.
func (s *Reader) Pos() int { return s.pos }

// IsEnd reports whether c terminates the top-level regex, using
// DefaultIsEnd.
func (s *Reader) IsEnd(c int) bool { return DefaultIsEnd(c) }
