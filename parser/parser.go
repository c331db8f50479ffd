// Package parser implements the regex2c surface grammar (spec.md §4.1) as a
// recursive-descent parser over an input.Source, producing an ast.Node.
//
// Unlike the C original (and the teacher's process-wide peek_next/
// consume_next globals), the Source is an explicit value threaded through
// every production — spec.md §9's "reframe as an explicit Source object"
// redesign. Internally, reject panics with a *Error and parseWith recovers
// it, so a syntax violation reaches the caller as a returned *Error; any
// other panic (a genuinely unreachable internal state) is re-raised and
// recovered at the CLI boundary.
package parser

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"regex2c/ast"
	"regex2c/input"
	"regex2c/internal/charclass"
	"regex2c/internal/charutil"
	"regex2c/regdef"
)

// Error reports a fatal parse failure with the byte position and grammar
// production involved, matching spec.md §7's diagnostic requirement: byte
// position plus the production being parsed.
type Error struct {
	Pos        int
	Production string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("regex2c: parse error at byte %d in %s: %v", e.Pos, e.Production, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// positioner is implemented by input sources that can report a byte
// position for diagnostics; *input.Reader implements it.
type positioner interface {
	Pos() int
}

func (p *parser) reject(production string, err error) {
	pos := -1
	if ps, ok := p.src.(positioner); ok {
		pos = ps.Pos()
	}
	panic(&Error{Pos: pos, Production: production, Err: pkgerrors.WithStack(err)})
}

// specials are the regex-syntax bytes that must be backslash-escaped to be
// treated as a literal character (spec.md §4.1's char/escape productions,
// matching regex_parser.c's consume_char_ exactly).
var specials = map[byte]bool{
	'[': true, ']': true, '(': true, ')': true, '.': true, '-': true,
	'^': true, '|': true, '*': true, '+': true, '?': true, '\\': true,
}

type parser struct {
	src      input.Source
	defs     *regdef.Registry
	resolving map[string]bool
}

// Parse consumes a single regex expression from src until src.IsEnd,
// resolving {NAME} references against defs (which may be nil for no
// definitions). It returns the parsed tree, or a *Error (unwrap-able via
// errors.As) if the input is malformed.
func Parse(src input.Source, defs *regdef.Registry) (root ast.Node, err error) {
	return parseWith(src, defs, nil)
}

// ParseDefinition parses the body of a named regular definition, marking
// name as in-progress for the duration so a {name} reference inside its own
// body is rejected as cyclic rather than as merely unknown — spec.md §9's
// resolution of the open question on self- and mutually-referential
// definitions.
func ParseDefinition(src input.Source, defs *regdef.Registry, name string, inProgress map[string]bool) (ast.Node, error) {
	if inProgress == nil {
		inProgress = make(map[string]bool)
	}
	if !inProgress[name] {
		inProgress[name] = true
		defer delete(inProgress, name)
	}
	return parseWith(src, defs, inProgress)
}

func parseWith(src input.Source, defs *regdef.Registry, resolving map[string]bool) (root ast.Node, err error) {
	p := &parser{src: src, defs: defs, resolving: resolving}
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*Error); ok {
				err = perr
				return
			}
			panic(r)
		}
	}()
	root = p.consumeRegexExpr()
	return root, nil
}

func (p *parser) peek() int    { return p.src.Peek() }
func (p *parser) consume() int { return p.src.Consume() }

func (p *parser) consumeRegexExpr() ast.Node {
	root := p.consumeOrExpr()
	if !p.src.IsEnd(p.peek()) {
		p.reject("regex", pkgerrors.Wrapf(ErrTrailingInput, "got %s", charutil.PrintByte(p.peek())))
	}
	return root
}

func (p *parser) consumeOrExpr() ast.Node {
	var children []ast.Node
	for {
		children = append(children, p.consumeAndExpr())
		if p.peek() != '|' {
			break
		}
		p.consume() // '|'
	}
	if len(children) == 1 {
		return children[0]
	}
	return ast.Node{Kind: ast.Alt, Children: children}
}

func (p *parser) consumeAndExpr() ast.Node {
	var children []ast.Node
	for {
		children = append(children, p.consumeModifier())
		switch p.peek() {
		case ']', '}', '-', '^', '*', '+', '?':
			p.reject("and_expr", pkgerrors.Wrapf(ErrUnexpectedByte, "got %s", charutil.PrintByte(p.peek())))
		case ')', '|':
			return foldConcat(children)
		default:
			if p.src.IsEnd(p.peek()) {
				return foldConcat(children)
			}
		}
	}
}

func foldConcat(children []ast.Node) ast.Node {
	if len(children) == 1 {
		return children[0]
	}
	return ast.Node{Kind: ast.Concat, Children: children}
}

func (p *parser) consumeModifier() ast.Node {
	n := p.consumeSingle()
	switch p.peek() {
	case '*':
		p.consume()
		return ast.Node{Kind: ast.Star, Children: []ast.Node{n}}
	case '+':
		p.consume()
		return ast.Node{Kind: ast.Plus, Children: []ast.Node{n}}
	case '?':
		p.consume()
		return ast.Node{Kind: ast.Opt, Children: []ast.Node{n}}
	default:
		return n
	}
}

func (p *parser) consumeSingle() ast.Node {
	switch p.peek() {
	case '{':
		return p.consumeReference()
	case '[':
		return p.consumeClass()
	case '(':
		return p.consumeGroup()
	case '.':
		return p.consumeWildcard()
	case charutil.EOF:
		p.reject("single", ErrUnexpectedEnd)
	case ']', ')', '-', '^', '|', '*', '+', '?':
		p.reject("single", pkgerrors.Wrapf(ErrUnexpectedByte, "got %s", charutil.PrintByte(p.peek())))
	}
	return p.consumeCharNode()
}

func (p *parser) consumeGroup() ast.Node {
	p.consume() // '('
	inner := p.consumeOrExpr()
	if p.peek() != ')' {
		p.reject("group", ErrUnmatchedParen)
	}
	p.consume() // ')'
	return inner
}

func (p *parser) consumeWildcard() ast.Node {
	p.consume() // '.'
	return ast.Node{Kind: ast.Wildcard}
}

func (p *parser) consumeCharNode() ast.Node {
	return ast.Node{Kind: ast.Char, Byte: p.consumeChar()}
}

// consumeChar implements char/escape from spec.md §4.1, fixing the two
// source bugs spec.md §9 calls out rather than reproducing them: the hex
// escape is high-nibble-first, and only a-f/A-F are accepted hex letters.
func (p *parser) consumeChar() byte {
	if p.peek() == '\\' {
		p.consume()
		c := p.peek()
		if c >= 0 && c < 256 && specials[byte(c)] {
			p.consume()
			return byte(c)
		}
		switch c {
		case '0':
			p.consume()
			return 0x00
		case 't':
			p.consume()
			return 0x09
		case 'n':
			p.consume()
			return 0x0a
		case 's':
			p.consume()
			return 0x20
		case 'r':
			p.consume()
			return 0x0d
		case 'x':
			p.consume()
			hi := p.consumeHexDigit()
			lo := p.consumeHexDigit()
			return byte(hi*16 + lo)
		default:
			p.reject("escape", pkgerrors.Wrapf(ErrBadEscape, "got %s", charutil.PrintByte(c)))
		}
	}

	c := p.peek()
	if c >= 0 && c < 256 && specials[byte(c)] {
		p.reject("char", pkgerrors.Wrapf(ErrUnescapedSpecial, "got %s", charutil.PrintByte(c)))
	}
	if c >= 0x21 && c <= 0x7e {
		p.consume()
		return byte(c)
	}
	p.reject("char", pkgerrors.Wrapf(ErrUnexpectedByte, "got %s", charutil.PrintByte(c)))
	panic(pkgerrors.WithStack(ErrInternal))
}

func (p *parser) consumeHexDigit() int {
	c := p.consume()
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 0xa
	case c >= 'A' && c <= 'F':
		return c - 'A' + 0xa
	default:
		p.reject("hex escape", pkgerrors.Wrapf(ErrBadHexDigit, "got %s", charutil.PrintByte(c)))
		panic(pkgerrors.WithStack(ErrInternal))
	}
}

func (p *parser) consumeCharOrRange(mask *charclass.Mask) {
	lo := p.consumeChar()
	if p.peek() == '-' {
		p.consume()
		hi := p.consumeChar()
		if hi <= lo {
			p.reject("class range", ErrBadRange)
		}
		mask.SetRange(lo, hi)
		return
	}
	mask.SetByte(lo)
}

func (p *parser) consumeClass() ast.Node {
	p.consume() // '['
	kind := ast.Class
	if p.peek() == '^' {
		p.consume()
		kind = ast.InvClass
	}

	var mask charclass.Mask
	items := 0
	for {
		p.consumeCharOrRange(&mask)
		items++
		switch p.peek() {
		case charutil.EOF:
			p.reject("class", ErrUnmatchedBracket)
		case '[', '(', ')', '.', '-', '^', '|', '*', '+', '?':
			p.reject("class", pkgerrors.Wrapf(ErrUnexpectedByte, "got %s", charutil.PrintByte(p.peek())))
		case ']':
			p.consume()
			if items == 0 {
				p.reject("class", ErrEmptyClass)
			}
			return ast.Node{Kind: kind, Mask: mask}
		}
	}
}

func (p *parser) consumeReference() ast.Node {
	p.consume() // '{'
	var name []byte
	for {
		c := p.peek()
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			if len(name) >= MaxReferenceNameLen {
				p.reject("reference", ErrReferenceTooLong)
			}
			name = append(name, byte(c))
			p.consume()
		case c == '}':
			p.consume()
			return p.resolveReference(string(name))
		case c == charutil.EOF:
			p.reject("reference", ErrUnexpectedEnd)
		default:
			p.reject("reference", pkgerrors.Wrapf(ErrUnexpectedByte, "got %s", charutil.PrintByte(c)))
		}
	}
}

func (p *parser) resolveReference(name string) ast.Node {
	if p.resolving != nil && p.resolving[name] {
		p.reject("reference", pkgerrors.Wrapf(ErrCyclicReference, "name %q", name))
	}
	ref, ok := p.defs.Lookup(name)
	if !ok {
		p.reject("reference", pkgerrors.Wrapf(ErrUnknownReference, "name %q", name))
	}
	return ast.Node{Kind: ast.Ref, RefName: name, Reference: ref}
}
