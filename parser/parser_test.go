package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"regex2c/ast"
	"regex2c/input"
	"regex2c/parser"
	"regex2c/regdef"
)

func newSrc(pattern string) *input.Reader {
	return input.NewReader(strings.NewReader(pattern))
}

func parseLit(t *testing.T, pattern string) ast.Node {
	t.Helper()
	n, err := parser.Parse(newSrc(pattern), nil)
	require.NoError(t, err)
	return n
}

func parseErrLit(t *testing.T, pattern string) error {
	t.Helper()
	_, err := parser.Parse(newSrc(pattern), nil)
	require.Error(t, err)
	return err
}

func TestParseLiteralConcat(t *testing.T) {
	n := parseLit(t, "ab")
	require.Equal(t, ast.Concat, n.Kind)
	require.Len(t, n.Children, 2)
	require.Equal(t, byte('a'), n.Children[0].Byte)
	require.Equal(t, byte('b'), n.Children[1].Byte)
}

func TestParseAlt(t *testing.T) {
	n := parseLit(t, "a|b")
	require.Equal(t, ast.Alt, n.Kind)
	require.Len(t, n.Children, 2)
}

func TestParseModifiers(t *testing.T) {
	require.Equal(t, ast.Star, parseLit(t, "a*").Kind)
	require.Equal(t, ast.Plus, parseLit(t, "a+").Kind)
	require.Equal(t, ast.Opt, parseLit(t, "a?").Kind)
}

func TestParseGroup(t *testing.T) {
	n := parseLit(t, "(a|b)c")
	require.Equal(t, ast.Concat, n.Kind)
	require.Equal(t, ast.Alt, n.Children[0].Kind)
}

func TestParseWildcard(t *testing.T) {
	require.Equal(t, ast.Wildcard, parseLit(t, ".").Kind)
}

func TestParseClass(t *testing.T) {
	n := parseLit(t, "[a-cX]")
	require.Equal(t, ast.Class, n.Kind)
	require.True(t, n.Mask.Has('a'))
	require.True(t, n.Mask.Has('b'))
	require.True(t, n.Mask.Has('c'))
	require.True(t, n.Mask.Has('X'))
	require.False(t, n.Mask.Has('d'))
}

func TestParseInvertedClass(t *testing.T) {
	n := parseLit(t, "[^0-9]")
	require.Equal(t, ast.InvClass, n.Kind)
	require.True(t, n.Mask.Has('5'))
	require.False(t, n.Mask.Has('a'))
}

func TestParseHexEscapeNibbleOrder(t *testing.T) {
	// \x41 must be 'A' (0x41), not 0x14 — the historical nibble-order bug
	// spec.md §9 calls out must not be reproduced.
	n := parseLit(t, `\x41`)
	require.Equal(t, byte(0x41), n.Byte)
}

func TestParseHexEscapeRejectsNonHexLetter(t *testing.T) {
	// \xg0 must be rejected; the historical bug accepted any letter.
	err := parseErrLit(t, `\xg0`)
	require.ErrorIs(t, err, parser.ErrBadHexDigit)
}

func TestParseBadRange(t *testing.T) {
	err := parseErrLit(t, "[z-a]")
	require.ErrorIs(t, err, parser.ErrBadRange)
}

func TestParseUnmatchedParen(t *testing.T) {
	err := parseErrLit(t, "(a")
	require.ErrorIs(t, err, parser.ErrUnmatchedParen)
}

func TestParseTrailingInputRejected(t *testing.T) {
	err := parseErrLit(t, "a)")
	require.ErrorIs(t, err, parser.ErrTrailingInput)
}

func TestParseUnmatchedBracket(t *testing.T) {
	err := parseErrLit(t, "[a")
	require.ErrorIs(t, err, parser.ErrUnmatchedBracket)
}

func TestParseUnexpectedEndOfExpression(t *testing.T) {
	err := parseErrLit(t, "a|")
	require.ErrorIs(t, err, parser.ErrUnexpectedEnd)
}

func TestParseUnexpectedEndInReference(t *testing.T) {
	err := parseErrLit(t, "{DIGIT")
	require.ErrorIs(t, err, parser.ErrUnexpectedEnd)
}

func TestParseUnescapedSpecialRejected(t *testing.T) {
	err := parseErrLit(t, "[a(")
	require.ErrorIs(t, err, parser.ErrUnexpectedByte)
}

func TestParseReference(t *testing.T) {
	defs := regdef.NewRegistry()
	digit := ast.Node{Kind: ast.Class}
	digit.Mask.SetRange('0', '9')
	defs.Define("DIGIT", digit)

	n, err := parser.Parse(newSrc("{DIGIT}+"), defs)
	require.NoError(t, err)
	require.Equal(t, ast.Plus, n.Kind)
	ref := n.Children[0]
	require.Equal(t, ast.Ref, ref.Kind)
	require.Equal(t, "DIGIT", ref.RefName)
	require.NotNil(t, ref.Reference)
	require.Equal(t, ast.Class, ref.Reference.Kind)
}

func TestParseUnknownReference(t *testing.T) {
	_, err := parser.Parse(newSrc("{NOPE}"), regdef.NewRegistry())
	require.ErrorIs(t, err, parser.ErrUnknownReference)
}

func TestParseCyclicReference(t *testing.T) {
	defs := regdef.NewRegistry()
	inProgress := map[string]bool{"SELF": true}
	_, err := parser.ParseDefinition(newSrc("{SELF}"), defs, "SELF", inProgress)
	require.ErrorIs(t, err, parser.ErrCyclicReference)
}
