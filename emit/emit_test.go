package emit_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"regex2c/automaton"
	"regex2c/emit"
	"regex2c/input"
	"regex2c/parser"
)

func mustMinimize(t *testing.T, pattern string) *automaton.Automaton {
	t.Helper()
	root, err := parser.Parse(input.NewReader(strings.NewReader(pattern)), nil)
	require.NoError(t, err)
	return automaton.Minimize(automaton.Determinize(automaton.Build(&root)))
}

func TestWriteCProducesExpectedShape(t *testing.T) {
	a := mustMinimize(t, "ab")

	var buf bytes.Buffer
	err := emit.WriteC(&buf, a, emit.Names{}, 0)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "int next_char();")
	require.Contains(t, out, "int accept(int tag);")
	require.Contains(t, out, "void reject();")
	require.Contains(t, out, "void parse() {")
	require.Contains(t, out, "switch (state) {")
	require.Contains(t, out, "switch (next_char()) {")
	require.Contains(t, out, "default:")
	require.Contains(t, out, "reject();")
}

func TestWriteCStaticFlags(t *testing.T) {
	a := mustMinimize(t, "a")

	var buf bytes.Buffer
	err := emit.WriteC(&buf, a, emit.Names{}, emit.DeclAllStatic)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "static int next_char();")
	require.Contains(t, out, "static int accept(int tag);")
	require.Contains(t, out, "static void reject();")
	require.Contains(t, out, "static void parse() {")
}

func TestWriteCCustomNames(t *testing.T) {
	a := mustMinimize(t, "a")

	var buf bytes.Buffer
	names := emit.Names{Parser: "scan_ident", Next: "getc_", Accept: "found", Reject: "fail"}
	err := emit.WriteC(&buf, a, names, 0)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "void scan_ident() {")
	require.Contains(t, out, "int getc_();")
	require.Contains(t, out, "found(0)")
	require.Contains(t, out, "fail();")
}

func TestWriteCCoalescesRanges(t *testing.T) {
	a := mustMinimize(t, "[a-z]")

	var buf bytes.Buffer
	err := emit.WriteC(&buf, a, emit.Names{}, 0)
	require.NoError(t, err)

	require.Contains(t, buf.String(), "case 97 ... 122:")
}
