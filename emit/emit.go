// Package emit generates the C recognizer source automaton2c.c produces:
// three callback forward declarations, a parser function with a
// `switch(state)` outer dispatch, and per-state `switch(next())` transition
// tables whose contiguous byte ranges collapse into `case lo ... hi:`
// labels (GCC/Clang's case-range extension, exactly as the original emits).
package emit

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/pkg/errors"

	"regex2c/automaton"
	"regex2c/internal/charutil"
)

// Decl packs the "declare as static" choice for each of the four generated
// declarations into one bit apiece, matching automaton2c.h's
// REGEX2C_{NEXT,ACCEPT,REJECT,PARSER}_DECL_STATIC constants exactly
// (REGEX2C_ALL_DECL_STATIC == DeclAllStatic == 15).
type Decl uint8

const (
	DeclNextStatic   Decl = 1 << 0
	DeclAcceptStatic Decl = 1 << 1
	DeclRejectStatic Decl = 1 << 2
	DeclParserStatic Decl = 1 << 3

	DeclAllStatic Decl = DeclNextStatic | DeclAcceptStatic | DeclRejectStatic | DeclParserStatic
)

// Names overrides the four generated identifiers; the zero value uses the
// original tool's defaults.
type Names struct {
	Parser string
	Next   string
	Accept string
	Reject string
}

func (n Names) withDefaults() Names {
	if n.Parser == "" {
		n.Parser = "parse"
	}
	if n.Next == "" {
		n.Next = "next_char"
	}
	if n.Accept == "" {
		n.Accept = "accept"
	}
	if n.Reject == "" {
		n.Reject = "reject"
	}
	return n
}

// WriteC writes the generated recognizer for a (expected to already be a
// minimized DFA — emit does not itself determinize or minimize) to w.
func WriteC(w io.Writer, a *automaton.Automaton, names Names, flags Decl) error {
	names = names.withDefaults()

	if err := writeDecl(w, "next_decl.tmpl", flags, DeclNextStatic, names.Next); err != nil {
		return err
	}
	if err := writeDecl(w, "accept_decl.tmpl", flags, DeclAcceptStatic, names.Accept); err != nil {
		return err
	}
	if err := writeDecl(w, "reject_decl.tmpl", flags, DeclRejectStatic, names.Reject); err != nil {
		return err
	}
	if err := writeDecl(w, "parser_open.tmpl", flags, DeclParserStatic, names.Parser); err != nil {
		return err
	}

	charutil.Indent(w, 1)
	fmt.Fprintf(w, "int state = %d;\n", a.Start)
	charutil.Indent(w, 1)
	fmt.Fprintf(w, "while (1) {\n")

	stm := a.STM()

	charutil.Indent(w, 2)
	fmt.Fprintf(w, "switch (state) {\n")

	for state, node := range a.Nodes {
		charutil.Indent(w, 2)
		fmt.Fprintf(w, "case %d:\n", state)

		if node.EndTag != automaton.NoTag {
			charutil.Indent(w, 3)
			fmt.Fprintf(w, "if (%s(%d)) { return; }\n", names.Accept, node.EndTag)
		}

		charutil.Indent(w, 3)
		fmt.Fprintf(w, "switch (%s()) {\n", names.Next)
		writeCaseRanges(w, stm[state])
		charutil.Indent(w, 3)
		fmt.Fprintf(w, "default:\n")
		charutil.Indent(w, 4)
		fmt.Fprintf(w, "%s();\n", names.Reject)
		charutil.Indent(w, 4)
		fmt.Fprintf(w, "return;\n")
		charutil.Indent(w, 3)
		fmt.Fprintf(w, "}\n")
	}

	charutil.Indent(w, 2)
	fmt.Fprintf(w, "}\n")
	charutil.Indent(w, 1)
	fmt.Fprintf(w, "}\n")
	fmt.Fprintf(w, "}\n")
	return nil
}

// writeCaseRanges emits one `case lo ... hi:`/`state = target; continue;`
// block per maximal run of bytes sharing the same target state, skipping
// any run whose target is -1 ("no transition", automaton2c.c's own stm
// sentinel) and leaving it to the `default: reject(); return;` clause
// instead.
func writeCaseRanges(w io.Writer, row [256]int) {
	b := 0
	for b < 256 {
		target := row[b]
		hi := b
		for hi+1 < 256 && row[hi+1] == target {
			hi++
		}
		if target == -1 {
			b = hi + 1
			continue
		}
		charutil.Indent(w, 3)
		if b == hi {
			fmt.Fprintf(w, "case %d:\n", b)
		} else {
			fmt.Fprintf(w, "case %d ... %d:\n", b, hi)
		}
		charutil.Indent(w, 4)
		fmt.Fprintf(w, "state = %d;\n", target)
		charutil.Indent(w, 4)
		fmt.Fprintf(w, "continue;\n")
		b = hi + 1
	}
}

func writeDecl(w io.Writer, tmplName string, flags, bit Decl, name string) error {
	mod := modifier(flags, bit)
	text, err := templates.FindString(tmplName)
	if err != nil {
		return errors.Wrapf(err, "loading template %q", tmplName)
	}
	t, err := template.New(tmplName).Parse(text)
	if err != nil {
		return errors.Wrapf(err, "parsing template %q", tmplName)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ Mod, Name string }{mod, name}); err != nil {
		return errors.Wrapf(err, "rendering template %q", tmplName)
	}
	_, err = io.Copy(w, &buf)
	return err
}

// modifier mirrors automaton2c.c's print_decl_modifier, simplified to match
// what automaton2c.h's constants actually express: one independent static
// bit per declaration, nothing else. (The original's print_decl_modifier
// also tested an "extern" bit via flags&2 on a left-shifted copy of flags,
// but automaton2c.h defines no *_DECL_EXTERN constant for any shift to ever
// expose — left-shifting flags before masking its low bits can only ever
// surface zeros there, so that branch could never fire from any flag value
// a caller could construct. Dropped rather than reproduced.)
func modifier(flags, bit Decl) string {
	if flags&bit != 0 {
		return "static "
	}
	return ""
}
