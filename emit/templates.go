package emit

import "github.com/gobuffalo/packd"

// templates boxes the static C boilerplate fragments automaton2c.c prints
// with plain printf calls (the three callback forward declarations and the
// parser function's opening brace). Boxing them as named template assets
// instead of inline Fprintf calls keeps the fixed, rarely-touched prose
// separate from the automaton-shaped code below it, in the spirit of the
// teacher's own toolchain (gobuffalo/genny + gobuffalo/gogen generate code
// from boxed templates; packd is the box abstraction both sit on).
var templates = newTemplateBox()

func newTemplateBox() *packd.MemoryBox {
	box := packd.NewMemoryBox()
	must(box.AddString("next_decl.tmpl", "{{.Mod}}int {{.Name}}();\n"))
	must(box.AddString("accept_decl.tmpl", "{{.Mod}}int {{.Name}}(int tag);\n"))
	must(box.AddString("reject_decl.tmpl", "{{.Mod}}void {{.Name}}();\n"))
	must(box.AddString("parser_open.tmpl", "{{.Mod}}void {{.Name}}() {\n"))
	return box
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
