package ast

import (
	"fmt"
	"io"

	"regex2c/internal/charutil"
)

// Print writes an indented debug dump of n to w, mirroring ast.c's
// print_ast_indented: one line per node naming its Kind, with class
// terminals listed on the following indented line.
func Print(w io.Writer, n *Node) {
	printIndented(w, n, 0)
}

func printIndented(w io.Writer, n *Node, indent int) {
	charutil.Indent(w, indent)
	fmt.Fprintln(w, n.Kind.String())

	switch n.Kind {
	case Char:
		charutil.Indent(w, indent+1)
		fmt.Fprintln(w, charutil.PrintByte(int(n.Byte)))
	case Class, InvClass:
		charutil.Indent(w, indent+1)
		for i := 0; i < 256; i++ {
			if n.Mask[i] {
				fmt.Fprintf(w, "%s ", charutil.PrintByte(i))
			}
		}
		fmt.Fprintln(w)
	case Wildcard:
		// no payload to print
	case Ref:
		charutil.Indent(w, indent+1)
		fmt.Fprintf(w, "{%s}\n", n.RefName)
		if n.Reference != nil {
			printIndented(w, n.Reference, indent+1)
		}
	default:
		for i := range n.Children {
			printIndented(w, &n.Children[i], indent+1)
		}
	}
}
