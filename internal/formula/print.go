package formula

import "strings"

// Print renders an AST back into formula source text, including the
// leading '='. It backs the parse/print round-trip property tests and the
// emitter's leading comment on cycle-member cells.
func Print(n *Node) string {
	var sb strings.Builder
	sb.WriteByte('=')
	printExpr(&sb, n)
	return sb.String()
}

func printExpr(sb *strings.Builder, n *Node) {
	switch n.Kind {
	case KindLiteral:
		sb.WriteString(n.Text)
	case KindRef:
		sb.WriteString(n.Text)
	case KindCall:
		if n.Text == "ARRAY" {
			sb.WriteByte('{')
			for i, c := range n.Children {
				if i > 0 {
					sb.WriteByte(',')
				}
				printExpr(sb, c)
			}
			sb.WriteByte('}')
			return
		}
		sb.WriteString(n.Text)
		sb.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			printExpr(sb, c)
		}
		sb.WriteByte(')')
	case KindOp:
		if len(n.Children) == 1 {
			if n.Op == "%" {
				printExpr(sb, n.Children[0])
				sb.WriteByte('%')
				return
			}
			sb.WriteString(n.Op)
			printExpr(sb, n.Children[0])
			return
		}
		sb.WriteByte('(')
		printExpr(sb, n.Children[0])
		sb.WriteString(n.Op)
		printExpr(sb, n.Children[1])
		sb.WriteByte(')')
	}
}
