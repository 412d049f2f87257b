package emitter

import (
	"strconv"
	"strings"

	"github.com/vogtb/sheetc/internal/a1"
	"github.com/vogtb/sheetc/internal/formula"
	"github.com/vogtb/sheetc/internal/pipeerr"
)

// safeWrapSymbols are the binary operators subject to the error-aware
// wrapper heuristic: +, *, and the four comparisons. Division is always
// wrapped regardless of operand shape; subtraction, power, and
// concatenation are never wrapped.
var safeWrapSymbols = map[string]bool{
	"+":  true,
	"*":  true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,
}

// operandLooksRisky is the textual heuristic: an operand expression is
// "risky" if its rendered source could plausibly evaluate to an error
// sentinel at runtime. It never inspects formula semantics, only the
// already-emitted operand text.
func operandLooksRisky(expr string) bool {
	if strings.Contains(expr, "#") {
		return true
	}
	markers := []string{"cellGet(", "cell_get(", "rangeLookup(", "range_lookup(", "vlookup(", "match(", "index("}
	lower := strings.ToLower(expr)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// lowerer walks one cell's AST into target source, resolving references
// against the cell's home sheet.
type lowerer struct {
	backend      Backend
	currentSheet string
	cellID       string
}

// Lower renders node as an expression in the active backend's syntax.
// currentSheet is the sheet the owning cell lives on, used to resolve
// sheet-unqualified references.
func Lower(backend Backend, currentSheet, cellID string, node *formula.Node) (string, error) {
	l := &lowerer{backend: backend, currentSheet: currentSheet, cellID: cellID}
	return l.lower(node)
}

func (l *lowerer) lower(n *formula.Node) (string, error) {
	switch n.Kind {
	case formula.KindLiteral:
		return l.lowerLiteral(n)
	case formula.KindRef:
		return l.lowerRef(n)
	case formula.KindOp:
		return l.lowerOp(n)
	case formula.KindCall:
		return l.lowerCall(n)
	default:
		return "", pipeerr.New(pipeerr.CodeEmit, l.cellID, unknownNodeError(n))
	}
}

func (l *lowerer) lowerLiteral(n *formula.Node) (string, error) {
	switch strings.ToUpper(n.Text) {
	case "TRUE":
		return l.backend.BoolLiteral(true), nil
	case "FALSE":
		return l.backend.BoolLiteral(false), nil
	}
	if strings.HasPrefix(n.Text, "\"") {
		return l.backend.StringLiteral(n.Text), nil
	}
	if _, err := strconv.ParseFloat(n.Text, 64); err == nil {
		return l.backend.NumberLiteral(n.Text), nil
	}
	// Anything else (shouldn't occur post-parse) degrades to a string.
	return l.backend.StringLiteral(strconv.Quote(n.Text)), nil
}

func (l *lowerer) lowerRef(n *formula.Node) (string, error) {
	normalized := formula.Normalize(n.Text, l.currentSheet)
	if n.IsRange() {
		return l.backend.RangeLookup(normalized), nil
	}
	return l.backend.CellLookup(normalized), nil
}

func (l *lowerer) lowerOp(n *formula.Node) (string, error) {
	switch len(n.Children) {
	case 1:
		operand, err := l.lower(n.Children[0])
		if err != nil {
			return "", err
		}
		return l.backend.UnaryOp(n.Op, operand)
	case 2:
		left, err := l.lower(n.Children[0])
		if err != nil {
			return "", err
		}
		right, err := l.lower(n.Children[1])
		if err != nil {
			return "", err
		}
		wrap := n.Op == "/" || (safeWrapSymbols[n.Op] && (operandLooksRisky(left) || operandLooksRisky(right)))
		return l.backend.BinaryOp(n.Op, left, right, wrap)
	default:
		return "", pipeerr.New(pipeerr.CodeEmit, l.cellID, unknownArityError(n.Op, len(n.Children)))
	}
}

// lowerRow special-cases ROW: the row number of a reference is known at
// generation time from the reference text itself, so (unlike every other
// function) this never needs a runtime helper call at all.
func (l *lowerer) lowerRow(n *formula.Node) (string, error) {
	if len(n.Children) == 0 {
		_, row, err := a1.Split(cellPartOf(l.cellID))
		if err != nil {
			return "", pipeerr.New(pipeerr.CodeEmit, l.cellID, err)
		}
		return l.backend.NumberLiteral(strconv.Itoa(row)), nil
	}
	if len(n.Children) != 1 || n.Children[0].Kind != formula.KindRef {
		return "", pipeerr.New(pipeerr.CodeEmit, l.cellID, unknownArityError("ROW", len(n.Children)))
	}
	_, row, err := a1.Split(cellPartOf(n.Children[0].Text))
	if err != nil {
		return "", pipeerr.New(pipeerr.CodeEmit, l.cellID, err)
	}
	return l.backend.NumberLiteral(strconv.Itoa(row)), nil
}

// lowerIndirect special-cases INDIRECT: unlike every other Ref argument,
// INDIRECT's argument is a runtime string value rather than a reference
// known at emit time, so the lowered cell-map access must key off the
// evaluated argument expression instead of a literal id baked in by
// CellLookup.
func (l *lowerer) lowerIndirect(n *formula.Node) (string, error) {
	if len(n.Children) != 1 {
		return "", pipeerr.New(pipeerr.CodeEmit, l.cellID, unknownArityError("INDIRECT", len(n.Children)))
	}
	refExpr, err := l.lower(n.Children[0])
	if err != nil {
		return "", err
	}
	return l.backend.IndirectLookup(refExpr), nil
}

// cellPartOf strips a sheet prefix and a range's second endpoint, leaving
// the bare first A1 coordinate.
func cellPartOf(ref string) string {
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	if i := strings.Index(ref, ":"); i >= 0 {
		ref = ref[:i]
	}
	return ref
}

// tableShapedArg names, for functions that index into a rectangular range
// rather than a flat list, which argument position expects the range
// preserved as rows of cells (VLOOKUP/HLOOKUP/INDEX/TRANSPOSE).
var tableShapedArg = map[string]int{
	"VLOOKUP":   1,
	"HLOOKUP":   1,
	"INDEX":     0,
	"TRANSPOSE": 0,
}

func (l *lowerer) lowerCall(n *formula.Node) (string, error) {
	name := strings.ToUpper(n.Text)

	if name == "ARRAY" {
		args := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			arg, err := l.lower(c)
			if err != nil {
				return "", err
			}
			args = append(args, arg)
		}
		return l.backend.Call("array", args), nil
	}

	if name == "IF" {
		return l.lowerIf(n)
	}

	if name == "ROW" {
		return l.lowerRow(n)
	}

	if name == "INDIRECT" {
		return l.lowerIndirect(n)
	}

	tableArg, wantsTable := tableShapedArg[name]

	args := make([]string, 0, len(n.Children))
	for i, c := range n.Children {
		if wantsTable && i == tableArg && c.Kind == formula.KindRef && c.IsRange() {
			normalized := formula.Normalize(c.Text, l.currentSheet)
			args = append(args, l.backend.RangeLookupTable(normalized))
			continue
		}
		arg, err := l.lower(c)
		if err != nil {
			return "", err
		}
		args = append(args, arg)
	}

	if runtimeName, ok := functionTable[name]; ok {
		return l.backend.Call(runtimeName, args), nil
	}
	// Unknown function names pass through verbatim as a call of the same name.
	return l.backend.PassThroughCall(n.Text, args), nil
}

// lowerIf special-cases IF so it lowers to the target's native
// conditional rather than a helper call.
func (l *lowerer) lowerIf(n *formula.Node) (string, error) {
	if len(n.Children) < 2 || len(n.Children) > 3 {
		return "", pipeerr.New(pipeerr.CodeEmit, l.cellID, unknownArityError("IF", len(n.Children)))
	}
	cond, err := l.lower(n.Children[0])
	if err != nil {
		return "", err
	}
	thenExpr, err := l.lower(n.Children[1])
	if err != nil {
		return "", err
	}
	elseExpr := l.backend.BoolLiteral(false)
	if len(n.Children) == 3 {
		elseExpr, err = l.lower(n.Children[2])
		if err != nil {
			return "", err
		}
	}
	return l.backend.Ternary(cond, thenExpr, elseExpr), nil
}
