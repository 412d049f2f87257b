package emitter

import (
	"fmt"
	"strings"
)

// GoBackend renders statically typed Go source, using a map[string]any
// keyed by normalized cell id and rt-prefixed runtime helper functions
// embedded in the same generated file.
type GoBackend struct{}

func (GoBackend) Name() string { return "go" }

func (GoBackend) NumberLiteral(text string) string { return text }

func (GoBackend) StringLiteral(raw string) string { return raw }

func (GoBackend) BoolLiteral(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (GoBackend) CellLookup(id string) string {
	return fmt.Sprintf("cellGet(cells, %q)", id)
}

func (GoBackend) RangeLookup(ref string) string {
	return fmt.Sprintf("rangeLookup(cells, %q)", ref)
}

func (GoBackend) RangeLookupTable(ref string) string {
	return fmt.Sprintf("rangeLookupTable(cells, %q)", ref)
}

func (GoBackend) IndirectLookup(refExpr string) string {
	return fmt.Sprintf("cellGet(cells, %s)", refExpr)
}

func (b GoBackend) BinaryOp(symbol, left, right string, wrap bool) (string, error) {
	if !wrap {
		switch symbol {
		case "=":
			return fmt.Sprintf("valuesEqual(%s, %s)", left, right), nil
		case "<>":
			return fmt.Sprintf("!valuesEqual(%s, %s)", left, right), nil
		case "&":
			return fmt.Sprintf("concatValues(%s, %s)", left, right), nil
		case "^":
			return fmt.Sprintf("powValues(%s, %s)", left, right), nil
		case "-":
			return fmt.Sprintf("subValues(%s, %s)", left, right), nil
		}
		if fast, ok := fastHelperNames[symbol]; ok {
			return fmt.Sprintf("%s(%s, %s)", fast, left, right), nil
		}
		return fmt.Sprintf("(%s %s %s)", left, symbol, right), nil
	}
	helper, ok := safeHelperNames[symbol]
	if !ok {
		return "", fmt.Errorf("emitter: no safe helper for operator %q", symbol)
	}
	return fmt.Sprintf("%s(%s, %s)", helper, left, right), nil
}

func (GoBackend) UnaryOp(symbol, operand string) (string, error) {
	switch symbol {
	case "%":
		return fmt.Sprintf("(%s / 100.0)", operand), nil
	case "+":
		return fmt.Sprintf("(+%s)", operand), nil
	case "-":
		return fmt.Sprintf("(-%s)", operand), nil
	default:
		return "", fmt.Errorf("emitter: unknown unary operator %q", symbol)
	}
}

func (GoBackend) Call(key string, args []string) string {
	return fmt.Sprintf("rt%s(%s)", strings.ToUpper(key[:1])+key[1:], strings.Join(args, ", "))
}

func (GoBackend) PassThroughCall(name string, args []string) string {
	return fmt.Sprintf("rtUnknown(%q, %s)", name, joinAsSlice(args))
}

func (GoBackend) Ternary(cond, thenExpr, elseExpr string) string {
	return fmt.Sprintf("ifExpr(%s, func() any { return %s }, func() any { return %s })", cond, thenExpr, elseExpr)
}

func (GoBackend) Preamble(cfg Config) string {
	var sb strings.Builder
	sb.WriteString("// Code generated by sheetc. DO NOT EDIT.\n")
	sb.WriteString("package generated\n\n")
	sb.WriteString("import (\n\t\"fmt\"\n\t\"math\"\n\t\"sort\"\n\t\"strconv\"\n\t\"strings\"\n\t\"time\"\n)\n\n")
	return sb.String()
}

func (GoBackend) Postamble() string { return "" }

func (GoBackend) FunctionOpen(cfg Config) string {
	return "// Input and Output map tab name to cell reference to value; values are\n" +
		"// numbers (float64) or strings, and computed cells may also hold bools.\n" +
		"type Input = map[string]map[string]any\n" +
		"type Output = map[string]map[string]any\n\n" +
		"func Calculate(input Input) Output {\n" +
		"\tcells := make(map[string]any)\n" +
		"\t_ = cells\n"
}

func (GoBackend) FunctionClose() string { return "}\n" }

func (GoBackend) InputInit(id, tab, ref, literalExpr string) string {
	return fmt.Sprintf("\tcells[%q] = inputValue(input, %q, %q, %s)\n", id, tab, ref, literalExpr)
}

func (GoBackend) SentinelAssign(id, comment string) string {
	return fmt.Sprintf("\t// %s\n\tcells[%q] = %q\n", comment, id, "#REF!")
}

func (GoBackend) Assign(id, expr string) string {
	return fmt.Sprintf("\tcells[%q] = %s\n", id, expr)
}

func (GoBackend) OutputAssembly(outputTabs []string, cellsByTab map[string][]string) string {
	var sb strings.Builder
	sb.WriteString("\toutput := make(map[string]map[string]any)\n")
	for _, tab := range outputTabs {
		sb.WriteString(fmt.Sprintf("\toutput[%q] = make(map[string]any)\n", tab))
		for _, id := range cellsByTab[tab] {
			ref := refPart(id)
			sb.WriteString(fmt.Sprintf("\toutput[%q][%q] = cells[%q]\n", tab, ref, id))
		}
	}
	sb.WriteString("\treturn output\n")
	return sb.String()
}

func (GoBackend) RuntimeHelpers() string { return goRuntimeHelpers }

var safeHelperNames = map[string]string{
	"+":  "safeAdd",
	"*":  "safeMultiply",
	"/":  "safeDivide",
	"<":  "safeLess",
	">":  "safeGreater",
	"<=": "safeLessEqual",
	">=": "safeGreaterEqual",
}

// fastHelperNames back the unwrapped form of the same operators: still
// type-safe over the any-typed cell values, but without the error-sentinel
// short-circuit the safe* helpers add.
var fastHelperNames = map[string]string{
	"+":  "addValues",
	"*":  "mulValues",
	"<":  "ltValues",
	">":  "gtValues",
	"<=": "leValues",
	">=": "geValues",
}

func joinAsSlice(args []string) string {
	return "[]any{" + strings.Join(args, ", ") + "}"
}

// refPart extracts the bare cell reference from a "Sheet!A1" normalized id.
func refPart(id string) string {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '!' {
			return id[i+1:]
		}
	}
	return id
}
