package emitter

import (
	"fmt"
	"strings"
	"unicode"
)

// PythonBackend renders target B: dynamically typed Python source backed
// by a plain dict keyed by normalized cell id and a module of rt_*
// runtime helper functions.
type PythonBackend struct{}

func (PythonBackend) Name() string { return "python" }

func (PythonBackend) NumberLiteral(text string) string { return text }

func (PythonBackend) StringLiteral(raw string) string {
	// The lexer's raw text is already a double-quoted, backslash-escaped
	// string literal, which is also valid Python string syntax.
	return raw
}

func (PythonBackend) BoolLiteral(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func (PythonBackend) CellLookup(id string) string {
	return fmt.Sprintf("cell_get(cells, %q)", id)
}

func (PythonBackend) RangeLookup(ref string) string {
	return fmt.Sprintf("range_lookup(cells, %q)", ref)
}

func (PythonBackend) RangeLookupTable(ref string) string {
	return fmt.Sprintf("range_lookup_table(cells, %q)", ref)
}

func (PythonBackend) IndirectLookup(refExpr string) string {
	return fmt.Sprintf("cell_get(cells, %s)", refExpr)
}

func (b PythonBackend) BinaryOp(symbol, left, right string, wrap bool) (string, error) {
	if !wrap {
		switch symbol {
		case "<>":
			return fmt.Sprintf("(not values_equal(%s, %s))", left, right), nil
		case "=":
			return fmt.Sprintf("values_equal(%s, %s)", left, right), nil
		case "&":
			return fmt.Sprintf("(str(%s) + str(%s))", left, right), nil
		case "^":
			return fmt.Sprintf("(%s ** %s)", left, right), nil
		case "-":
			return fmt.Sprintf("(%s - %s)", left, right), nil
		}
		if fast, ok := fastHelperNamesPy[symbol]; ok {
			return fmt.Sprintf("%s(%s, %s)", fast, left, right), nil
		}
		return fmt.Sprintf("(%s %s %s)", left, symbol, right), nil
	}
	helper, ok := safeHelperNamesPy[symbol]
	if !ok {
		return "", fmt.Errorf("emitter: no safe helper for operator %q", symbol)
	}
	return fmt.Sprintf("%s(%s, %s)", helper, left, right), nil
}

func (PythonBackend) UnaryOp(symbol, operand string) (string, error) {
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

func (PythonBackend) Call(key string, args []string) string {
	return fmt.Sprintf("rt_%s(%s)", toSnakeCase(key), strings.Join(args, ", "))
}

func (PythonBackend) PassThroughCall(name string, args []string) string {
	return fmt.Sprintf("rt_unknown(%q, [%s])", name, strings.Join(args, ", "))
}

func (PythonBackend) Ternary(cond, thenExpr, elseExpr string) string {
	return fmt.Sprintf("(%s if %s else %s)", thenExpr, cond, elseExpr)
}

func (PythonBackend) Preamble(cfg Config) string {
	var sb strings.Builder
	sb.WriteString("# Code generated by sheetc. DO NOT EDIT.\n")
	sb.WriteString("from __future__ import annotations\n\n")
	return sb.String()
}

func (PythonBackend) Postamble() string { return "" }

func (PythonBackend) FunctionOpen(cfg Config) string {
	return "def calculate(input):\n" +
		"    cells = {}\n"
}

func (PythonBackend) FunctionClose() string { return "" }

func (PythonBackend) InputInit(id, tab, ref, literalExpr string) string {
	return fmt.Sprintf("    cells[%q] = input_value(input, %q, %q, %s)\n", id, tab, ref, literalExpr)
}

func (PythonBackend) SentinelAssign(id, comment string) string {
	return fmt.Sprintf("    # %s\n    cells[%q] = %q\n", comment, id, "#REF!")
}

func (PythonBackend) Assign(id, expr string) string {
	return fmt.Sprintf("    cells[%q] = %s\n", id, expr)
}

func (PythonBackend) OutputAssembly(outputTabs []string, cellsByTab map[string][]string) string {
	var sb strings.Builder
	sb.WriteString("    output = {}\n")
	for _, tab := range outputTabs {
		sb.WriteString(fmt.Sprintf("    output[%q] = {}\n", tab))
		for _, id := range cellsByTab[tab] {
			ref := refPart(id)
			sb.WriteString(fmt.Sprintf("    output[%q][%q] = cells[%q]\n", tab, ref, id))
		}
	}
	sb.WriteString("    return output\n")
	return sb.String()
}

func (PythonBackend) RuntimeHelpers() string { return pythonRuntimeHelpers }

var safeHelperNamesPy = map[string]string{
	"+":  "safe_add",
	"*":  "safe_multiply",
	"/":  "safe_divide",
	"<":  "safe_less",
	">":  "safe_greater",
	"<=": "safe_less_equal",
	">=": "safe_greater_equal",
}

var fastHelperNamesPy = map[string]string{
	"+":  "add_values",
	"*":  "mul_values",
	"<":  "lt_values",
	">":  "gt_values",
	"<=": "le_values",
	">=": "ge_values",
}

func toSnakeCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
