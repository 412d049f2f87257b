package emitter

import (
	"fmt"
	"strings"

	"github.com/vogtb/sheetc/internal/depgraph"
	"github.com/vogtb/sheetc/internal/formula"
)

// CellSource is one compiled cell: either a literal value (AST nil) or a
// formula (AST set). ID is the normalized "Sheet!A1" form.
type CellSource struct {
	ID      string
	Sheet   string
	Ref     string
	AST     *formula.Node
	Literal any
}

// Report summarizes one Emit invocation.
type Report struct {
	CellsCompiled  int
	CyclesDetected int
	ParseWarnings  []string

	// MissingSheets is filled in by the pipeline, not by Emit itself: sheet
	// names discovered in formula text that the loaded workbook never
	// defined a tab for.
	MissingSheets []string
}

// Emit's bookkeeping helpers are unexported; Emit is the package's single
// entry point, called once per generated file by the pipeline driver.
func Emit(backend Backend, cfg Config, cells []CellSource, graph *depgraph.Graph, outputOrder map[string][]string) (string, Report, error) {
	report := Report{}
	inputTabs := toSet(cfg.InputTabs)

	byID := make(map[string]CellSource, len(cells))
	for _, c := range cells {
		byID[c.ID] = c
	}

	var body strings.Builder

	// Non-formula cells seed either from the input record (if on an input
	// tab) or as a fixed constant.
	for _, c := range cells {
		if c.AST != nil {
			continue
		}
		literalExpr, err := lowerLiteralValue(backend, c.Literal)
		if err != nil {
			return "", report, err
		}
		if inputTabs[c.Sheet] {
			body.WriteString(backend.InputInit(c.ID, c.Sheet, c.Ref, literalExpr))
		} else {
			body.WriteString(backend.Assign(c.ID, literalExpr))
		}
		report.CellsCompiled++
	}

	// Cycle members get a fixed #REF! assignment instead of being evaluated
	// (they never appear in graph.Order).
	for _, id := range sortedStringSet(graph.Cycles) {
		body.WriteString(backend.SentinelAssign(id, cycleComment(id, byID)))
		report.CellsCompiled++
		report.CyclesDetected++
	}

	// Formula cells in dependency order.
	for _, id := range graph.Order {
		c, ok := byID[id]
		if !ok || c.AST == nil {
			continue
		}
		expr, err := Lower(backend, c.Sheet, id, c.AST)
		if err != nil {
			return "", report, err
		}
		body.WriteString(backend.Assign(id, expr))
		report.CellsCompiled++
	}

	var out strings.Builder
	out.WriteString(backend.Preamble(cfg))
	out.WriteString(backend.RuntimeHelpers())
	out.WriteString("\n")
	out.WriteString(backend.FunctionOpen(cfg))
	out.WriteString(body.String())
	out.WriteString(backend.OutputAssembly(cfg.OutputTabs, outputOrder))
	out.WriteString(backend.FunctionClose())
	out.WriteString(backend.Postamble())

	return out.String(), report, nil
}

// cycleComment names a cycle-member cell's own formula, printed back from
// its AST, so the leading comment documents *why* the cell got a sentinel
// instead of just asserting that it did.
func cycleComment(id string, byID map[string]CellSource) string {
	c, ok := byID[id]
	if !ok || c.AST == nil {
		return fmt.Sprintf("%s participates in a circular reference and cannot be evaluated", id)
	}
	return fmt.Sprintf("cycle: %s %s", id, formula.Print(c.AST))
}

func lowerLiteralValue(backend Backend, v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return backend.StringLiteral(`""`), nil
	case bool:
		return backend.BoolLiteral(t), nil
	case float64:
		return backend.NumberLiteral(formatNumber(t)), nil
	case int:
		return backend.NumberLiteral(formatNumber(float64(t))), nil
	case string:
		return backend.StringLiteral(quoteString(t)), nil
	default:
		return "", fmt.Errorf("emitter: unsupported literal type %T", v)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

func sortedStringSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Simple insertion sort: cycle sets are small and this avoids pulling
	// in sort for one call site duplicated across the package.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
