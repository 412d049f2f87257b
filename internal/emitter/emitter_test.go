package emitter

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/vogtb/sheetc/internal/depgraph"
	"github.com/vogtb/sheetc/internal/formula"
)

func mustNode(t *testing.T, src string) *formula.Node {
	t.Helper()
	n, err := formula.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}
	return n
}

func TestLowerLiteralsGo(t *testing.T) {
	n := mustNode(t, `="hello"`)
	got, err := Lower(GoBackend{}, "Sheet1", "Sheet1!A1", n)
	if err != nil {
		t.Fatal(err)
	}
	if got != `"hello"` {
		t.Errorf("got %q", got)
	}
}

func TestLowerCellRefGo(t *testing.T) {
	n := mustNode(t, "=A1+1")
	got, err := Lower(GoBackend{}, "Sheet1", "Sheet1!B1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `cellGet(cells, "Sheet1!A1")`) {
		t.Errorf("got %q, want a cellGet lookup for Sheet1!A1", got)
	}
}

func TestDivisionAlwaysWrapped(t *testing.T) {
	n := mustNode(t, "=A1/B1")
	got, err := Lower(GoBackend{}, "S", "S!C1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "safeDivide(") {
		t.Errorf("got %q, want safeDivide wrapper", got)
	}
}

func TestAdditionUnwrappedWhenOperandsLookSafe(t *testing.T) {
	n := mustNode(t, "=1+2")
	got, err := Lower(GoBackend{}, "S", "S!C1", n)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "safeAdd") {
		t.Errorf("got %q, did not expect safeAdd for two plain literals", got)
	}
	if !strings.Contains(got, "addValues(1, 2)") {
		t.Errorf("got %q, want fast-path addValues", got)
	}
}

func TestAdditionWrappedWhenOperandRisky(t *testing.T) {
	// B1 is a cell reference, which lowers to a cellGet lookup, so the
	// addition around it must be wrapped per the heuristic.
	n := mustNode(t, "=B1+5")
	got, err := Lower(GoBackend{}, "S", "S!C1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "safeAdd(") {
		t.Errorf("got %q, want safeAdd wrapper since B1 is a cell lookup", got)
	}
}

func TestSubtractionNeverWrapped(t *testing.T) {
	n := mustNode(t, "=A1-B1")
	got, err := Lower(GoBackend{}, "S", "S!C1", n)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "safe") {
		t.Errorf("got %q, subtraction must never use a safe wrapper", got)
	}
}

func TestConcatNeverWrapped(t *testing.T) {
	n := mustNode(t, `=A1&"x"`)
	got, err := Lower(GoBackend{}, "S", "S!C1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "concatValues(") {
		t.Errorf("got %q", got)
	}
}

func TestIfLowersToTernary(t *testing.T) {
	n := mustNode(t, "=IF(A1>10,1,2)")
	got, err := Lower(GoBackend{}, "S", "S!C1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "ifExpr(") {
		t.Errorf("got %q, want IF to lower via ifExpr", got)
	}
}

func TestVlookupUsesTableShapedRange(t *testing.T) {
	n := mustNode(t, "=VLOOKUP(A1,B1:C10,2,FALSE)")
	got, err := Lower(GoBackend{}, "S", "S!D1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "rangeLookupTable(cells,") {
		t.Errorf("got %q, want VLOOKUP's table argument to use rangeLookupTable", got)
	}
	if !strings.Contains(got, "rtVlookup(") {
		t.Errorf("got %q", got)
	}
}

func TestUnknownFunctionPassesThrough(t *testing.T) {
	n := mustNode(t, "=CUSTOMFUNC(A1)")
	got, err := Lower(GoBackend{}, "S", "S!D1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `rtUnknown("CUSTOMFUNC"`) {
		t.Errorf("got %q", got)
	}
}

func TestPythonBackendLowersDivision(t *testing.T) {
	n := mustNode(t, "=A1/B1")
	got, err := Lower(PythonBackend{}, "S", "S!C1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "safe_divide(") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, `cell_get(cells, "S!A1")`) {
		t.Errorf("got %q", got)
	}
}

// TestEmitErrorPropagationScenario reproduces the error-propagation
// scenario: A1=0, A2=10, B1="=A2/A1", C1="=B1+5", D1="=B1<10".
func TestEmitErrorPropagationScenario(t *testing.T) {
	cells := []CellSource{
		{ID: "S!A1", Sheet: "S", Ref: "A1", Literal: float64(0)},
		{ID: "S!A2", Sheet: "S", Ref: "A2", Literal: float64(10)},
		{ID: "S!B1", Sheet: "S", Ref: "B1", AST: mustNode(t, "=A2/A1")},
		{ID: "S!C1", Sheet: "S", Ref: "C1", AST: mustNode(t, "=B1+5")},
		{ID: "S!D1", Sheet: "S", Ref: "D1", AST: mustNode(t, "=B1<10")},
	}
	deps := []depgraph.BuildNode{
		depgraph.NewCellInput("S!B1", "S", mustNode(t, "=A2/A1")),
		depgraph.NewCellInput("S!C1", "S", mustNode(t, "=B1+5")),
		depgraph.NewCellInput("S!D1", "S", mustNode(t, "=B1<10")),
	}
	graph := depgraph.Build(deps)

	cfg := Config{InputTabs: []string{"S"}, OutputTabs: []string{"S"}}
	out, report, err := Emit(GoBackend{}, cfg, cells, graph, map[string][]string{"S": {"S!A1", "S!A2", "S!B1", "S!C1", "S!D1"}})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if report.CellsCompiled != 5 {
		t.Errorf("CellsCompiled = %d, want 5", report.CellsCompiled)
	}
	if !strings.Contains(out, `cells["S!B1"] = safeDivide(`) {
		t.Errorf("expected B1 to use safeDivide, got:\n%s", out)
	}
	if !strings.Contains(out, `cells["S!C1"] = safeAdd(`) {
		t.Errorf("expected C1 to use safeAdd since it reads the (risky) B1, got:\n%s", out)
	}
	if !strings.Contains(out, `cells["S!D1"] = safeLess(`) {
		t.Errorf("expected D1 to use safeLess since it reads the (risky) B1, got:\n%s", out)
	}
}

func TestRowLowersToCompileTimeConstant(t *testing.T) {
	n := mustNode(t, "=ROW(B7)")
	got, err := Lower(GoBackend{}, "S", "S!A1", n)
	if err != nil {
		t.Fatal(err)
	}
	if got != "7" {
		t.Errorf("got %q, want the literal 7 with no runtime call", got)
	}
}

func TestRowWithNoArgsUsesOwningCell(t *testing.T) {
	n := mustNode(t, "=ROW()")
	got, err := Lower(GoBackend{}, "S", "S!B12", n)
	if err != nil {
		t.Fatal(err)
	}
	if got != "12" {
		t.Errorf("got %q, want 12 (the owning cell's row)", got)
	}
}

func TestIndirectKeysOffRuntimeExpression(t *testing.T) {
	n := mustNode(t, `=INDIRECT("S!A1")`)
	got, err := Lower(GoBackend{}, "S", "S!C1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `cellGet(cells, "S!A1")`) {
		t.Errorf("got %q, want a cellGet call keyed by the evaluated argument", got)
	}
}

func TestSortAndUniqueDispatchToRuntimeHelpers(t *testing.T) {
	n := mustNode(t, "=SORT(A1:A5)")
	got, err := Lower(GoBackend{}, "S", "S!B1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "rtSort(") {
		t.Errorf("got %q", got)
	}

	n = mustNode(t, "=UNIQUE(A1:A5)")
	got, err = Lower(PythonBackend{}, "S", "S!B1", n)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "rt_unique(") {
		t.Errorf("got %q", got)
	}
}

func TestEmitCycleMembersGetSentinel(t *testing.T) {
	a := mustNode(t, "=B1+1")
	b := mustNode(t, "=A1+1")
	deps := []depgraph.BuildNode{
		depgraph.NewCellInput("S!A1", "S", a),
		depgraph.NewCellInput("S!B1", "S", b),
	}
	graph := depgraph.Build(deps)
	cells := []CellSource{
		{ID: "S!A1", Sheet: "S", Ref: "A1", AST: a},
		{ID: "S!B1", Sheet: "S", Ref: "B1", AST: b},
	}
	cfg := Config{OutputTabs: []string{"S"}}
	out, report, err := Emit(GoBackend{}, cfg, cells, graph, map[string][]string{"S": {"S!A1", "S!B1"}})
	if err != nil {
		t.Fatal(err)
	}
	if report.CyclesDetected != 2 {
		t.Errorf("CyclesDetected = %d, want 2", report.CyclesDetected)
	}
	if !strings.Contains(out, `cells["S!A1"] = "#REF!"`) || !strings.Contains(out, `cells["S!B1"] = "#REF!"`) {
		t.Errorf("expected both cycle members assigned #REF!, got:\n%s", out)
	}
}

// TestComparisonHelpersYieldFalseOnErrorOperand exercises the actual runtime
// functions (not just the generated call text) against an error operand, per
// the rule that comparisons against an error sentinel evaluate to false
// rather than propagating the error.
func TestComparisonHelpersYieldFalseOnErrorOperand(t *testing.T) {
	cases := []struct {
		name string
		fn   func(a, b any) any
	}{
		{"safeLess", safeLess},
		{"safeGreater", safeGreater},
		{"safeLessEqual", safeLessEqual},
		{"safeGreaterEqual", safeGreaterEqual},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.fn(errDivZero, float64(10)); got != false {
				t.Errorf("%s(#DIV/0!, 10) = %#v, want false", c.name, got)
			}
			if got := c.fn(float64(10), errNA); got != false {
				t.Errorf("%s(10, #N/A) = %#v, want false", c.name, got)
			}
		})
	}
}

func TestValuesEqualYieldsBoolAndFalseOnErrorOperand(t *testing.T) {
	if got := valuesEqual(errDivZero, float64(10)); got != false {
		t.Errorf("valuesEqual(#DIV/0!, 10) = %#v, want false", got)
	}
	if got := valuesEqual(float64(5), float64(5)); got != true {
		t.Errorf("valuesEqual(5, 5) = %#v, want true", got)
	}
	// The Go backend's "<>" lowering negates this call directly
	// (!valuesEqual(...)), which only type-checks if valuesEqual returns a
	// genuine bool rather than any.
	var _ bool = !valuesEqual(float64(1), float64(2))
}

// TestGeneratedGoErrorPropagationSourceParses parses the Go source Emit
// produces for a formula set that exercises every "safe" comparison helper,
// catching the class of bug where a runtime helper's signature makes the
// emitted call site a compile error (e.g. negating a non-bool).
func TestGeneratedGoErrorPropagationSourceParses(t *testing.T) {
	cells := []CellSource{
		{ID: "S!A1", Sheet: "S", Ref: "A1", Literal: float64(0)},
		{ID: "S!A2", Sheet: "S", Ref: "A2", Literal: float64(10)},
		{ID: "S!B1", Sheet: "S", Ref: "B1", AST: mustNode(t, "=A2/A1")},
		{ID: "S!D1", Sheet: "S", Ref: "D1", AST: mustNode(t, "=B1<10")},
		{ID: "S!D2", Sheet: "S", Ref: "D2", AST: mustNode(t, "=B1<>5")},
	}
	deps := []depgraph.BuildNode{
		depgraph.NewCellInput("S!B1", "S", mustNode(t, "=A2/A1")),
		depgraph.NewCellInput("S!D1", "S", mustNode(t, "=B1<10")),
		depgraph.NewCellInput("S!D2", "S", mustNode(t, "=B1<>5")),
	}
	graph := depgraph.Build(deps)
	cfg := Config{InputTabs: []string{"S"}, OutputTabs: []string{"S"}}
	out, _, err := Emit(GoBackend{}, cfg, cells, graph, map[string][]string{"S": {"S!A1", "S!A2", "S!B1", "S!D1", "S!D2"}})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "!valuesEqual(") {
		t.Fatalf("expected <> to lower through !valuesEqual, got:\n%s", out)
	}
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "generated.go", out, parser.AllErrors); err != nil {
		t.Fatalf("generated Go source failed to parse: %v\n%s", err, out)
	}
}
