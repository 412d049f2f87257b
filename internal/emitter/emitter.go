// Package emitter lowers ASTs and an evaluation order into host-language
// source: two backends share a common traversal and differ only in
// surface syntax, modeled as a Backend interface (a trait/interface, not a
// subclass hierarchy).
package emitter

import (
	"fmt"

	"github.com/vogtb/sheetc/internal/formula"
)

// Backend renders one target host language's surface syntax. The
// formula-lowering driver (Lower, in lower.go) holds a Backend and calls
// its methods; each concrete backend (GoBackend, PythonBackend) implements
// this interface without any shared base "class" — Go has no inheritance,
// so each backend is simply a distinct struct.
type Backend interface {
	Name() string

	// NumberLiteral, StringLiteral, BoolLiteral render literal values in
	// the target's native syntax.
	NumberLiteral(text string) string
	StringLiteral(raw string) string // raw includes the surrounding quotes and \-escapes from the source
	BoolLiteral(b bool) string

	// CellLookup and RangeLookup render an access to the cell map for a
	// normalized id (single cell) or range string (multi-cell, flattened).
	// RangeLookupTable renders the same range preserved as rows of cells,
	// for functions that index into a rectangular table
	// (VLOOKUP/HLOOKUP/INDEX/TRANSPOSE).
	CellLookup(normalizedID string) string
	RangeLookup(normalizedRange string) string
	RangeLookupTable(normalizedRange string) string
	// IndirectLookup renders a cell-map access keyed by a runtime-computed
	// string expression rather than a reference known at emit time, backing
	// INDIRECT.
	IndirectLookup(refExpr string) string

	// BinaryOp renders `left <symbol> right`, or the corresponding safe
	// helper call when wrap is true.
	BinaryOp(symbol, left, right string, wrap bool) (string, error)
	// UnaryOp renders a unary application of symbol to operand. "%" lowers
	// to "(operand / 100)".
	UnaryOp(symbol, operand string) (string, error)

	// Call renders a dispatch-table helper invocation, or a pass-through
	// call for unknown function names.
	Call(runtimeName string, args []string) string
	PassThroughCall(name string, args []string) string

	// Ternary renders IF's target-native ternary/if-expression. elseExpr
	// defaults to BoolLiteral(false) by the caller when IF has only two args.
	Ternary(cond, thenExpr, elseExpr string) string

	// Preamble/Postamble bracket the whole file; FunctionOpen/FunctionClose
	// bracket the `calculate` function body.
	Preamble(cfg Config) string
	Postamble() string
	FunctionOpen(cfg Config) string
	FunctionClose() string

	// InputInit emits the statement that seeds one input cell from the
	// input record, falling back to its generation-time literal.
	InputInit(id, tab, ref string, literalExpr string) string
	// SentinelAssign emits a cycle-member cell's fixed error assignment,
	// with a leading comment naming the cycle.
	SentinelAssign(id, comment string) string
	// Assign emits `cells[id] = expr`.
	Assign(id, expr string) string
	// OutputAssembly emits the block that copies cells into the output
	// record, grouped by output tab.
	OutputAssembly(outputTabsInOrder []string, cellsByTab map[string][]string) string

	// RuntimeHelpers returns the embedded runtime helper library source,
	// verbatim.
	RuntimeHelpers() string
}

// Config configures one Emit invocation.
type Config struct {
	InputTabs  []string
	OutputTabs []string
}

// errorSentinels are the five wire-format error strings.
var errorSentinels = map[string]bool{
	"#DIV/0!": true,
	"#N/A":    true,
	"#VALUE!": true,
	"#NUM!":   true,
	"#REF!":   true,
}

// unknownNodeError is pipeline-fatal: it indicates a grammar/emitter
// mismatch, not a formula bug.
func unknownNodeError(n *formula.Node) error {
	return fmt.Errorf("emitter: unknown AST node kind %d", n.Kind)
}

func unknownArityError(op string, n int) error {
	return fmt.Errorf("emitter: operator %q has unsupported arity %d", op, n)
}
