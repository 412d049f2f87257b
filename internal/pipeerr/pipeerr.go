// Package pipeerr classifies pipeline errors: a small closed code enum
// wrapping an underlying cause, so callers can distinguish "this cell's
// formula failed to parse, degrade and continue" from "unknown AST node,
// abort the pipeline" without string matching.
package pipeerr

import "fmt"

// Code is a closed enumeration of pipeline error categories.
type Code int

const (
	// CodeLex: the formula lexer could not tokenize a source string.
	// Lexing failures abort the whole pipeline.
	CodeLex Code = iota
	// CodeParse: tokenization succeeded but parsing failed for a single
	// cell. Non-fatal: the cell degrades to a literal and the pipeline
	// continues.
	CodeParse
	// CodeEmit: the emitter encountered an AST node kind or operator arity
	// it does not know how to lower. Pipeline-fatal, indicates a
	// grammar/emitter mismatch.
	CodeEmit
	// CodeInternal: any other invariant violation.
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeLex:
		return "lex"
	case CodeParse:
		return "parse"
	case CodeEmit:
		return "emit"
	default:
		return "internal"
	}
}

// Error wraps an underlying cause with a Code and enough context (cell id,
// if any) to report it without re-deriving the classification downstream.
type Error struct {
	Code   Code
	CellID string // empty when not cell-scoped
	Cause  error
}

func (e *Error) Error() string {
	if e.CellID != "" {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.CellID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Fatal reports whether this error category is pipeline-fatal, i.e. it
// should abort compilation of the whole workbook rather than degrade a
// single cell.
func (e *Error) Fatal() bool {
	return e.Code == CodeLex || e.Code == CodeEmit || e.Code == CodeInternal
}

// New wraps cause under the given code, optionally scoped to a cell id.
func New(code Code, cellID string, cause error) *Error {
	return &Error{Code: code, CellID: cellID, Cause: cause}
}
