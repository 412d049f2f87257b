// Package remotewb documents where a live remote-sheet loader (e.g.
// fetching a workbook over an API with auth and retry) would plug into
// the pipeline via workbook.Loader. Remote retrieval is explicitly out of
// scope (spec.md non-goals); this package exists only so the boundary
// contract is named and type-checked against, not to implement one.
package remotewb

import (
	"context"
	"errors"

	"github.com/vogtb/sheetc/internal/workbook"
)

// ErrNotImplemented is returned by every Loader call.
var ErrNotImplemented = errors.New("remotewb: remote workbook retrieval is not implemented")

// Loader is a placeholder workbook.Loader. A real implementation would
// hold connection details (endpoint, credentials) and perform network I/O
// in Load.
type Loader struct {
	Endpoint string
}

func (l *Loader) Load(ctx context.Context) (*workbook.Workbook, error) {
	return nil, ErrNotImplemented
}

var _ workbook.Loader = (*Loader)(nil)
