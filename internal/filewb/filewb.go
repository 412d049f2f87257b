// Package filewb implements workbook.Loader by reading the workbook wire
// format off local disk.
package filewb

import (
	"context"
	"fmt"
	"os"

	"github.com/vogtb/sheetc/internal/workbook"
)

// Loader reads one workbook JSON fixture from Path.
type Loader struct {
	Path string
}

// NewLoader builds a Loader for the given file path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads and decodes the workbook. ctx is accepted to satisfy
// workbook.Loader and is checked for cancellation before the (synchronous)
// file read, since local disk I/O has no natural cancellation point.
func (l *Loader) Load(ctx context.Context) (*workbook.Workbook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("filewb: read %s: %w", l.Path, err)
	}
	wb, err := workbook.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("filewb: %s: %w", l.Path, err)
	}
	return wb, nil
}

var _ workbook.Loader = (*Loader)(nil)
