package workbook

import "context"

// Loader is the boundary contract between the pipeline and wherever a
// workbook actually lives (local file, remote sheet service, ...). The
// pipeline depends only on this interface; filewb and remotewb provide
// concrete implementations.
type Loader interface {
	Load(ctx context.Context) (*Workbook, error)
}
