// Package pipeline wires the compiler's stages together: named-range
// expansion, lexing/parsing, dependency analysis, and code emission, over
// one loaded workbook. It is the single place that owns the sequencing;
// every stage itself lives in its own leaf package.
package pipeline

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vogtb/sheetc/internal/depgraph"
	"github.com/vogtb/sheetc/internal/emitter"
	"github.com/vogtb/sheetc/internal/formula"
	"github.com/vogtb/sheetc/internal/pipeerr"
	"github.com/vogtb/sheetc/internal/workbook"
)

// Pipeline runs one workbook through to generated source. A Pipeline value
// is cheap and single-use; construct one per workbook so no mutable state
// is shared across concurrent runs.
type Pipeline struct {
	Backend emitter.Backend
	Config  emitter.Config
	Logger  *logrus.Logger

	// RunID identifies this invocation as the run_id log field (the returned
	// Report does not carry it), stamped fresh per Run unless explicitly set
	// beforehand (tests set it to a fixed value).
	RunID string
}

// New builds a Pipeline targeting backend under cfg. If logger is nil, a
// quiet logger is used.
func New(backend emitter.Backend, cfg emitter.Config, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &Pipeline{Backend: backend, Config: cfg, Logger: logger}
}

// Run executes the full pipeline over wb and returns the generated source
// along with a Report.
func (p *Pipeline) Run(wb *workbook.Workbook) ([]byte, emitter.Report, error) {
	runID := p.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := p.Logger.WithField("run_id", runID)

	var sources []emitter.CellSource
	var buildNodes []depgraph.BuildNode
	var warnings []string

	loadedSheets := make(map[string]bool, len(wb.TabOrder))
	for _, tabName := range wb.TabOrder {
		loadedSheets[tabName] = true
	}
	missingSheets := map[string]bool{}
	var missingOrder []string

	for _, tabName := range wb.TabOrder {
		tab := wb.Tab(tabName)
		for ref, cell := range tab.Cells {
			id := tabName + "!" + ref
			src := emitter.CellSource{ID: id, Sheet: tabName, Ref: ref, Literal: cell.Value}

			if !cell.HasFormula() {
				sources = append(sources, src)
				continue
			}

			for _, name := range formula.DiscoverReferencedSheets(cell.Formula, loadedSheets) {
				if !missingSheets[name] {
					missingSheets[name] = true
					missingOrder = append(missingOrder, name)
				}
			}

			expanded := formula.ExpandNamedRanges(cell.Formula, wb.NamedRanges)
			node, err := formula.ParseString(expanded)
			if err != nil {
				if _, isLex := err.(*formula.LexError); isLex {
					return nil, emitter.Report{}, pipeerr.New(pipeerr.CodeLex, id, err)
				}
				// Parse failure degrades the cell to its last-known literal
				// value and the pipeline continues.
				log.WithField("cell", id).WithError(err).Warn("formula failed to parse, degrading to literal")
				warnings = append(warnings, pipeerr.New(pipeerr.CodeParse, id, err).Error())
				sources = append(sources, src)
				continue
			}

			src.AST = node
			cell.AST = node
			sources = append(sources, src)
			buildNodes = append(buildNodes, depgraph.NewCellInput(id, tabName, node))
		}
	}

	graph := depgraph.Build(buildNodes)
	outputOrder := buildOutputOrder(wb, p.Config.OutputTabs)

	out, report, err := emitter.Emit(p.Backend, p.Config, sources, graph, outputOrder)
	if err != nil {
		return nil, report, err
	}
	report.ParseWarnings = warnings
	report.MissingSheets = missingOrder

	if len(missingOrder) > 0 {
		log.WithField("sheets", missingOrder).Warn("formulas reference sheets the workbook never loaded")
	}

	log.WithFields(logrus.Fields{
		"cells_compiled":  report.CellsCompiled,
		"cycles_detected": report.CyclesDetected,
		"missing_sheets":  len(missingOrder),
	}).Info("compilation finished")

	return []byte(out), report, nil
}

// buildOutputOrder lists each output tab's cell ids in row-major order, so
// generated output-assembly code has a stable, deterministic field order
// independent of Go's randomized map iteration.
func buildOutputOrder(wb *workbook.Workbook, outputTabs []string) map[string][]string {
	order := make(map[string][]string, len(outputTabs))
	for _, tabName := range outputTabs {
		tab := wb.Tab(tabName)
		if tab == nil {
			order[tabName] = nil
			continue
		}
		type refPos struct {
			ref      string
			row, col int
		}
		var refs []refPos
		for ref, cell := range tab.Cells {
			refs = append(refs, refPos{ref, cell.Row, cell.Col})
		}
		sort.Slice(refs, func(i, j int) bool {
			if refs[i].row != refs[j].row {
				return refs[i].row < refs[j].row
			}
			return refs[i].col < refs[j].col
		})
		ids := make([]string, 0, len(refs))
		for _, r := range refs {
			ids = append(ids, tabName+"!"+r.ref)
		}
		order[tabName] = ids
	}
	return order
}
