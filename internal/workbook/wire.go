package workbook

import (
	"encoding/json"
	"fmt"

	"github.com/vogtb/sheetc/internal/a1"
)

// wireCell mirrors the workbook input contract: a triple of
// raw value, optional formula string, optional formatted-value string. The
// formatted-value field is accepted for contract fidelity but never used by
// the core (no formatting is preserved).
type wireCell struct {
	Value     any    `json:"value,omitempty"`
	Formula   string `json:"formula,omitempty"`
	Formatted string `json:"formatted,omitempty"`
}

type wireTab struct {
	Cells map[string]wireCell `json:"cells"`
}

type wireWorkbook struct {
	NamedRanges map[string]string  `json:"namedRanges,omitempty"`
	Tabs        map[string]wireTab `json:"tabs"`
	TabOrder    []string           `json:"tabOrder,omitempty"`
}

// DecodeJSON parses the JSON wire format into a Workbook.
// Cells are attributed (row, col) by parsing their A1 reference so the
// resulting Workbook matches what a live-retrieval driver would produce.
func DecodeJSON(data []byte) (*Workbook, error) {
	var wire wireWorkbook
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("workbook: decode: %w", err)
	}

	wb := New()
	for name, ref := range wire.NamedRanges {
		wb.DefineNamedRange(name, ref)
	}

	order := wire.TabOrder
	if len(order) == 0 {
		for name := range wire.Tabs {
			order = append(order, name)
		}
	}

	for _, name := range order {
		wt, ok := wire.Tabs[name]
		if !ok {
			continue
		}
		tab := NewTab(name)
		for ref, wc := range wt.Cells {
			row, col, err := a1.Parse(ref)
			if err != nil {
				return nil, fmt.Errorf("workbook: tab %q cell %q: %w", name, ref, err)
			}
			tab.SetCell(ref, &Cell{
				Row:     row,
				Col:     col,
				Value:   wc.Value,
				Formula: wc.Formula,
			})
		}
		wb.AddTab(tab)
	}

	return wb, nil
}
