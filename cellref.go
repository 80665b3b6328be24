package xml2xlsx

import (
	"fmt"
	"strings"
)

// CellRef is a snapshot of a cell position taken when a cell is tagged for
// reference. The sheet title is fixed at creation, but rendering is dynamic:
// a reference renders as a bare "A1" while its sheet is still the engine's
// current sheet, and as "'Sheet'!A1" once another sheet has become current.
type CellRef struct {
	engine *Engine
	Sheet  string // sheet title captured at creation
	Row    int    // 0-based row index
	Col    int    // 0-based column index
}

func newCellRef(e *Engine, row, col int) *CellRef {
	return &CellRef{engine: e, Sheet: e.currentSheetTitle(), Row: row, Col: col}
}

// CellName returns just the coordinate part like "A1", without a sheet name.
func (c *CellRef) CellName() string {
	return ColToName(c.Col) + fmt.Sprintf("%d", c.Row+1)
}

// String renders the reference relative to the engine's current sheet.
func (c *CellRef) String() string {
	if c.engine != nil && c.Sheet == c.engine.currentSheetTitle() {
		return c.CellName()
	}
	return "'" + c.Sheet + "'!" + c.CellName()
}

func (c *CellRef) refText() string { return c.String() }

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColToName(col int) string {
	result := ""
	col++ // convert to 1-based for algorithm
	for col > 0 {
		col-- // adjust for 0-indexed letter
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}
