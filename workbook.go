package xml2xlsx

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// columnWidthDivisor converts the dialect's character-based column width to
// the output format's width unit.
const columnWidthDivisor = 7.0

// workbook wraps the excelize file behind the operations the engine needs:
// sheet creation and ordering, row append, column widths, merges and style
// registration. It runs either fully in memory or in streaming mode with one
// stream writer per sheet.
type workbook struct {
	file      *excelize.File
	streaming bool

	cur     string   // actual title of the current sheet
	order   []string // desired final sheet order
	used    map[string]bool
	renamed bool // default sheet already taken over by the first <sheet>

	sw *excelize.StreamWriter // current sheet's stream writer, streaming mode only

	named    map[string]styleParts
	styleIDs map[string]int
}

func newWorkbook(streaming bool) *workbook {
	return &workbook{
		file:      excelize.NewFile(),
		streaming: streaming,
		used:      make(map[string]bool),
		named:     make(map[string]styleParts),
		styleIDs:  make(map[string]int),
	}
}

// addSheet creates a sheet and makes it current. index is the desired
// position in the final sheet order, or -1 to append. The returned title is
// the actual one, which may carry a numeric suffix when the requested title
// is already taken.
func (wb *workbook) addSheet(title string, index int) (string, error) {
	if wb.streaming {
		if err := wb.flushStream(); err != nil {
			return "", err
		}
	}
	actual := wb.uniquify(title)

	if !wb.renamed {
		// take over the writer's default sheet instead of leaving it behind
		if actual != "Sheet1" {
			if err := wb.file.SetSheetName("Sheet1", actual); err != nil {
				return "", fmt.Errorf("create sheet %q: %w", actual, err)
			}
		}
		wb.renamed = true
	} else {
		if _, err := wb.file.NewSheet(actual); err != nil {
			return "", fmt.Errorf("create sheet %q: %w", actual, err)
		}
	}
	wb.used[actual] = true
	wb.cur = actual

	if index < 0 || index > len(wb.order) {
		wb.order = append(wb.order, actual)
	} else {
		wb.order = append(wb.order[:index], append([]string{actual}, wb.order[index:]...)...)
	}

	if wb.streaming {
		sw, err := wb.file.NewStreamWriter(actual)
		if err != nil {
			return "", fmt.Errorf("stream sheet %q: %w", actual, err)
		}
		wb.sw = sw
	}
	return actual, nil
}

func (wb *workbook) uniquify(title string) string {
	if title == "" {
		title = "Sheet" + strconv.Itoa(len(wb.order)+1)
	}
	if !wb.used[title] {
		return title
	}
	for n := 1; ; n++ {
		candidate := title + strconv.Itoa(n)
		if !wb.used[candidate] {
			return candidate
		}
	}
}

// setColumnWidth sets the width of a 0-based column on the current sheet.
func (wb *workbook) setColumnWidth(col int, width float64) error {
	if wb.streaming {
		return wb.sw.SetColWidth(col+1, col+1, width)
	}
	letter := ColToName(col)
	return wb.file.SetColWidth(wb.cur, letter, letter, width)
}

// appendRow writes a buffered row at the 0-based row index on the current
// sheet. Cells with a nil value and zero style are skipped in memory mode;
// the streaming writer receives the full row.
func (wb *workbook) appendRow(row int, cells []excelize.Cell) error {
	if wb.streaming {
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		return wb.sw.SetRow("A"+strconv.Itoa(row+1), values)
	}
	for i, c := range cells {
		name := ColToName(i) + strconv.Itoa(row+1)
		if c.Value != nil {
			if err := wb.file.SetCellValue(wb.cur, name, c.Value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", wb.cur, name, err)
			}
		}
		if c.StyleID != 0 {
			if err := wb.file.SetCellStyle(wb.cur, name, name, c.StyleID); err != nil {
				return fmt.Errorf("style cell %s!%s: %w", wb.cur, name, err)
			}
		}
	}
	return nil
}

// mergeRange merges the inclusive 0-based range on the current sheet.
func (wb *workbook) mergeRange(row1, col1, row2, col2 int) error {
	topLeft := ColToName(col1) + strconv.Itoa(row1+1)
	bottomRight := ColToName(col2) + strconv.Itoa(row2+1)
	if wb.streaming {
		return wb.sw.MergeCell(topLeft, bottomRight)
	}
	return wb.file.MergeCell(wb.cur, topLeft, bottomRight)
}

// addNamedStyle registers a reusable style under a name.
func (wb *workbook) addNamedStyle(name string, parts styleParts) {
	wb.named[name] = parts
}

func (wb *workbook) namedStyle(name string) (styleParts, bool) {
	parts, ok := wb.named[name]
	return parts, ok
}

// styleID composes a style from its parts and returns the writer's style ID,
// creating it on first use.
func (wb *workbook) styleID(parts styleParts) (int, error) {
	if parts.empty() {
		return 0, nil
	}
	key := fmt.Sprintf("%+v|%+v|%+v|%s", parts.font, parts.fill, parts.alignment, parts.numFmt)
	if id, ok := wb.styleIDs[key]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Font:      parts.font,
		Alignment: parts.alignment,
	}
	if parts.fill != nil {
		style.Fill = *parts.fill
	}
	if parts.numFmt != "" {
		fmtStr := parts.numFmt
		style.CustomNumFmt = &fmtStr
	}
	id, err := wb.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("register style: %w", err)
	}
	wb.styleIDs[key] = id
	return id, nil
}

// discard closes the underlying file without serializing, releasing any
// temp files the stream writers have spilled to disk.
func (wb *workbook) discard() {
	_ = wb.file.Close()
}

func (wb *workbook) flushStream() error {
	if wb.sw == nil {
		return nil
	}
	if err := wb.sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet %q: %w", wb.cur, err)
	}
	wb.sw = nil
	return nil
}

// finalize applies sheet ordering and serializes the workbook. The file is
// closed in all paths so the output buffer never outlives the call.
func (wb *workbook) finalize() ([]byte, error) {
	defer wb.file.Close()

	if err := wb.flushStream(); err != nil {
		return nil, err
	}

	// realize index hints: move each sheet before its successor, back to front
	for i := len(wb.order) - 2; i >= 0; i-- {
		if err := wb.file.MoveSheet(wb.order[i], wb.order[i+1]); err != nil {
			return nil, fmt.Errorf("order sheet %q: %w", wb.order[i], err)
		}
	}
	wb.file.SetActiveSheet(0)

	buf, err := wb.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
