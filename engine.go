package xml2xlsx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Attr is a single XML attribute, in document order.
type Attr struct {
	Name  string
	Value string
}

// Cell value types accepted by the 'type' attribute.
const (
	typeUnicode = "unicode"
	typeNumber  = "number"
	typeDate    = "date"
)

// tagOpenHandlers and tagCloseHandlers dispatch structural tags. Their key
// set doubles as the reserved-name list checked against configured cell
// names at construction.
var tagOpenHandlers = map[string]func(*Engine, []Attr) error{
	"sheet":   (*Engine).openSheet,
	"columns": (*Engine).openColumns,
	"row":     (*Engine).openRow,
	"style":   (*Engine).openStyle,
}

var tagCloseHandlers = map[string]func(*Engine) error{
	"sheet":   func(*Engine) error { return nil },
	"columns": func(*Engine) error { return nil },
	"row":     (*Engine).closeRow,
	"style":   func(*Engine) error { return nil },
}

// cellAttrHandlers dispatches recognized cell attributes. Unlisted
// attributes are ignored.
var cellAttrHandlers = map[string]func(*Engine, string) error{
	"font": func(e *Engine, value string) error {
		font, err := buildFont(value)
		if err == nil {
			e.cell.parts.font = font
		}
		return err
	},
	"fill": func(e *Engine, value string) error {
		fill, err := buildFill(value)
		if err == nil && fill != nil {
			e.cell.parts.fill = fill
		}
		return err
	},
	"alignment": func(e *Engine, value string) error {
		align, err := buildAlignment(value)
		if err == nil {
			e.cell.parts.alignment = align
		}
		return err
	},
	"fmt": func(e *Engine, value string) error {
		e.cell.parts.numFmt = value
		return nil
	},
	"style": func(e *Engine, value string) error {
		named, ok := e.wb.namedStyle(value)
		if !ok {
			return fmt.Errorf("unknown named style %q", value)
		}
		e.cell.parts = named.merge(e.cell.parts)
		return nil
	},
	"ref-id": func(e *Engine, value string) error {
		e.refs.set(value, newCellRef(e, e.row, e.col))
		return nil
	},
	"ref-append": func(e *Engine, value string) error {
		e.refs.appendRef(value, newCellRef(e, e.row, e.col))
		return nil
	},
	"rowspan": func(e *Engine, value string) error {
		span, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("rowspan %q: %w", value, err)
		}
		return e.wb.mergeRange(e.row, e.col, e.row+span-1, e.col)
	},
	"colspan": func(e *Engine, value string) error {
		span, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("colspan %q: %w", value, err)
		}
		return e.wb.mergeRange(e.row, e.col, e.row, e.col+span-1)
	},
	// handled during scratch-cell setup
	"type":     func(*Engine, string) error { return nil },
	"date-fmt": func(*Engine, string) error { return nil },
}

// scratchCell is the single in-progress cell between its open and close
// events. Character data accumulates into value.
type scratchCell struct {
	value      strings.Builder
	typ        string
	dateLayout string
	parts      styleParts
}

// Engine is the event sink converting a start/chardata/end event stream
// into a workbook. It owns all mutable transduction state; one instance
// serves exactly one conversion and is not reusable after Close.
type Engine struct {
	opts *Options
	wb   *workbook
	refs refTable
	eval evaluator

	cellNames map[string]struct{}

	curTitle string
	rowBuf   []excelize.Cell
	cell     *scratchCell
	row      int
	col      int
	closed   bool
}

// NewEngine creates an engine for a single conversion. Configured cell
// names must not collide with the structural tag names.
func NewEngine(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	names := make(map[string]struct{}, len(o.cellNames)+1)
	names["cell"] = struct{}{}
	for _, name := range o.cellNames {
		if _, reserved := tagOpenHandlers[name]; reserved {
			return nil, fmt.Errorf("cell name %q: %w", name, ErrReservedCellName)
		}
		names[name] = struct{}{}
	}

	return &Engine{
		opts:      o,
		wb:        newWorkbook(o.writeOnly),
		refs:      newRefTable(),
		cellNames: names,
	}, nil
}

func (e *Engine) currentSheetTitle() string { return e.curTitle }

// ensureSheet lazily materializes a default sheet when content arrives
// before any <sheet> tag.
func (e *Engine) ensureSheet() error {
	if e.curTitle != "" {
		return nil
	}
	actual, err := e.wb.addSheet("Sheet1", -1)
	if err != nil {
		return err
	}
	e.curTitle = actual
	e.row = 0
	return nil
}

// StartElement handles a start-tag event.
func (e *Engine) StartElement(name string, attrs []Attr) error {
	if e.closed {
		return ErrEngineClosed
	}
	if handler, ok := tagOpenHandlers[name]; ok {
		return handler(e, attrs)
	}
	if _, ok := e.cellNames[name]; ok {
		return e.openCell(name, attrs)
	}
	return nil // wrapper and unknown tags carry no action
}

// CharData appends character data to the open scratch cell, if any. The
// tokenizer may split text into several events; accumulation preserves
// order with no loss at split boundaries.
func (e *Engine) CharData(data []byte) {
	if e.cell != nil {
		e.cell.value.Write(data)
	}
}

// EndElement handles an end-tag event.
func (e *Engine) EndElement(name string) error {
	if e.closed {
		return ErrEngineClosed
	}
	if handler, ok := tagCloseHandlers[name]; ok {
		return handler(e)
	}
	if _, ok := e.cellNames[name]; ok {
		return e.closeCell()
	}
	return nil
}

// Close serializes the finished workbook. The engine is not usable
// afterwards.
func (e *Engine) Close() ([]byte, error) {
	if e.closed {
		return nil, ErrEngineClosed
	}
	e.closed = true
	return e.wb.finalize()
}

// abort releases workbook resources without serializing. It is a no-op
// after Close or a previous abort, so callers may defer it unconditionally.
func (e *Engine) abort() {
	if e.closed {
		return
	}
	e.closed = true
	e.wb.discard()
}

func (e *Engine) openSheet(attrs []Attr) error {
	title := attrValue(attrs, "title")
	index := -1
	if raw, ok := lookupAttr(attrs, "index"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return newValidationError("sheet", "index", err)
		}
		index = n
	}
	actual, err := e.wb.addSheet(title, index)
	if err != nil {
		return err
	}
	e.curTitle = actual
	e.row = 0
	return nil
}

func (e *Engine) openColumns(attrs []Attr) error {
	if err := e.ensureSheet(); err != nil {
		return err
	}
	startName, ok := lookupAttr(attrs, "start")
	if !ok {
		return newValidationError("columns", "start", fmt.Errorf("missing attribute"))
	}
	start, err := NameToCol(startName)
	if err != nil {
		return newValidationError("columns", "start", err)
	}
	end := start
	if endName, ok := lookupAttr(attrs, "end"); ok {
		if end, err = NameToCol(endName); err != nil {
			return newValidationError("columns", "end", err)
		}
	}
	widthRaw, ok := lookupAttr(attrs, "width")
	if !ok {
		return newValidationError("columns", "width", fmt.Errorf("missing attribute"))
	}
	width, err := strconv.Atoi(widthRaw)
	if err != nil {
		return newValidationError("columns", "width", err)
	}
	for col := start; col <= end; col++ {
		if err := e.wb.setColumnWidth(col, float64(width)/columnWidthDivisor); err != nil {
			return fmt.Errorf("set width of column %s: %w", ColToName(col), err)
		}
	}
	return nil
}

func (e *Engine) openRow(attrs []Attr) error {
	if err := e.ensureSheet(); err != nil {
		return err
	}
	e.rowBuf = nil
	e.col = 0
	return nil
}

func (e *Engine) openStyle(attrs []Attr) error {
	name, ok := lookupAttr(attrs, "name")
	if !ok {
		return newValidationError("style", "name", fmt.Errorf("missing attribute"))
	}
	var parts styleParts
	if desc, ok := lookupAttr(attrs, "font"); ok {
		font, err := buildFont(desc)
		if err != nil {
			return newValidationError("style", "font", err)
		}
		parts.font = font
	}
	if desc, ok := lookupAttr(attrs, "fill"); ok {
		fill, err := buildFill(desc)
		if err != nil {
			return newValidationError("style", "fill", err)
		}
		parts.fill = fill
	}
	e.wb.addNamedStyle(name, parts)
	return nil
}

func (e *Engine) openCell(tag string, attrs []Attr) error {
	if err := e.ensureSheet(); err != nil {
		return err
	}

	cell := &scratchCell{typ: typeUnicode}
	if typ, ok := lookupAttr(attrs, "type"); ok {
		switch typ {
		case typeUnicode, typeNumber, typeDate:
			cell.typ = typ
		default:
			return newValidationError(tag, "type", fmt.Errorf("unknown cell type %q", typ))
		}
	}
	if cell.typ == typeDate {
		format, ok := lookupAttr(attrs, "date-fmt")
		if !ok {
			return newValidationError(tag, "date-fmt", ErrMissingDateFormat)
		}
		layout, err := strptimeLayout(format)
		if err != nil {
			return newValidationError(tag, "date-fmt", err)
		}
		cell.dateLayout = layout
	}

	e.cell = cell
	for _, attr := range attrs {
		handler, ok := cellAttrHandlers[attr.Name]
		if !ok {
			continue
		}
		if err := handler(e, attr.Value); err != nil {
			e.cell = nil
			return newValidationError(tag, attr.Name, err)
		}
	}
	return nil
}

func (e *Engine) closeRow() error {
	if err := e.ensureSheet(); err != nil {
		return err
	}
	if err := e.wb.appendRow(e.row, e.rowBuf); err != nil {
		return err
	}
	e.rowBuf = nil
	e.row++
	e.refs["row"] = refPosition(e.row + 1)
	return nil
}

// closeCell finalizes the scratch cell value by declared type and appends
// it to the row buffer. Counters and the synthetic 'col' entry update after
// finalization, so placeholders inside the cell still see its own position.
func (e *Engine) closeCell() error {
	if e.cell == nil {
		return nil
	}
	value, err := e.finalizeValue()
	if err != nil {
		e.cell = nil
		return err
	}
	styleID, err := e.wb.styleID(e.cell.parts)
	if err != nil {
		e.cell = nil
		return err
	}

	e.rowBuf = append(e.rowBuf, excelize.Cell{Value: value, StyleID: styleID})
	e.cell = nil
	e.col++
	e.refs["col"] = refPosition(e.col + 1)
	return nil
}

func (e *Engine) finalizeValue() (any, error) {
	raw := e.cell.value.String()
	if raw == "" {
		return nil, nil
	}

	switch e.cell.typ {
	case typeUnicode:
		resolved := expandPlaceholders(raw, e.refs.resolve)
		if hasExpression(resolved) {
			result, err := e.eval.evaluateCellValue(resolved, e.exprEnv())
			if err != nil {
				return nil, err
			}
			return result, nil
		}
		// text made entirely of unresolved placeholders collapses to an
		// absent cell; readers see the same empty value either way
		if resolved == "" {
			return nil, nil
		}
		return resolved, nil

	case typeNumber:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil, nil
		}
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f, nil
		}
		e.opts.logger.Warn("unparseable number kept as text",
			"value", trimmed, "sheet", e.curTitle, "row", e.row+1, "col", e.col+1)
		return raw, nil

	case typeDate:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil, nil
		}
		t, err := time.Parse(e.cell.dateLayout, trimmed)
		if err != nil {
			e.opts.logger.Warn("unparseable date kept as text",
				"value", trimmed, "layout", e.cell.dateLayout,
				"sheet", e.curTitle, "row", e.row+1, "col", e.col+1)
			return raw, nil
		}
		return t, nil
	}
	return raw, nil
}

func (e *Engine) exprEnv() map[string]any {
	if e.opts.params != nil {
		return e.opts.params
	}
	return map[string]any{}
}

func lookupAttr(attrs []Attr, name string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

func attrValue(attrs []Attr, name string) string {
	value, _ := lookupAttr(attrs, name)
	return value
}
