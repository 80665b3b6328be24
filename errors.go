package xml2xlsx

import (
	"errors"
	"fmt"
)

// ErrReservedCellName indicates a configured cell tag name collides with a
// structural tag name.
var ErrReservedCellName = errors.New("cell names 'row', 'columns', 'style' and 'sheet' are reserved")

// ErrGradientFill indicates a gradient fill was requested.
var ErrGradientFill = errors.New("gradient fills are not supported")

// ErrMissingDateFormat indicates a date-typed cell without a 'date-fmt' attribute.
var ErrMissingDateFormat = errors.New("specify 'date-fmt' attribute for 'date' type")

// ErrEngineClosed indicates an event arrived after Close.
var ErrEngineClosed = errors.New("engine already closed")

// ValidationError reports invalid input detected while processing a tag.
type ValidationError struct {
	Tag  string // tag being processed
	Attr string // offending attribute, may be empty
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("invalid <%s> attribute %q: %v", e.Tag, e.Attr, e.Err)
	}
	return fmt.Sprintf("invalid <%s>: %v", e.Tag, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(tag, attr string, err error) *ValidationError {
	return &ValidationError{Tag: tag, Attr: attr, Err: err}
}
