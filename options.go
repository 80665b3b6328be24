package xml2xlsx

import (
	"io"
	"log/slog"
)

// Options holds configuration for a conversion.
type Options struct {
	writeOnly bool
	cellNames []string
	params    map[string]any
	logger    *slog.Logger
}

func defaultOptions() *Options {
	return &Options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures the Engine.
type Option func(*Options)

// WithWriteOnly enables the streaming write mode. Rows are flushed to the
// output as they close instead of being kept in memory, at the cost of
// requiring <columns> before the first row of a sheet and forbidding a
// return to an earlier sheet.
func WithWriteOnly(writeOnly bool) Option {
	return func(o *Options) { o.writeOnly = writeOnly }
}

// WithCellNames registers extra tag names treated as cells, in addition to
// the built-in "cell". The names "row", "sheet", "columns" and "style" are
// reserved.
func WithCellNames(names ...string) Option {
	return func(o *Options) { o.cellNames = append(o.cellNames, names...) }
}

// WithParams supplies the data environment for ${...} expressions embedded
// in unicode cell values.
func WithParams(params map[string]any) Option {
	return func(o *Options) { o.params = params }
}

// WithLogger sets the logger used for soft-parse warnings (numeric or date
// values that fail to parse). The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
