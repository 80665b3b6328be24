// Package main provides the console entry point for xml2xlsx.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhseiden/xml2xlsx"
)

var (
	outputPath string
	writeOnly  bool
	cellNames  []string
	params     []string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xml2xlsx [input.xml]",
		Short: "Convert spreadsheet-description XML to an XLSX workbook",
		Long: `xml2xlsx reads a custom XML dialect describing sheets, rows, cells,
styles, column widths and cross-references, and writes an XLSX workbook.
With no argument (or "-") the XML is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&writeOnly, "write-only", false, "Stream rows to the output instead of building the workbook in memory")
	rootCmd.Flags().StringArrayVar(&cellNames, "cell-name", nil, "Extra tag name treated as a cell (repeatable)")
	rootCmd.Flags().StringArrayVar(&params, "param", nil, "key=value parameter for ${...} expressions (repeatable)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log soft-parse warnings to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	opts := []xml2xlsx.Option{
		xml2xlsx.WithWriteOnly(writeOnly),
		xml2xlsx.WithCellNames(cellNames...),
	}
	if len(params) > 0 {
		env, err := parseParams(params)
		if err != nil {
			return err
		}
		opts = append(opts, xml2xlsx.WithParams(env))
	}
	if verbose {
		opts = append(opts, xml2xlsx.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}

	out, err := xml2xlsx.Convert(input, opts...)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if outputPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// parseParams turns repeated key=value flags into an expression environment,
// coercing values with the same scalar rules as descriptor values.
func parseParams(pairs []string) (map[string]any, error) {
	env := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", pair)
		}
		env[strings.TrimSpace(key)] = xml2xlsx.ParseScalar(strings.TrimSpace(value))
	}
	return env, nil
}
