// Package xml2xlsx converts a custom XML dialect describing spreadsheet
// content (sheets, rows, cells, styles, column widths, cross-references)
// into an XLSX workbook, in a single streaming pass over the input.
package xml2xlsx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/muktihari/xmltokenizer"
)

// Convert converts XML text to a serialized XLSX workbook. The input is
// normalized to UTF-8 first; the token stream then drives a fresh Engine, so
// concurrent calls share no state.
func Convert(xml []byte, opts ...Option) ([]byte, error) {
	engine, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}
	// release workbook temp files if any step below fails; no-op after Close
	defer engine.abort()

	data, err := decodeToUTF8(xml)
	if err != nil {
		return nil, err
	}

	tok := xmltokenizer.New(bytes.NewReader(data))
	for {
		token, err := tok.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tokenize input: %w", err)
		}

		if token.IsEndElement {
			if err := engine.EndElement(string(token.Name.Local)); err != nil {
				return nil, err
			}
			continue
		}

		name := string(token.Name.Local)
		attrs := make([]Attr, 0, len(token.Attrs))
		for i := range token.Attrs {
			attrs = append(attrs, Attr{
				Name:  string(token.Attrs[i].Name.Local),
				Value: string(token.Attrs[i].Value),
			})
		}
		if err := engine.StartElement(name, attrs); err != nil {
			return nil, err
		}
		if len(token.Data) > 0 {
			engine.CharData(token.Data)
		}
		if token.SelfClosing {
			if err := engine.EndElement(name); err != nil {
				return nil, err
			}
		}
	}

	return engine.Close()
}
