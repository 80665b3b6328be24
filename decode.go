package xml2xlsx

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// charsets maps declared XML encodings to their decoders. UTF-8 and absent
// declarations pass through untouched.
var charsets = map[string]encoding.Encoding{
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"windows-1253": charmap.Windows1253,
	"windows-1254": charmap.Windows1254,
	"windows-1255": charmap.Windows1255,
	"windows-1256": charmap.Windows1256,
	"windows-1257": charmap.Windows1257,
	"windows-1258": charmap.Windows1258,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"iso-8859-5":   charmap.ISO8859_5,
	"iso-8859-7":   charmap.ISO8859_7,
	"iso-8859-9":   charmap.ISO8859_9,
	"iso-8859-15":  charmap.ISO8859_15,
	"latin1":       charmap.ISO8859_1,
	"koi8-r":       charmap.KOI8R,
	"utf-16":       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// decodeToUTF8 normalizes raw XML input to UTF-8 using the byte-order mark
// when present, otherwise the encoding declared in the XML prolog.
func decodeToUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:], nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
	}

	name := declaredEncoding(data)
	if name == "" || name == "utf-8" || name == "utf8" {
		return data, nil
	}
	enc, ok := charsets[name]
	if !ok {
		return nil, fmt.Errorf("unsupported input encoding %q", name)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s input: %w", name, err)
	}
	return decoded, nil
}

// declaredEncoding extracts the encoding pseudo-attribute from the XML
// declaration, lowercased, or "" when absent.
func declaredEncoding(data []byte) string {
	head := data
	if len(head) > 256 {
		head = head[:256]
	}
	if !bytes.HasPrefix(bytes.TrimLeft(head, " \t\r\n"), []byte("<?xml")) {
		return ""
	}
	end := bytes.Index(head, []byte("?>"))
	if end < 0 {
		return ""
	}
	decl := string(head[:end])
	idx := strings.Index(decl, "encoding")
	if idx < 0 {
		return ""
	}
	rest := decl[idx+len("encoding"):]
	rest = strings.TrimLeft(rest, " \t=")
	if rest == "" {
		return ""
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return ""
	}
	rest = rest[1:]
	closeIdx := strings.IndexByte(rest, quote)
	if closeIdx < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(rest[:closeIdx]))
}
