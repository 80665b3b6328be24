package xml2xlsx

import (
	"fmt"
	"strings"
)

// strptimeDirectives maps the supported strptime directives to Go reference
// layout fragments. The 'date-fmt' attribute keeps the strptime syntax the
// dialect has always used.
var strptimeDirectives = map[byte]string{
	'd': "02",
	'm': "01",
	'y': "06",
	'Y': "2006",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'a': "Mon",
	'A': "Monday",
	'b': "Jan",
	'B': "January",
	'j': "002",
	'%': "%",
}

// strptimeLayout converts a strptime format string like "%d.%m.%Y" to a Go
// time layout like "02.01.2006".
func strptimeLayout(format string) (string, error) {
	var b strings.Builder
	b.Grow(len(format))
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			b.WriteByte(format[i])
			continue
		}
		if i+1 >= len(format) {
			return "", fmt.Errorf("date format %q: trailing '%%'", format)
		}
		i++
		fragment, ok := strptimeDirectives[format[i]]
		if !ok {
			return "", fmt.Errorf("date format %q: unsupported directive %%%c", format, format[i])
		}
		b.WriteString(fragment)
	}
	return b.String(), nil
}
