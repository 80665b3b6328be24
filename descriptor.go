package xml2xlsx

import (
	"fmt"
	"strconv"
	"strings"
)

// Descriptor is a typed key/value mapping parsed from a "key: value; ..."
// style descriptor string.
type Descriptor map[string]any

// ParseDescriptor parses a descriptor string like
// "size: 10; bold: True; color: FF0000" into a typed mapping. Empty segments
// and trailing semicolons are tolerated. A segment without a ':' separator is
// an error.
func ParseDescriptor(descriptor string) (Descriptor, error) {
	desc := make(Descriptor)
	for _, segment := range strings.Split(descriptor, ";") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		key, value, ok := strings.Cut(segment, ":")
		if !ok {
			return nil, fmt.Errorf("descriptor segment %q: missing ':'", strings.TrimSpace(segment))
		}
		desc[strings.TrimSpace(key)] = ParseScalar(strings.TrimSpace(value))
	}
	return desc, nil
}

// ParseScalar coerces a descriptor value to its typed form. The trial order
// is fixed: boolean, integer, float, then the trimmed string as-is.
func ParseScalar(value string) any {
	if b, ok := parseBool(value); ok {
		return b
	}
	if i, ok := parseInt(value); ok {
		return i
	}
	if f, ok := parseFloat(value); ok {
		return f
	}
	return value
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func parseInt(s string) (int, bool) {
	i, err := strconv.Atoi(s)
	return i, err == nil
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// boolKey returns the named key as a bool. Descriptor values are produced by
// ParseScalar, so "bold: True" arrives as a bool already; anything else is a
// type mismatch.
func (d Descriptor) boolKey(key string) (bool, error) {
	v, ok := d[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("key %q: expected boolean, got %v", key, v)
	}
	return b, nil
}

// floatKey returns the named key as a float64, accepting integer values.
func (d Descriptor) floatKey(key string) (float64, error) {
	v, ok := d[key]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("key %q: expected number, got %v", key, v)
}

// intKey returns the named key as an int.
func (d Descriptor) intKey(key string) (int, error) {
	v, ok := d[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("key %q: expected integer, got %v", key, v)
	}
	return n, nil
}

// stringKey returns the named key rendered as a string. Scalars that were
// coerced to bool or numbers are formatted back, so "color: 123456" still
// works as a color value.
func (d Descriptor) stringKey(key string) string {
	v, ok := d[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
