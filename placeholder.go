package xml2xlsx

import "strings"

// expandPlaceholders substitutes brace-delimited placeholders in s using the
// resolve callback. "{name}" is replaced by resolve("name"); "{{" and "}}"
// are literal braces. An unterminated "{" is kept as-is, and "${" is left
// alone: that is expression notation, handled after reference substitution.
func expandPlaceholders(s string, resolve func(name string) string) string {
	if !strings.ContainsRune(s, '{') && !strings.ContainsRune(s, '}') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i > 0 && s[i-1] == '$' {
				b.WriteByte('{')
				continue
			}
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				b.WriteString(s[i:])
				return b.String()
			}
			b.WriteString(resolve(s[i+1 : i+1+end]))
			i += end + 1
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// placeholderNames returns the distinct placeholder names in s, in first
// appearance order.
func placeholderNames(s string) []string {
	var names []string
	seen := make(map[string]struct{})
	expandPlaceholders(s, func(name string) string {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return ""
	})
	return names
}
