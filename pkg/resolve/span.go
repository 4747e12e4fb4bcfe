package resolve

import "strings"

// Span is one segment of a tokenized string: either literal text or a
// ${name} placeholder.
type Span struct {
	Literal bool
	Text    string // literal text, or the raw "${name}" token
	Name    string // placeholder name, empty for literals
}

// Tokenize splits s into literal and placeholder spans. A "${" with no
// closing brace is treated as literal text, as is an empty "${}".
func Tokenize(s string) []Span {
	var spans []Span
	for len(s) > 0 {
		start := strings.Index(s, "${")
		if start < 0 {
			spans = append(spans, Span{Literal: true, Text: s})
			break
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			spans = append(spans, Span{Literal: true, Text: s})
			break
		}
		end += start
		name := s[start+2 : end]
		if name == "" {
			spans = append(spans, Span{Literal: true, Text: s[:end+1]})
			s = s[end+1:]
			continue
		}
		if start > 0 {
			spans = append(spans, Span{Literal: true, Text: s[:start]})
		}
		spans = append(spans, Span{Text: s[start : end+1], Name: name})
		s = s[end+1:]
	}
	return spans
}

// HasPlaceholder reports whether s contains at least one ${name} token.
func HasPlaceholder(s string) bool {
	for _, sp := range Tokenize(s) {
		if !sp.Literal {
			return true
		}
	}
	return false
}
