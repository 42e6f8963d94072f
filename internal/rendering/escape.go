package rendering

import (
	"strings"
	"unicode"
)

var latexEscapes = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'$':  `\$`,
	'&':  `\&`,
	'%':  `\%`,
	'#':  `\#`,
	'^':  `\textasciicircum{}`,
	'_':  `\_`,
	'~':  `\textasciitilde{}`,
	'<':  `\textless{}`,
	'>':  `\textgreater{}`,
}

// EscapeLaTeX escapes special LaTeX characters in text. Line breaks and other
// control characters become single spaces so generated descriptions cannot
// break a paragraph or an \item.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		if esc, ok := latexEscapes[r]; ok {
			result.WriteString(esc)
			continue
		}
		if unicode.IsControl(r) {
			result.WriteByte(' ')
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}
