// Package latex provides text normalization and LaTeX escaping for field values.
package latex

import "strings"

// escapes maps special characters to their escaped form. Characters that
// cannot take a plain backslash escape use the text* macros.
var escapes = map[rune]string{
	'&': `\&`,
	'%': `\%`,
	'$': `\$`,
	'#': `\#`,
	'_': `\_`,
	'{': `\{`,
	'}': `\}`,
	'~': `\textasciitilde{}`,
	'^': `\textasciicircum{}`,
}

// alreadyEscaped are the characters that, when preceded by a backslash in
// the source, are treated as pre-escaped and passed through untouched.
const alreadyEscaped = `&%$#_{}`

// Escape escapes LaTeX special characters exactly once. A backslash that
// already escapes a special character is preserved as-is rather than being
// escaped itself, so escaping is idempotent on its own output.
func Escape(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\\' {
			// Pass through an existing escape sequence unchanged.
			if i+1 < len(runes) && strings.ContainsRune(alreadyEscaped, runes[i+1]) {
				b.WriteRune('\\')
				b.WriteRune(runes[i+1])
				i++
				continue
			}
			b.WriteString(`\textbackslash{}`)
			continue
		}

		if esc, ok := escapes[r]; ok {
			b.WriteString(esc)
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// CollapseWhitespace trims the string and collapses internal runs of
// whitespace (including newlines from pretty-printed XML) to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
