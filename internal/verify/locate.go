package verify

import "strings"

// TextXPath matches elements whose own text nodes contain label, ignoring
// surrounding whitespace. Script and style contents never match.
func TextXPath(label string) string {
	return "//*[not(self::script or self::style)][text()[contains(normalize-space(.), " +
		xpathLiteral(strings.TrimSpace(label)) + ")]]"
}

// PlaceholderSelector matches text inputs by their placeholder attribute.
func PlaceholderSelector(placeholder string) string {
	q := cssString(placeholder)
	return "input[placeholder=" + q + "], textarea[placeholder=" + q + "]"
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'"
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}

func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}
