package text

import (
	"strings"

	"github.com/walteh/astrofix/pkg/scan"
)

// LineBreakToken is the escaped newline found in un-normalised diagram text
const LineBreakToken = `\n`

// 🧾 Directive renders a literal-output element: <TAG ATTRS set:html={`BODY`} />
type Directive struct {
	Tag   string
	Attrs string
}

// Render wraps an already escaped body
func (d Directive) Render(body string) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(d.Tag)
	if d.Attrs != "" {
		b.WriteString(" ")
		b.WriteString(d.Attrs)
	}
	b.WriteString(" ")
	b.WriteString(scan.DirectiveOpen)
	b.WriteString(body)
	b.WriteString("`} />")
	return b.String()
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"${", `\${`,
)

// Escape makes s safe to embed in a template literal body
func Escape(s string) string {
	return literalEscaper.Replace(s)
}

// Contentious reports whether s has characters the template layer would interpret
func Contentious(s string) bool {
	return strings.ContainsAny(s, "{}<")
}

var literalUnescaper = strings.NewReplacer(
	`\\`, `\`,
	"\\`", "`",
	`\${`, "${",
)

// UnwrapExpression strips a {`...`} literal-expression wrapper and undoes
// the literal escapes, so the result can go through Escape again
func UnwrapExpression(s string) (string, bool) {
	if len(s) >= 4 && strings.HasPrefix(s, "{`") && strings.HasSuffix(s, "`}") {
		return literalUnescaper.Replace(s[2 : len(s)-2]), true
	}
	return s, false
}

// DoubleBraces doubles every brace that is not already paired. Runs of an even
// length are kept, so the output is stable under repeated application.
func DoubleBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		c := s[i]
		if c != '{' && c != '}' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == c {
			j++
		}
		n := j - i
		if n%2 == 1 {
			n++
		}
		b.WriteString(strings.Repeat(string(c), n))
		i = j
	}
	return b.String()
}
