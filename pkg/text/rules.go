package text

import (
	"strings"

	"github.com/walteh/astrofix/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// Rule names, in default application order
const (
	RuleContainer = "container"
	RuleDiagram   = "diagram"
	RuleCode      = "code"
	RuleInline    = "inline"
)

// Strategy selects how inline code spans are protected from the template layer
type Strategy string

const (
	// StrategyLiteral replaces the span with a literal-output directive
	StrategyLiteral Strategy = "literal"
	// StrategyDoubleBrace doubles every unpaired brace inside the span
	StrategyDoubleBrace Strategy = "double-brace"
)

const (
	DefaultDiagramIndent      = "    "
	DefaultDiagramCloseIndent = "      "
)

var (
	ContainerMarker = scan.Marker{Open: `<div class="mermaid">`, Close: `</div>`, Tag: "div"}
	DiagramMarker   = scan.Marker{Open: `<pre class="mermaid">`, Close: `</pre>`, Tag: "pre"}
	CodeMarker      = scan.Marker{Open: `<pre><code>`, Close: `</code></pre>`, Tag: "pre"}
	InlineMarker    = scan.Marker{Open: `<code>`, Close: `</code>`, Tag: "code"}
)

// Options configures the default pipeline
type Options struct {
	Disable            []string
	InlineStrategy     Strategy
	DiagramIndent      *string
	DiagramCloseIndent *string
}

// Validate checks rule names and the inline strategy
func (o Options) Validate() error {
	for i, name := range o.Disable {
		switch name {
		case RuleContainer, RuleDiagram, RuleCode, RuleInline:
		default:
			return errors.Errorf("disable %d: unknown rule %q", i, name)
		}
	}
	switch o.InlineStrategy {
	case "", StrategyLiteral, StrategyDoubleBrace:
	default:
		return errors.Errorf("unknown inline strategy %q", o.InlineStrategy)
	}
	return nil
}

// DefaultRules returns every rule in application order, configured by opts
func DefaultRules(opts Options) []Rule {
	indent := DefaultDiagramIndent
	if opts.DiagramIndent != nil {
		indent = *opts.DiagramIndent
	}
	closeIndent := DefaultDiagramCloseIndent
	if opts.DiagramCloseIndent != nil {
		closeIndent = *opts.DiagramCloseIndent
	}
	strategy := opts.InlineStrategy
	if strategy == "" {
		strategy = StrategyLiteral
	}

	return []Rule{
		&ContainerRule{From: ContainerMarker, To: DiagramMarker},
		&DiagramRule{
			Marker:      DiagramMarker,
			Directive:   Directive{Tag: "pre", Attrs: `class="mermaid"`},
			Indent:      indent,
			CloseIndent: closeIndent,
		},
		&CodeRule{Marker: CodeMarker, Directive: Directive{Tag: "pre"}},
		&InlineRule{Marker: InlineMarker, Strategy: strategy},
	}
}

// 🔄 ContainerRule re-wraps a generic container block in another marker,
// leaving the interior exactly as it was
type ContainerRule struct {
	From scan.Marker
	To   scan.Marker
}

func (r *ContainerRule) Name() string { return RuleContainer }

func (r *ContainerRule) Apply(doc string, protected scan.Spans) (string, int) {
	return replaceBlocks(doc, r.From, protected, func(inner string) (string, bool) {
		return r.To.Open + inner + r.To.Close, true
	})
}

// 📈 DiagramRule normalises the line breaks of a diagram block and emits it as
// a literal-output directive
type DiagramRule struct {
	Marker      scan.Marker
	Directive   Directive
	Indent      string // prefix for every line after the first
	CloseIndent string // indentation before the closing backtick
}

func (r *DiagramRule) Name() string { return RuleDiagram }

func (r *DiagramRule) Apply(doc string, protected scan.Spans) (string, int) {
	return replaceBlocks(doc, r.Marker, protected, func(inner string) (string, bool) {
		lines := DiagramLines(inner)
		if len(lines) == 0 {
			return "", false
		}
		body := strings.Join(lines, "\n"+r.Indent) + "\n" + r.CloseIndent
		return r.Directive.Render(Escape(body)), true
	})
}

// DiagramLines splits a diagram interior on the escaped line-break token and
// on real line breaks, trims every line and drops the empty ones
func DiagramLines(inner string) []string {
	inner = strings.ReplaceAll(inner, "\r\n", "\n")
	inner = strings.ReplaceAll(inner, LineBreakToken, "\n")

	var lines []string
	for _, line := range strings.Split(inner, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// 💻 CodeRule converts a fenced code block with contentious characters into a
// literal-output directive. An interior left wrapped as a literal expression
// by an earlier conversion is unwrapped first.
type CodeRule struct {
	Marker    scan.Marker
	Directive Directive
}

func (r *CodeRule) Name() string { return RuleCode }

func (r *CodeRule) Apply(doc string, protected scan.Spans) (string, int) {
	return replaceBlocks(doc, r.Marker, protected, func(inner string) (string, bool) {
		content, wrapped := UnwrapExpression(inner)
		if !wrapped && !Contentious(content) {
			return "", false
		}
		return r.Directive.Render("<code>" + Escape(content) + "</code>"), true
	})
}

// 🔤 InlineRule protects inline code spans using the configured strategy
type InlineRule struct {
	Marker   scan.Marker
	Strategy Strategy
}

func (r *InlineRule) Name() string { return RuleInline }

func (r *InlineRule) Apply(doc string, protected scan.Spans) (string, int) {
	return replaceBlocks(doc, r.Marker, protected, func(inner string) (string, bool) {
		if r.Strategy == StrategyDoubleBrace {
			doubled := DoubleBraces(inner)
			if doubled == inner {
				return "", false
			}
			return r.Marker.Open + doubled + r.Marker.Close, true
		}

		if !Contentious(inner) {
			return "", false
		}
		return Directive{Tag: r.Marker.Tag}.Render(Escape(inner)), true
	})
}
