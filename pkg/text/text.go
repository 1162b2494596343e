package text

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/astrofix/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// Rule is a single substitution pass over a document
type Rule interface {
	// Name identifies the rule in config and reports
	Name() string

	// Apply rewrites doc, never touching bytes inside protected spans.
	// Returns the new document and the number of blocks replaced
	Apply(doc string, protected scan.Spans) (string, int)
}

// RewriteResult contains the results of running a pipeline over a document
type RewriteResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made across all rules
	ReplacementCount int

	// Counts is the number of replacements made by each rule, keyed by rule name
	Counts map[string]int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// Pipeline applies an ordered list of rules; later rules see the output of earlier ones
type Pipeline struct {
	rules []Rule
}

// NewPipeline creates a pipeline from explicit rules
func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: rules}
}

// New builds the default pipeline, minus any rules disabled in opts
func New(opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	disabled := make(map[string]bool, len(opts.Disable))
	for _, name := range opts.Disable {
		disabled[name] = true
	}

	var rules []Rule
	for _, r := range DefaultRules(opts) {
		if disabled[r.Name()] {
			continue
		}
		rules = append(rules, r)
	}

	return NewPipeline(rules...), nil
}

// Rules returns the rule names in application order
func (p *Pipeline) Rules() []string {
	names := make([]string, 0, len(p.rules))
	for _, r := range p.rules {
		names = append(names, r.Name())
	}
	return names
}

// Rewrite applies every rule in order. Protected spans are recomputed before
// each rule so directives emitted by earlier rules are never rewritten again.
func (p *Pipeline) Rewrite(ctx context.Context, content []byte) (*RewriteResult, error) {
	logger := zerolog.Ctx(ctx)

	result := &RewriteResult{
		Counts:          make(map[string]int, len(p.rules)),
		OriginalContent: content,
		ModifiedContent: content,
	}

	doc := string(content)
	for _, rule := range p.rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("applying rule %s: %w", rule.Name(), err)
		}

		next, n := rule.Apply(doc, scan.Protected(doc))
		if n == 0 {
			continue
		}

		logger.Trace().Str("rule", rule.Name()).Int("count", n).Msg("rule applied")
		result.Counts[rule.Name()] += n
		result.ReplacementCount += n
		doc = next
	}

	if result.ReplacementCount > 0 && doc != string(content) {
		result.WasModified = true
		result.ModifiedContent = []byte(doc)
	}

	return result, nil
}

// replaceBlocks rebuilds doc with every block of m passed through fn.
// fn returns the full replacement for the block and whether it should be used.
func replaceBlocks(doc string, m scan.Marker, protected scan.Spans, fn func(inner string) (string, bool)) (string, int) {
	blocks := m.Blocks(doc, protected)
	if len(blocks) == 0 {
		return doc, 0
	}

	var b strings.Builder
	b.Grow(len(doc))

	count := 0
	last := 0
	for _, blk := range blocks {
		repl, ok := fn(blk.Inner(doc))
		if !ok || repl == doc[blk.Start:blk.End] {
			continue
		}
		b.WriteString(doc[last:blk.Start])
		b.WriteString(repl)
		last = blk.End
		count++
	}

	if count == 0 {
		return doc, 0
	}

	b.WriteString(doc[last:])
	return b.String(), count
}
