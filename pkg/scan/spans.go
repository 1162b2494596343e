// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scan

import (
	"sort"
	"strings"
)

// DirectiveOpen starts the body of a literal-output directive.
const DirectiveOpen = "set:html={`"

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

// Spans is a sorted, non-overlapping list of ranges.
type Spans []Span

// 🎯 At returns the span containing pos.
func (s Spans) At(pos int) (Span, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].End > pos })
	if i < len(s) && s[i].Start <= pos {
		return s[i], true
	}
	return Span{}, false
}

// 🔒 Protected returns the regions of doc that no rule may rewrite: a leading
// frontmatter fence and the body of every literal-output directive.
// An unterminated directive body protects the rest of the document.
func Protected(doc string) Spans {
	var spans Spans
	pos := 0

	if fm, ok := frontmatter(doc); ok {
		spans = append(spans, fm)
		pos = fm.End
	}

	for pos < len(doc) {
		i := strings.Index(doc[pos:], DirectiveOpen)
		if i < 0 {
			break
		}
		start := pos + i
		end := literalEnd(doc, start+len(DirectiveOpen))
		spans = append(spans, Span{Start: start, End: end})
		pos = end
	}

	return spans
}

// literalEnd returns the offset just past the "`}" that closes a template
// literal body starting at i, honouring backslash escapes.
func literalEnd(doc string, i int) int {
	for i < len(doc) {
		switch doc[i] {
		case '\\':
			i += 2
			continue
		case '`':
			j := i + 1
			for j < len(doc) && (doc[j] == ' ' || doc[j] == '\t' || doc[j] == '\n' || doc[j] == '\r') {
				j++
			}
			if j < len(doc) && doc[j] == '}' {
				return j + 1
			}
			return i + 1
		}
		i++
	}
	return len(doc)
}

// frontmatter matches a document that opens with a "---" line and returns the
// span through the closing "---" line.
func frontmatter(doc string) (Span, bool) {
	first, rest, ok := strings.Cut(doc, "\n")
	if !ok || strings.TrimRight(first, "\r") != "---" {
		return Span{}, false
	}

	offset := len(first) + 1
	for len(rest) > 0 {
		line, tail, more := strings.Cut(rest, "\n")
		end := offset + len(line)
		if more {
			end++
		}
		if strings.TrimRight(line, "\r") == "---" {
			return Span{Start: 0, End: end}, true
		}
		offset = end
		rest = tail
	}

	return Span{}, false
}
