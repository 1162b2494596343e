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
	"strings"
)

// 🧱 Marker describes a block delimited by exact opening and closing literals.
// Tag is the element name whose nesting depth decides which closer ends the block.
type Marker struct {
	Open  string // e.g. `<pre class="mermaid">`
	Close string // e.g. `</pre>`
	Tag   string // e.g. "pre"
}

// 📦 Block is a matched block. Offsets are byte offsets into the scanned document.
type Block struct {
	Start      int // first byte of Open
	End        int // one past the last byte of Close
	InnerStart int
	InnerEnd   int
}

// Inner returns the text between the opening and closing literals.
func (b Block) Inner(doc string) string {
	return doc[b.InnerStart:b.InnerEnd]
}

// 🔍 Blocks returns every well-formed, non-overlapping block in doc, in document order.
// Openers inside protected spans are ignored. A block whose nesting never
// closes, or whose balancing closer is not preceded by the full Close literal,
// is skipped and scanning resumes after its opener.
func (m Marker) Blocks(doc string, protected Spans) []Block {
	if m.Open == "" || m.Close == "" || m.Tag == "" {
		return nil
	}

	var blocks []Block
	pos := 0
	for pos < len(doc) {
		i := strings.Index(doc[pos:], m.Open)
		if i < 0 {
			break
		}
		start := pos + i

		if sp, ok := protected.At(start); ok {
			pos = sp.End
			continue
		}

		end, ok := m.balance(doc, start+len(m.Open), protected)
		if !ok {
			pos = start + len(m.Open)
			continue
		}

		blocks = append(blocks, Block{
			Start:      start,
			End:        end,
			InnerStart: start + len(m.Open),
			InnerEnd:   end - len(m.Close),
		})
		pos = end
	}

	return blocks
}

// balance walks from `from` with depth 1 and returns the end offset of the
// closer that brings depth back to zero.
func (m Marker) balance(doc string, from int, protected Spans) (int, bool) {
	openTok := "<" + m.Tag
	closeTok := "</" + m.Tag + ">"

	depth := 1
	i := from
	for i < len(doc) {
		next := strings.IndexByte(doc[i:], '<')
		if next < 0 {
			return 0, false
		}
		i += next

		if sp, ok := protected.At(i); ok {
			i = sp.End
			continue
		}

		switch {
		case strings.HasPrefix(doc[i:], closeTok):
			depth--
			i += len(closeTok)
			if depth == 0 {
				if i-from < len(m.Close) || doc[i-len(m.Close):i] != m.Close {
					return 0, false
				}
				return i, true
			}
		case strings.HasPrefix(doc[i:], openTok) && isTagBoundary(doc, i+len(openTok)):
			if !selfClosing(doc, i+len(openTok), protected) {
				depth++
			}
			i += len(openTok)
		default:
			i++
		}
	}

	return 0, false
}

func isTagBoundary(doc string, i int) bool {
	if i >= len(doc) {
		return false
	}
	switch doc[i] {
	case '>', '/', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// selfClosing reports whether the tag whose attributes start at i ends with "/>".
// Quoted attribute values and protected spans are skipped.
func selfClosing(doc string, i int, protected Spans) bool {
	var quote byte
	for i < len(doc) {
		if quote == 0 {
			if sp, ok := protected.At(i); ok {
				i = sp.End
				continue
			}
		}
		c := doc[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i > 0 && doc[i-1] == '/'
		}
		i++
	}
	return false
}
