// Package diagnostics renders parse and runtime diagnostics as annotated
// code frames.
package diagnostics

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SourceFile pairs file content with a line offset index so byte spans can
// be mapped to line and column positions.
type SourceFile struct {
	Name       string
	Content    string
	lineStarts []int
}

// NewSourceFile indexes content for position lookups. A trailing newline
// yields a final empty line, which keeps end-of-file spans addressable.
func NewSourceFile(name, content string) *SourceFile {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceFile{Name: name, Content: content, lineStarts: starts}
}

// Position is a 1-based line and column. Columns count runes, not bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// PositionFor maps a byte offset to its position. Offsets out of range are
// clamped to the file bounds.
func (f *SourceFile) PositionFor(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	})
	start := f.lineStarts[line-1]
	return Position{
		Line:   line,
		Column: utf8.RuneCountInString(f.Content[start:offset]) + 1,
	}
}

// LineCount returns the number of lines, counting the empty line after a
// trailing newline.
func (f *SourceFile) LineCount() int { return len(f.lineStarts) }

// Line returns the 1-based line without its terminator, or "" when n is
// out of range.
func (f *SourceFile) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.Content)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return strings.TrimSuffix(f.Content[start:end], "\r")
}

// lineEnd returns the byte offset just past line n's text, excluding the
// newline.
func (f *SourceFile) lineEnd(n int) int {
	if n < len(f.lineStarts) {
		return f.lineStarts[n] - 1
	}
	return len(f.Content)
}
