// Package position provides line/character positions and ranges shared by
// the tokenizer, locator and hover packages.
package position

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Place is a zero-based location in a document: Line is the line index,
// Character is the character (rune) column within that line.
type Place struct {
	Line      int
	Character int
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Before reports whether p comes strictly before other in document order.
func (p Place) Before(other Place) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// Range is a half-open span of document text: Start is inclusive, End is
// exclusive in the character dimension of its final line.
type Range struct {
	Start Place
	End   Place
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// IsEmpty reports whether the range spans no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End || r.End.Before(r.Start)
}

// Contains reports whether the place falls inside the range. A place sitting
// exactly on End is considered inside, matching how editors treat a caret at
// the end of a selection.
func (r Range) Contains(p Place) bool {
	if p.Line < r.Start.Line || p.Line > r.End.Line {
		return false
	}
	if p.Line == r.Start.Line && p.Character < r.Start.Character {
		return false
	}
	if p.Line == r.End.Line && p.Character > r.End.Character {
		return false
	}
	return true
}

// SingleLine builds a range covering columns [startCol, endCol) of one line.
func SingleLine(line, startCol, endCol int) Range {
	return Range{
		Start: Place{Line: line, Character: startCol},
		End:   Place{Line: line, Character: endCol},
	}
}

// TextWithin returns the document text covered by the range. Lines are the
// document split on newlines; out-of-bounds parts of the range are clamped.
// Character columns are rune offsets.
func TextWithin(lines []string, r Range) string {
	if len(lines) == 0 || r.Start.Line >= len(lines) {
		return ""
	}
	endLine := r.End.Line
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}
	if r.Start.Line == endLine {
		return sliceColumns(lines[r.Start.Line], r.Start.Character, r.End.Character)
	}
	var sb strings.Builder
	first := lines[r.Start.Line]
	sb.WriteString(sliceColumns(first, r.Start.Character, utf8.RuneCountInString(first)))
	for i := r.Start.Line + 1; i < endLine; i++ {
		sb.WriteByte('\n')
		sb.WriteString(lines[i])
	}
	sb.WriteByte('\n')
	sb.WriteString(sliceColumns(lines[endLine], 0, r.End.Character))
	return sb.String()
}

// sliceColumns slices a line by rune columns, clamping out-of-range bounds.
func sliceColumns(line string, start, end int) string {
	runes := []rune(line)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))
	return string(runes[start:end])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
