package comment

import (
	"unicode/utf8"

	"github.com/codetongue/codetongue/pkg/document"
	"github.com/codetongue/codetongue/pkg/position"
)

// MergeOptions controls how far a matched line comment grows.
type MergeOptions struct {
	// MultiLine enables merging adjacent same-scope line comments into one
	// logical block. Disabled, the matched line's range is returned as-is.
	MultiLine bool

	// IndentSensitive additionally requires neighbors to start their
	// comment at the same column as the matched line. Whether indentation
	// should break a merge is a policy choice, so it is a knob rather
	// than a fixed rule.
	IndentSensitive bool
}

// MergeRange resolves the full source range of the candidate's comment.
//
// Block comments are already multi-line by construction: their range is the
// whole begin..end region, however many lines it spans. Line comments cover
// the matched token, growing across adjacent lines whose only content is a
// comment of the same scope when merging is enabled. Merging never shrinks
// a range; it only extends the single-line one.
func MergeRange(doc *document.Document, cand *Candidate, opts MergeOptions) position.Range {
	if IsBlockScope(cand.Scope) {
		return blockRange(doc, cand)
	}

	matched := position.SingleLine(cand.Line, cand.Token.StartColumn, cand.Token.EndColumn)
	if !opts.MultiLine {
		return matched
	}

	refCol := cand.Token.StartColumn
	qualifies := func(line int) (startCol, endCol int, ok bool) {
		startCol, endCol, ok = wholeLineComment(doc, line, cand.Scope)
		if !ok {
			return 0, 0, false
		}
		if opts.IndentSensitive && startCol != refCol {
			return 0, 0, false
		}
		return startCol, endCol, true
	}

	first, last := cand.Line, cand.Line
	startCol, endCol := cand.Token.StartColumn, cand.Token.EndColumn

	for line := cand.Line - 1; line >= 0; line-- {
		col, _, ok := qualifies(line)
		if !ok {
			break
		}
		first, startCol = line, col
	}
	for line := cand.Line + 1; line < doc.LineCount(); line++ {
		_, col, ok := qualifies(line)
		if !ok {
			break
		}
		last, endCol = line, col
	}

	return position.Range{
		Start: position.Place{Line: first, Character: startCol},
		End:   position.Place{Line: last, Character: endCol},
	}
}

// wholeLineComment reports whether the line's only non-whitespace content is
// a single comment token of the given scope, returning the token's columns.
// Blank lines, code lines, and lines using a different comment scope all
// fail.
func wholeLineComment(doc *document.Document, line int, scope string) (startCol, endCol int, ok bool) {
	res, tokenized := doc.TokenizedLine(line)
	if !tokenized {
		return 0, 0, false
	}

	found := false
	for _, t := range res.Tokens {
		if t.MostSpecificScope() == scope {
			if found {
				return 0, 0, false
			}
			startCol, endCol, found = t.StartColumn, t.EndColumn, true
			continue
		}
		if isBlankText(doc.Line(line), t.StartColumn, t.EndColumn) {
			continue
		}
		return 0, 0, false
	}
	if !found {
		return 0, 0, false
	}
	return startCol, endCol, true
}

// blockRange expands a block-comment candidate to the full begin..end
// region, walking line states in both directions. An unterminated block
// runs to the end of the document.
func blockRange(doc *document.Document, cand *Candidate) position.Range {
	first, last := cand.Line, cand.Line
	startCol, endCol := cand.Token.StartColumn, cand.Token.EndColumn

	// The block started on an earlier line exactly when the previous
	// line's state still has it open.
	for first > 0 && openAtEndOfLine(doc, first-1, cand.Scope) {
		first--
	}
	if first != cand.Line {
		startCol = lastScopeTokenStart(doc, first, cand.Scope)
	}

	for last < doc.LineCount()-1 && openAtEndOfLine(doc, last, cand.Scope) {
		last++
	}
	if last != cand.Line {
		endCol = lastScopeTokenEnd(doc, last, cand.Scope)
	} else if openAtEndOfLine(doc, last, cand.Scope) {
		// Unterminated block on the final line.
		endCol = utf8.RuneCountInString(doc.Line(last))
	}

	return position.Range{
		Start: position.Place{Line: first, Character: startCol},
		End:   position.Place{Line: last, Character: endCol},
	}
}

func openAtEndOfLine(doc *document.Document, line int, scope string) bool {
	res, ok := doc.TokenizedLine(line)
	if !ok {
		return false
	}
	return res.StackAfter.TopScope() == scope
}

// lastScopeTokenStart returns the start column of the last run of the scope
// on a line: where a block that continues downward was opened.
func lastScopeTokenStart(doc *document.Document, line int, scope string) int {
	res, ok := doc.TokenizedLine(line)
	if !ok {
		return 0
	}
	for i := len(res.Tokens) - 1; i >= 0; i-- {
		if res.Tokens[i].MostSpecificScope() == scope {
			return res.Tokens[i].StartColumn
		}
	}
	return 0
}

// lastScopeTokenEnd returns the end column of the last run of the scope on
// a line: where the closing delimiter ends.
func lastScopeTokenEnd(doc *document.Document, line int, scope string) int {
	res, ok := doc.TokenizedLine(line)
	if !ok {
		return 0
	}
	for i := len(res.Tokens) - 1; i >= 0; i-- {
		if res.Tokens[i].MostSpecificScope() == scope {
			return res.Tokens[i].EndColumn
		}
	}
	return 0
}

// isBlankText reports whether the given column span of the line is all
// whitespace.
func isBlankText(line string, startCol, endCol int) bool {
	runes := []rune(line)
	if startCol < 0 || endCol > len(runes) {
		return false
	}
	for _, r := range runes[startCol:endCol] {
		switch r {
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}
