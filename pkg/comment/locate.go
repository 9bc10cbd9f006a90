package comment

import (
	"strings"
	"unicode"

	"github.com/codetongue/codetongue/pkg/document"
	"github.com/codetongue/codetongue/pkg/position"
	"github.com/codetongue/codetongue/pkg/tokenizer"
)

// Candidate is a located comment token: the line it sits on and its scope.
type Candidate struct {
	Line  int
	Token tokenizer.Token
	Scope string
}

// Locate finds the comment at the given position, or the nearest comment
// starting on a line below it.
//
// The exact-position check always wins: if the token under the cursor is a
// comment, that is the match. Otherwise lines below are scanned, skipping
// blanks, and the first non-blank line matches only if its first
// non-whitespace token is a comment; any other content stops the scan.
// Returns nil when nothing matches; that is an expected outcome, not an error.
func Locate(doc *document.Document, at position.Place) *Candidate {
	res, ok := doc.TokenizedLine(at.Line)
	if !ok {
		return nil
	}

	if tok, ok := tokenAt(res.Tokens, at.Character); ok {
		if scope := tok.MostSpecificScope(); IsCommentScope(scope) {
			return &Candidate{Line: at.Line, Token: tok, Scope: scope}
		}
	}

	for line := at.Line + 1; line < doc.LineCount(); line++ {
		text := doc.Line(line)
		if strings.TrimSpace(text) == "" {
			continue
		}

		res, ok := doc.TokenizedLine(line)
		if !ok {
			return nil
		}

		tok, ok := tokenAt(res.Tokens, firstNonBlankColumn(text))
		if !ok {
			return nil
		}
		if scope := tok.MostSpecificScope(); IsCommentScope(scope) {
			return &Candidate{Line: line, Token: tok, Scope: scope}
		}
		// First non-blank line below is code; nothing to show.
		return nil
	}

	return nil
}

// tokenAt finds the token containing the column. A caret sitting at the
// very end of the last token still counts, matching a cursor at end of line.
func tokenAt(tokens []tokenizer.Token, col int) (tokenizer.Token, bool) {
	for i, tok := range tokens {
		if tok.Contains(col) {
			return tok, true
		}
		if i == len(tokens)-1 && tok.ContainsInclusive(col) {
			return tok, true
		}
	}
	return tokenizer.Token{}, false
}

// firstNonBlankColumn returns the character column of the first
// non-whitespace rune of the line.
func firstNonBlankColumn(line string) int {
	for i, r := range []rune(line) {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return 0
}
