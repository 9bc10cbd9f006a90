// Package comment resolves "the comment at this position": locating the
// comment token under or below a cursor, merging adjacent line comments
// into one logical block, and extracting the translatable text from the
// raw source.
package comment

import (
	"strings"

	"github.com/codetongue/codetongue/pkg/position"
)

// Scope classification. Grammars label comment text with hierarchical
// scopes; everything the locator and merger do keys off the innermost one.

// IsCommentScope reports whether a scope classifies comment text.
func IsCommentScope(scope string) bool {
	return IsLineScope(scope) || IsBlockScope(scope)
}

// IsLineScope reports whether a scope is a line-comment scope
// (comment.line.double-slash, comment.line.number-sign, ...).
func IsLineScope(scope string) bool {
	return strings.HasPrefix(scope, "comment.line")
}

// IsBlockScope reports whether a scope is a block-comment scope.
func IsBlockScope(scope string) bool {
	return strings.HasPrefix(scope, "comment.block")
}

// isDocScope reports whether the scope marks documentation comments, whose
// continuation lines conventionally start with a marker such as "*".
func isDocScope(scope string) bool {
	return strings.Contains(scope, ".documentation")
}

// Block is the resolved comment for one query: the source range it covers,
// the raw source text of that range, and the text to hand to a translator.
// Produced per query, never persisted.
type Block struct {
	Range         position.Range
	RawText       string
	IsLineComment bool

	// Text is the extracted translatable text: delimiters stripped, lines
	// joined with single spaces. Never empty.
	Text string

	// Humanize marks identifier-like comments (do_it_now) that read
	// better word-split before translation.
	Humanize bool
}
