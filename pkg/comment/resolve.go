package comment

import (
	"github.com/codetongue/codetongue/pkg/document"
	"github.com/codetongue/codetongue/pkg/position"
)

// Resolve runs the full locate → merge → extract pipeline for one query.
// Returns nil when there is no comment at or below the position, or when
// stripping leaves no translatable text; both are expected outcomes the
// caller surfaces as "nothing to show".
//
// Re-running Resolve on an unchanged document and position yields an
// identical block: every step is a pure function of the document's cached
// tokenization.
func Resolve(doc *document.Document, at position.Place, opts MergeOptions) *Block {
	cand := Locate(doc, at)
	if cand == nil {
		return nil
	}

	rng := MergeRange(doc, cand, opts)
	raw := position.TextWithin(doc.Lines(), rng)

	text, humanize, ok := Extract(raw, cand.Scope)
	if !ok {
		return nil
	}

	return &Block{
		Range:         rng,
		RawText:       raw,
		IsLineComment: IsLineScope(cand.Scope),
		Text:          text,
		Humanize:      humanize,
	}
}
