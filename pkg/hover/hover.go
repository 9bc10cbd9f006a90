// Package hover builds translation hover responses for comment queries.
package hover

import (
	"context"
	"fmt"
	"strings"

	"github.com/codetongue/codetongue/pkg/comment"
	"github.com/codetongue/codetongue/pkg/config"
	"github.com/codetongue/codetongue/pkg/document"
	"github.com/codetongue/codetongue/pkg/position"
	"github.com/codetongue/codetongue/pkg/translate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// HoverInfo represents the information to be displayed in a hover tooltip
type HoverInfo struct {
	// Content is the markdown content to display
	Content []string
	// Range is the document range the hover annotates
	Range position.Range
}

// SelectionProvider lets the hosting editor supply an explicit
// selection-derived block for a position. It is consulted before the
// comment pipeline runs, so a user's selection always beats heuristic
// comment detection. Returning nil means "no selection here".
type SelectionProvider func(doc *document.Document, at position.Place) *comment.Block

// Dependencies are the collaborators a hover query needs. Translator and
// Selection are optional.
type Dependencies struct {
	Translator translate.Translator
	Selection  SelectionProvider
	Settings   config.Settings
}

// BuildCommentHover answers one hover query: offer the host's selection
// provider the position first, otherwise locate, merge and extract the
// comment there, then translate the result. A nil response with a nil
// error means there is nothing to show at this position.
func BuildCommentHover(ctx context.Context, doc *document.Document, at position.Place, deps Dependencies) (*HoverInfo, error) {
	logger := zerolog.Ctx(ctx).With().Str("query_id", uuid.NewString()).Str("uri", doc.URI).Logger()
	ctx = logger.WithContext(ctx)

	if deps.Selection != nil {
		if block := deps.Selection(doc, at); block != nil {
			logger.Debug().Str("range", block.Range.String()).Msg("using host-supplied selection")
			return formatResponse(ctx, block, deps)
		}
	}

	if !doc.HasGrammar() {
		logger.Debug().Str("language", doc.LanguageID).Msg("no grammar for language, comment hover disabled")
		return nil, nil
	}

	block := comment.Resolve(doc, at, deps.Settings.MergeOptions())
	if block == nil {
		logger.Debug().Int("line", at.Line).Int("character", at.Character).Msg("no comment at position")
		return nil, nil
	}

	logger.Debug().Str("range", block.Range.String()).Bool("humanize", block.Humanize).Msg("resolved comment block")
	return formatResponse(ctx, block, deps)
}

// BlockFromSelection builds a verbatim block from an explicit selection
// range, for hosts implementing the SelectionProvider hook. Returns nil for
// empty or whitespace-only selections.
func BlockFromSelection(doc *document.Document, rng position.Range) *comment.Block {
	if rng.IsEmpty() {
		return nil
	}
	raw := position.TextWithin(doc.Lines(), rng)
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return nil
	}
	return &comment.Block{
		Range:   rng,
		RawText: raw,
		Text:    text,
	}
}

func formatResponse(ctx context.Context, block *comment.Block, deps Dependencies) (*HoverInfo, error) {
	text := block.Text
	if block.Humanize {
		text = comment.Humanize(text)
	}

	var sb strings.Builder
	if deps.Translator != nil {
		translated, err := deps.Translator.Translate(ctx, text, deps.Settings.PreferredLanguage)
		if err != nil {
			return nil, errors.Errorf("translating comment: %w", err)
		}
		sb.WriteString(translated)
		sb.WriteString("\n\n---\n\n")
	}
	sb.WriteString(fmt.Sprintf("*%s*", text))

	return &HoverInfo{
		Content: []string{sb.String()},
		Range:   block.Range,
	}, nil
}
