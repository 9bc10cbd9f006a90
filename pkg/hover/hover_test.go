package hover_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetongue/codetongue/pkg/comment"
	"github.com/codetongue/codetongue/pkg/config"
	"github.com/codetongue/codetongue/pkg/document"
	"github.com/codetongue/codetongue/pkg/grammar"
	"github.com/codetongue/codetongue/pkg/hover"
	"github.com/codetongue/codetongue/pkg/position"
	"github.com/codetongue/codetongue/pkg/translate"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func openDocument(t *testing.T, language, content string) *document.Document {
	t.Helper()
	ctx := testContext(t)

	registry, err := grammar.NewRegistry(ctx)
	require.NoError(t, err, "registry creation should succeed")

	docs := document.NewManager(registry)
	doc, err := docs.Open(ctx, "file:///test/source", language, 1, content)
	require.NoError(t, err, "opening the document should succeed")
	return doc
}

func germanTranslator() *translate.Static {
	static := translate.NewStatic()
	static.Add("de", "hello world", "hallo Welt")
	static.Add("de", "do it now", "mach es jetzt")
	return static
}

func deps() hover.Dependencies {
	return hover.Dependencies{
		Translator: germanTranslator(),
		Settings: config.Settings{
			MultiLineMerge:       true,
			IndentSensitiveMerge: true,
			PreferredLanguage:    "de",
		},
	}
}

func TestBuildCommentHover(t *testing.T) {
	ctx := testContext(t)

	t.Run("test_comment_hover_is_translated", func(t *testing.T) {
		doc := openDocument(t, "go", "// hello world\n")

		info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: 0, Character: 3}, deps())
		require.NoError(t, err, "hover should succeed")
		require.NotNil(t, info, "hover should produce content")
		require.Len(t, info.Content, 1, "hover should have one content section")
		assert.Contains(t, info.Content[0], "hallo Welt", "translation should appear")
		assert.Contains(t, info.Content[0], "hello world", "original text should appear")
		assert.Equal(t, 0, info.Range.Start.Line, "range should annotate the comment")
	})

	t.Run("test_humanized_comment_translates_word_split_form", func(t *testing.T) {
		doc := openDocument(t, "go", "// do_it_now\n")

		info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: 0, Character: 4}, deps())
		require.NoError(t, err, "hover should succeed")
		require.NotNil(t, info, "hover should produce content")
		assert.Contains(t, info.Content[0], "mach es jetzt", "the humanized form should be what gets translated")
	})

	t.Run("test_no_comment_returns_nil", func(t *testing.T) {
		doc := openDocument(t, "go", "x := 1\n")

		info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: 0, Character: 0}, deps())
		require.NoError(t, err, "a missing comment is not an error")
		assert.Nil(t, info, "nothing should be shown")
	})

	t.Run("test_no_grammar_returns_nil", func(t *testing.T) {
		doc := openDocument(t, "mystery", "// looks like a comment\n")

		info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: 0, Character: 0}, deps())
		require.NoError(t, err, "a missing grammar is not an error")
		assert.Nil(t, info, "comment features should be disabled without a grammar")
	})

	t.Run("test_selection_provider_wins_over_locator", func(t *testing.T) {
		doc := openDocument(t, "go", "// hello world\n")

		d := deps()
		d.Translator = translate.Func(func(ctx context.Context, text, target string) (string, error) {
			return strings.ToUpper(text), nil
		})
		d.Selection = func(doc *document.Document, at position.Place) *comment.Block {
			return hover.BlockFromSelection(doc, position.Range{
				Start: position.Place{Line: 0, Character: 3},
				End:   position.Place{Line: 0, Character: 8},
			})
		}

		info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: 0, Character: 3}, d)
		require.NoError(t, err, "hover should succeed")
		require.NotNil(t, info, "selection should produce content")
		assert.Contains(t, info.Content[0], "HELLO", "the selection text, not the whole comment, should be used")
		assert.Equal(t, 8, info.Range.End.Character, "range should be the selection range")
	})

	t.Run("test_empty_selection_falls_back_to_locator", func(t *testing.T) {
		doc := openDocument(t, "go", "// hello world\n")

		d := deps()
		d.Selection = func(doc *document.Document, at position.Place) *comment.Block {
			return nil
		}

		info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: 0, Character: 3}, d)
		require.NoError(t, err, "hover should succeed")
		require.NotNil(t, info, "locator should still match")
		assert.Contains(t, info.Content[0], "hallo Welt", "locator pipeline should run")
	})

	t.Run("test_translation_failure_propagates", func(t *testing.T) {
		doc := openDocument(t, "go", "// untranslatable phrase\n")

		info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: 0, Character: 3}, deps())
		require.Error(t, err, "translator failure should surface")
		assert.Nil(t, info, "no partial hover on failure")
	})

	t.Run("test_without_translator_shows_extracted_text", func(t *testing.T) {
		doc := openDocument(t, "go", "// hello world\n")

		d := deps()
		d.Translator = nil

		info, err := hover.BuildCommentHover(ctx, doc, position.Place{Line: 0, Character: 3}, d)
		require.NoError(t, err, "hover should succeed without a translator")
		require.NotNil(t, info, "hover should produce content")
		assert.Contains(t, info.Content[0], "hello world", "extracted text should appear")
	})
}

func TestBlockFromSelection(t *testing.T) {
	doc := openDocument(t, "go", "first line\nsecond line\n")

	t.Run("test_multiline_selection", func(t *testing.T) {
		block := hover.BlockFromSelection(doc, position.Range{
			Start: position.Place{Line: 0, Character: 6},
			End:   position.Place{Line: 1, Character: 6},
		})
		require.NotNil(t, block, "non-empty selection should build a block")
		assert.Equal(t, "line second", block.Text, "selection text should join across the newline")
	})

	t.Run("test_empty_selection_is_nil", func(t *testing.T) {
		block := hover.BlockFromSelection(doc, position.Range{
			Start: position.Place{Line: 0, Character: 4},
			End:   position.Place{Line: 0, Character: 4},
		})
		assert.Nil(t, block, "zero-width selection should not build a block")
	})

	t.Run("test_inverted_selection_is_nil", func(t *testing.T) {
		block := hover.BlockFromSelection(doc, position.Range{
			Start: position.Place{Line: 1, Character: 2},
			End:   position.Place{Line: 0, Character: 2},
		})
		assert.Nil(t, block, "inverted selection should not build a block")
	})

	t.Run("test_whitespace_selection_is_nil", func(t *testing.T) {
		block := hover.BlockFromSelection(doc, position.Range{
			Start: position.Place{Line: 0, Character: 5},
			End:   position.Place{Line: 0, Character: 6},
		})
		assert.Nil(t, block, "whitespace-only selection should not build a block")
	})
}
