package tokenizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetongue/codetongue/pkg/grammar"
	"github.com/codetongue/codetongue/pkg/tokenizer"
)

const testGrammar = `{
	"scopeName": "source.test",
	"patterns": [
		{ "include": "#block-doc-comment" },
		{ "include": "#block-comment" },
		{ "include": "#line-comment" },
		{ "include": "#double-string" }
	],
	"repository": {
		"block-doc-comment": {
			"name": "comment.block.documentation",
			"begin": "/\\*\\*(?!/)",
			"end": "\\*/"
		},
		"block-comment": {
			"name": "comment.block",
			"begin": "/\\*",
			"end": "\\*/"
		},
		"line-comment": {
			"name": "comment.line.double-slash",
			"match": "//.*"
		},
		"double-string": {
			"name": "string.quoted.double",
			"begin": "\"",
			"end": "\"|$",
			"patterns": [
				{ "name": "constant.character.escape", "match": "\\\\." }
			]
		}
	}
}`

func compileTestGrammar(t *testing.T) *tokenizer.CompiledGrammar {
	t.Helper()

	g, err := grammar.Unmarshal([]byte(testGrammar))
	require.NoError(t, err, "test grammar should unmarshal")

	cg, err := tokenizer.Compile(g)
	require.NoError(t, err, "test grammar should compile")
	return cg
}

func TestTokenizeLine(t *testing.T) {
	cg := compileTestGrammar(t)

	t.Run("test_line_comment", func(t *testing.T) {
		tokens, stack := tokenizer.TokenizeLine(cg, "x := 1 // a note", tokenizer.RuleStack{})

		require.Len(t, tokens, 2, "code and comment should be separate tokens")
		assert.Equal(t, "source.test", tokens[0].MostSpecificScope(), "leading code should carry the root scope")
		assert.Equal(t, 7, tokens[1].StartColumn, "comment should start at the marker")
		assert.Equal(t, 16, tokens[1].EndColumn, "comment should run to end of line")
		assert.Equal(t, "comment.line.double-slash", tokens[1].MostSpecificScope(), "comment scope should be most specific")
		assert.Equal(t, 0, stack.Depth(), "no region should stay open")
	})

	t.Run("test_block_comment_state_carries_across_lines", func(t *testing.T) {
		_, stack := tokenizer.TokenizeLine(cg, "code(); /* begins here", tokenizer.RuleStack{})
		require.Equal(t, 1, stack.Depth(), "block comment should stay open at end of line")
		assert.Equal(t, "comment.block", stack.TopScope(), "open region should be the block comment")

		// The next line has no delimiter of its own but must tokenize as
		// comment from column 0.
		tokens, stack := tokenizer.TokenizeLine(cg, "still inside", stack)
		require.Len(t, tokens, 1, "continuation line should be a single token")
		assert.Equal(t, 0, tokens[0].StartColumn, "comment should start at column 0")
		assert.Equal(t, "comment.block", tokens[0].MostSpecificScope(), "continuation should carry the comment scope")

		tokens, stack = tokenizer.TokenizeLine(cg, "done */ x := 2", stack)
		assert.Equal(t, 0, stack.Depth(), "closing delimiter should pop the region")
		assert.Equal(t, "comment.block", tokens[0].MostSpecificScope(), "text before the closer should still be comment")
		assert.Equal(t, "source.test", tokens[len(tokens)-1].MostSpecificScope(), "text after the closer should be code")
	})

	t.Run("test_unterminated_block_at_end_of_document", func(t *testing.T) {
		tokens, stack := tokenizer.TokenizeLine(cg, "/* never closed", tokenizer.RuleStack{})

		require.Len(t, tokens, 1, "whole line should be one comment token")
		assert.Equal(t, 15, tokens[0].EndColumn, "token should run to end of line")
		assert.Equal(t, 1, stack.Depth(), "region should remain open at end of document")
	})

	t.Run("test_doc_comment_scope", func(t *testing.T) {
		tokens, _ := tokenizer.TokenizeLine(cg, "/** docs */", tokenizer.RuleStack{})
		require.NotEmpty(t, tokens, "doc comment should produce tokens")
		assert.Equal(t, "comment.block.documentation", tokens[0].MostSpecificScope(), "doc rule should win over the plain block rule")
	})

	t.Run("test_comment_marker_inside_string_is_not_a_comment", func(t *testing.T) {
		tokens, stack := tokenizer.TokenizeLine(cg, `s := "// not a comment"`, tokenizer.RuleStack{})

		assert.Equal(t, 0, stack.Depth(), "string should close on its own line")
		for _, tok := range tokens {
			assert.NotEqual(t, "comment.line.double-slash", tok.MostSpecificScope(),
				"marker inside a string must not tokenize as comment")
		}
	})

	t.Run("test_unterminated_string_closes_at_end_of_line", func(t *testing.T) {
		_, stack := tokenizer.TokenizeLine(cg, `s := "runs off the end`, tokenizer.RuleStack{})
		assert.Equal(t, 0, stack.Depth(), "single-line string region must not leak onto the next line")
	})

	t.Run("test_deterministic", func(t *testing.T) {
		line := "a() /* b */ // c"
		tokens1, stack1 := tokenizer.TokenizeLine(cg, line, tokenizer.RuleStack{})
		tokens2, stack2 := tokenizer.TokenizeLine(cg, line, tokenizer.RuleStack{})

		assert.Equal(t, tokens1, tokens2, "same input should produce identical tokens")
		assert.True(t, stack1.Equal(stack2), "same input should produce equal stacks")
	})

	t.Run("test_unmatched_text_gets_default_scope", func(t *testing.T) {
		tokens, _ := tokenizer.TokenizeLine(cg, "∑ very ≠ odd input", tokenizer.RuleStack{})
		require.Len(t, tokens, 1, "unrecognized text should be a single default-scope token")
		assert.Equal(t, "source.test", tokens[0].MostSpecificScope(), "default scope should apply")
	})
}

func TestTokenContains(t *testing.T) {
	tok := tokenizer.Token{StartColumn: 4, EndColumn: 10, Scopes: []string{"source.test"}}

	tests := []struct {
		name          string
		col           int
		want          bool
		wantInclusive bool
	}{
		{name: "before_start", col: 3, want: false, wantInclusive: false},
		{name: "at_start", col: 4, want: true, wantInclusive: true},
		{name: "interior", col: 7, want: true, wantInclusive: true},
		{name: "at_end", col: 10, want: false, wantInclusive: true},
		{name: "past_end", col: 11, want: false, wantInclusive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Contains(tt.col), "Contains(%d)", tt.col)
			assert.Equal(t, tt.wantInclusive, tok.ContainsInclusive(tt.col), "ContainsInclusive(%d)", tt.col)
		})
	}
}

func TestRuleStackEqual(t *testing.T) {
	cg := compileTestGrammar(t)

	_, open1 := tokenizer.TokenizeLine(cg, "/* a", tokenizer.RuleStack{})
	_, open2 := tokenizer.TokenizeLine(cg, "/* b", tokenizer.RuleStack{})
	_, closed := tokenizer.TokenizeLine(cg, "/* c */", tokenizer.RuleStack{})

	assert.True(t, open1.Equal(open2), "stacks with the same open rule should be equal")
	assert.False(t, open1.Equal(closed), "open and closed stacks should differ")
	assert.True(t, closed.Equal(tokenizer.RuleStack{}), "fully closed stack should equal the root state")
}
