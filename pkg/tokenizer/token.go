package tokenizer

// Token is a contiguous run of line text carrying one scope list.
// Columns are character (rune) offsets within the line; EndColumn is
// exclusive.
type Token struct {
	StartColumn int
	EndColumn   int

	// Scopes is ordered outermost to innermost; the last entry is the most
	// specific classification of the text.
	Scopes []string
}

// MostSpecificScope returns the innermost scope of the token.
func (t Token) MostSpecificScope() string {
	if len(t.Scopes) == 0 {
		return ""
	}
	return t.Scopes[len(t.Scopes)-1]
}

// Contains reports whether the column falls inside the token.
func (t Token) Contains(col int) bool {
	return col >= t.StartColumn && col < t.EndColumn
}

// ContainsInclusive is Contains with the end column included.
func (t Token) ContainsInclusive(col int) bool {
	return col >= t.StartColumn && col <= t.EndColumn
}

// LineResult is the tokenization of one line plus the rule stack to feed
// into the next line.
type LineResult struct {
	LineNumber int
	Tokens     []Token
	StackAfter RuleStack
}
