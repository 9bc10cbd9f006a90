// Package tokenizer applies a grammar to document lines, producing scoped
// tokens. Tokenization is stateful across lines: a region opened on one line
// (a block comment, a string) constrains how the next line is tokenized, so
// each line's result carries the rule stack to feed into its successor.
package tokenizer

import (
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// TokenizeLine tokenizes a single line of text against the grammar, given
// the rule stack left behind by the previous line (the zero RuleStack for
// the first line).
//
// It is a pure function of its inputs: the same grammar, text, and prior
// stack always produce the same tokens and next stack. It never fails on
// document content; text no rule claims is classified under the innermost
// open scope (or the grammar's root scope). Token columns are character
// (rune) offsets within the line.
func TokenizeLine(cg *CompiledGrammar, line string, prior RuleStack) ([]Token, RuleStack) {
	stack := prior
	lineLen := utf8.RuneCountInString(line)
	pos := 0
	var tokens []Token

	emit := func(start, end int, scopes []string) {
		if end <= start {
			return
		}
		// Coalesce runs that carry the same scope list so results are
		// stable regardless of how many rule matches produced them.
		if n := len(tokens); n > 0 && tokens[n-1].EndColumn == start && scopesEqual(tokens[n-1].Scopes, scopes) {
			tokens[n-1].EndColumn = end
			return
		}
		tokens = append(tokens, Token{StartColumn: start, EndColumn: end, Scopes: scopes})
	}

	for pos < lineLen {
		base := baseScopes(cg, stack)

		kind, rule, m := earliestMatch(cg, stack, line, pos)
		if m == nil {
			emit(pos, lineLen, base)
			pos = lineLen
			break
		}

		// Text between the cursor and the match belongs to the current
		// region (or the root scope).
		emit(pos, m.Index, base)

		switch kind {
		case matchEnd:
			// The closing delimiter is still part of the region.
			emit(m.Index, m.Index+m.Length, stack.top.scopes)
			stack = stack.pop()
		case matchBegin:
			stack = stack.push(rule, base)
			emit(m.Index, m.Index+m.Length, stack.top.scopes)
		case matchSingle:
			scopes := base
			if rule.name != "" {
				scopes = appendScope(base, rule.name)
			}
			emit(m.Index, m.Index+m.Length, scopes)
		}

		next := m.Index + m.Length
		if next == pos && kind == matchSingle {
			// Zero-width match that changed nothing; force progress.
			next = pos + 1
		}
		pos = next
	}

	// A region's end pattern may still match empty at end of line (an
	// unterminated string closed by "$"); resolve those so the next line
	// does not start inside a region that cannot span lines.
	for stack.top != nil {
		m := findFrom(stack.top.rule.end, line, lineLen)
		if m == nil || m.Index != lineLen {
			break
		}
		stack = stack.pop()
	}

	return tokens, stack
}

type matchKind int

const (
	matchEnd matchKind = iota
	matchBegin
	matchSingle
)

// baseScopes is the scope list for text no rule claims at the current depth.
func baseScopes(cg *CompiledGrammar, stack RuleStack) []string {
	if stack.top == nil {
		return []string{cg.scopeName}
	}
	return stack.top.innerScopes
}

// candidateRules are the patterns tried at the current depth: the grammar's
// top-level patterns at the root, a region's nested patterns inside one.
func candidateRules(cg *CompiledGrammar, stack RuleStack) []*compiledPattern {
	if stack.top == nil {
		return cg.patterns
	}
	return stack.top.rule.patterns
}

// earliestMatch finds the leftmost rule match at or after pos. The open
// region's end pattern competes with the nested patterns; on a tie the end
// pattern wins, otherwise declaration order does.
func earliestMatch(cg *CompiledGrammar, stack RuleStack, line string, pos int) (matchKind, *compiledPattern, *regexp2.Match) {
	var (
		bestKind matchKind
		bestRule *compiledPattern
		best     *regexp2.Match
	)

	consider := func(kind matchKind, rule *compiledPattern, m *regexp2.Match) {
		if m == nil {
			return
		}
		if kind == matchBegin && m.Length == 0 {
			// A zero-width region could be re-entered forever.
			return
		}
		if best == nil || m.Index < best.Index {
			bestKind, bestRule, best = kind, rule, m
		}
	}

	if stack.top != nil {
		consider(matchEnd, stack.top.rule, findFrom(stack.top.rule.end, line, pos))
	}

	for _, rule := range candidateRules(cg, stack) {
		switch {
		case rule.begin != nil:
			consider(matchBegin, rule, findFrom(rule.begin, line, pos))
		case rule.match != nil:
			consider(matchSingle, rule, findFrom(rule.match, line, pos))
		}
	}

	return bestKind, bestRule, best
}

// findFrom runs a pattern from the given character offset. The patterns
// carry no match timeout, so the only error regexp2 can return never fires.
func findFrom(re *regexp2.Regexp, line string, pos int) *regexp2.Match {
	if re == nil {
		return nil
	}
	m, err := re.FindStringMatchStartingAt(line, pos)
	if err != nil {
		return nil
	}
	return m
}

func scopesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
