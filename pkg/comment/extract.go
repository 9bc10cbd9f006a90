package comment

import (
	"regexp"
	"strings"
)

// Line-comment markers stripped from the start of each line, longest first
// so "///" wins over "//".
var lineMarkers = []string{"///", "//!", "//", "#", "--", ";"}

// Block delimiters, longest-first for the same reason.
var blockOpeners = []string{"<!--", "--[[", "/**", "/*"}
var blockClosers = []string{"-->", "]]", "*/"}

var identifierLike = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Extract strips comment delimiters from the raw source text of a comment
// and joins the per-line remainders with single spaces, so the translator
// receives a coherent sentence instead of hard line breaks.
//
// Line comments lose their marker at the start of every line; block
// comments lose their opening and closing delimiters, and documentation
// blocks additionally lose one leading "*" continuation marker per line.
//
// The humanize result is true when the stripped text is a single
// identifier-like word (do_it_now), which reads better split into words
// before translation. ok is false when stripping leaves nothing to
// translate; callers treat that exactly like "no comment found".
func Extract(raw, scope string) (text string, humanize bool, ok bool) {
	lines := strings.Split(raw, "\n")

	var parts []string
	if IsLineScope(scope) {
		for _, line := range lines {
			parts = append(parts, stripLineMarker(line))
		}
	} else {
		stripBlockDelimiters(lines)
		doc := isDocScope(scope)
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if doc {
				trimmed = stripContinuation(trimmed)
			}
			parts = append(parts, trimmed)
		}
	}

	text = joinWords(parts)
	if text == "" {
		return "", false, false
	}

	humanize = !strings.ContainsFunc(text, isSpace) && identifierLike.MatchString(text)
	return text, humanize, true
}

func stripLineMarker(line string) string {
	trimmed := strings.TrimSpace(line)
	for _, marker := range lineMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, marker))
		}
	}
	return trimmed
}

// stripBlockDelimiters removes the opening delimiter from the first line
// and the closing delimiter from the last, in place.
func stripBlockDelimiters(lines []string) {
	if len(lines) == 0 {
		return
	}

	first := strings.TrimSpace(lines[0])
	for _, opener := range blockOpeners {
		if strings.HasPrefix(first, opener) {
			first = strings.TrimPrefix(first, opener)
			break
		}
	}
	lines[0] = first

	last := strings.TrimSpace(lines[len(lines)-1])
	for _, closer := range blockClosers {
		if strings.HasSuffix(last, closer) {
			last = strings.TrimSuffix(last, closer)
			break
		}
	}
	lines[len(lines)-1] = last
}

// stripContinuation drops a single leading "*" marker, as used on the
// interior lines of documentation blocks.
func stripContinuation(line string) string {
	if strings.HasPrefix(line, "*") && !strings.HasPrefix(line, "*/") {
		return strings.TrimSpace(strings.TrimPrefix(line, "*"))
	}
	return line
}

// joinWords joins non-empty parts with single spaces and collapses any
// internal run of whitespace left by the stripping.
func joinWords(parts []string) string {
	var words []string
	for _, part := range parts {
		words = append(words, strings.Fields(part)...)
	}
	return strings.Join(words, " ")
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Humanize splits an identifier-like comment into space-separated words:
// snake_case and kebab-case on their separators, camelCase on its
// lowercase-to-uppercase boundaries. "fix_this_now" becomes
// "fix this now".
func Humanize(s string) string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			flush()
		case i > 0 && isLower(runes[i-1]) && isUpper(r):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	return strings.Join(words, " ")
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
