package tokenizer

// RuleStack is the opaque tokenization state carried between lines: the
// chain of begin/end regions currently open. It is an immutable value;
// pushing or popping returns a new stack and never mutates the old one,
// so cached per-line states stay valid.
//
// The zero value is the root state (no open region).
type RuleStack struct {
	top *stackFrame
}

type stackFrame struct {
	parent *stackFrame
	rule   *compiledPattern

	// scopes is the full scope list for text matched by the region's own
	// delimiters; innerScopes additionally carries the rule's contentName
	// and applies to text between them.
	scopes      []string
	innerScopes []string
}

func (s RuleStack) push(rule *compiledPattern, base []string) RuleStack {
	scopes := base
	if rule.name != "" {
		scopes = appendScope(base, rule.name)
	}
	inner := scopes
	if rule.contentName != "" {
		inner = appendScope(scopes, rule.contentName)
	}
	return RuleStack{top: &stackFrame{
		parent:      s.top,
		rule:        rule,
		scopes:      scopes,
		innerScopes: inner,
	}}
}

func (s RuleStack) pop() RuleStack {
	if s.top == nil {
		return s
	}
	return RuleStack{top: s.top.parent}
}

// TopScope returns the innermost scope of the topmost open region, or ""
// when no region is open. Lets callers ask "is a block comment still open
// at the end of this line" without seeing inside the stack.
func (s RuleStack) TopScope() string {
	if s.top == nil || len(s.top.scopes) == 0 {
		return ""
	}
	return s.top.scopes[len(s.top.scopes)-1]
}

// Depth returns the number of open regions.
func (s RuleStack) Depth() int {
	n := 0
	for f := s.top; f != nil; f = f.parent {
		n++
	}
	return n
}

// Equal reports whether two stacks represent the same open-region chain.
// Frames are immutable and shared between derived stacks, so walking the
// chains comparing rules is sufficient.
func (s RuleStack) Equal(other RuleStack) bool {
	a, b := s.top, other.top
	for a != nil && b != nil {
		if a == b {
			return true
		}
		if a.rule != b.rule {
			return false
		}
		a, b = a.parent, b.parent
	}
	return a == nil && b == nil
}

// appendScope copies before appending so shared scope slices are never
// extended in place.
func appendScope(scopes []string, name string) []string {
	out := make([]string, len(scopes), len(scopes)+1)
	copy(out, scopes)
	return append(out, name)
}
