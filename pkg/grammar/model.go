package grammar

import "encoding/json"

// Grammar is a declarative tokenization rule set for one or more languages,
// in the tmLanguage style: a flat list of patterns plus a repository of
// named rules reachable through include references.
//
// A grammar is immutable once loaded; the registry shares one instance
// across every language id that maps to it.
type Grammar struct {
	// Name is a human-readable grammar name.
	Name string `json:"name,omitempty"`

	// ScopeName is the root scope assigned to otherwise-unmatched text,
	// e.g. "source.c-style".
	ScopeName string `json:"scopeName"`

	// Languages lists the language ids this grammar contributes itself to.
	// Used when grammars are discovered from a directory rather than
	// registered through an explicit descriptor.
	Languages []string `json:"languages,omitempty"`

	Patterns []Pattern `json:"patterns"`

	// Repository holds named rules referenced via {"include": "#name"}.
	Repository map[string]Pattern `json:"repository,omitempty"`
}

// Pattern is a single tokenization rule. Exactly one of Include, Match, or
// Begin/End is expected to be set.
type Pattern struct {
	// Include references a repository rule ("#name") or the grammar
	// itself ("$self").
	Include string `json:"include,omitempty"`

	// Name is the scope assigned to matched text (for Match rules) or to
	// the whole begin..end region (for Begin/End rules).
	Name string `json:"name,omitempty"`

	// ContentName scopes only the text between the begin and end matches.
	ContentName string `json:"contentName,omitempty"`

	// Match is a single-line regular expression rule.
	Match string `json:"match,omitempty"`

	// Begin and End delimit a region that may span lines; End may be left
	// unmatched at end of document (the region then runs to EOF).
	Begin string `json:"begin,omitempty"`
	End   string `json:"end,omitempty"`

	// Patterns are tried inside a Begin/End region before its End.
	Patterns []Pattern `json:"patterns,omitempty"`
}

// Unmarshal decodes a grammar from its JSON rule file.
func Unmarshal(data []byte) (*Grammar, error) {
	var g Grammar
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
