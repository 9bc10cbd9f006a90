// Package document tracks open documents and their tokenization caches.
//
// Each open document owns one cache entry holding its grammar handle and
// the tokenized-line prefix computed so far. An entry is never patched
// across an edit: a content change replaces it wholesale, trading
// re-tokenization cost for correctness.
package document

import (
	"context"
	"strings"
	"sync"

	"github.com/codetongue/codetongue/pkg/grammar"
	"github.com/codetongue/codetongue/pkg/tokenizer"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// normalizeURI ensures consistent URI handling by removing the file://
// prefix if present and converting to a clean path
func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

// Document is an open text document plus its lazily-built tokenization
// cache. Content and metadata are immutable after construction; edits
// produce a fresh Document through Manager.Change.
type Document struct {
	URI        string
	LanguageID string
	Version    int32
	Content    string

	grammar *tokenizer.CompiledGrammar
	lines   []string

	mu    sync.Mutex
	cache []tokenizer.LineResult
}

func newDocument(uri, languageID string, version int32, content string, cg *tokenizer.CompiledGrammar) *Document {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &Document{
		URI:        uri,
		LanguageID: languageID,
		Version:    version,
		Content:    content,
		grammar:    cg,
		lines:      lines,
	}
}

// HasGrammar reports whether a grammar is registered for the document's
// language. Without one, comment extraction is unavailable for the file.
func (d *Document) HasGrammar() bool {
	return d.grammar != nil
}

// Lines returns the document's lines. Callers must not mutate the slice.
func (d *Document) Lines() []string {
	return d.lines
}

func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns one line's text, or "" when out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// TokenizedLine returns the tokenization of line i, computing and caching
// every line up to it first (line state threads from one line to the next,
// so earlier lines must be tokenized before later ones). Returns false when
// the line is out of range or the document has no grammar.
func (d *Document) TokenizedLine(i int) (tokenizer.LineResult, bool) {
	if d.grammar == nil || i < 0 || i >= len(d.lines) {
		return tokenizer.LineResult{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for len(d.cache) <= i {
		n := len(d.cache)
		var prior tokenizer.RuleStack
		if n > 0 {
			prior = d.cache[n-1].StackAfter
		}
		tokens, next := tokenizer.TokenizeLine(d.grammar, d.lines[n], prior)
		d.cache = append(d.cache, tokenizer.LineResult{LineNumber: n, Tokens: tokens, StackAfter: next})
	}

	return d.cache[i], true
}

// Manager owns the open-document table: at most one entry per URI, with
// lookup and invalidation serialized so no query can observe an entry
// mid-replacement. A Document handed out before an edit stays internally
// consistent; it simply describes the superseded version.
type Manager struct {
	registry *grammar.Registry

	mu   sync.Mutex
	docs map[string]*Document
}

func NewManager(registry *grammar.Registry) *Manager {
	return &Manager{
		registry: registry,
		docs:     make(map[string]*Document),
	}
}

// Open stores a new document, resolving and compiling its grammar. A
// language with no registered grammar still opens; it just reports
// HasGrammar false.
func (m *Manager) Open(ctx context.Context, uri, languageID string, version int32, content string) (*Document, error) {
	cg, err := m.compileGrammar(ctx, languageID)
	if err != nil {
		return nil, err
	}

	doc := newDocument(normalizeURI(uri), languageID, version, content, cg)

	m.mu.Lock()
	m.docs[doc.URI] = doc
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Str("uri", doc.URI).Str("language", languageID).Bool("grammar", cg != nil).Msg("opened document")
	return doc, nil
}

// Change replaces the document's cache entry with a freshly tokenizable one.
// The previous entry is discarded, never patched.
func (m *Manager) Change(ctx context.Context, uri string, version int32, content string) (*Document, error) {
	normalized := normalizeURI(uri)

	m.mu.Lock()
	old, ok := m.docs[normalized]
	m.mu.Unlock()
	if !ok {
		return nil, errors.Errorf("document not open: %s", normalized)
	}

	doc := newDocument(normalized, old.LanguageID, version, content, old.grammar)

	m.mu.Lock()
	m.docs[normalized] = doc
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Str("uri", normalized).Int32("version", version).Msg("replaced document")
	return doc, nil
}

// Get returns the current entry for a URI.
func (m *Manager) Get(uri string) (*Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[normalizeURI(uri)]
	return doc, ok
}

// Close drops the document's entry.
func (m *Manager) Close(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, normalizeURI(uri))
}

func (m *Manager) compileGrammar(ctx context.Context, languageID string) (*tokenizer.CompiledGrammar, error) {
	g, err := m.registry.GetGrammar(ctx, languageID)
	if err != nil {
		return nil, errors.Errorf("resolving grammar for %s: %w", languageID, err)
	}
	if g == nil {
		return nil, nil
	}
	cg, err := tokenizer.Compile(g)
	if err != nil {
		return nil, errors.Errorf("compiling grammar for %s: %w", languageID, err)
	}
	return cg, nil
}
