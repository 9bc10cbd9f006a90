// Package grammar loads and caches tokenization grammars for language ids.
//
// Grammars are contributed through descriptors: each descriptor names the
// language ids it applies to and the location of its JSON rule file.
// A built-in descriptor set covering the common comment dialects is embedded
// in the binary; additional grammars can be discovered from a directory.
package grammar

import (
	"context"
	"embed"
	"encoding/json"
	"path"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

//go:embed grammars/*.json
var embeddedGrammars embed.FS

const embeddedManifest = "grammars/manifest.json"

// Descriptor is a grammar contribution: the language ids it applies to and
// where its rule file lives on the given filesystem.
type Descriptor struct {
	Languages []string `json:"languages"`
	Path      string   `json:"path"`

	fs afero.Fs
}

type manifest struct {
	Descriptors []Descriptor `json:"descriptors"`
}

// Registry resolves language ids to grammars. Rule files are read lazily on
// the first request for one of their languages and cached for the process
// lifetime; lookups are safe for concurrent use.
type Registry struct {
	mu          sync.Mutex
	descriptors map[string]*Descriptor
	loaded      map[string]*Grammar
}

// NewRegistry creates a registry pre-populated with the embedded descriptor
// set. The rule files themselves are not parsed until first use.
func NewRegistry(ctx context.Context) (*Registry, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("creating grammar registry")

	r := &Registry{
		descriptors: make(map[string]*Descriptor),
		loaded:      make(map[string]*Grammar),
	}

	data, err := embeddedGrammars.ReadFile(embeddedManifest)
	if err != nil {
		return nil, errors.Errorf("reading embedded grammar manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Errorf("unmarshaling embedded grammar manifest: %w", err)
	}

	embeddedFs := afero.FromIOFS{FS: embeddedGrammars}
	for _, d := range m.Descriptors {
		d.Path = path.Join("grammars", d.Path)
		d.fs = embeddedFs
		r.register(d)
	}

	logger.Debug().Int("languages", len(r.descriptors)).Msg("registered embedded grammar descriptors")
	return r, nil
}

// RegisterDescriptor adds a grammar contribution whose rule file is read
// from the given filesystem. Later registrations win on language id clashes.
func (r *Registry) RegisterDescriptor(fsys afero.Fs, d Descriptor) {
	d.fs = fsys
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(d)
}

// register assumes r.mu is held (or the registry is not yet shared).
func (r *Registry) register(d Descriptor) {
	dd := d
	for _, lang := range d.Languages {
		r.descriptors[lang] = &dd
	}
}

// GetGrammar returns the grammar for a language id, loading its rule file on
// first use. A nil grammar with a nil error means no grammar is registered
// for the language: callers must treat that as "no comment support for this
// file type", not as a failure.
func (r *Registry) GetGrammar(ctx context.Context, languageID string) (*Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.descriptors[languageID]
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("language", languageID).Msg("no grammar descriptor for language")
		return nil, nil
	}
	return r.loadLocked(ctx, d)
}

// loadLocked assumes r.mu is held.
func (r *Registry) loadLocked(ctx context.Context, d *Descriptor) (*Grammar, error) {
	if g, ok := r.loaded[d.Path]; ok {
		return g, nil
	}

	data, err := afero.ReadFile(d.fs, d.Path)
	if err != nil {
		return nil, errors.Errorf("reading grammar file %s: %w", d.Path, err)
	}

	g, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Errorf("unmarshaling grammar %s: %w", d.Path, err)
	}

	r.loaded[d.Path] = g
	zerolog.Ctx(ctx).Debug().Str("path", d.Path).Str("scope", g.ScopeName).Msg("loaded grammar")
	return g, nil
}

// LoadDirectory discovers grammar rule files under root (any *.json file
// except manifests) and registers each for the language ids its own
// "languages" field names. Files that fail to parse are reported together;
// the rest are still registered.
func (r *Registry) LoadDirectory(ctx context.Context, fsys afero.Fs, root string) error {
	logger := zerolog.Ctx(ctx)

	matches, err := doublestar.Glob(afero.NewIOFS(fsys), path.Join(root, "**/*.json"))
	if err != nil {
		return errors.Errorf("globbing grammar directory %s: %w", root, err)
	}

	var result *multierror.Error
	for _, match := range matches {
		data, err := afero.ReadFile(fsys, match)
		if err != nil {
			result = multierror.Append(result, errors.Errorf("reading grammar %s: %w", match, err))
			continue
		}

		g, err := Unmarshal(data)
		if err != nil {
			result = multierror.Append(result, errors.Errorf("unmarshaling grammar %s: %w", match, err))
			continue
		}
		if len(g.Languages) == 0 {
			logger.Warn().Str("path", match).Msg("grammar file names no languages, skipping")
			continue
		}

		r.mu.Lock()
		r.loaded[match] = g
		r.register(Descriptor{Languages: g.Languages, Path: match, fs: fsys})
		r.mu.Unlock()

		logger.Debug().Str("path", match).Strs("languages", g.Languages).Msg("registered grammar from directory")
	}

	return result.ErrorOrNil()
}

// Preload parses every registered rule file up front, aggregating failures.
// Useful for validating a grammar set at startup instead of on first query.
func (r *Registry) Preload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result *multierror.Error
	for _, d := range r.descriptors {
		if _, err := r.loadLocked(ctx, d); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Languages returns the sorted language ids that have a registered grammar.
func (r *Registry) Languages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	langs := make([]string, 0, len(r.descriptors))
	for lang := range r.descriptors {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
