package tokenizer

import (
	"sync"

	"github.com/codetongue/codetongue/pkg/grammar"
	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// CompiledGrammar is a grammar with its rule patterns compiled and include
// references resolved. Immutable and safe for concurrent use.
type CompiledGrammar struct {
	scopeName string
	patterns  []*compiledPattern
}

// ScopeName returns the grammar's root scope, assigned to unmatched text.
func (cg *CompiledGrammar) ScopeName() string {
	return cg.scopeName
}

type compiledPattern struct {
	name        string
	contentName string
	match       *regexp2.Regexp
	begin       *regexp2.Regexp
	end         *regexp2.Regexp
	patterns    []*compiledPattern
}

// compiled grammars are memoized per grammar instance; grammars are
// immutable after load so the cache never goes stale.
var compileCache sync.Map // *grammar.Grammar -> *CompiledGrammar

// Compile resolves and compiles a grammar's rules. Results are cached per
// grammar instance.
func Compile(g *grammar.Grammar) (*CompiledGrammar, error) {
	if cached, ok := compileCache.Load(g); ok {
		return cached.(*CompiledGrammar), nil
	}

	c := &compiler{
		grammar: g,
		repo:    make(map[string]*compiledPattern),
	}
	cg, err := c.compile()
	if err != nil {
		return nil, err
	}

	compileCache.Store(g, cg)
	return cg, nil
}

type compiler struct {
	grammar *grammar.Grammar
	repo    map[string]*compiledPattern

	// self is a synthetic rule holding the grammar's top-level patterns,
	// the target of "$self" includes.
	self *compiledPattern
}

func (c *compiler) compile() (*CompiledGrammar, error) {
	// Allocate repository entries first so includes can reference rules in
	// any order, including cycles.
	for name := range c.grammar.Repository {
		c.repo[name] = &compiledPattern{}
	}
	c.self = &compiledPattern{}

	for name, p := range c.grammar.Repository {
		if err := c.fill(c.repo[name], p); err != nil {
			return nil, errors.Errorf("compiling repository rule %q: %w", name, err)
		}
	}

	top, err := c.resolveList(c.grammar.Patterns)
	if err != nil {
		return nil, errors.Errorf("compiling grammar %q: %w", c.grammar.ScopeName, err)
	}
	c.self.patterns = top

	return &CompiledGrammar{
		scopeName: c.grammar.ScopeName,
		patterns:  top,
	}, nil
}

func (c *compiler) resolveList(patterns []grammar.Pattern) ([]*compiledPattern, error) {
	out := make([]*compiledPattern, 0, len(patterns))
	for i, p := range patterns {
		if p.Include != "" {
			resolved, err := c.resolveInclude(p.Include)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
			continue
		}

		cp := &compiledPattern{}
		if err := c.fill(cp, p); err != nil {
			return nil, errors.Errorf("compiling pattern %d: %w", i, err)
		}
		out = append(out, cp)
	}
	return out, nil
}

func (c *compiler) resolveInclude(ref string) (*compiledPattern, error) {
	if ref == "$self" || ref == "$base" {
		return c.self, nil
	}
	if len(ref) > 1 && ref[0] == '#' {
		cp, ok := c.repo[ref[1:]]
		if !ok {
			return nil, errors.Errorf("include %q not found in repository", ref)
		}
		return cp, nil
	}
	return nil, errors.Errorf("unsupported include reference %q", ref)
}

func (c *compiler) fill(cp *compiledPattern, p grammar.Pattern) error {
	cp.name = p.Name
	cp.contentName = p.ContentName

	var err error
	if p.Match != "" {
		if cp.match, err = regexp2.Compile(p.Match, regexp2.None); err != nil {
			return errors.Errorf("compiling match %q: %w", p.Match, err)
		}
	}
	if p.Begin != "" {
		if cp.begin, err = regexp2.Compile(p.Begin, regexp2.None); err != nil {
			return errors.Errorf("compiling begin %q: %w", p.Begin, err)
		}
	}
	if p.End != "" {
		if cp.end, err = regexp2.Compile(p.End, regexp2.None); err != nil {
			return errors.Errorf("compiling end %q: %w", p.End, err)
		}
	}
	if p.Begin != "" && p.End == "" {
		return errors.Errorf("begin pattern %q has no end pattern", p.Begin)
	}

	if len(p.Patterns) > 0 {
		if cp.patterns, err = c.resolveList(p.Patterns); err != nil {
			return err
		}
	}
	return nil
}
