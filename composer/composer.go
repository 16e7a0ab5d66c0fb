// Package composer resolves a document's extends chain and folds it into a
// single composed catalog.
//
// Composition walks the extends graph depth first, parents before children,
// so every dependency lands in the merge order ahead of the documents that
// extend it and the root document merges last. Cycles are rejected before
// any merging happens. Documents reachable through more than one branch of
// the graph are parsed once (a per-composer cache) but merged once per
// occurrence, which is harmless because merging a document over itself is a
// no-op for every field it sets.
package composer

import (
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/joshuadavidthomas/djtagspecs/catalog"
	"github.com/joshuadavidthomas/djtagspecs/merger"
	"github.com/joshuadavidthomas/djtagspecs/resolver"
	"github.com/joshuadavidthomas/djtagspecs/tserrors"
	"github.com/joshuadavidthomas/djtagspecs/validator"
)

// DefaultMaxDepth bounds how deep an extends chain may nest before
// composition fails. Real catalogs rarely exceed three or four levels.
const DefaultMaxDepth = 32

// ReferenceResolver expands an extends reference. base is the path of the
// document that declared the reference; relative references resolve
// against its directory. Implementations return one or more absolute file
// paths in deterministic order.
type ReferenceResolver interface {
	Resolve(ref, base string) ([]string, error)
}

// Result is the outcome of a full composition.
type Result struct {
	// Spec is the finalized composed document. Its extends list is empty
	// because every reference has been applied.
	Spec *catalog.TagSpec
	// Sources lists the resolved file paths in merge order, root last. A
	// path appears once per merge occurrence.
	Sources []string
	// Validation holds the structural check results for Spec, or nil when
	// validation was disabled.
	Validation *validator.Result
}

// Composer loads, resolves, and merges TagSpec documents. A composer is
// safe for concurrent use; its parse cache is shared across compositions,
// so reuse one composer when composing many documents from the same tree.
type Composer struct {
	parser   *catalog.Parser
	resolver ReferenceResolver
	logger   catalog.Logger
	maxDepth int
	parallel bool
	validate bool

	mu    sync.Mutex
	cache map[string]*catalog.TagSpec
}

// Option configures a Composer.
type Option func(*Composer)

// WithParser replaces the document parser.
func WithParser(p *catalog.Parser) Option {
	return func(c *Composer) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithResolver replaces the reference resolver. Use this to register
// custom schemes, see resolver.Resolver.RegisterScheme.
func WithResolver(r ReferenceResolver) Option {
	return func(c *Composer) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithLogger sets the logger used for composition progress and diamond
// warnings.
func WithLogger(logger catalog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxDepth overrides the extends nesting limit. Values below 1 are
// ignored.
func WithMaxDepth(depth int) Option {
	return func(c *Composer) {
		if depth >= 1 {
			c.maxDepth = depth
		}
	}
}

// WithParallel enables concurrent loading of sibling extends references.
// Merge order stays deterministic; only the I/O overlaps.
func WithParallel(parallel bool) Option {
	return func(c *Composer) {
		c.parallel = parallel
	}
}

// WithValidation controls whether Compose runs the structural validator on
// the composed document. Enabled by default.
func WithValidation(validate bool) Option {
	return func(c *Composer) {
		c.validate = validate
	}
}

// New constructs a Composer with the given options.
func New(opts ...Option) *Composer {
	c := &Composer{
		parser:   catalog.New(),
		resolver: resolver.New(),
		logger:   catalog.NopLogger{},
		maxDepth: DefaultMaxDepth,
		validate: true,
		cache:    make(map[string]*catalog.TagSpec),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose resolves path's extends chain, folds it into one document,
// synthesizes implicit end tags, and (unless disabled) validates the
// result. Validation findings never fail composition; inspect
// Result.Validation.
func (c *Composer) Compose(path string) (*Result, error) {
	docs, sources, err := c.ResolveChain(path)
	if err != nil {
		return nil, err
	}

	merged := merger.Fold(docs)
	merged.Extends = []string{}
	merged = merger.Finalize(merged)

	c.logger.Debug("composed document",
		"path", path,
		"sources", len(sources),
		"libraries", len(merged.Libraries))

	result := &Result{Spec: merged, Sources: sources}
	if c.validate {
		result.Validation = validator.New(validator.WithLogger(c.logger)).Validate(merged)
	}
	return result, nil
}

// ResolveChain returns the document chain for path in merge order:
// transitive dependencies first, the root document last. The returned
// sources parallel the documents.
func (c *Composer) ResolveChain(path string) ([]*catalog.TagSpec, []string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, &tserrors.ResolutionError{Ref: path, Message: "cannot resolve to an absolute path", Cause: err}
	}

	seen := newSeenSet()
	entries, err := c.expand(abs, nil, 0, seen)
	if err != nil {
		return nil, nil, err
	}

	docs := make([]*catalog.TagSpec, len(entries))
	sources := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = e.doc
		sources[i] = e.path
	}
	return docs, sources, nil
}

type entry struct {
	path string
	doc  *catalog.TagSpec
}

// seenSet tracks paths already visited anywhere in the walk so diamonds
// can be reported. Separate from the ancestor stack, which detects cycles.
type seenSet struct {
	mu    sync.Mutex
	paths map[string]bool
}

func newSeenSet() *seenSet {
	return &seenSet{paths: make(map[string]bool)}
}

// visit marks path and reports whether it had been visited before.
func (s *seenSet) visit(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := s.paths[path]
	s.paths[path] = true
	return prior
}

func (c *Composer) expand(path string, stack []string, depth int, seen *seenSet) ([]entry, error) {
	if depth > c.maxDepth {
		return nil, &tserrors.ResolutionError{
			Ref:     path,
			Message: fmt.Sprintf("extends depth limit of %d exceeded", c.maxDepth),
		}
	}
	for _, ancestor := range stack {
		if ancestor == path {
			chain := make([]string, 0, len(stack)+1)
			chain = append(chain, stack...)
			chain = append(chain, path)
			return nil, &tserrors.CycleError{Location: path, Chain: chain}
		}
	}
	if seen.visit(path) {
		c.logger.Warn("document reached through multiple extends branches", "path", path)
	}

	doc, err := c.load(path)
	if err != nil {
		return nil, err
	}

	var parentPaths []string
	for _, ref := range doc.Extends {
		resolved, err := c.resolver.Resolve(ref, path)
		if err != nil {
			return nil, err
		}
		parentPaths = append(parentPaths, resolved...)
	}

	childStack := make([]string, 0, len(stack)+1)
	childStack = append(childStack, stack...)
	childStack = append(childStack, path)

	subtrees := make([][]entry, len(parentPaths))
	if c.parallel && len(parentPaths) > 1 {
		var g errgroup.Group
		for i, parent := range parentPaths {
			g.Go(func() error {
				entries, err := c.expand(parent, childStack, depth+1, seen)
				if err != nil {
					return err
				}
				subtrees[i] = entries
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, parent := range parentPaths {
			entries, err := c.expand(parent, childStack, depth+1, seen)
			if err != nil {
				return nil, err
			}
			subtrees[i] = entries
		}
	}

	var result []entry
	for _, sub := range subtrees {
		result = append(result, sub...)
	}
	return append(result, entry{path: path, doc: doc}), nil
}

// load parses path, consulting and feeding the per-composer cache. Two
// parallel branches racing on an uncached path may both parse it; the
// duplicate work is bounded by one file read and the results are
// identical.
func (c *Composer) load(path string) (*catalog.TagSpec, error) {
	c.mu.Lock()
	doc, ok := c.cache[path]
	c.mu.Unlock()
	if ok {
		return doc, nil
	}

	doc, err := c.parser.Parse(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[path] = doc
	c.mu.Unlock()
	return doc, nil
}

// Compose is a convenience wrapper composing path with a default composer
// configured by opts.
func Compose(path string, opts ...Option) (*Result, error) {
	return New(opts...).Compose(path)
}
