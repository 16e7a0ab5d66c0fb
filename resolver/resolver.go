// Package resolver expands extends references into ordered lists of
// loadable TagSpec document locations.
//
// A reference is one of:
//
//   - a relative or absolute file path, resolving to exactly one location
//   - a directory, resolving to its supported-format files (non-recursive)
//   - a glob pattern, resolving to the matching supported-format files
//   - a scheme-prefixed locator (e.g., "pkg:app.tags/catalog.toml")
//     dispatched to a registered handler
//
// Directory and glob expansions are sorted lexicographically by filename so
// the merge order downstream is deterministic. Resolution is pure from the
// composer's point of view: no retries, and every failure surfaces as a
// [tserrors.ResolutionError].
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joshuadavidthomas/djtagspecs/catalog"
	"github.com/joshuadavidthomas/djtagspecs/tserrors"
)

// SchemeHandler resolves one scheme-prefixed reference (with the scheme
// prefix stripped) to an ordered list of absolute document paths. baseDir is
// the directory of the referencing document.
type SchemeHandler func(ref string, baseDir string) ([]string, error)

// Resolver turns extends reference strings into ordered absolute document
// locations.
//
// The zero value is not usable; call [New].
type Resolver struct {
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger catalog.Logger

	schemes map[string]SchemeHandler
}

// New creates a Resolver with no scheme handlers registered.
func New() *Resolver {
	return &Resolver{schemes: make(map[string]SchemeHandler)}
}

// RegisterScheme installs a handler for references of the form
// "name:rest". Registering a name twice replaces the earlier handler.
func (r *Resolver) RegisterScheme(name string, handler SchemeHandler) {
	r.schemes[name] = handler
}

func (r *Resolver) log() catalog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return catalog.NopLogger{}
}

// schemePattern matches a URI-style scheme prefix. Single letters are
// excluded so Windows drive paths are not mistaken for schemes.
var schemePattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]+):`)

// Resolve expands a reference into an ordered list of absolute document
// paths. base is the location of the document containing the reference;
// relative references resolve against its directory.
func (r *Resolver) Resolve(ref, base string) ([]string, error) {
	if ref == "" {
		return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Message: "empty reference"}
	}

	baseDir := filepath.Dir(base)

	if m := schemePattern.FindStringSubmatch(ref); m != nil {
		scheme := m[1]
		handler, ok := r.schemes[scheme]
		if !ok {
			return nil, &tserrors.ResolutionError{
				Ref:     ref,
				Base:    base,
				Message: fmt.Sprintf("no handler registered for scheme %q", scheme),
			}
		}
		locations, err := handler(strings.TrimPrefix(ref, scheme+":"), baseDir)
		if err != nil {
			return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Cause: err}
		}
		if len(locations) == 0 {
			return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Message: "locator matched no documents"}
		}
		r.log().Debug("resolved scheme reference", "ref", ref, "locations", len(locations))
		return locations, nil
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	if hasGlobMeta(ref) {
		return r.resolveGlob(ref, base, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Cause: err}
	}
	if info.IsDir() {
		return r.resolveDir(ref, base, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Cause: err}
	}
	return []string{abs}, nil
}

// resolveGlob expands a glob pattern to the matching supported-format
// files. filepath.Glob returns lexicographic order already.
func (r *Resolver) resolveGlob(ref, base, pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Message: "invalid glob pattern", Cause: err}
	}

	locations := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Cause: err}
		}
		if info.IsDir() || !catalog.IsSupportedPath(match) {
			continue
		}
		abs, err := filepath.Abs(match)
		if err != nil {
			return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Cause: err}
		}
		locations = append(locations, abs)
	}
	if len(locations) == 0 {
		return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Message: "glob matched no documents"}
	}
	r.log().Debug("resolved glob reference", "ref", ref, "locations", len(locations))
	return locations, nil
}

// resolveDir expands a directory to its supported-format files,
// non-recursively, sorted lexicographically by filename.
func (r *Resolver) resolveDir(ref, base, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Cause: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !catalog.IsSupportedPath(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Message: "directory contains no documents"}
	}

	locations := make([]string, 0, len(names))
	for _, name := range names {
		abs, err := filepath.Abs(filepath.Join(dir, name))
		if err != nil {
			return nil, &tserrors.ResolutionError{Ref: ref, Base: base, Cause: err}
		}
		locations = append(locations, abs)
	}
	r.log().Debug("resolved directory reference", "ref", ref, "locations", len(locations))
	return locations, nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// PkgScheme returns a SchemeHandler for "pkg:" package-resource locators of
// the form "pkg:<module>/<file>". roots maps module names to the
// directories their packaged catalogs live in.
func PkgScheme(roots map[string]string) SchemeHandler {
	return func(ref, _ string) ([]string, error) {
		module, file, ok := strings.Cut(ref, "/")
		if !ok || module == "" || file == "" {
			return nil, fmt.Errorf("pkg locator must look like pkg:<module>/<file>, got %q", ref)
		}
		root, ok := roots[module]
		if !ok {
			return nil, fmt.Errorf("unknown package %q", module)
		}
		path := filepath.Join(root, filepath.FromSlash(file))
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		return []string{abs}, nil
	}
}
