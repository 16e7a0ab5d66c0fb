// Package generator emits Go source from a composed TagSpec document.
//
// The output is a single file of string constants, one per tag name and
// one per end-tag name, grouped by library. Editor tooling and template
// engines written in Go can then refer to catalog tags without hardcoding
// strings. Generated source is run through goimports-equivalent
// processing so it is immediately compilable.
package generator

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"golang.org/x/tools/imports"

	"github.com/joshuadavidthomas/djtagspecs/catalog"
)

// DefaultPackageName is used when no package name is configured.
const DefaultPackageName = "tagnames"

// Generator renders tag-name constants from composed documents.
type Generator struct {
	// PackageName is the package clause of the generated file
	PackageName string
	// Logger receives generation progress at debug level
	Logger catalog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithPackageName sets the package clause of the generated file.
func WithPackageName(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.PackageName = name
		}
	}
}

// WithLogger sets the logger used during generation.
func WithLogger(logger catalog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.Logger = logger
		}
	}
}

// New creates a Generator with default settings.
func New(opts ...Option) *Generator {
	g := &Generator{
		PackageName: DefaultPackageName,
		Logger:      catalog.NopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the constants file for spec and returns formatted Go
// source.
func (g *Generator) Generate(spec *catalog.TagSpec) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// Code generated by djtagspecs. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", g.PackageName)

	used := make(map[string]string)
	for i := range spec.Libraries {
		g.writeLibrary(&buf, &spec.Libraries[i], used)
	}

	src, err := imports.Process(g.PackageName+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("generator: formatting output: %w", err)
	}

	g.Logger.Debug("generated constants",
		"package", g.PackageName,
		"libraries", len(spec.Libraries),
		"constants", len(used))
	return src, nil
}

// GenerateFile renders the constants file for spec and writes it to path.
func (g *Generator) GenerateFile(spec *catalog.TagSpec, path string) error {
	src, err := g.Generate(spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("generator: writing %s: %w", path, err)
	}
	return nil
}

func (g *Generator) writeLibrary(buf *bytes.Buffer, lib *catalog.TagLibrary, used map[string]string) {
	if len(lib.Tags) == 0 {
		return
	}

	type constant struct {
		name  string
		value string
	}
	var constants []constant

	add := func(name, value string) {
		if name == "" {
			return
		}
		if prior, taken := used[name]; taken {
			if prior == value {
				return
			}
			// A different tag already claimed the plain identifier; qualify
			// this one with its library segment.
			qualified := toConstName(lastModuleSegment(lib.Module)) + name
			if _, alsoTaken := used[qualified]; alsoTaken {
				g.Logger.Warn("skipping colliding constant", "name", name, "value", value)
				return
			}
			name = qualified
		}
		used[name] = value
		constants = append(constants, constant{name: name, value: value})
	}

	for i := range lib.Tags {
		tag := &lib.Tags[i]
		add("Tag"+toConstName(tag.Name), tag.Name)
		if tag.End != nil {
			add("Tag"+toConstName(tag.End.Name), tag.End.Name)
		}
		for j := range tag.Intermediates {
			add("Tag"+toConstName(tag.Intermediates[j].Name), tag.Intermediates[j].Name)
		}
	}

	if len(constants) == 0 {
		return
	}
	sort.Slice(constants, func(i, j int) bool { return constants[i].name < constants[j].name })

	fmt.Fprintf(buf, "// Tag names declared by %s.\n", lib.Module)
	fmt.Fprintf(buf, "const (\n")
	for _, c := range constants {
		fmt.Fprintf(buf, "\t%s = %q\n", c.name, c.value)
	}
	fmt.Fprintf(buf, ")\n\n")
}
