// Package djtagspecs provides tools for working with TagSpec catalogs:
// declarative documents that describe the template-tag syntax exposed by
// template engines such as Django's.
//
// A TagSpec catalog lists tag libraries, the tags they provide, and the
// grammar of each tag (arguments, intermediate tags, end tags). Catalogs may
// extend other catalogs; this module resolves the extends chain, merges the
// documents deterministically, and validates the result.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - catalog: the canonical data model, formats (TOML, JSON, JSONC, YAML),
//     and the normalizer that turns raw parsed trees into typed documents
//   - resolver: expands extends references (paths, directories, globs, and
//     pkg: locators) into ordered document locations
//   - composer: walks the extends graph, detects cycles, and produces the
//     linear merge order
//   - merger: folds an ordered document chain into one merged catalog
//   - validator: checks a merged catalog against the structural rules of
//     the TagSpec specification
//
// # Quick Start
//
// Compose and validate a catalog with its full extends chain:
//
//	import "github.com/joshuadavidthomas/djtagspecs/composer"
//
//	result, err := composer.Compose("catalog.toml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Validation.Valid {
//		for _, v := range result.Validation.Violations {
//			fmt.Println(v.String())
//		}
//	}
//
// Parse a single document without resolving extends:
//
//	import "github.com/joshuadavidthomas/djtagspecs/catalog"
//
//	spec, err := catalog.ParseWithOptions(catalog.WithFilePath("catalog.toml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Engine: %s\n", spec.Engine)
//
// # Error Handling
//
// Fatal errors (parse failures, unresolvable references, extends cycles)
// are returned as structured errors from the tserrors package and support
// errors.Is and errors.As. Structural violations found by the validator are
// accumulated in a result value rather than returned as an error, so tools
// can report every problem at once.
//
// # Command-Line Interface
//
// In addition to the library packages, djtagspecs provides a command-line
// interface:
//
//	# Validate a catalog and its extends chain
//	djtagspecs validate catalog.toml
//
//	# Resolve and merge a catalog, emitting the composed document
//	djtagspecs resolve -format json catalog.toml
//
//	# Re-emit a normalized document in another format
//	djtagspecs dump -format yaml catalog.toml
//
// Install the CLI:
//
//	go install github.com/joshuadavidthomas/djtagspecs/cmd/djtagspecs@latest
package djtagspecs
