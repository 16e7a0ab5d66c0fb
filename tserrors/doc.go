// Package tserrors provides structured error types for the djtagspecs library.
//
// Import path: github.com/joshuadavidthomas/djtagspecs/tserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides four core error types:
//
//   - [ParseError]: TOML/JSON/YAML parsing failures and structurally invalid field values
//   - [UnknownVersionError]: a document declaring an unrecognized TagSpec version
//   - [ResolutionError]: extends references that cannot be located or read
//   - [CycleError]: extends graphs that revisit a document still being resolved
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrUnknownVersion]: Matches any [UnknownVersionError]
//   - [ErrResolution]: Matches any [ResolutionError]
//   - [ErrCycle]: Matches any [CycleError]
//
// All four kinds are fatal to a composition run: the composer never returns
// a partially merged document alongside one of these errors. Structural
// validation problems are not errors in this sense at all; the validator
// accumulates them in its result value instead.
//
// # Usage with errors.As
//
//	result, err := composer.Compose("catalog.toml")
//	if err != nil {
//	    var cycleErr *tserrors.CycleError
//	    if errors.As(err, &cycleErr) {
//	        fmt.Println("extends cycle:", strings.Join(cycleErr.Chain, " -> "))
//	    }
//	}
package tserrors
