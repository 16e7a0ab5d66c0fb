// Package validator checks a composed TagSpec document against its
// structural invariants.
//
// Validation always runs the full document and accumulates every finding,
// so a single pass tells a catalog author everything that is wrong. The
// result is a value, never an error: violations make Result.Valid false,
// warnings do not.
package validator

import (
	"fmt"

	"github.com/joshuadavidthomas/djtagspecs/catalog"
	"github.com/joshuadavidthomas/djtagspecs/internal/issues"
	"github.com/joshuadavidthomas/djtagspecs/internal/severity"
	"github.com/joshuadavidthomas/djtagspecs/tserrors"
)

// Severity indicates the severity level of a validation finding
type Severity = severity.Severity

const (
	// SeverityError indicates a structural violation that makes the document invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a finding that does not invalidate the document
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

// Violation represents a single validation finding
type Violation = issues.Issue

// Violation codes, stable identifiers for programmatic filtering.
const (
	// CodeDuplicateModule flags two libraries declaring the same module
	CodeDuplicateModule = "duplicate-module"
	// CodeMissingName flags a library, tag, or intermediate without a name
	CodeMissingName = "missing-name"
	// CodeMissingType flags a tag without a type
	CodeMissingType = "missing-type"
	// CodeInvalidEndTag flags an explicit end tag without a name
	CodeInvalidEndTag = "invalid-end-tag"
	// CodeStandaloneWithBlockFields flags a standalone tag declaring an end
	// tag or intermediates
	CodeStandaloneWithBlockFields = "standalone-with-block-fields"
	// CodeInvalidIntermediateRange flags a negative min/max or max below min
	CodeInvalidIntermediateRange = "invalid-intermediate-range"
	// CodeDuplicateTagIdentity flags two tags sharing engine, module, and name
	CodeDuplicateTagIdentity = "duplicate-tag-identity"
	// CodeDuplicateArgName flags repeated argument names within one list
	CodeDuplicateArgName = "duplicate-arg-name"
	// CodeMultipleLastPosition flags more than one intermediate with
	// position "last" on the same tag
	CodeMultipleLastPosition = "multiple-last-position"
	// CodeUnknownTagType flags a tag type outside block, loader, standalone
	CodeUnknownTagType = "unknown-tag-type"
)

// Result contains the outcome of validating a document
type Result struct {
	// Valid is true if no violations were found (warnings are allowed)
	Valid bool
	// Violations contains all structural violations
	Violations []Violation
	// Warnings contains all non-fatal findings
	Warnings []Violation
	// ViolationCount is the total number of violations
	ViolationCount int
	// WarningCount is the total number of warnings
	WarningCount int
}

// Err returns nil for a valid result and an error matching
// tserrors.ErrValidation otherwise.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &tserrors.ValidationFailedError{Count: r.ViolationCount}
}

// Validator checks composed documents. The zero value is usable;
// configure it through options on New.
type Validator struct {
	// IncludeWarnings determines whether non-fatal findings are collected
	IncludeWarnings bool
	// Logger receives validation progress at debug level
	Logger catalog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used during validation.
func WithLogger(logger catalog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.Logger = logger
		}
	}
}

// WithWarnings controls whether non-fatal findings are collected.
// Enabled by default.
func WithWarnings(include bool) Option {
	return func(v *Validator) {
		v.IncludeWarnings = include
	}
}

// New creates a Validator with default settings.
func New(opts ...Option) *Validator {
	v := &Validator{
		IncludeWarnings: true,
		Logger:          catalog.NopLogger{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks spec with a default Validator.
func Validate(spec *catalog.TagSpec) *Result {
	return New().Validate(spec)
}

// Validate checks spec against the structural invariants and returns every
// finding. Validate never fails partway; the result covers the whole
// document.
func (v *Validator) Validate(spec *catalog.TagSpec) *Result {
	result := &Result{}

	seenModules := make(map[string]string, len(spec.Libraries))
	seenTags := make(map[string]string)

	for i := range spec.Libraries {
		lib := &spec.Libraries[i]
		path := elemPath("libraries", i, lib.Module)

		if lib.Module == "" {
			v.addError(result, path, "library module is required",
				withField("module"), withCode(CodeMissingName))
		} else if first, dup := seenModules[lib.Module]; dup {
			v.addError(result, path,
				fmt.Sprintf("module %q already declared at %s", lib.Module, first),
				withField("module"), withValue(lib.Module), withCode(CodeDuplicateModule))
		} else {
			seenModules[lib.Module] = path
		}

		for j := range lib.Tags {
			v.validateTag(result, spec, lib, &lib.Tags[j], seenTags, path, j)
		}
	}

	result.Valid = len(result.Violations) == 0
	result.ViolationCount = len(result.Violations)
	result.WarningCount = len(result.Warnings)

	v.logger().Debug("validated document",
		"libraries", len(spec.Libraries),
		"violations", result.ViolationCount,
		"warnings", result.WarningCount)
	return result
}

func (v *Validator) validateTag(result *Result, spec *catalog.TagSpec, lib *catalog.TagLibrary, tag *catalog.Tag, seenTags map[string]string, libPath string, idx int) {
	path := libPath + "." + elemPath("tags", idx, tag.Name)

	if tag.Name == "" {
		v.addError(result, path, "tag name is required",
			withField("name"), withCode(CodeMissingName))
	} else {
		identity := spec.Engine + "\x00" + lib.Module + "\x00" + tag.Name
		if first, dup := seenTags[identity]; dup {
			v.addError(result, path,
				fmt.Sprintf("tag %q already declared at %s", tag.Name, first),
				withField("name"), withValue(tag.Name), withCode(CodeDuplicateTagIdentity))
		} else {
			seenTags[identity] = path
		}
	}

	switch tag.Type {
	case "":
		v.addError(result, path, "tag type is required",
			withField("type"), withCode(CodeMissingType))
	case catalog.TagTypeBlock, catalog.TagTypeLoader, catalog.TagTypeStandalone:
	default:
		// Unrecognized values survive parse and merge untouched for
		// forward compatibility, so they only warn here.
		v.addWarning(result, path,
			fmt.Sprintf("tag type %q is not one of block, loader, standalone", tag.Type),
			withField("type"), withValue(string(tag.Type)), withCode(CodeUnknownTagType))
	}

	if tag.Type == catalog.TagTypeStandalone {
		if tag.End != nil {
			v.addError(result, path, "standalone tag cannot declare an end tag",
				withField("end"), withCode(CodeStandaloneWithBlockFields))
		}
		if len(tag.Intermediates) > 0 {
			v.addError(result, path, "standalone tag cannot declare intermediates",
				withField("intermediates"), withCode(CodeStandaloneWithBlockFields))
		}
	}

	v.validateArgList(result, path, "args", tag.Args)

	if tag.End != nil {
		if tag.End.Name == "" {
			v.addError(result, path+".end", "end tag name is required",
				withField("name"), withCode(CodeInvalidEndTag))
		}
		v.validateArgList(result, path+".end", "args", tag.End.Args)
	}

	lastCount := 0
	for k := range tag.Intermediates {
		im := &tag.Intermediates[k]
		imPath := path + "." + elemPath("intermediates", k, im.Name)

		if im.Name == "" {
			v.addError(result, imPath, "intermediate name is required",
				withField("name"), withCode(CodeMissingName))
		}
		if im.Position == catalog.PositionLast {
			lastCount++
		}
		v.validateRange(result, imPath, im.Min, im.Max)
		v.validateArgList(result, imPath, "args", im.Args)
	}
	if lastCount > 1 {
		v.addError(result, path,
			fmt.Sprintf("%d intermediates declare position \"last\", at most one is allowed", lastCount),
			withField("intermediates"), withCode(CodeMultipleLastPosition))
	}
}

// validateRange checks min/max bounds: both non-negative, max >= min when
// both are present.
func (v *Validator) validateRange(result *Result, path string, min, max *int) {
	if min != nil && *min < 0 {
		v.addError(result, path, fmt.Sprintf("min cannot be negative, got %d", *min),
			withField("min"), withValue(*min), withCode(CodeInvalidIntermediateRange))
	}
	if max != nil && *max < 0 {
		v.addError(result, path, fmt.Sprintf("max cannot be negative, got %d", *max),
			withField("max"), withValue(*max), withCode(CodeInvalidIntermediateRange))
	}
	if min != nil && max != nil && *max < *min {
		v.addError(result, path, fmt.Sprintf("max %d is below min %d", *max, *min),
			withField("max"), withValue(*max), withCode(CodeInvalidIntermediateRange))
	}
}

// validateArgList checks one argument list for duplicate names. Each list
// (opener, end, per-intermediate) is independent.
func (v *Validator) validateArgList(result *Result, path, field string, args []catalog.TagArg) {
	seen := make(map[string]bool, len(args))
	for i := range args {
		name := args[i].Name
		if name == "" {
			v.addError(result, fmt.Sprintf("%s.%s[%d]", path, field, i),
				"argument name is required",
				withField("name"), withCode(CodeMissingName))
			continue
		}
		if seen[name] {
			v.addError(result, fmt.Sprintf("%s.%s[%s]", path, field, name),
				fmt.Sprintf("argument %q declared more than once", name),
				withField("name"), withValue(name), withCode(CodeDuplicateArgName))
		}
		seen[name] = true
	}
}

// addError appends a violation to the result.
func (v *Validator) addError(result *Result, path, message string, opts ...func(*Violation)) {
	violation := Violation{
		Path:     path,
		Message:  message,
		Severity: SeverityError,
	}
	for _, opt := range opts {
		opt(&violation)
	}
	result.Violations = append(result.Violations, violation)
}

// addWarning appends a non-fatal finding to the result.
func (v *Validator) addWarning(result *Result, path, message string, opts ...func(*Violation)) {
	if !v.IncludeWarnings {
		return
	}
	warning := Violation{
		Path:     path,
		Message:  message,
		Severity: SeverityWarning,
	}
	for _, opt := range opts {
		opt(&warning)
	}
	result.Warnings = append(result.Warnings, warning)
}

// withField sets the Field on a Violation.
func withField(field string) func(*Violation) {
	return func(v *Violation) { v.Field = field }
}

// withValue sets the Value on a Violation.
func withValue(value any) func(*Violation) {
	return func(v *Violation) { v.Value = value }
}

// withCode sets the Code on a Violation.
func withCode(code string) func(*Violation) {
	return func(v *Violation) { v.Code = code }
}

// elemPath renders a list element path segment, preferring the element's
// identity over its index when it has one.
func elemPath(field string, idx int, name string) string {
	if name != "" {
		return fmt.Sprintf("%s[%s]", field, name)
	}
	return fmt.Sprintf("%s[%d]", field, idx)
}

func (v *Validator) logger() catalog.Logger {
	if v.Logger == nil {
		return catalog.NopLogger{}
	}
	return v.Logger
}
