// This file implements name conversion from template-tag identifiers to
// valid Go identifiers, including reserved word escaping and PascalCase
// conversion.

package generator

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// goReservedWords contains Go reserved keywords that cannot be used as
// identifiers. Predeclared identifiers like "error" are not included since
// they can be shadowed.
var goReservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// titleCaser handles proper Unicode title casing (strings.Title is
// deprecated).
var titleCaser = cases.Title(language.English)

// escapeReservedWord appends an underscore when name is a Go keyword. The
// check is case-insensitive so PascalCase names like "Range" still escape.
func escapeReservedWord(name string) string {
	if goReservedWords[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}

// toConstName converts a tag or module identifier to a valid exported Go
// identifier in PascalCase. Words split on any non-alphanumeric rune.
func toConstName(s string) string {
	if s == "" {
		return ""
	}

	var words []string
	var current strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	var result strings.Builder
	for _, word := range words {
		result.WriteString(titleCaser.String(word))
	}

	name := result.String()
	if name == "" {
		return ""
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "T" + name
	}
	return escapeReservedWord(name)
}

// lastModuleSegment returns the final dotted segment of a module path,
// e.g. "defaulttags" for "django.template.defaulttags".
func lastModuleSegment(module string) string {
	if i := strings.LastIndex(module, "."); i >= 0 {
		return module[i+1:]
	}
	return module
}
