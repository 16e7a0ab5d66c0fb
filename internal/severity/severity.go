// Package severity provides severity level constants for issues reported by
// the validator and composer packages.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error
package severity

// Severity indicates the severity level of an issue found while validating
// or composing a TagSpec catalog.
type Severity int

const (
	// SeverityError indicates a structural violation that makes the
	// catalog invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates a suspicious construct that does not
	// invalidate the catalog but should be addressed.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}
