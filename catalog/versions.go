package catalog

// SpecVersion represents each published revision of the TagSpec document
// format that this library understands.
type SpecVersion int

const (
	// UnknownVersion represents an unrecognized TagSpec format version
	UnknownVersion SpecVersion = iota
	// SpecVersion010 TagSpec format version 0.1.0
	SpecVersion010
	// SpecVersion020 TagSpec format version 0.2.0
	SpecVersion020
)

// LatestSpecVersion is the newest TagSpec format version this library
// understands. Documents that omit a version are normalized to it.
const LatestSpecVersion = SpecVersion020

var (
	versionToString = map[SpecVersion]string{
		SpecVersion010: "0.1.0",
		SpecVersion020: "0.2.0",
	}

	stringToVersion = func() map[string]SpecVersion {
		m := make(map[string]SpecVersion, len(versionToString))
		for k, v := range versionToString {
			m[v] = k
		}
		return m
	}()
)

// String returns the canonical version string (e.g., "0.2.0").
// Returns "unknown" for unrecognized versions.
func (v SpecVersion) String() string {
	if s, ok := versionToString[v]; ok {
		return s
	}
	return "unknown"
}

// ParseSpecVersion maps a declared version string to its SpecVersion.
// The second return value reports whether the string named a known version.
func ParseSpecVersion(s string) (SpecVersion, bool) {
	v, ok := stringToVersion[s]
	if !ok {
		return UnknownVersion, false
	}
	return v, true
}

// SupportedVersions returns the canonical strings of every known TagSpec
// format version, oldest first.
func SupportedVersions() []string {
	out := make([]string, 0, len(versionToString))
	for v := SpecVersion010; v <= LatestSpecVersion; v++ {
		out = append(out, v.String())
	}
	return out
}
