package stinger

import (
	"sort"

	"cuelang.org/go/cue"
)

// FormatVersionKey is the top-level field holding the document format.
const FormatVersionKey = "stingeripc"

// CurrentFormatVersion is the format written by this tool.
const CurrentFormatVersion = "0.0.2"

// supportedFormats is the compatibility table. Adding a format is a data
// change here; nothing else needs to know about it until its rules differ.
var supportedFormats = map[string]struct{}{
	"0.0.2": {},
}

// SupportedFormatVersions returns the accepted format versions, sorted.
func SupportedFormatVersions() []string {
	out := make([]string, 0, len(supportedFormats))
	for v := range supportedFormats {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// IsSupportedFormatVersion reports whether v is in the compatibility table.
func IsSupportedFormatVersion(v string) bool {
	_, ok := supportedFormats[v]
	return ok
}

// formatVersion reads the version out of the format field. It accepts the
// bare form (stingeripc: "0.0.2") and the object form
// (stingeripc: {version: "0.0.2"}).
func formatVersion(v cue.Value) (string, error) {
	target := v
	if isStruct(v) {
		target = lookup(v, "version")
		if !target.Exists() {
			return "", newError(CodeMissingFormatVersion, FormatVersionKey, v.Pos(),
				"missing 'version' in %q format object", FormatVersionKey)
		}
	}

	version, ok := scalarText(target)
	if !ok {
		version = fmtValue(target)
	}
	if !IsSupportedFormatVersion(version) {
		return "", newError(CodeUnsupportedFormatVersion, FormatVersionKey, target.Pos(),
			"unsupported stinger format version: %s", version)
	}
	return version, nil
}
