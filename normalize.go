package pushindexer

import "strings"

// NormalizeEmpty returns the placeholder for empty strings, so the engine
// never stores blank values. Any other input is returned unchanged.
func NormalizeEmpty(value string) string {
	if value == "" {
		return Placeholder
	}

	return value
}

// JoinList joins values with ", ". An empty list yields an empty string.
func JoinList(values []string) string {
	return strings.Join(values, ", ")
}

// BranchName returns the last "/" segment of a ref, e.g. "refs/heads/main"
// becomes "main".
func BranchName(ref string) string {
	return ref[strings.LastIndex(ref, "/")+1:]
}
