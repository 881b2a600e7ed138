package middleware

import "strings"

// redactPath hides the path segment that follows any of the secret
// prefixes. Prefixes end with a slash.
func redactPath(path string, secretPrefixes []string) string {
	for _, prefix := range secretPrefixes {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok {
			continue
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return prefix + "***" + rest[i:]
		}
		return prefix + "***"
	}
	return path
}
