// Package pattern selects build files with glob patterns.
//
// A pattern without a slash is matched against the base name of a path, so
// "*.html" selects every html file of the tree. A pattern holding a slash is
// matched against the whole source-relative path and understands "**".
// A leading "!" turns a pattern into an exclusion.
package pattern

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// FromExtnames turns bare extensions into base name patterns ("js" -> "*.js").
func FromExtnames(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, "*."+ext)
	}
	return out
}

// Match reports whether p matches at least one positive pattern and none of
// the negated ones. p must use forward slashes.
func Match(p string, patterns []string) bool {
	matched := false
	for _, pat := range patterns {
		if strings.HasPrefix(pat, "!") {
			if matchOne(p, pat[1:]) {
				return false
			}
			continue
		}
		if !matched && matchOne(p, pat) {
			matched = true
		}
	}
	return matched
}

func matchOne(p, pat string) bool {
	pat = strings.TrimPrefix(pat, "./")
	if pat == "" {
		return false
	}

	name := p
	if !strings.Contains(pat, "/") {
		name = path.Base(p)
	}

	ok, err := doublestar.Match(pat, name)
	return err == nil && ok
}
