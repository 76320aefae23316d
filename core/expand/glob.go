package expand

import (
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Glob matches pattern against the filesystem. A pattern that matches
// nothing, or isn't a valid pattern, is returned unchanged.
func Glob(fs afero.Fs, pattern string) []string {
	if !strings.ContainsAny(pattern, `*?[`) {
		return []string{pattern}
	}

	matches, err := afero.Glob(fs, pattern)
	if err != nil || len(matches) == 0 {
		return []string{pattern}
	}

	sort.Strings(matches)
	return matches
}
