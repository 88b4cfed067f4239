package usecases

import "strings"

// EvaluateDirty computes the noise-filtered working-tree cleanliness flag.
// Staged changes always count. Unstaged changes under the ignorable prefix
// are dropped before the check, so environment-local noise does not raise
// false dirty signals for CI builds running outside a normal working copy.
func EvaluateDirty(staged, unstaged []string, ignorePrefix string) bool {
	if len(staged) > 0 {
		return true
	}
	for _, path := range unstaged {
		if ignorePrefix != "" && strings.HasPrefix(path, ignorePrefix) {
			continue
		}
		return true
	}
	return false
}
