package git

import (
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// Exists reports whether any candidate directory carries a .git marker.
// Candidates are probed in order; presence of any one is sufficient.
// Empty candidates are skipped. Both gitdir directories and gitfile
// worktree markers satisfy the probe.
func Exists(candidateDirs ...string) bool {
	for _, dir := range candidateDirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, gogit.GitDirName)); err == nil {
			return true
		}
	}
	return false
}
