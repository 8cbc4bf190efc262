// Package gitinfo reads provenance from local git work trees. It never
// touches the network; sources are refreshed by an external process.
package gitinfo

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// Head returns the HEAD commit hash of the repository containing dir.
// Returns an error if dir is not inside a git work tree.
func Head(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", dir, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD at %s: %w", dir, err)
	}
	return ref.Hash().String(), nil
}
