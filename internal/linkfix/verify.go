package linkfix

import (
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// BrokenLink is a relative link whose target does not exist on disk.
type BrokenLink struct {
	File        string // Path of the referencing markdown file
	Destination string // Link destination as written
}

// Verify walks markdown files under destRoot and reports relative links whose
// targets are missing after repair. Diagnostic only: broken links that no
// rule covers are surfaced for maintainers, never failed on.
func Verify(destRoot string) ([]BrokenLink, error) {
	var broken []BrokenLink
	err := filepath.WalkDir(destRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdownFile(path) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, dest := range ExtractRelativeLinks(content) {
			target := dest
			if i := strings.IndexAny(target, "#?"); i >= 0 {
				target = target[:i]
			}
			if target == "" {
				continue
			}
			if unescaped, uerr := url.PathUnescape(target); uerr == nil {
				target = unescaped
			}
			resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))
			if _, serr := os.Stat(resolved); serr != nil {
				broken = append(broken, BrokenLink{File: path, Destination: dest})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}
