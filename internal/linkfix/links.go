package linkfix

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractRelativeLinks parses a markdown body and returns the destinations of
// inline links and images that point at relative paths. Used for diagnostics
// around repair passes; the rewrite itself stays literal.
func ExtractRelativeLinks(body []byte) []string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var dests []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		var dest string
		switch node := n.(type) {
		case *gmast.Link:
			dest = string(node.Destination)
		case *gmast.Image:
			dest = string(node.Destination)
		default:
			return gmast.WalkContinue, nil
		}
		if isRelative(dest) {
			dests = append(dests, dest)
		}
		return gmast.WalkContinue, nil
	})
	return dests
}

func isRelative(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return false
	}
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return false
	}
	return true
}
