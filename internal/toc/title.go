package toc

import (
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NoLower keeps existing capitals so acronyms like API survive title casing.
var titleCaser = cases.Title(language.English, cases.NoLower)

// ExtractTitle returns the text of the first level-1 heading in a markdown
// body. The second return is false when no such heading exists and the
// caller must fall back to a filename-derived title.
func ExtractTitle(body []byte) (string, bool) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		heading, ok := n.(*gmast.Heading)
		if !ok || heading.Level != 1 {
			return gmast.WalkContinue, nil
		}
		title = headingText(heading, body)
		return gmast.WalkStop, nil
	})

	title = strings.TrimSpace(title)
	return title, title != ""
}

// headingText concatenates the plain text of a heading, ignoring inline
// markup nodes around it.
func headingText(heading gmast.Node, source []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(heading, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := n.(*gmast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return gmast.WalkContinue, nil
	})
	return sb.String()
}

// TitleFromFilename derives a display title from a file or directory name:
// extension stripped, separators spaced, title case.
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return titleCaser.String(strings.TrimSpace(base))
}
