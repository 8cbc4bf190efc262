// Package toc rebuilds the navigation manifest from the destination tree.
// Every run is a full rebuild and full overwrite: the manifest is a pure
// function of the tree, so it can never carry orphaned or missing entries.
package toc

// Node is one entry in the navigation tree: a markdown file or a directory
// group. Built fresh on every generation, never persisted incrementally.
type Node struct {
	Title    string
	Path     string  // Slash path relative to the destination root; empty for groups
	Children []*Node // Ordered; non-nil only for groups
	IsGroup  bool
}

// EntryCount returns the number of file entries in the subtree.
func (n *Node) EntryCount() int {
	if !n.IsGroup {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.EntryCount()
	}
	return count
}

// Flatten returns the paths of all file entries, depth-first.
func (n *Node) Flatten() []string {
	if !n.IsGroup {
		return []string{n.Path}
	}
	var paths []string
	for _, c := range n.Children {
		paths = append(paths, c.Flatten()...)
	}
	return paths
}
