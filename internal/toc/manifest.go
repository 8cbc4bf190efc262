package toc

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteManifest serializes the navigation tree as a nested-list YAML document
// and overwrites the manifest wholesale. Output is deterministic: the same
// tree always yields byte-identical bytes.
func WriteManifest(root *Node, manifestPath string) error {
	data, err := MarshalManifest(root)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(manifestPath), 0o750); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// MarshalManifest renders the tree as a `nav:` document. yaml.Node is used
// directly so entry order survives serialization (a map would sort keys).
func MarshalManifest(root *Node) ([]byte, error) {
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("nav"),
			sequence(root),
		},
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return data, nil
}

// sequence renders a group's children as a YAML sequence.
func sequence(group *Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	if group == nil {
		return seq
	}
	for _, child := range group.Children {
		seq.Content = append(seq.Content, entry(child))
	}
	// An empty nav renders inline as `nav: []` rather than a block scalar.
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}
	return seq
}

// entry renders one child as a single-key mapping: title to path for files,
// title to child sequence for groups.
func entry(n *Node) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	if n.IsGroup {
		m.Content = []*yaml.Node{scalar(n.Title), sequence(n)}
		return m
	}
	m.Content = []*yaml.Node{scalar(n.Title), scalar(n.Path)}
	return m
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}
