package feed

import (
	"sort"
	"strings"
)

// treeNode is one directory or file in the rendered tree.
type treeNode struct {
	name     string
	children map[string]*treeNode
}

func (n *treeNode) child(name string) *treeNode {
	c, ok := n.children[name]
	if !ok {
		c = &treeNode{name: name, children: map[string]*treeNode{}}
		n.children[name] = c
	}
	return c
}

func (n *treeNode) isDir() bool {
	return len(n.children) > 0
}

// RenderTree renders the selected paths as a connector-style tree. Only the
// selected files and the directories on their paths appear, so the rendering
// reflects exactly what a content run would emit.
func RenderTree(records []FileRecord) string {
	root := &treeNode{children: map[string]*treeNode{}}
	for _, record := range records {
		node := root
		for _, segment := range strings.Split(record.Path, "/") {
			node = node.child(segment)
		}
	}

	var b strings.Builder
	b.WriteString("./\n")
	renderChildren(&b, root, "")
	return b.String()
}

func renderChildren(b *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}

	// Directories first, then files, alphabetically.
	sort.Slice(names, func(i, j int) bool {
		di, dj := node.children[names[i]].isDir(), node.children[names[j]].isDir()
		if di != dj {
			return di
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	for i, name := range names {
		connector := "├── "
		extension := "│   "
		if i == len(names)-1 {
			connector = "└── "
			extension = "    "
		}

		child := node.children[name]
		if child.isDir() {
			b.WriteString(prefix + connector + name + "/\n")
			renderChildren(b, child, prefix+extension)
		} else {
			b.WriteString(prefix + connector + name + "\n")
		}
	}
}
