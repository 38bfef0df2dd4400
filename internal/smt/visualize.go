package smt

import (
	"fmt"
	"strings"
)

// Visualize renders an ASCII tree of digests rooted at the tree's root,
// stopping descent once maxDepth levels have been printed (a full depth-20
// tree has over a million leaves; nobody wants that on a terminal). A
// maxDepth <= 0 renders the whole tree, which is only sane for small test
// trees.
func (t *Tree) Visualize(maxDepth int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tree (depth=%d, leaves=%d)\n\n", t.depth, len(t.leaves))
	visualizeNode(t.root, "", true, maxDepth, &sb)
	return sb.String()
}

func visualizeNode(n *Node, prefix string, isLast bool, remaining int, sb *strings.Builder) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	sb.WriteString(prefix + connector)

	n.mu.Lock()
	digest := n.digest
	isLeaf := n.isLeaf
	lastWriter := n.lastWriter
	n.mu.Unlock()

	label := n.key
	if label == "" {
		label = "root"
	}
	fmt.Fprintf(sb, "%s  %x", label, digest[:6])
	if lastWriter != noWriter {
		fmt.Fprintf(sb, "  (writer t%d#%d)", lastWriter.ThreadID, lastWriter.Seq)
	}
	sb.WriteByte('\n')

	if isLeaf || remaining == 1 {
		if !isLeaf {
			sb.WriteString(prefix + "    ...\n")
		}
		return
	}

	childPrefix := prefix + "│   "
	if isLast {
		childPrefix = prefix + "    "
	}
	nextRemaining := remaining - 1
	if remaining <= 0 {
		nextRemaining = remaining
	}
	visualizeNode(n.left, childPrefix, false, nextRemaining, sb)
	visualizeNode(n.right, childPrefix, true, nextRemaining, sb)
}

// PathTo renders only the root-to-leaf path for key, the interactive
// inspector's "path" command.
func (t *Tree) PathTo(key string) (string, error) {
	leaf, err := t.leafNode(key)
	if err != nil {
		return "", err
	}

	var nodes []*Node
	for n := leaf; n != nil; n = n.parent {
		nodes = append(nodes, n)
	}

	var sb strings.Builder
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		n.mu.Lock()
		digest := n.digest
		n.mu.Unlock()
		label := n.key
		if label == "" {
			label = "root"
		}
		fmt.Fprintf(&sb, "%s%s  %x\n", strings.Repeat("  ", len(nodes)-1-i), label, digest[:8])
	}
	return sb.String(), nil
}
