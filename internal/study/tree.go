package study

import "errors"

// SkipChildren can be returned by a WalkFunc to skip the node's subtree.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every visited node with its depth (root = 0).
type WalkFunc func(node *MindMapNode, depth int) error

// Walk traverses the tree rooted at root depth-first in pre-order, calling
// fn once per node. Walk stops at the first error other than SkipChildren
// and returns it.
func Walk(root *MindMapNode, fn WalkFunc) error {
	if root == nil {
		return nil
	}
	err := walk(root, 0, fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walk(node *MindMapNode, depth int, fn WalkFunc) error {
	if err := fn(node, depth); err != nil {
		return err
	}
	for i := range node.Children {
		err := walk(&node.Children[i], depth+1, fn)
		if err != nil && !errors.Is(err, SkipChildren) {
			return err
		}
	}
	return nil
}

// NodeAt is a render instruction: a node and its depth in the tree.
type NodeAt struct {
	Node  *MindMapNode
	Depth int
}

// Flatten returns the nodes of the tree in Walk order.
func Flatten(root *MindMapNode) []NodeAt {
	var out []NodeAt
	_ = Walk(root, func(n *MindMapNode, depth int) error {
		out = append(out, NodeAt{Node: n, Depth: depth})
		return nil
	})
	return out
}

// CountNodes returns the number of nodes in the tree.
func CountNodes(root *MindMapNode) int {
	n := 0
	_ = Walk(root, func(*MindMapNode, int) error {
		n++
		return nil
	})
	return n
}

// Depth returns the number of levels in the tree: 1 for a lone root,
// 0 for a nil root.
func Depth(root *MindMapNode) int {
	max := 0
	_ = Walk(root, func(_ *MindMapNode, depth int) error {
		if depth+1 > max {
			max = depth + 1
		}
		return nil
	})
	return max
}
