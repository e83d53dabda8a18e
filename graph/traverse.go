package graph

import (
	"go.uber.org/zap"
)

// Visitor receives callbacks during a depth-first traversal.
type Visitor interface {
	PreNode(n *Node) error
	PostNode(n *Node) error
	Edge(from *Node, e Edge) error
}

// TraverseDepthFirst walks the tree spanned by the directional edges of edgeType.
// Every node is visited at most once.
func TraverseDepthFirst(root *Node, edgeType string, v Visitor) error {
	visited := make(map[*Node]bool)
	return traverse(root, edgeType, v, visited)
}

func traverse(n *Node, edgeType string, v Visitor, visited map[*Node]bool) error {
	visited[n] = true
	if err := v.PreNode(n); err != nil {
		return err
	}
	for _, e := range n.Edges {
		if e.Type != edgeType || e.Direction != Directional || e.To == nil {
			continue
		}
		if err := v.Edge(n, e); err != nil {
			return err
		}
		if visited[e.To] {
			continue
		}
		if err := traverse(e.To, edgeType, v, visited); err != nil {
			return err
		}
	}
	return v.PostNode(n)
}

// ProcessGraph traverses the tree below the node with UID root. A missing root is
// logged and skipped.
func ProcessGraph(g *Graph, root, edgeType string, v Visitor, log *zap.Logger) error {
	rootNode := g.FindNode(root)
	if rootNode == nil {
		log.Warn("TreeRoot [" + root + "] not found!")
		return nil
	}
	return TraverseDepthFirst(rootNode, edgeType, v)
}

// NopVisitor implements Visitor with no-ops and is meant to be embedded.
type NopVisitor struct{}

func (NopVisitor) PreNode(*Node) error    { return nil }
func (NopVisitor) PostNode(*Node) error   { return nil }
func (NopVisitor) Edge(*Node, Edge) error { return nil }
