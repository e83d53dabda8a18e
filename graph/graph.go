// Package graph holds the attributed node/edge graph written by the SourceMeter
// toolchain and the depth-first traversal used by the loader visitors.
package graph

import (
	"errors"
	"sort"
)

// Direction of an edge relative to the tree it belongs to.
type Direction int

const (
	Directional Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "directional"
}

// Edge type names used by the toolchain.
const (
	PhysicalTree  = "PhysicalTree"
	LogicalTree   = "LogicalTree"
	CloneTree     = "CloneTree"
	ComponentTree = "ComponentTree"
	Declares      = "Declares"
)

// Tree roots.
const (
	PhysicalRoot  = "__PhysicalRoot__"
	LogicalRoot   = "__LogicalRoot__"
	CloneRoot     = "__CloneRoot__"
	ComponentRoot = "__ComponentRoot__"
)

var ErrNodeNotFound = errors.New("node not found")

// AttributeType tags the value held by an Attribute.
type AttributeType string

const (
	AttrInt       AttributeType = "int"
	AttrFloat     AttributeType = "float"
	AttrString    AttributeType = "string"
	AttrComposite AttributeType = "composite"
)

// Attribute is a tagged union. Composite attributes carry children instead of a value.
type Attribute struct {
	Type     AttributeType
	Name     string
	Context  string
	Int      int
	Float    float64
	Str      string
	Children []Attribute
}

// Child returns the first direct child with the given name.
func (a Attribute) Child(name string) (Attribute, bool) {
	for _, c := range a.Children {
		if c.Name == name {
			return c, true
		}
	}
	return Attribute{}, false
}

type Edge struct {
	Type      string
	Direction Direction
	To        *Node
}

type Node struct {
	UID        string
	Type       string
	Attributes []Attribute
	Edges      []Edge
}

// Attribute returns the first attribute of the node with the given name.
func (n *Node) Attribute(name string) (Attribute, bool) {
	if n == nil {
		return Attribute{}, false
	}
	for _, a := range n.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Graph is the in-memory form of a result graph.
type Graph struct {
	nodes  map[string]*Node
	order  []string
	header map[string]string
}

func New() *Graph {
	return &Graph{
		nodes:  make(map[string]*Node),
		header: make(map[string]string),
	}
}

// AddNode registers a node, replacing any node with the same UID.
func (g *Graph) AddNode(n *Node) {
	if _, ok := g.nodes[n.UID]; !ok {
		g.order = append(g.order, n.UID)
	}
	g.nodes[n.UID] = n
}

// AddEdge links from -> to with a directional edge and to -> from with its reverse.
func (g *Graph) AddEdge(fromUID, toUID, edgeType string) error {
	from, ok := g.nodes[fromUID]
	if !ok {
		return ErrNodeNotFound
	}
	to, ok := g.nodes[toUID]
	if !ok {
		return ErrNodeNotFound
	}
	from.Edges = append(from.Edges, Edge{Type: edgeType, Direction: Directional, To: to})
	to.addEdge(Edge{Type: edgeType, Direction: Reverse, To: from})
	return nil
}

// addEdge appends e unless n already holds an identical edge.
func (n *Node) addEdge(e Edge) {
	for _, have := range n.Edges {
		if have == e {
			return
		}
	}
	n.Edges = append(n.Edges, e)
}

func (g *Graph) FindNode(uid string) *Node {
	return g.nodes[uid]
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, uid := range g.order {
		out = append(out, g.nodes[uid])
	}
	return out
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) SetHeaderInfo(key, value string) {
	g.header[key] = value
}

func (g *Graph) HeaderInfo(key string) (string, bool) {
	v, ok := g.header[key]
	return v, ok
}

// HeaderKeys returns the header keys sorted.
func (g *Graph) HeaderKeys() []string {
	keys := make([]string, 0, len(g.header))
	for k := range g.header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
