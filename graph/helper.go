package graph

// RealizationLevel distinguishes C/C++ declarations from definitions.
type RealizationLevel string

const (
	Declaration RealizationLevel = "declaration"
	Definition  RealizationLevel = "definition"
)

// Position is the source range of a node.
type Position struct {
	Path             string
	Line             int
	Column           int
	EndLine          int
	EndColumn        int
	RealizationLevel RealizationLevel
}

// PositionFromAttribute reads a composite Position attribute.
func PositionFromAttribute(a Attribute) Position {
	p := Position{RealizationLevel: Declaration}
	for _, c := range a.Children {
		switch c.Name {
		case "Path":
			p.Path = c.Str
		case "Line":
			p.Line = c.Int
		case "Column":
			p.Column = c.Int
		case "EndLine":
			p.EndLine = c.Int
		case "EndColumn":
			p.EndColumn = c.Int
		case "RealizationLevel":
			if c.Str == string(Definition) {
				p.RealizationLevel = Definition
			}
		}
	}
	return p
}

// FirstPosition returns the first Position attribute of n, or nil.
func FirstPosition(n *Node) *Position {
	a, ok := n.Attribute("Position")
	if !ok || a.Type != AttrComposite {
		return nil
	}
	p := PositionFromAttribute(a)
	return &p
}

// Positions returns every Position attribute of n.
func Positions(n *Node) []Position {
	var out []Position
	for _, a := range n.Attributes {
		if a.Name == "Position" && a.Type == AttrComposite {
			out = append(out, PositionFromAttribute(a))
		}
	}
	return out
}

func stringAttribute(n *Node, name string) (string, bool) {
	a, ok := n.Attribute(name)
	if !ok || a.Type != AttrString {
		return "", false
	}
	return a.Str, true
}

func Name(n *Node) (string, bool)     { return stringAttribute(n, "Name") }
func LongName(n *Node) (string, bool) { return stringAttribute(n, "LongName") }
func TUID(n *Node) (string, bool)     { return stringAttribute(n, "TUID") }

// IsClass reports whether n is a class-like node.
func IsClass(n *Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case "Class", "Interface", "Enum", "Structure", "Union", "Annotation":
		return true
	}
	return false
}

// ParentNode follows the reverse LogicalTree edge.
func ParentNode(n *Node) *Node {
	for _, e := range n.Edges {
		if e.Type == LogicalTree && e.Direction == Reverse {
			return e.To
		}
	}
	return nil
}

// DeclaresNode returns the definition a declaration points to.
func DeclaresNode(n *Node) *Node {
	for _, e := range n.Edges {
		if e.Type == Declares && e.Direction == Directional {
			return e.To
		}
	}
	return nil
}

// NodesByEdgeType returns the targets of n's edges with the given type and direction.
func NodesByEdgeType(n *Node, edgeType string, dir Direction) []*Node {
	var out []*Node
	for _, e := range n.Edges {
		if e.Type == edgeType && e.Direction == dir {
			out = append(out, e.To)
		}
	}
	return out
}

// FindNodes returns all nodes of the given type in insertion order.
func FindNodes(g *Graph, nodeType string) []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if n.Type == nodeType {
			out = append(out, n)
		}
	}
	return out
}
