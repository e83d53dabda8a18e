package visitor

import (
	"strings"
	"time"

	"github.com/TFMV/surrealmeter/graph"
)

// ComponentVisitor saves the metrics of the system component on the project.
type ComponentVisitor struct {
	base
	found bool
}

func NewComponentVisitor(h *Helper, total int) *ComponentVisitor {
	return &ComponentVisitor{base: newBase(h, total)}
}

// Found reports whether the system component was visited.
func (v *ComponentVisitor) Found() bool { return v.found }

func (v *ComponentVisitor) PreNode(n *graph.Node) error {
	l := v.helper.lang
	name, _ := graph.Name(n)
	if n.Type != l.SystemType || name != l.SystemName {
		return nil
	}
	defer v.track(time.Now())

	v.found = true
	project := v.helper.ctx.Project().Key
	for _, a := range n.Attributes {
		if a.Context == "metric" || a.Context == "metricgroup" {
			v.helper.UploadMetrics(a, project)
		}
	}
	return nil
}

// IncludedFilesVisitor collects the lowercase slash separated paths of the
// file nodes of the physical tree.
type IncludedFilesVisitor struct {
	graph.NopVisitor
	files map[string]bool
}

func NewIncludedFilesVisitor() *IncludedFilesVisitor {
	return &IncludedFilesVisitor{files: make(map[string]bool)}
}

func (v *IncludedFilesVisitor) PreNode(n *graph.Node) error {
	if n.Type != "File" {
		return nil
	}
	if longName, ok := graph.LongName(n); ok {
		v.files[strings.ToLower(strings.ReplaceAll(longName, `\`, "/"))] = true
	}
	return nil
}

func (v *IncludedFilesVisitor) Files() map[string]bool {
	return v.files
}

// NodeCounter counts the nodes of a tree.
type NodeCounter struct {
	graph.NopVisitor
	count int
}

func (c *NodeCounter) PreNode(*graph.Node) error {
	c.count++
	return nil
}

func (c *NodeCounter) Count() int { return c.count }

// CountNodes returns the number of nodes below root along edgeType, or 0 when
// root is missing.
func CountNodes(g *graph.Graph, root, edgeType string) int {
	n := g.FindNode(root)
	if n == nil {
		return 0
	}
	var c NodeCounter
	_ = graph.TraverseDepthFirst(n, edgeType, &c)
	return c.Count()
}
