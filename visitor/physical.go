package visitor

import (
	"time"

	"github.com/TFMV/surrealmeter/graph"
)

// PhysicalVisitor uploads the metrics and warnings of the source file nodes of
// the physical tree.
type PhysicalVisitor struct {
	base
}

func NewPhysicalVisitor(h *Helper, total int) *PhysicalVisitor {
	return &PhysicalVisitor{base: newBase(h, total)}
}

func (v *PhysicalVisitor) PreNode(n *graph.Node) error {
	if v.empty || n.Type != v.helper.lang.PhysicalFileType() {
		return nil
	}
	defer v.track(time.Now())

	path, ok := graph.LongName(n)
	if !ok || v.helper.lang.FileType != "" {
		path = v.helper.PathFromNode(n)
	}
	file, ok := v.helper.ctx.FileForPath(path)
	if !ok {
		return nil
	}
	v.uploadMetricsAndWarnings(n, file, false)
	return nil
}
