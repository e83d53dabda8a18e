package visitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/types"
)

const disappearingSmell = "cstDisappearing"

// CloneVisitor indexes clone classes and instances and builds the duplication
// groups of the files they touch.
type CloneVisitor struct {
	base
}

func NewCloneVisitor(h *Helper, total int) *CloneVisitor {
	return &CloneVisitor{base: newBase(h, total)}
}

func isDisappearing(n *graph.Node) bool {
	a, ok := n.Attribute("CloneSmellType")
	return ok && a.Type == graph.AttrString && a.Str == disappearingSmell
}

func (v *CloneVisitor) key(n *graph.Node) string {
	return v.helper.ctx.ChildKey(n.UID)
}

func (v *CloneVisitor) PreNode(n *graph.Node) error {
	if v.empty || isDisappearing(n) {
		return nil
	}
	defer v.track(time.Now())

	ctx := v.helper.ctx
	name, _ := graph.Name(n)

	var parentPath string
	var kind types.ResourceKind
	switch n.Type {
	case "CloneClass":
		first := v.collectCloneClass(n)
		if first == nil {
			return nil
		}
		parentPath = v.helper.PathFromNode(first)
		kind = types.KindCloneClass
	case "CloneInstance":
		if graph.FirstPosition(n) == nil {
			return nil
		}
		parentPath = v.helper.PathFromNode(n)
		kind = types.KindCloneInstance
	default:
		return nil
	}

	file, ok := ctx.FileForPath(parentPath)
	if !ok {
		return nil
	}
	r := types.Resource{
		Key:       v.key(n),
		Name:      name,
		LongName:  name,
		Kind:      kind,
		Path:      file.Path,
		ParentKey: file.Key,
	}
	ctx.Index(r)
	res, _ := ctx.Resource(r.Key)

	v.uploadMetricsAndWarnings(n, res, false)
	return nil
}

// collectCloneClass records the duplication group of a clone class on every
// file holding one of its instances and returns the first instance node.
func (v *CloneVisitor) collectCloneClass(n *graph.Node) *graph.Node {
	ctx := v.helper.ctx
	instances := graph.NodesByEdgeType(n, graph.CloneTree, graph.Directional)

	var b strings.Builder
	fmt.Fprintf(&b, `<g c="%s">`, v.key(n))
	var files []string
	for _, inst := range instances {
		if inst == nil || isDisappearing(inst) {
			continue
		}
		pos := graph.FirstPosition(inst)
		if pos == nil {
			continue
		}
		file, ok := ctx.FileForPath(pos.Path)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, `<b c="%s" s="%d" l="%d" r="%s"/>`, v.key(inst), pos.Line, pos.EndLine-pos.Line, file.Key)
		files = append(files, file.Key)
	}
	b.WriteString("</g>")

	group := b.String()
	for _, f := range files {
		ctx.AddDuplication(f, group)
	}

	if len(instances) == 0 {
		return nil
	}
	return instances[0]
}
