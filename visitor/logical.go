package visitor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
	"go.uber.org/zap"
)

var ErrMissingTUID = errors.New("node has no TUID attribute")

// LogicalOptions are read from sm.<lang>.uploadMethods and sm.<lang>.skipTUID.
type LogicalOptions struct {
	UploadMethods bool
	SkipTUID      bool
}

// LogicalVisitor indexes the class and method resources of the logical tree.
type LogicalVisitor struct {
	base
	opts LogicalOptions
	log  *zap.Logger

	// functions counts the methods and functions defined per file key.
	functions map[string]int
	// undefined holds the keys of C++ declarations without a definition,
	// by node type and long name.
	undefined map[string]string
}

func NewLogicalVisitor(h *Helper, total int, opts LogicalOptions, log *zap.Logger) *LogicalVisitor {
	return &LogicalVisitor{
		base:      newBase(h, total),
		opts:      opts,
		log:       log,
		functions: make(map[string]int),
		undefined: make(map[string]string),
	}
}

// Functions returns the number of methods and functions found per file key.
func (v *LogicalVisitor) Functions() map[string]int {
	return v.functions
}

func (v *LogicalVisitor) PreNode(n *graph.Node) error {
	if v.empty || n.UID == graph.LogicalRoot {
		return nil
	}
	defer v.track(time.Now())

	if v.helper.lang.Logical == lang.LogicalCpp {
		return v.visitCpp(n)
	}
	return v.visit(n)
}

func (v *LogicalVisitor) isClass(n *graph.Node) bool {
	return n != nil && (graph.IsClass(n) || v.helper.lang.IsLevelType(2, n.Type))
}

func (v *LogicalVisitor) isMethod(n *graph.Node) bool {
	return n != nil && v.helper.lang.IsLevelType(3, n.Type)
}

// enclosingClass walks up the logical tree to the nearest class-like node.
func (v *LogicalVisitor) enclosingClass(n *graph.Node) *graph.Node {
	for p := graph.ParentNode(n); p != nil; p = graph.ParentNode(p) {
		if v.isClass(p) {
			return p
		}
		if p.UID == graph.LogicalRoot {
			return nil
		}
	}
	return nil
}

func (v *LogicalVisitor) missingTUID(n *graph.Node) error {
	longName, _ := graph.LongName(n)
	if v.opts.SkipTUID {
		v.log.Warn("A node has no TUID attribute",
			zap.String("type", n.Type),
			zap.String("long_name", longName),
			zap.String("uid", n.UID))
		return nil
	}
	return fmt.Errorf("%w: %s %s, UID: %s", ErrMissingTUID, n.Type, longName, n.UID)
}

func (v *LogicalVisitor) visit(n *graph.Node) error {
	name, ok := graph.Name(n)
	if !ok || name == graph.LogicalRoot {
		return nil
	}
	pos := graph.FirstPosition(n)
	if pos == nil {
		return nil
	}
	tuid, ok := graph.TUID(n)
	if !ok {
		return v.missingTUID(n)
	}

	ctx := v.helper.ctx
	file, hasFile := ctx.FileForPath(pos.Path)

	var res *types.Resource
	switch {
	case v.isClass(n):
		if hasFile {
			res = v.index(v.newResource(n, tuid, types.KindClass, file.Key), pos)
		}
	case v.isMethod(n):
		if hasFile {
			v.functions[file.Key]++
		}
		if !v.opts.UploadMethods {
			break
		}
		if parent := v.enclosingClass(n); parent != nil {
			if ptuid, ok := graph.TUID(parent); ok {
				res = v.index(v.newResource(n, tuid, types.KindMethod, ctx.ChildKey(ptuid)), pos)
			}
		} else if n.Type == "Function" && hasFile {
			res = v.index(v.newResource(n, tuid, types.KindFunction, file.Key), pos)
		}
	}

	v.uploadMetricsAndWarnings(n, res, true)
	return nil
}

func (v *LogicalVisitor) newResource(n *graph.Node, tuid string, kind types.ResourceKind, parentKey string) types.Resource {
	name, _ := graph.Name(n)
	longName, _ := graph.LongName(n)
	r := types.Resource{
		Key:       v.helper.ctx.ChildKey(tuid),
		Name:      name,
		LongName:  longName,
		Kind:      kind,
		Qualifier: strings.ToLower(n.Type),
		ParentKey: parentKey,
	}
	if pos := graph.FirstPosition(n); pos != nil {
		r.Path = pos.Path
	}
	return r
}

// index returns the resource already indexed under r.Key, or indexes r and
// saves its begin and end lines. It returns nil when r cannot be indexed.
func (v *LogicalVisitor) index(r types.Resource, pos *graph.Position) *types.Resource {
	ctx := v.helper.ctx
	if existing, ok := ctx.Resource(r.Key); ok {
		return existing
	}
	if !ctx.Index(r) {
		return nil
	}
	ctx.SaveValue(r.Key, metrics.BeginLine, float64(pos.Line))
	ctx.SaveValue(r.Key, metrics.EndLine, float64(pos.EndLine))
	indexed, _ := ctx.Resource(r.Key)
	return indexed
}

// preferredPosition returns the definition position of n, or its first one.
func preferredPosition(n *graph.Node) *graph.Position {
	positions := graph.Positions(n)
	if len(positions) == 0 {
		return nil
	}
	for i := range positions {
		if positions[i].RealizationLevel == graph.Definition {
			return &positions[i]
		}
	}
	return &positions[0]
}

// visitCpp follows declarations to their definitions. Metrics are uploaded
// once, from the definition or from a declaration in the defining file.
func (v *LogicalVisitor) visitCpp(n *graph.Node) error {
	pos := preferredPosition(n)
	if pos == nil {
		return nil
	}
	ctx := v.helper.ctx
	file, ok := ctx.FileForPath(pos.Path)
	if !ok {
		return nil
	}

	defFile, defPos := file, pos
	hasDefinition := pos.RealizationLevel == graph.Definition
	if !hasDefinition {
		if def := graph.DeclaresNode(n); def != nil {
			n = def
			hasDefinition = true
			if p := preferredPosition(def); p != nil {
				defPos = p
				if defFile, ok = ctx.FileForPath(p.Path); !ok {
					return nil
				}
			}
		}
	}

	tuid, ok := graph.TUID(n)
	if !ok {
		return v.missingTUID(n)
	}

	var res *types.Resource
	method := false
	switch {
	case v.isClass(n):
		r := v.newResource(n, tuid, types.KindClass, defFile.Key)
		if res = v.indexCpp(r, defPos, hasDefinition); res == nil {
			return nil
		}
	case v.opts.UploadMethods && n.Type == "Method":
		parent := graph.ParentNode(n)
		if !v.isClass(parent) {
			break
		}
		ptuid, ok := graph.TUID(parent)
		if !ok {
			break
		}
		method = true
		r := v.newResource(n, tuid, types.KindMethod, ctx.ChildKey(ptuid))
		if res = v.indexCpp(r, defPos, hasDefinition); res == nil {
			return nil
		}
	case v.opts.UploadMethods && n.Type == "Function":
		method = true
		r := v.newResource(n, tuid, types.KindFunction, defFile.Key)
		if res = v.indexCpp(r, defPos, hasDefinition); res == nil {
			return nil
		}
	}

	if pos.RealizationLevel == graph.Definition || file.Key == defFile.Key {
		v.uploadMetricsAndWarnings(n, res, true)
		if method {
			v.functions[file.Key]++
		}
	}
	return nil
}

func (v *LogicalVisitor) indexCpp(r types.Resource, pos *graph.Position, hasDefinition bool) *types.Resource {
	if !hasDefinition {
		id := r.Qualifier + "\x00" + r.LongName
		if key, ok := v.undefined[id]; ok {
			r.Key = key
		} else {
			v.undefined[id] = r.Key
		}
	}
	return v.index(r, pos)
}
