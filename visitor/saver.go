package visitor

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/types"
)

// LogicalTreeKey is the tree key of a logical level, e.g. SM_JAVA_LOGICAL_LEVEL2.
func LogicalTreeKey(l *lang.Language, level int) string {
	return fmt.Sprintf("SM_%s_LOGICAL_LEVEL%d", l.UpperKey(), level)
}

// CloneTreeKey is the tree key of the clone classes, e.g. SM_JAVA_CLONE_TREE.
func CloneTreeKey(l *lang.Language) string {
	return fmt.Sprintf("SM_%s_CLONE_TREE", l.UpperKey())
}

// metricValue skips NaN and infinite values, which JSON cannot encode.
func metricValue(a graph.Attribute) (float64, bool) {
	switch a.Type {
	case graph.AttrInt:
		return float64(a.Int), true
	case graph.AttrFloat:
		if math.IsNaN(a.Float) || math.IsInf(a.Float, 0) {
			return 0, false
		}
		return a.Float, true
	}
	return 0, false
}

func treePosition(a graph.Attribute) types.TreePosition {
	p := graph.PositionFromAttribute(a)
	return types.TreePosition{Path: p.Path, Line: p.Line, Col: p.Column, EndLine: p.EndLine, EndCol: p.EndColumn}
}

// LogicalTreeSaver collects the nodes of the three logical levels.
type LogicalTreeSaver struct {
	graph.NopVisitor
	lang          *lang.Language
	uploadMethods bool
	levels        [3][]types.TreeEntry
}

func NewLogicalTreeSaver(l *lang.Language, uploadMethods bool) *LogicalTreeSaver {
	s := &LogicalTreeSaver{lang: l, uploadMethods: uploadMethods}
	for i := range s.levels {
		s.levels[i] = []types.TreeEntry{}
	}
	return s
}

func (s *LogicalTreeSaver) PreNode(n *graph.Node) error {
	level := 0
	for i := 1; i <= 3; i++ {
		if s.lang.IsLevelType(i, n.Type) {
			level = i
			break
		}
	}
	if level == 0 {
		return nil
	}

	e := types.TreeEntry{Metrics: make(map[string]float64)}
	for _, a := range n.Attributes {
		switch {
		case a.Name == "Name" && a.Type == graph.AttrString:
			e.Name = a.Str
		case a.Name == "Position" && a.Type == graph.AttrComposite:
			if level > 1 {
				e.Positions = append(e.Positions, treePosition(a))
			}
		case a.Context == "metric":
			if v, ok := metricValue(a); ok {
				e.Metrics[a.Name] = v
			}
		}
	}
	s.levels[level-1] = append(s.levels[level-1], e)
	return nil
}

// Save stores the levels as LevelContainer JSON. The third level is stored
// only when methods are uploaded.
func (s *LogicalTreeSaver) Save(ctx *resource.Context) error {
	levels := 2
	if s.uploadMethods {
		levels = 3
	}
	for i := 0; i < levels; i++ {
		data, err := json.Marshal(types.LevelContainer{LevelTypes: s.lang.LevelTypes[i], Level: s.levels[i]})
		if err != nil {
			return fmt.Errorf("failed to encode logical level %d: %w", i+1, err)
		}
		ctx.SaveTree(LogicalTreeKey(s.lang, i+1), string(data))
	}
	return nil
}

// CloneTreeSaver collects clone classes with their instances.
type CloneTreeSaver struct {
	graph.NopVisitor
	lang    *lang.Language
	classes []types.CloneClassEntry
}

func NewCloneTreeSaver(l *lang.Language) *CloneTreeSaver {
	return &CloneTreeSaver{lang: l, classes: []types.CloneClassEntry{}}
}

func (s *CloneTreeSaver) PreNode(n *graph.Node) error {
	switch n.Type {
	case "CloneClass":
		c := types.CloneClassEntry{Metrics: make(map[string]float64), Instances: []types.CloneInstanceEntry{}}
		for _, a := range n.Attributes {
			if a.Name == "Name" && a.Type == graph.AttrString {
				c.Name = a.Str
			} else if a.Context == "metric" {
				if v, ok := metricValue(a); ok {
					c.Metrics[a.Name] = v
				}
			}
		}
		s.classes = append(s.classes, c)
	case "CloneInstance":
		if len(s.classes) == 0 {
			return nil
		}
		ci := types.CloneInstanceEntry{Metrics: make(map[string]float64), Positions: []types.TreePosition{}}
		for _, a := range n.Attributes {
			switch {
			case a.Name == "Name" && a.Type == graph.AttrString:
				ci.Name = a.Str
			case a.Name == "Position" && a.Type == graph.AttrComposite:
				ci.Positions = append(ci.Positions, treePosition(a))
			case a.Context == "metric":
				if v, ok := metricValue(a); ok {
					ci.Metrics[a.Name] = v
				}
			}
		}
		last := &s.classes[len(s.classes)-1]
		last.Instances = append(last.Instances, ci)
	}
	return nil
}

func (s *CloneTreeSaver) Save(ctx *resource.Context) error {
	data, err := json.Marshal(types.CloneClasses{Classes: s.classes})
	if err != nil {
		return fmt.Errorf("failed to encode clone tree: %w", err)
	}
	ctx.SaveTree(CloneTreeKey(s.lang), string(data))
	return nil
}
