package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/TFMV/surrealmeter/graph"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleGraph = `<graph>
  <header>
    <info name="FaultHunter-mode" value="full"/>
    <info name="MetricHunter-mode" value="limited"/>
  </header>
  <node uid="__LogicalRoot__" type="Root">
    <edge type="LogicalTree" to="pkg1"/>
  </node>
  <node uid="pkg1" type="Package">
    <attribute type="string" name="Name" context="" value="org.example"/>
    <edge type="LogicalTree" to="cls1"/>
  </node>
  <node uid="cls1" type="Class">
    <attribute type="string" name="Name" context="" value="Foo"/>
    <attribute type="string" name="LongName" context="" value="org.example.Foo"/>
    <attribute type="string" name="TUID" context="" value="L100"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="src/org/example/Foo.java"/>
      <attribute type="int" name="Line" context="" value="3"/>
      <attribute type="int" name="EndLine" context="" value="40"/>
    </attribute>
    <attribute type="int" name="LOC" context="metric" value="38"/>
    <attribute type="float" name="CD" context="metric" value="0.25"/>
    <edge type="LogicalTree" to="m1"/>
  </node>
  <node uid="m1" type="Method">
    <attribute type="string" name="Name" context="" value="bar"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="src/org/example/Foo.java"/>
      <attribute type="int" name="Line" context="" value="10"/>
      <attribute type="string" name="RealizationLevel" context="" value="definition"/>
    </attribute>
    <attribute type="float" name="McCC" context="metric" value="NaN"/>
  </node>
</graph>`

type recorder struct {
	graph.NopVisitor
	events []string
}

func (r *recorder) PreNode(n *graph.Node) error {
	r.events = append(r.events, "pre:"+n.UID)
	return nil
}

func (r *recorder) PostNode(n *graph.Node) error {
	r.events = append(r.events, "post:"+n.UID)
	return nil
}

func TestDecode(t *testing.T) {
	g, err := graph.Decode(strings.NewReader(sampleGraph))
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	mode, ok := g.HeaderInfo("FaultHunter-mode")
	assert.True(t, ok)
	assert.Equal(t, "full", mode)
	assert.Equal(t, []string{"FaultHunter-mode", "MetricHunter-mode"}, g.HeaderKeys())

	cls := g.FindNode("cls1")
	require.NotNil(t, cls)
	name, ok := graph.Name(cls)
	assert.True(t, ok)
	assert.Equal(t, "Foo", name)
	tuid, _ := graph.TUID(cls)
	assert.Equal(t, "L100", tuid)
	assert.True(t, graph.IsClass(cls))

	pos := graph.FirstPosition(cls)
	require.NotNil(t, pos)
	assert.Equal(t, "src/org/example/Foo.java", pos.Path)
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 40, pos.EndLine)
	assert.Equal(t, graph.Declaration, pos.RealizationLevel)

	cd, ok := cls.Attribute("CD")
	require.True(t, ok)
	assert.Equal(t, graph.AttrFloat, cd.Type)
	assert.InDelta(t, 0.25, cd.Float, 1e-9)

	m := g.FindNode("m1")
	assert.Equal(t, graph.Definition, graph.FirstPosition(m).RealizationLevel)
	assert.Equal(t, cls, graph.ParentNode(m))
	assert.Len(t, graph.FindNodes(g, "Method"), 1)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "unknown attribute type",
			input: `<graph><node uid="a" type="File"><attribute type="blob" name="x" context="" value=""/></node></graph>`,
		},
		{
			name:  "bad int",
			input: `<graph><node uid="a" type="File"><attribute type="int" name="LOC" context="metric" value="ten"/></node></graph>`,
		},
		{
			name:  "dangling edge",
			input: `<graph><node uid="a" type="File"><edge type="PhysicalTree" to="missing"/></node></graph>`,
		},
		{
			name:  "missing uid",
			input: `<graph><node type="File"/></graph>`,
		},
		{
			name:  "not xml",
			input: `{"graph": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestTraverseDepthFirst(t *testing.T) {
	g, err := graph.Decode(strings.NewReader(sampleGraph))
	require.NoError(t, err)

	r := &recorder{}
	require.NoError(t, graph.ProcessGraph(g, graph.LogicalRoot, graph.LogicalTree, r, zap.NewNop()))
	assert.Equal(t, []string{
		"pre:__LogicalRoot__", "pre:pkg1", "pre:cls1", "pre:m1",
		"post:m1", "post:cls1", "post:pkg1", "post:__LogicalRoot__",
	}, r.events)
}

func TestTraverseVisitsOnce(t *testing.T) {
	g := graph.New()
	for _, uid := range []string{"root", "a", "b"} {
		g.AddNode(&graph.Node{UID: uid, Type: "File"})
	}
	require.NoError(t, g.AddEdge("root", "a", graph.PhysicalTree))
	require.NoError(t, g.AddEdge("root", "b", graph.PhysicalTree))
	require.NoError(t, g.AddEdge("a", "b", graph.PhysicalTree))
	require.NoError(t, g.AddEdge("b", "root", graph.PhysicalTree))
	assert.ErrorIs(t, g.AddEdge("root", "zzz", graph.PhysicalTree), graph.ErrNodeNotFound)

	r := &recorder{}
	require.NoError(t, graph.TraverseDepthFirst(g.FindNode("root"), graph.PhysicalTree, r))
	assert.Equal(t, []string{"pre:root", "pre:a", "pre:b", "post:b", "post:a", "post:root"}, r.events)
}

func TestProcessGraphMissingRoot(t *testing.T) {
	g := graph.New()
	r := &recorder{}
	assert.NoError(t, graph.ProcessGraph(g, graph.CloneRoot, graph.CloneTree, r, zap.NewNop()))
	assert.Empty(t, r.events)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/results/proj.graph", []byte(sampleGraph), 0644))

	g, err := graph.Load(context.Background(), fs, "/results/proj.graph")
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())

	_, err = graph.Load(context.Background(), fs, "/results/none.graph")
	assert.Error(t, err)
}

func TestDecodeExplicitReverseEdge(t *testing.T) {
	parent := `<node uid="a" type="Package"><edge type="LogicalTree" to="b"/></node>`
	child := `<node uid="b" type="Class"><edge type="LogicalTree" direction="reverse" to="a"/></node>`

	tests := []struct {
		name string
		doc  string
	}{
		{"directional first", "<graph>" + parent + child + "</graph>"},
		{"reverse first", "<graph>" + child + parent + "</graph>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := graph.Decode(strings.NewReader(tt.doc))
			require.NoError(t, err)

			a, b := g.FindNode("a"), g.FindNode("b")
			assert.Equal(t, []graph.Edge{{Type: "LogicalTree", Direction: graph.Directional, To: b}}, a.Edges)
			assert.Equal(t, []graph.Edge{{Type: "LogicalTree", Direction: graph.Reverse, To: a}}, b.Edges)
			assert.Equal(t, a, graph.ParentNode(b))
		})
	}
}
