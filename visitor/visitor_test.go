package visitor_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/types"
	"github.com/TFMV/surrealmeter/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const javaGraph = `<graph>
  <node uid="__ComponentRoot__" type="Root">
    <edge type="ComponentTree" to="sys"/>
  </node>
  <node uid="sys" type="Component">
    <attribute type="string" name="Name" context="" value="&lt;System&gt;"/>
    <attribute type="int" name="LOC" context="metric" value="120"/>
    <attribute type="float" name="CD" context="metric" value="0.5"/>
  </node>

  <node uid="__PhysicalRoot__" type="Root">
    <edge type="PhysicalTree" to="f1"/>
    <edge type="PhysicalTree" to="f3"/>
  </node>
  <node uid="f1" type="File">
    <attribute type="string" name="Name" context="" value="Foo.java"/>
    <attribute type="string" name="LongName" context="" value="/p/src/Foo.java"/>
    <attribute type="int" name="LOC" context="metric" value="50"/>
  </node>
  <node uid="f3" type="File">
    <attribute type="string" name="Name" context="" value="Gen.java"/>
    <attribute type="string" name="LongName" context="" value="/p/other/Gen.java"/>
    <attribute type="int" name="LOC" context="metric" value="5"/>
  </node>

  <node uid="__LogicalRoot__" type="Root">
    <edge type="LogicalTree" to="pkg"/>
  </node>
  <node uid="pkg" type="Package">
    <attribute type="string" name="Name" context="" value="org.example"/>
    <attribute type="int" name="NCL" context="metric" value="1"/>
    <edge type="LogicalTree" to="cls"/>
  </node>
  <node uid="cls" type="Class">
    <attribute type="string" name="Name" context="" value="Foo"/>
    <attribute type="string" name="LongName" context="" value="org.example.Foo"/>
    <attribute type="string" name="TUID" context="" value="L100"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
      <attribute type="int" name="Line" context="" value="3"/>
      <attribute type="int" name="EndLine" context="" value="40"/>
    </attribute>
    <attribute type="int" name="LOC" context="metric" value="38"/>
    <attribute type="float" name="CD" context="metric" value="0.25"/>
    <attribute type="composite" name="PMD_AvoidCatchingNPE" context="warning">
      <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
      <attribute type="int" name="Line" context="" value="12"/>
      <attribute type="string" name="WarningText" context="" value="Avoid catching NPE"/>
      <attribute type="composite" name="ExtraInfo" context="">
        <attribute type="composite" name="SourceLink" context="">
          <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
          <attribute type="int" name="Line" context="" value="12"/>
          <attribute type="int" name="CallStackDepth" context="" value="0"/>
        </attribute>
        <attribute type="composite" name="SourceLink" context="">
          <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
          <attribute type="int" name="Line" context="" value="12"/>
          <attribute type="int" name="CallStackDepth" context="" value="0"/>
        </attribute>
        <attribute type="composite" name="SourceLink" context="">
          <attribute type="string" name="Path" context="" value="/p/src/Bar.java"/>
          <attribute type="int" name="Line" context="" value="7"/>
          <attribute type="int" name="CallStackDepth" context="" value="1"/>
        </attribute>
      </attribute>
    </attribute>
    <edge type="LogicalTree" to="m1"/>
  </node>
  <node uid="m1" type="Method">
    <attribute type="string" name="Name" context="" value="bar"/>
    <attribute type="string" name="LongName" context="" value="org.example.Foo.bar()"/>
    <attribute type="string" name="TUID" context="" value="L101"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
      <attribute type="int" name="Line" context="" value="10"/>
      <attribute type="int" name="EndLine" context="" value="20"/>
    </attribute>
    <attribute type="int" name="McCC" context="metric" value="4"/>
  </node>

  <node uid="__CloneRoot__" type="Root">
    <edge type="CloneTree" to="cc1"/>
  </node>
  <node uid="cc1" type="CloneClass">
    <attribute type="string" name="Name" context="" value="CloneClass1"/>
    <attribute type="int" name="CI" context="metric" value="2"/>
    <edge type="CloneTree" to="ci1"/>
    <edge type="CloneTree" to="ci2"/>
    <edge type="CloneTree" to="ci3"/>
  </node>
  <node uid="ci1" type="CloneInstance">
    <attribute type="string" name="Name" context="" value="ci1"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
      <attribute type="int" name="Line" context="" value="10"/>
      <attribute type="int" name="EndLine" context="" value="20"/>
    </attribute>
    <attribute type="int" name="CLLOC" context="metric" value="8"/>
  </node>
  <node uid="ci2" type="CloneInstance">
    <attribute type="string" name="Name" context="" value="ci2"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Bar.java"/>
      <attribute type="int" name="Line" context="" value="5"/>
      <attribute type="int" name="EndLine" context="" value="15"/>
    </attribute>
  </node>
  <node uid="ci3" type="CloneInstance">
    <attribute type="string" name="Name" context="" value="ci3"/>
    <attribute type="string" name="CloneSmellType" context="" value="cstDisappearing"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Bar.java"/>
      <attribute type="int" name="Line" context="" value="30"/>
      <attribute type="int" name="EndLine" context="" value="40"/>
    </attribute>
  </node>
</graph>`

const fooKey = "proj:src/Foo.java"

func newFixture(t *testing.T, l *lang.Language, doc string) (*graph.Graph, *resource.Context, *visitor.Helper) {
	t.Helper()
	g, err := graph.Decode(strings.NewReader(doc))
	require.NoError(t, err)

	ctx := resource.NewContext("proj", "proj", l.Key, "run-1")
	_, ok := ctx.IndexFile("src/Foo.java", "/p/src/Foo.java")
	require.True(t, ok)
	_, ok = ctx.IndexFile("src/Bar.java", "/p/src/Bar.java")
	require.True(t, ok)

	return g, ctx, visitor.NewHelper(ctx, l, l.DefaultRules(), zap.NewNop())
}

func value(t *testing.T, ctx *resource.Context, key, metric string) float64 {
	t.Helper()
	m, ok := ctx.Measure(key, metric)
	require.True(t, ok, "%s on %s", metric, key)
	return m.Float()
}

func TestCreateMeasureFromAttribute(t *testing.T) {
	_, ctx, h := newFixture(t, lang.Java, javaGraph)

	tests := []struct {
		name  string
		attr  graph.Attribute
		want  float64
		isNil bool
	}{
		{name: "int", attr: graph.Attribute{Type: graph.AttrInt, Name: "LOC", Int: 7}, want: 7},
		{name: "percent", attr: graph.Attribute{Type: graph.AttrFloat, Name: "CD", Float: 0.125}, want: 12.5},
		{name: "float", attr: graph.Attribute{Type: graph.AttrFloat, Name: "NCR", Float: 0.5}, want: 0.5},
		{name: "nan", attr: graph.Attribute{Type: graph.AttrFloat, Name: "CD", Float: math.NaN()}, isNil: true},
		{name: "unknown metric", attr: graph.Attribute{Type: graph.AttrInt, Name: "XYZ", Int: 1}, isNil: true},
		{name: "string", attr: graph.Attribute{Type: graph.AttrString, Name: "LOC", Str: "x"}, isNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := h.CreateMeasureFromAttribute(tt.attr, fooKey)
			if tt.isNil {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.InDelta(t, tt.want, m.Float(), 1e-9)
		})
	}

	ctx.SaveValue(fooKey, "CD", 30)
	m := h.CreateMeasureFromAttribute(graph.Attribute{Type: graph.AttrFloat, Name: "CD", Float: math.NaN()}, fooKey)
	require.NotNil(t, m, "an existing measure is reused")
	assert.Equal(t, 30.0, m.Float())
}

func TestUploadWarnings(t *testing.T) {
	g, ctx, h := newFixture(t, lang.Java, javaGraph)

	a, ok := g.FindNode("cls").Attribute("PMD_AvoidCatchingNPE")
	require.True(t, ok)
	h.UploadWarnings(a)

	issues := ctx.Issues()
	require.Len(t, issues, 1)
	is := issues[0]
	assert.Equal(t, "AvoidCatchingNPE", is.RuleKey)
	assert.Equal(t, "sourcemeter-java", is.Repository)
	assert.Equal(t, fooKey, is.ResourceKey)
	assert.Equal(t, "src/Foo.java", is.Path)
	assert.Equal(t, 12, is.Line)
	assert.Equal(t, types.SeverityMajor, is.Severity)
	assert.Equal(t, "SourceMeter (from PMD): Avoid catching NPE"+
		"<br/>Trace:<br/>"+
		"__proj:src/Foo.java:Foo.java:12:0__<br/>"+
		"__proj:src/Bar.java:Bar.java:7:+1__<br/>", is.Message)
}

func TestUploadWarningsTruncatesTrace(t *testing.T) {
	_, ctx, h := newFixture(t, lang.Java, javaGraph)

	link := graph.Attribute{Type: graph.AttrComposite, Name: "SourceLink", Children: []graph.Attribute{
		{Type: graph.AttrString, Name: "Path", Str: "/p/src/Foo.java"},
		{Type: graph.AttrInt, Name: "Line", Int: 1},
	}}
	h.UploadWarnings(graph.Attribute{
		Type:    graph.AttrComposite,
		Name:    "LOC_warning_Method",
		Context: "warning",
		Children: []graph.Attribute{
			{Type: graph.AttrString, Name: "Path", Str: "/p/src/Foo.java"},
			{Type: graph.AttrInt, Name: "Line", Int: 3},
			{Type: graph.AttrString, Name: "WarningText", Str: strings.Repeat("x", 3950)},
			{Type: graph.AttrComposite, Name: "ExtraInfo", Children: []graph.Attribute{link}},
		},
	})
	h.UploadWarnings(graph.Attribute{
		Type:     graph.AttrComposite,
		Name:     "PMD_Unknown",
		Context:  "warning",
		Children: []graph.Attribute{{Type: graph.AttrString, Name: "Path", Str: "/elsewhere/X.java"}},
	})

	issues := ctx.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, "MET_LOC", issues[0].RuleKey)
	assert.Equal(t, types.SeverityInfo, issues[0].Severity)
	assert.True(t, strings.HasPrefix(issues[0].Message, "SourceMeter: xxx"))
	assert.True(t, strings.HasSuffix(issues[0].Message, "x<br/>Trace:<br/>...<br/>"))
}

func TestLogicalVisitor(t *testing.T) {
	tests := []struct {
		name          string
		uploadMethods bool
	}{
		{name: "classes only"},
		{name: "with methods", uploadMethods: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ctx, h := newFixture(t, lang.Java, javaGraph)
			v := visitor.NewLogicalVisitor(h, g.Len(), visitor.LogicalOptions{UploadMethods: tt.uploadMethods}, zap.NewNop())
			require.NoError(t, graph.ProcessGraph(g, graph.LogicalRoot, graph.LogicalTree, v, zap.NewNop()))

			cls, ok := ctx.Resource("proj:L100")
			require.True(t, ok)
			assert.Equal(t, types.KindClass, cls.Kind)
			assert.Equal(t, fooKey, cls.ParentKey)
			assert.Equal(t, "class", cls.Qualifier)
			assert.Equal(t, "org.example.Foo", cls.LongName)

			assert.Equal(t, 38.0, value(t, ctx, cls.Key, "LOC"))
			assert.Equal(t, 25.0, value(t, ctx, cls.Key, "CD"))
			assert.Equal(t, 3.0, value(t, ctx, cls.Key, "SM:beginline"))
			assert.Equal(t, 40.0, value(t, ctx, cls.Key, "SM:endline"))
			assert.Equal(t, 0.0, value(t, ctx, cls.Key, "Android Rules"))
			assert.Len(t, ctx.Issues(), 1)
			assert.Equal(t, map[string]int{fooKey: 1}, v.Functions())

			method, ok := ctx.Resource("proj:L101")
			if !tt.uploadMethods {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, types.KindMethod, method.Kind)
			assert.Equal(t, cls.Key, method.ParentKey)
			assert.Equal(t, 4.0, value(t, ctx, method.Key, "McCC"))
		})
	}
}

func TestLogicalVisitorMissingTUID(t *testing.T) {
	doc := `<graph>
  <node uid="__LogicalRoot__" type="Root"><edge type="LogicalTree" to="c"/></node>
  <node uid="c" type="Class">
    <attribute type="string" name="Name" context="" value="Foo"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
    </attribute>
  </node>
</graph>`

	g, ctx, h := newFixture(t, lang.Java, doc)
	v := visitor.NewLogicalVisitor(h, g.Len(), visitor.LogicalOptions{}, zap.NewNop())
	err := graph.ProcessGraph(g, graph.LogicalRoot, graph.LogicalTree, v, zap.NewNop())
	assert.True(t, errors.Is(err, visitor.ErrMissingTUID))

	v = visitor.NewLogicalVisitor(h, g.Len(), visitor.LogicalOptions{SkipTUID: true}, zap.NewNop())
	require.NoError(t, graph.ProcessGraph(g, graph.LogicalRoot, graph.LogicalTree, v, zap.NewNop()))
	assert.Empty(t, ctx.Resources(types.KindClass))
}

const cppGraph = `<graph>
  <node uid="__LogicalRoot__" type="Root">
    <edge type="LogicalTree" to="decl"/>
    <edge type="LogicalTree" to="decl2"/>
  </node>
  <node uid="decl" type="Class">
    <attribute type="string" name="Name" context="" value="Foo"/>
    <attribute type="string" name="LongName" context="" value="ns::Foo"/>
    <attribute type="string" name="TUID" context="" value="D1"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Bar.java"/>
      <attribute type="int" name="Line" context="" value="1"/>
      <attribute type="string" name="RealizationLevel" context="" value="declaration"/>
    </attribute>
    <attribute type="int" name="LOC" context="metric" value="2"/>
    <edge type="Declares" to="def"/>
  </node>
  <node uid="def" type="Class">
    <attribute type="string" name="Name" context="" value="Foo"/>
    <attribute type="string" name="LongName" context="" value="ns::Foo"/>
    <attribute type="string" name="TUID" context="" value="C1"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
      <attribute type="int" name="Line" context="" value="5"/>
      <attribute type="int" name="EndLine" context="" value="50"/>
      <attribute type="string" name="RealizationLevel" context="" value="definition"/>
    </attribute>
    <attribute type="int" name="LOC" context="metric" value="46"/>
  </node>
  <node uid="decl2" type="Structure">
    <attribute type="string" name="Name" context="" value="S"/>
    <attribute type="string" name="LongName" context="" value="ns::S"/>
    <attribute type="string" name="TUID" context="" value="S1"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Bar.java"/>
      <attribute type="int" name="Line" context="" value="9"/>
      <attribute type="int" name="EndLine" context="" value="12"/>
    </attribute>
    <attribute type="int" name="LOC" context="metric" value="4"/>
  </node>
</graph>`

func TestLogicalVisitorCpp(t *testing.T) {
	g, ctx, h := newFixture(t, lang.Cpp, cppGraph)
	v := visitor.NewLogicalVisitor(h, g.Len(), visitor.LogicalOptions{}, zap.NewNop())
	require.NoError(t, graph.ProcessGraph(g, graph.LogicalRoot, graph.LogicalTree, v, zap.NewNop()))

	_, ok := ctx.Resource("proj:D1")
	assert.False(t, ok, "declarations resolve to their definition")

	def, ok := ctx.Resource("proj:C1")
	require.True(t, ok)
	assert.Equal(t, fooKey, def.ParentKey)
	assert.Equal(t, 5.0, value(t, ctx, def.Key, "SM:beginline"))
	_, ok = ctx.Measure(def.Key, "LOC")
	assert.False(t, ok, "metrics of a declaration in another file are not uploaded")

	s, ok := ctx.Resource("proj:S1")
	require.True(t, ok)
	assert.Equal(t, "proj:src/Bar.java", s.ParentKey)
	assert.Equal(t, 4.0, value(t, ctx, s.Key, "LOC"))
}

func TestPhysicalVisitor(t *testing.T) {
	g, ctx, h := newFixture(t, lang.Java, javaGraph)
	v := visitor.NewPhysicalVisitor(h, g.Len())
	require.NoError(t, graph.ProcessGraph(g, graph.PhysicalRoot, graph.PhysicalTree, v, zap.NewNop()))

	assert.Equal(t, 50.0, value(t, ctx, fooKey, "LOC"))
	_, ok := ctx.Measure(fooKey, "Android Rules")
	assert.False(t, ok)
	assert.Len(t, ctx.Resources(types.KindFile), 2)
}

func TestCloneVisitor(t *testing.T) {
	g, ctx, h := newFixture(t, lang.Java, javaGraph)
	v := visitor.NewCloneVisitor(h, g.Len())
	require.NoError(t, graph.ProcessGraph(g, graph.CloneRoot, graph.CloneTree, v, zap.NewNop()))

	cc, ok := ctx.Resource("proj:cc1")
	require.True(t, ok)
	assert.Equal(t, types.KindCloneClass, cc.Kind)
	assert.Equal(t, fooKey, cc.ParentKey)
	assert.Equal(t, 2.0, value(t, ctx, cc.Key, "CI"))

	ci, ok := ctx.Resource("proj:ci2")
	require.True(t, ok)
	assert.Equal(t, "proj:src/Bar.java", ci.ParentKey)
	_, ok = ctx.Resource("proj:ci3")
	assert.False(t, ok)

	group := `<g c="proj:cc1">` +
		`<b c="proj:ci1" s="10" l="10" r="proj:src/Foo.java"/>` +
		`<b c="proj:ci2" s="5" l="10" r="proj:src/Bar.java"/>` +
		`</g>`
	assert.Equal(t, map[string][]string{
		fooKey:              {group},
		"proj:src/Bar.java": {group},
	}, ctx.Duplications())
}

func TestComponentVisitor(t *testing.T) {
	g, ctx, h := newFixture(t, lang.Java, javaGraph)
	v := visitor.NewComponentVisitor(h, g.Len())
	require.NoError(t, graph.ProcessGraph(g, graph.ComponentRoot, graph.ComponentTree, v, zap.NewNop()))

	assert.True(t, v.Found())
	assert.Equal(t, 120.0, value(t, ctx, "proj", "LOC"))
	assert.Equal(t, 50.0, value(t, ctx, "proj", "CD"))
}

func TestSavers(t *testing.T) {
	g, ctx, _ := newFixture(t, lang.Java, javaGraph)

	ls := visitor.NewLogicalTreeSaver(lang.Java, false)
	require.NoError(t, graph.ProcessGraph(g, graph.LogicalRoot, graph.LogicalTree, ls, zap.NewNop()))
	require.NoError(t, ls.Save(ctx))

	cs := visitor.NewCloneTreeSaver(lang.Java)
	require.NoError(t, graph.ProcessGraph(g, graph.CloneRoot, graph.CloneTree, cs, zap.NewNop()))
	require.NoError(t, cs.Save(ctx))

	trees := make(map[string]string)
	for _, td := range ctx.Trees() {
		trees[td.Key] = td.Data
	}
	assert.Len(t, trees, 3)
	assert.NotContains(t, trees, "SM_JAVA_LOGICAL_LEVEL3")

	var level1 types.LevelContainer
	require.NoError(t, json.Unmarshal([]byte(trees["SM_JAVA_LOGICAL_LEVEL1"]), &level1))
	assert.Equal(t, []string{"Package"}, level1.LevelTypes)
	require.Len(t, level1.Level, 1)
	assert.Equal(t, "org.example", level1.Level[0].Name)
	assert.Empty(t, level1.Level[0].Positions)
	assert.Equal(t, map[string]float64{"NCL": 1}, level1.Level[0].Metrics)

	var level2 types.LevelContainer
	require.NoError(t, json.Unmarshal([]byte(trees["SM_JAVA_LOGICAL_LEVEL2"]), &level2))
	require.Len(t, level2.Level, 1)
	assert.Equal(t, []types.TreePosition{{Path: "/p/src/Foo.java", Line: 3, EndLine: 40}}, level2.Level[0].Positions)
	assert.Equal(t, map[string]float64{"LOC": 38, "CD": 0.25}, level2.Level[0].Metrics)

	var clones types.CloneClasses
	require.NoError(t, json.Unmarshal([]byte(trees["SM_JAVA_CLONE_TREE"]), &clones))
	require.Len(t, clones.Classes, 1)
	assert.Equal(t, "CloneClass1", clones.Classes[0].Name)
	assert.Equal(t, map[string]float64{"CI": 2}, clones.Classes[0].Metrics)
	require.Len(t, clones.Classes[0].Instances, 3)
	assert.Equal(t, map[string]float64{"CLLOC": 8}, clones.Classes[0].Instances[0].Metrics)
}

func TestIncludedFilesAndCounter(t *testing.T) {
	g, _, _ := newFixture(t, lang.Cpp, javaGraph)

	v := visitor.NewIncludedFilesVisitor()
	require.NoError(t, graph.ProcessGraph(g, graph.PhysicalRoot, graph.PhysicalTree, v, zap.NewNop()))
	assert.Equal(t, map[string]bool{"/p/src/foo.java": true, "/p/other/gen.java": true}, v.Files())

	assert.Equal(t, 4, visitor.CountNodes(g, graph.LogicalRoot, graph.LogicalTree))
	assert.Equal(t, 0, visitor.CountNodes(g, "missing", graph.LogicalTree))
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := visitor.NewProgress(2).WithOutput(&buf)

	p.Step(time.Second)
	assert.Contains(t, buf.String(), "] 50% [")
	assert.Contains(t, buf.String(), "Time left: 00:00:01\r")
	assert.True(t, strings.HasPrefix(buf.String(), "        ["+strings.Repeat("=", 16)+strings.Repeat(" ", 14)+"]"))

	buf.Reset()
	p.Step(2 * time.Second)
	assert.Contains(t, buf.String(), "] done...")

	var disabled *visitor.Progress
	disabled.Step(time.Second)
}

const nonFiniteGraph = `<graph>
  <node uid="__LogicalRoot__" type="Root">
    <edge type="LogicalTree" to="pkg"/>
  </node>
  <node uid="pkg" type="Package">
    <attribute type="string" name="Name" context="" value="org.example"/>
    <edge type="LogicalTree" to="cls"/>
  </node>
  <node uid="cls" type="Class">
    <attribute type="string" name="Name" context="" value="Foo"/>
    <attribute type="float" name="CD" context="metric" value="NaN"/>
    <attribute type="float" name="AD" context="metric" value="+Inf"/>
    <attribute type="int" name="LOC" context="metric" value="12"/>
  </node>

  <node uid="__CloneRoot__" type="Root">
    <edge type="CloneTree" to="cc1"/>
  </node>
  <node uid="cc1" type="CloneClass">
    <attribute type="string" name="Name" context="" value="CloneClass1"/>
    <attribute type="float" name="CV" context="metric" value="NaN"/>
    <attribute type="int" name="CI" context="metric" value="2"/>
    <edge type="CloneTree" to="ci1"/>
  </node>
  <node uid="ci1" type="CloneInstance">
    <attribute type="string" name="Name" context="" value="CloneInstance1"/>
    <attribute type="float" name="CA" context="metric" value="-Inf"/>
  </node>
</graph>`

func TestSaversSkipNonFiniteMetrics(t *testing.T) {
	g, ctx, _ := newFixture(t, lang.Java, nonFiniteGraph)

	ls := visitor.NewLogicalTreeSaver(lang.Java, false)
	require.NoError(t, graph.ProcessGraph(g, graph.LogicalRoot, graph.LogicalTree, ls, zap.NewNop()))
	require.NoError(t, ls.Save(ctx))

	cs := visitor.NewCloneTreeSaver(lang.Java)
	require.NoError(t, graph.ProcessGraph(g, graph.CloneRoot, graph.CloneTree, cs, zap.NewNop()))
	require.NoError(t, cs.Save(ctx))

	trees := make(map[string]string)
	for _, td := range ctx.Trees() {
		trees[td.Key] = td.Data
	}

	var level2 types.LevelContainer
	require.NoError(t, json.Unmarshal([]byte(trees["SM_JAVA_LOGICAL_LEVEL2"]), &level2))
	require.Len(t, level2.Level, 1)
	assert.Equal(t, map[string]float64{"LOC": 12}, level2.Level[0].Metrics)

	var clones types.CloneClasses
	require.NoError(t, json.Unmarshal([]byte(trees["SM_JAVA_CLONE_TREE"]), &clones))
	require.Len(t, clones.Classes, 1)
	assert.Equal(t, map[string]float64{"CI": 2}, clones.Classes[0].Metrics)
	require.Len(t, clones.Classes[0].Instances, 1)
	assert.Empty(t, clones.Classes[0].Instances[0].Metrics)
}

func TestUploadWarningsWithoutRuleKey(t *testing.T) {
	_, ctx, h := newFixture(t, lang.Cpp, javaGraph)

	warning := func(name string) graph.Attribute {
		return graph.Attribute{
			Name:    name,
			Type:    graph.AttrComposite,
			Context: "warning",
			Children: []graph.Attribute{
				{Name: "Path", Type: graph.AttrString, Str: "/p/src/Foo.java"},
				{Name: "Line", Type: graph.AttrInt, Int: 3},
			},
		}
	}

	h.UploadWarnings(warning("nullPointer"))
	assert.Empty(t, ctx.Issues())

	h.UploadWarnings(warning("CPPCHECK_nullPointer"))
	issues := ctx.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, "nullPointer", issues[0].RuleKey)
}
