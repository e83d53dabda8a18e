package sensor_test

import (
	"context"
	"strings"
	"testing"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/sensor"
	"github.com/TFMV/surrealmeter/toolchain"
	"github.com/TFMV/surrealmeter/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const resultGraph = `<graph>
  <header>
    <info name="FaultHunter-mode" value="full"/>
    <info name="MetricHunter-mode" value="limited"/>
    <info name="Unknown-mode" value="full"/>
    <info name="version" value="8.2"/>
  </header>
  <node uid="__ComponentRoot__" type="Root">
    <edge type="ComponentTree" to="sys"/>
  </node>
  <node uid="sys" type="Component">
    <attribute type="string" name="Name" context="" value="&lt;System&gt;"/>
    <attribute type="int" name="LOC" context="metric" value="120"/>
  </node>

  <node uid="__PhysicalRoot__" type="Root">
    <edge type="PhysicalTree" to="f1"/>
  </node>
  <node uid="f1" type="File">
    <attribute type="string" name="Name" context="" value="Foo.java"/>
    <attribute type="string" name="LongName" context="" value="/p/src/Foo.java"/>
    <attribute type="int" name="LOC" context="metric" value="50"/>
  </node>

  <node uid="__LogicalRoot__" type="Root">
    <edge type="LogicalTree" to="pkg"/>
  </node>
  <node uid="pkg" type="Package">
    <attribute type="string" name="Name" context="" value="org.example"/>
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
    <edge type="CloneTree" to="ci1"/>
    <edge type="CloneTree" to="ci2"/>
  </node>
  <node uid="ci1" type="CloneInstance">
    <attribute type="string" name="Name" context="" value="ci1"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Foo.java"/>
      <attribute type="int" name="Line" context="" value="10"/>
      <attribute type="int" name="EndLine" context="" value="20"/>
    </attribute>
  </node>
  <node uid="ci2" type="CloneInstance">
    <attribute type="string" name="Name" context="" value="ci2"/>
    <attribute type="composite" name="Position" context="">
      <attribute type="string" name="Path" context="" value="/p/src/Bar.java"/>
      <attribute type="int" name="Line" context="" value="5"/>
      <attribute type="int" name="EndLine" context="" value="15"/>
    </attribute>
  </node>
</graph>`

const (
	fooKey = "proj:src/Foo.java"
	barKey = "proj:src/Bar.java"
)

func setup(t *testing.T, doc string) (*graph.Graph, *resource.Context) {
	t.Helper()
	g, err := graph.Decode(strings.NewReader(doc))
	require.NoError(t, err)

	rc := resource.NewContext("proj", "proj", lang.Java.Key, "run-1")
	n := sensor.IndexFiles(rc, &toolchain.Inventory{
		BaseDir: "/p",
		Files: []toolchain.SourceFile{
			{Rel: "src/Foo.java", Abs: "/p/src/Foo.java"},
			{Rel: "src/Bar.java", Abs: "/p/src/Bar.java"},
			{Rel: "src/Foo.java", Abs: "/p/src/Foo.java"},
		},
	})
	require.Equal(t, 2, n)
	return g, rc
}

func treeKeys(rc *resource.Context) []string {
	var keys []string
	for _, td := range rc.Trees() {
		keys = append(keys, td.Key)
	}
	return keys
}

func TestAnalyse(t *testing.T) {
	g, rc := setup(t, resultGraph)
	s := sensor.New(lang.Java, lang.Java.DefaultRules(), sensor.Options{}, zap.NewNop())
	require.NoError(t, s.Analyse(context.Background(), rc, g))

	license, ok := rc.Measure("proj", "SM:java_license")
	require.True(t, ok)
	assert.JSONEq(t, `{"full":["FaultHunter"],"limited":["MetricHunter"],"inactive":[]}`, license.Data)

	loc, ok := rc.Measure("proj", "LOC")
	require.True(t, ok)
	assert.Equal(t, 120.0, loc.Float())

	cls, ok := rc.Resource("proj:L100")
	require.True(t, ok)
	assert.Equal(t, fooKey, cls.ParentKey)
	_, ok = rc.Resource("proj:L101")
	assert.False(t, ok, "methods are not uploaded by default")

	functions, ok := rc.Measure(fooKey, "functions")
	require.True(t, ok)
	assert.Equal(t, 1.0, functions.Float())

	for _, key := range []string{fooKey, barKey} {
		data, ok := rc.Measure(key, "duplications_data")
		require.True(t, ok, key)
		assert.True(t, strings.HasPrefix(data.Data, `<duplications><g c="proj:cc1">`), data.Data)
		assert.True(t, strings.HasSuffix(data.Data, `</g></duplications>`), data.Data)

		dup, ok := rc.Measure(key, "SM:duplicated_files")
		require.True(t, ok, key)
		assert.Equal(t, 1.0, dup.Float())
	}

	assert.Equal(t, []string{"SM_JAVA_CLONE_TREE", "SM_JAVA_LOGICAL_LEVEL1", "SM_JAVA_LOGICAL_LEVEL2"}, treeKeys(rc))
}

func TestAnalyseOptions(t *testing.T) {
	tests := []struct {
		name      string
		opts      sensor.Options
		trees     []string
		method    bool
		duplicate bool
	}{
		{
			name:  "incremental skips clones",
			opts:  sensor.Options{Incremental: true},
			trees: []string{"SM_JAVA_LOGICAL_LEVEL1", "SM_JAVA_LOGICAL_LEVEL2"},
		},
		{
			name:      "upload methods",
			opts:      sensor.Options{Logical: visitor.LogicalOptions{UploadMethods: true}},
			trees:     []string{"SM_JAVA_CLONE_TREE", "SM_JAVA_LOGICAL_LEVEL1", "SM_JAVA_LOGICAL_LEVEL2", "SM_JAVA_LOGICAL_LEVEL3"},
			method:    true,
			duplicate: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, rc := setup(t, resultGraph)
			s := sensor.New(lang.Java, nil, tt.opts, zap.NewNop())
			require.NoError(t, s.Analyse(context.Background(), rc, g))

			assert.Equal(t, tt.trees, treeKeys(rc))
			_, ok := rc.Resource("proj:L101")
			assert.Equal(t, tt.method, ok)
			_, ok = rc.Measure(fooKey, "duplications_data")
			assert.Equal(t, tt.duplicate, ok)
		})
	}
}

func TestAnalyseMissingTUID(t *testing.T) {
	doc := strings.Replace(resultGraph, `<attribute type="string" name="TUID" context="" value="L100"/>`, "", 1)

	g, rc := setup(t, doc)
	err := sensor.New(lang.Java, nil, sensor.Options{}, zap.NewNop()).Analyse(context.Background(), rc, g)
	require.ErrorIs(t, err, visitor.ErrMissingTUID)

	g, rc = setup(t, doc)
	opts := sensor.Options{Logical: visitor.LogicalOptions{SkipTUID: true}}
	require.NoError(t, sensor.New(lang.Java, nil, opts, zap.NewNop()).Analyse(context.Background(), rc, g))
	_, ok := rc.Resource("proj:L100")
	assert.False(t, ok)
}

func TestAnalyseWithoutSystemComponent(t *testing.T) {
	doc := strings.Replace(resultGraph, "&lt;System&gt;", "other", 1)
	g, rc := setup(t, doc)
	require.NoError(t, sensor.New(lang.Java, nil, sensor.Options{}, zap.NewNop()).Analyse(context.Background(), rc, g))

	_, ok := rc.Measure("proj", "LOC")
	assert.False(t, ok)
	_, ok = rc.Resource("proj:L100")
	assert.True(t, ok)
}

func TestAnalyseCanceled(t *testing.T) {
	g, rc := setup(t, resultGraph)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sensor.New(lang.Java, nil, sensor.Options{}, zap.NewNop()).Analyse(ctx, rc, g)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromSettings(t *testing.T) {
	s := config.New()
	s.Set("sm.java.uploadMethods", true)
	s.Set(config.KeyAnalysisMode, config.ModeIncremental)

	opts := sensor.OptionsFromSettings(s, lang.Java)
	assert.True(t, opts.Incremental)
	assert.True(t, opts.Logical.UploadMethods)
	assert.False(t, opts.Logical.SkipTUID)
}

const cppPhysicalGraph = `<graph>
  <node uid="__PhysicalRoot__" type="Root">
    <edge type="PhysicalTree" to="d1"/>
  </node>
  <node uid="d1" type="Folder">
    <attribute type="string" name="Name" context="" value="src"/>
    <edge type="PhysicalTree" to="f1"/>
  </node>
  <node uid="f1" type="File">
    <attribute type="string" name="Name" context="" value="Main.cpp"/>
    <attribute type="string" name="LongName" context="" value="/P/src/Main.cpp"/>
  </node>
</graph>`

func TestExcludeNotAnalyzed(t *testing.T) {
	g, err := graph.Decode(strings.NewReader(cppPhysicalGraph))
	require.NoError(t, err)

	inv := &toolchain.Inventory{
		BaseDir: "/p",
		Files: []toolchain.SourceFile{
			{Rel: "src/Main.cpp", Abs: "/p/src/Main.cpp"},
			{Rel: "src/unused.h", Abs: "/p/src/unused.h"},
			{Rel: "test/Test.cpp", Abs: "/p/test/Test.cpp"},
		},
	}

	exclusions, err := sensor.ExcludeNotAnalyzed(context.Background(), g, inv, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"**/src/unused.h", "**/test/Test.cpp"}, exclusions)
	assert.Equal(t, []toolchain.SourceFile{{Rel: "src/Main.cpp", Abs: "/p/src/Main.cpp"}}, inv.Files)
	assert.True(t, inv.Filtered)

	rc := resource.NewContext("proj", "proj", lang.Cpp.Key, "run-1")
	assert.Equal(t, 1, sensor.IndexFiles(rc, inv))
}

func TestExcludeNotAnalyzedCanceled(t *testing.T) {
	g, err := graph.Decode(strings.NewReader(cppPhysicalGraph))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sensor.ExcludeNotAnalyzed(ctx, g, &toolchain.Inventory{}, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
