package profile_test

import (
	"bytes"
	"testing"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/profile"
	"github.com/TFMV/surrealmeter/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	s := config.New()
	s.Set(profile.BaselineKey("java", "class", "LOC"), 1000)
	s.Set(profile.BaselineKey("java", "class", "CD"), 25)
	s.Set(profile.BaselineKey("java", "class", "NLE"), 2.5)

	categories := []metrics.Category{
		metrics.NewCategory("Class", []string{"LOC", "CD", "NLE", "TLOC", "NCL", "UNKNOWN"}),
	}
	rules := []types.Rule{
		{Key: "MET_LOC", Severity: types.SeverityInfo, Active: true},
		{Key: "MET_CD", Severity: types.SeverityInfo, Active: true},
		{Key: "MET_NLE", Severity: types.SeverityInfo, Active: true},
		{Key: "MET_TLOC", Severity: types.SeverityInfo, Active: true},
		{Key: "PMD_AvoidCatchingNPE", Severity: types.SeverityCritical, Active: true},
		{Key: "FB_DM_EXIT", Severity: types.SeverityMinor, Active: false},
	}

	var buf bytes.Buffer
	require.NoError(t, profile.NewGenerator(lang.Java, s, categories, rules).Generate(&buf))

	want := "<sourcemeter-profile>\n" +
		"  <tool-options>\n" +
		"    <tool name = \"MetricHunter\" enabled = \"true\">\n" +
		"      <metric-thresholds>\n" +
		"        <threshold metric-id=\"LOC\" relation=\"gt\" value=\"1000\" entity=\"Class\" />\n" +
		"        <threshold metric-id=\"CD\" relation=\"lt\" value=\"0.25\" entity=\"Class\" />\n" +
		"        <threshold metric-id=\"NLE\" relation=\"gt\" value=\"2.5\" entity=\"Class\" />\n" +
		"        <threshold metric-id=\"NCL\" relation=\"gt\" value=\"none\" entity=\"Class\" />\n" +
		"\n" +
		"      </metric-thresholds>\n" +
		"    </tool>\n" +
		"  </tool-options>\n" +
		"  <rule-options>\n" +
		"    <rule id=\"AvoidCatchingNPE\"  enabled=\"true\" priority=\"Critical\"/>\n" +
		"    <rule id=\"EXIT\"  enabled=\"false\" priority=\"Minor\"/>\n" +
		"  </rule-options>\n" +
		"</sourcemeter-profile>\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := config.New()
	s.Set(profile.BaselineKey("rpg", "subroutine", "LOC"), 200)
	g := profile.NewGenerator(lang.RPG, s, lang.RPG.Categories, lang.RPG.DefaultRules())
	require.NoError(t, g.WriteFile(fs, "/work/"+profile.FileName))

	data, err := afero.ReadFile(fs, "/work/"+profile.FileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<threshold metric-id=\"LOC\" relation=\"gt\" value=\"200\" entity=\"Subroutine\" />")
	assert.NotContains(t, string(data), "value=\"none\"")
}

func TestGenerateDefaultBaselines(t *testing.T) {
	s := config.New()
	s.Set(profile.BaselineKey("java", "class", "WMC"), 30)

	categories := []metrics.Category{
		metrics.NewCategory("Class", []string{"LLOC", "WMC", "TLOC"}),
		metrics.NewCategory("Method", []string{"McCC"}),
	}
	rules := []types.Rule{
		{Key: "MET_LLOC", Severity: types.SeverityInfo, Active: true},
		{Key: "MET_WMC", Severity: types.SeverityInfo, Active: true},
		{Key: "MET_TLOC", Severity: types.SeverityInfo, Active: true},
		{Key: "MET_McCC", Severity: types.SeverityInfo, Active: true},
	}

	var buf bytes.Buffer
	require.NoError(t, profile.NewGenerator(lang.Java, s, categories, rules).Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "<threshold metric-id=\"LLOC\" relation=\"gt\" value=\"500\" entity=\"Class\" />")
	assert.Contains(t, out, "<threshold metric-id=\"WMC\" relation=\"gt\" value=\"30\" entity=\"Class\" />")
	assert.Contains(t, out, "<threshold metric-id=\"McCC\" relation=\"gt\" value=\"10\" entity=\"Method\" />")
	assert.NotContains(t, out, "metric-id=\"TLOC\"")
}
