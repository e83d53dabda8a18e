// Package profile writes the MetricHunter profile read by the toolchain.
package profile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
	"github.com/spf13/afero"
)

// FileName is the profile written into the work directory.
const FileName = "SM-Profile.xml"

// Generator renders the profile of one language.
type Generator struct {
	lang       *lang.Language
	settings   *config.Settings
	categories []metrics.Category
	rules      []types.Rule
	active     map[string]bool
}

func NewGenerator(l *lang.Language, s *config.Settings, categories []metrics.Category, rules []types.Rule) *Generator {
	active := make(map[string]bool)
	for _, key := range lang.ActiveRuleKeys(rules) {
		active[key] = true
	}
	return &Generator{
		lang:       l,
		settings:   s,
		categories: categories,
		rules:      rules,
		active:     active,
	}
}

// WriteFile writes the profile to path on fs.
func (g *Generator) WriteFile(fs afero.Fs, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create profile file %s: %w", path, err)
	}
	if err := g.Generate(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close profile file %s: %w", path, err)
	}
	return nil
}

// Generate writes the profile to w.
func (g *Generator) Generate(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<sourcemeter-profile>\n")
	bw.WriteString("  <tool-options>\n")
	bw.WriteString(g.thresholds())
	bw.WriteString("  </tool-options>\n")
	bw.WriteString(g.ruleOptions())
	bw.WriteString("</sourcemeter-profile>\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

func (g *Generator) ruleOptions() string {
	var b strings.Builder
	b.WriteString("  <rule-options>\n")
	for _, r := range g.rules {
		if r.Severity == types.SeverityInfo {
			continue
		}
		parts := strings.Split(r.Key, "_")
		enabled := "false"
		if g.active[r.Key] {
			enabled = "true"
		}
		priority := r.Severity.ProfileName()
		if priority == "Info" {
			priority = "Blocker"
		}
		fmt.Fprintf(&b, "    <rule id=\"%s\"  enabled=\"%s\" priority=\"%s\"/>\n", parts[len(parts)-1], enabled, priority)
	}
	b.WriteString("  </rule-options>\n")
	return b.String()
}

func (g *Generator) thresholds() string {
	var b strings.Builder
	b.WriteString("    <tool name = \"MetricHunter\" enabled = \"true\">\n")
	b.WriteString("      <metric-thresholds>\n")

	finder := g.lang.Finder()
	for _, c := range g.categories {
		for _, m := range finder.FindAll(c.Metrics...) {
			if g.active[lang.MetricPrefix+m.Key] {
				b.WriteString(g.thresholdLine(m, c))
				continue
			}
			fmt.Fprintf(&b, "        <threshold metric-id=\"%s\" relation=\"gt\" value=\"none\" entity=\"%s\" />\n", m.Key, c.Entity)
		}
		b.WriteString("\n")
	}

	b.WriteString("      </metric-thresholds>\n")
	b.WriteString("    </tool>\n")
	return b.String()
}

// BaselineKey is the setting holding the threshold of metric for a category.
func BaselineKey(languageKey, property, metric string) string {
	return config.LanguageKey(strings.ToLower(languageKey), strings.ToLower(property)+".baseline."+metric)
}

func (g *Generator) thresholdLine(m types.Metric, c metrics.Category) string {
	threshold, ok := g.settings.GetFloat(BaselineKey(g.lang.Key, c.Property, m.Key))
	if !ok {
		if threshold, ok = metrics.DefaultBaseline(c.Property, m.Key); !ok {
			return ""
		}
	}
	if m.Type == types.ValuePercent {
		threshold /= 100
	}

	value := strconv.FormatFloat(threshold, 'f', -1, 64)
	if math.Mod(threshold, 1) == 0 {
		value = strconv.FormatInt(int64(math.Round(threshold)), 10)
	}

	relation := "gt"
	if m.Direction > 0 {
		relation = "lt"
	}
	return fmt.Sprintf("        <threshold metric-id=\"%s\" relation=\"%s\" value=\"%s\" entity=\"%s\" />\n",
		m.Key, relation, value, c.Entity)
}
