package metrics

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category binds a node type to the metrics MetricHunter checks on it. Property
// is the settings segment holding the baselines, e.g. sm.java.class.baseline.LOC.
type Category struct {
	Entity   string   `yaml:"entity"`
	Property string   `yaml:"property"`
	Metrics  []string `yaml:"metrics"`
}

func NewCategory(entity string, metrics []string) Category {
	return Category{Entity: entity, Property: strings.ToLower(entity), Metrics: metrics}
}

var warningMetrics = []string{"WarningBlocker", "WarningCritical", "WarningMajor", "WarningMinor"}

// ClassThresholds are checked on class-like entities.
var ClassThresholds = append([]string{
	"LOC", "LLOC", "NA", "NG", "NLA", "NLG", "NLM", "NLPA", "NLPM", "NLS", "NM", "NPA", "NPM", "NS",
	"NOS", "TNA", "TNG", "TNLA", "TNLG", "TNLPA", "TNLPM", "TNLS", "TNLM", "TNM", "TNPA", "TNPM",
	"TNS", "TLOC", "TLLOC", "TNOS", "PUA", "AD", "CD", "CLOC", "DLOC", "TCLOC", "TCD", "NL", "NLE",
	"WMC", "CBOI", "NII", "NOI", "RFC", "LCOM5", "CCL", "CCO", "CC", "CI", "CLC", "CLLC", "LDC",
	"LLDC",
}, append(append([]string(nil), warningMetrics...), "DIT", "NOA", "NOC", "NOD", "NOP")...)

// MethodThresholds are checked on methods and functions.
var MethodThresholds = append([]string{
	"LOC", "LLOC", "NUMPAR", "NOS", "TLOC", "TLLOC", "TNOS", "CD", "CLOC", "DLOC", "TCLOC", "TCD",
	"McCC", "NL", "NLE", "NII", "NOI", "CCL", "CCO", "CC", "CI", "CLC", "CLLC", "LDC", "LLDC",
}, warningMetrics...)

var CloneClassThresholds = []string{"CA", "CCO", "CE", "CI", "CLLOC", "CV", "NCR"}

var CloneInstanceThresholds = []string{"CA", "CCO", "CE", "CLLOC", "CV"}

var methodBaselines = map[string]float64{"LLOC": 100, "McCC": 10, "NLE": 5, "NUMPAR": 7}

// DefaultBaselines are the thresholds used for a category property when no
// baseline is configured. Percent metrics are given in percent.
var DefaultBaselines = map[string]map[string]float64{
	"class":      {"LLOC": 500, "NM": 30, "NPM": 20, "WMC": 50, "RFC": 50, "DIT": 5, "NOC": 10},
	"method":     methodBaselines,
	"function":   methodBaselines,
	"procedure":  methodBaselines,
	"subroutine": methodBaselines,
	"program":    {"LLOC": 2000},
}

// DefaultBaseline returns the default threshold of metric for a category property.
func DefaultBaseline(property, metric string) (float64, bool) {
	v, ok := DefaultBaselines[strings.ToLower(property)][metric]
	return v, ok
}

// CloneCategories are appended to every language's categories.
func CloneCategories() []Category {
	return []Category{
		NewCategory("CloneClass", CloneClassThresholds),
		NewCategory("CloneInstance", CloneInstanceThresholds),
	}
}

type thresholdFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadCategories reads categories from a YAML document. Categories whose entity
// matches one in base replace it, others are appended.
func LoadCategories(r io.Reader, base []Category) ([]Category, error) {
	var f thresholdFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode threshold categories: %w", err)
	}

	out := append([]Category(nil), base...)
	for _, c := range f.Categories {
		if c.Entity == "" {
			return nil, fmt.Errorf("threshold category without entity")
		}
		if c.Property == "" {
			c.Property = strings.ToLower(c.Entity)
		}
		replaced := false
		for i := range out {
			if out[i].Entity == c.Entity {
				out[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, c)
		}
	}
	return out, nil
}
