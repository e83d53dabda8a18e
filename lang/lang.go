// Package lang describes the languages the toolchain analyzes: their metrics,
// rule keys, tree layout and command lines.
package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
)

// MetricPrefix starts the key of every threshold rule.
const MetricPrefix = "MET_"

// LogicalVariant selects how the logical tree is mapped to resources.
type LogicalVariant int

const (
	// LogicalDefault maps class-like nodes and methods under them.
	LogicalDefault LogicalVariant = iota
	// LogicalCpp follows declarations to their definitions.
	LogicalCpp
)

// FilterStyle tells which filter file the toolchain accepts.
type FilterStyle int

const (
	// SoftFilter passes the inventory as -externalSoftFilter plus an optional hard filter.
	SoftFilter FilterStyle = iota
	// HardFilterOnly passes the inventory filter as -externalHardFilter.
	HardFilterOnly
)

// CommandOptions are the values resolved by the initializer before the
// command line is built.
type CommandOptions struct {
	ToolchainDir   string
	ResultsDir     string
	ProjectName    string
	BaseDir        string
	ProfilePath    string
	SoftFilterPath string
	HardFilterPath string
	CleanResults   string
	Incremental    bool
	FindBugsFile   string
}

// Language is one analyzable language.
type Language struct {
	Key      string
	Name     string
	Suffixes []string

	// ToolchainDir is the toolchain subdirectory holding Binary.
	ToolchainDir string
	Binary       string

	// Metrics are the language specific metrics, license included.
	Metrics  []types.Metric
	Rulesets []types.Metric
	License  string

	// Tools maps the tool names of the graph header to display names.
	Tools map[string]string

	// WarningPrefixes maps rule key prefixes to the text put before the warning.
	WarningPrefixes map[string]string

	// ThresholdSuffixes are the rule key suffixes of threshold violations.
	ThresholdSuffixes []string

	// LevelTypes are the node types of the three logical levels.
	LevelTypes [3][]string

	Categories []metrics.Category

	// SystemType and SystemName identify the component holding project metrics.
	SystemType string
	SystemName string

	// FileType is the physical tree node type that maps to a source file.
	// Empty means "File".
	FileType string

	Logical     LogicalVariant
	FilterStyle FilterStyle

	// ExtraArgs appends the language specific command line options.
	ExtraArgs func(s *config.Settings, opts CommandOptions) ([]string, error)

	finder *metrics.Finder
}

// Finder resolves metrics known to the language.
func (l *Language) Finder() *metrics.Finder {
	return l.finder
}

// PhysicalFileType returns the node type of source files in the physical tree.
func (l *Language) PhysicalFileType() string {
	if l.FileType == "" {
		return "File"
	}
	return l.FileType
}

// RepositoryKey names the rule repository issues are reported against.
func (l *Language) RepositoryKey() string {
	return "sourcemeter-" + l.Key
}

// IsLevelType reports whether nodeType belongs to logical level 1, 2 or 3.
func (l *Language) IsLevelType(level int, nodeType string) bool {
	if level < 1 || level > len(l.LevelTypes) {
		return false
	}
	for _, t := range l.LevelTypes[level-1] {
		if t == nodeType {
			return true
		}
	}
	return false
}

// UpperKey is the key used in stored tree names, e.g. SM_JAVA_CLONE_TREE.
func (l *Language) UpperKey() string {
	return strings.ToUpper(l.Key)
}

// IsSource reports whether path has one of the language suffixes.
func (l *Language) IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range l.Suffixes {
		if ext == s {
			return true
		}
	}
	return false
}

// WarningText prefixes text with the name of the tool that raised ruleKey.
func (l *Language) WarningText(ruleKey, text string) string {
	prefixes := make([]string, 0, len(l.WarningPrefixes))
	for p := range l.WarningPrefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		if strings.HasPrefix(ruleKey, p) {
			return l.WarningPrefixes[p] + text
		}
	}
	return "SourceMeter: " + text
}

// RuleKey maps a warning attribute name to the key of the rule it violates.
func (l *Language) RuleKey(name string) string {
	if l.Logical == LogicalCpp {
		return cppRuleKey(name)
	}
	for _, suffix := range l.ThresholdSuffixes {
		if strings.Contains(name, suffix) {
			return MetricPrefix + strings.ReplaceAll(name, suffix, "")
		}
	}
	parts := strings.Split(name, "_")
	return parts[len(parts)-1]
}

func cppRuleKey(name string) string {
	if i := strings.Index(name, "_warning_"); i >= 0 {
		return MetricPrefix + name[:i]
	}
	parts := strings.Split(name, "_")
	return strings.Join(parts[1:], "_")
}

// ToolName returns the display name of a header tool, if the language knows it.
func (l *Language) ToolName(tool string) (string, bool) {
	name, ok := l.Tools[tool]
	return name, ok
}

// Command builds the toolchain command line.
func (l *Language) Command(s *config.Settings, opts CommandOptions) ([]string, error) {
	cmd := []string{filepath.Join(opts.ToolchainDir, l.ToolchainDir, l.Binary)}
	if l.ExtraArgs == nil {
		return cmd, nil
	}
	args, err := l.ExtraArgs(s, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s command: %w", l.Name, err)
	}
	return append(cmd, args...), nil
}

var defaultThresholdSuffixes = []string{
	"_warning_Class",
	"_warning_Method",
	"_warning_Function",
	"_warning_CloneClass",
	"_warning_CloneInstance",
}

func withClones(categories ...metrics.Category) []metrics.Category {
	return append(categories, metrics.CloneCategories()...)
}

func licenseMetric(key, lang string) types.Metric {
	return types.Metric{Key: key, Name: "SourceMeter " + lang + " license information", Type: types.ValueString, Hidden: true}
}

func rulesets(keys ...string) []types.Metric {
	out := make([]types.Metric, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Metric{
			Key:    k,
			Name:   strings.TrimSuffix(k, " Rules"),
			Type:   types.ValueInt,
			Domain: metrics.DomainRulesets,
		})
	}
	return out
}

func requireSetting(s *config.Settings, key string) (string, error) {
	v, ok := s.GetOptionalString(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", config.ErrMissingProperty, key)
	}
	return v, nil
}

func optionalArg(s *config.Settings, flag, key string) []string {
	if v, ok := s.GetOptionalString(key); ok && v != "" {
		return []string{flag + "=" + v}
	}
	return nil
}

func cloneArgs(s *config.Settings) []string {
	return []string{
		"-cloneGenealogy=" + s.GetString(config.KeyCloneGenealog),
		"-cloneMinLines=" + s.GetString(config.KeyCloneMinLines),
	}
}

var registry = map[string]*Language{}

func register(l *Language) *Language {
	l.finder = metrics.NewFinder(l.Metrics, l.Rulesets)
	registry[l.Key] = l
	return l
}

// Get returns the language registered under key.
func Get(key string) (*Language, bool) {
	l, ok := registry[strings.ToLower(key)]
	return l, ok
}

// All returns every registered language sorted by key.
func All() []*Language {
	out := make([]*Language, 0, len(registry))
	for _, l := range registry {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
