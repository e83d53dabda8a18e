package types

import (
	"encoding/json"
	"sort"
)

// ValueType is the kind of value a metric holds.
type ValueType string

const (
	ValueInt     ValueType = "INT"
	ValueFloat   ValueType = "FLOAT"
	ValuePercent ValueType = "PERCENT"
	ValueBool    ValueType = "BOOL"
	ValueString  ValueType = "STRING"
	ValueData    ValueType = "DATA"
)

// Direction tells whether a growing value is better or worse.
const (
	DirectionWorst = -1
	DirectionNone  = 0
	DirectionBest  = 1
)

// Metric describes a measure that can be attached to resources
type Metric struct {
	Key         string    `json:"key" yaml:"key"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Type        ValueType `json:"type" yaml:"type"`
	Direction   int       `json:"direction" yaml:"direction"`
	Domain      string    `json:"domain" yaml:"domain"`
	Qualitative bool      `json:"qualitative" yaml:"qualitative"`
	Hidden      bool      `json:"hidden" yaml:"hidden"`
}

// IsNumeric reports whether measures of this metric hold a value rather than data.
func (m Metric) IsNumeric() bool {
	switch m.Type {
	case ValueInt, ValueFloat, ValuePercent, ValueBool:
		return true
	}
	return false
}

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityMinor    Severity = "MINOR"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
	SeverityBlocker  Severity = "BLOCKER"
)

// ProfileName is the capitalized form used in the toolchain profile.
func (s Severity) ProfileName() string {
	switch s {
	case SeverityMinor:
		return "Minor"
	case SeverityMajor:
		return "Major"
	case SeverityCritical:
		return "Critical"
	case SeverityBlocker:
		return "Blocker"
	}
	return "Info"
}

// Rule is an entry of a language rule repository
type Rule struct {
	Key      string            `json:"key" yaml:"key"`
	Name     string            `json:"name" yaml:"name"`
	Severity Severity          `json:"severity" yaml:"severity"`
	Active   bool              `json:"active" yaml:"active"`
	Params   map[string]string `json:"params,omitempty" yaml:"params"`
}

// License modes as written by the toolchain into the graph header.
const (
	LicenseFull     = "full"
	LicenseLimited  = "limited"
	LicenseInactive = "inactive"
)

// LicenseInformation groups toolchain tools by license mode
type LicenseInformation struct {
	full     map[string]bool
	limited  map[string]bool
	inactive map[string]bool
}

func NewLicenseInformation() *LicenseInformation {
	return &LicenseInformation{
		full:     make(map[string]bool),
		limited:  make(map[string]bool),
		inactive: make(map[string]bool),
	}
}

// AddTool files tool under the set named by license. Unknown modes count as inactive.
func (l *LicenseInformation) AddTool(tool, license string) {
	switch license {
	case LicenseFull:
		l.full[tool] = true
	case LicenseLimited:
		l.limited[tool] = true
	default:
		l.inactive[tool] = true
	}
}

// UpdateTool merges one tool into the sets. A stronger mode always wins.
func (l *LicenseInformation) UpdateTool(tool, license string) {
	switch {
	case license == LicenseFull:
		l.full[tool] = true
		delete(l.limited, tool)
		delete(l.inactive, tool)
	case license == LicenseLimited && !l.full[tool]:
		l.limited[tool] = true
		delete(l.inactive, tool)
	case !l.full[tool] && !l.limited[tool]:
		l.inactive[tool] = true
	}
}

// Merge folds other into l.
func (l *LicenseInformation) Merge(other *LicenseInformation) {
	if other == nil {
		return
	}
	for _, t := range other.Full() {
		l.UpdateTool(t, LicenseFull)
	}
	for _, t := range other.Limited() {
		l.UpdateTool(t, LicenseLimited)
	}
	for _, t := range other.Inactive() {
		l.UpdateTool(t, LicenseInactive)
	}
}

func (l *LicenseInformation) Full() []string     { return sortedKeys(l.full) }
func (l *LicenseInformation) Limited() []string  { return sortedKeys(l.limited) }
func (l *LicenseInformation) Inactive() []string { return sortedKeys(l.inactive) }

type licenseJSON struct {
	Full     []string `json:"full"`
	Limited  []string `json:"limited"`
	Inactive []string `json:"inactive"`
}

func (l *LicenseInformation) MarshalJSON() ([]byte, error) {
	return json.Marshal(licenseJSON{Full: l.Full(), Limited: l.Limited(), Inactive: l.Inactive()})
}

func (l *LicenseInformation) UnmarshalJSON(data []byte) error {
	var v licenseJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = *NewLicenseInformation()
	for _, t := range v.Full {
		l.full[t] = true
	}
	for _, t := range v.Limited {
		l.limited[t] = true
	}
	for _, t := range v.Inactive {
		l.inactive[t] = true
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TreePosition is a source range inside a serialized tree.
type TreePosition struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	EndLine int    `json:"endLine"`
	EndCol  int    `json:"endCol"`
}

// TreeEntry is one element of a logical level.
type TreeEntry struct {
	Name      string             `json:"name"`
	Positions []TreePosition     `json:"positions,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// LevelContainer is the stored form of one logical level.
type LevelContainer struct {
	LevelTypes []string    `json:"levelTypes"`
	Level      []TreeEntry `json:"level"`
}

type CloneInstanceEntry struct {
	Name      string             `json:"name"`
	Positions []TreePosition     `json:"positions"`
	Metrics   map[string]float64 `json:"cloneInstanceMetrics"`
}

type CloneClassEntry struct {
	Name      string               `json:"name"`
	Metrics   map[string]float64   `json:"cloneClassMetrics"`
	Instances []CloneInstanceEntry `json:"instances"`
}

// CloneClasses is the stored form of the clone tree.
type CloneClasses struct {
	Classes []CloneClassEntry `json:"classes"`
}
