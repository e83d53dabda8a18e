package types

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// ResourceKind is the level of a resource in the project tree.
type ResourceKind string

const (
	KindProject       ResourceKind = "project"
	KindModule        ResourceKind = "module"
	KindDirectory     ResourceKind = "directory"
	KindFile          ResourceKind = "file"
	KindClass         ResourceKind = "class"
	KindMethod        ResourceKind = "method"
	KindFunction      ResourceKind = "function"
	KindCloneClass    ResourceKind = "clone_class"
	KindCloneInstance ResourceKind = "clone_instance"
	KindComponent     ResourceKind = "component"
)

// ResourceKinds lists every kind, from the project down.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{
		KindProject, KindModule, KindDirectory, KindFile, KindClass, KindMethod,
		KindFunction, KindCloneClass, KindCloneInstance, KindComponent,
	}
}

// IsMethodLike reports whether the kind is a method or a function.
func (k ResourceKind) IsMethodLike() bool {
	return k == KindMethod || k == KindFunction
}

// Resource is an indexed element of the analyzed project
type Resource struct {
	ID        *models.RecordID `json:"id,omitempty"`
	Key       string           `json:"key"`
	Name      string           `json:"name"`
	LongName  string           `json:"long_name"`
	Kind      ResourceKind     `json:"kind"`
	Qualifier string           `json:"qualifier,omitempty"`
	Language  string           `json:"language,omitempty"`
	Path      string           `json:"path,omitempty"`
	ParentKey string           `json:"parent_key,omitempty"`
	RunID     string           `json:"run_id"`
}

// Measure is the value of one metric on one resource
type Measure struct {
	ID          *models.RecordID `json:"id,omitempty"`
	ResourceKey string           `json:"resource_key"`
	MetricKey   string           `json:"metric_key"`
	Value       *float64         `json:"value,omitempty"`
	Data        string           `json:"data,omitempty"`
	Precision   int              `json:"precision,omitempty"`
	RunID       string           `json:"run_id"`
}

// HasValue reports whether the measure carries a numeric value.
func (m *Measure) HasValue() bool {
	return m != nil && m.Value != nil
}

// Float returns the numeric value or 0.
func (m *Measure) Float() float64 {
	if !m.HasValue() {
		return 0
	}
	return *m.Value
}

// SetValue replaces the numeric value.
func (m *Measure) SetValue(v float64) {
	m.Value = &v
}

// Issue is a rule violation reported on a file
type Issue struct {
	ID          *models.RecordID `json:"id,omitempty"`
	RuleKey     string           `json:"rule_key"`
	Repository  string           `json:"repository"`
	ResourceKey string           `json:"resource_key"`
	Path        string           `json:"path"`
	Line        int              `json:"line"`
	Message     string           `json:"message"`
	Severity    Severity         `json:"severity"`
	RunID       string           `json:"run_id"`
}

// TreeData is a serialized logical or clone tree
type TreeData struct {
	ID       *models.RecordID `json:"id,omitempty"`
	Key      string           `json:"key"`
	Language string           `json:"language"`
	Data     string           `json:"data"`
	RunID    string           `json:"run_id"`
}

// AnalysisReport contains the complete analysis results
type AnalysisReport struct {
	RunID     string
	Project   string
	Languages []string
	Resources []Resource
	Measures  []Measure
	Issues    []Issue
	Trees     []TreeData
}

// ProjectMeasures returns the measures saved on the project resource keyed by metric.
func (r AnalysisReport) ProjectMeasures() map[string]Measure {
	out := make(map[string]Measure)
	for _, m := range r.Measures {
		if m.ResourceKey == r.Project {
			out[m.MetricKey] = m
		}
	}
	return out
}

// PrettyPrint returns a formatted summary of the analysis
func (r AnalysisReport) PrettyPrint() string {
	type Summary struct {
		RunID          string             `json:"run_id"`
		Project        string             `json:"project"`
		Languages      []string           `json:"languages"`
		TotalResources int                `json:"total_resources"`
		TotalIssues    int                `json:"total_issues"`
		IssuesByRule   map[string]int     `json:"issues_by_rule"`
		Measures       map[string]float64 `json:"project_measures"`
	}

	summary := Summary{
		RunID:          r.RunID,
		Project:        r.Project,
		Languages:      append([]string(nil), r.Languages...),
		TotalResources: len(r.Resources),
		TotalIssues:    len(r.Issues),
		IssuesByRule:   make(map[string]int),
		Measures:       make(map[string]float64),
	}
	sort.Strings(summary.Languages)

	for _, is := range r.Issues {
		summary.IssuesByRule[is.RuleKey]++
	}
	for key, m := range r.ProjectMeasures() {
		if m.HasValue() {
			summary.Measures[key] = m.Float()
		}
	}

	jsonBytes, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err)
	}

	return string(jsonBytes)
}
