// Package export writes an analysis report in formats other tools can import:
// the SonarQube generic issue JSON and a flat CSV of measures.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/TFMV/surrealmeter/types"
	"github.com/gocarina/gocsv"
	"github.com/spf13/afero"
	"github.com/xeipuuv/gojsonschema"
)

// Output file names written by Write.
const (
	IssuesFile   = "sonar-issues.json"
	MeasuresFile = "measures.csv"
)

const engineID = "SourceMeter"

// genericIssueSchema describes the subset of the generic issue format produced here.
const genericIssueSchema = `{
  "type": "object",
  "required": ["issues"],
  "properties": {
    "issues": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["engineId", "ruleId", "severity", "type", "primaryLocation"],
        "properties": {
          "engineId": {"type": "string", "minLength": 1},
          "ruleId": {"type": "string", "minLength": 1},
          "severity": {"enum": ["INFO", "MINOR", "MAJOR", "CRITICAL", "BLOCKER"]},
          "type": {"enum": ["BUG", "VULNERABILITY", "CODE_SMELL"]},
          "primaryLocation": {
            "type": "object",
            "required": ["message", "filePath"],
            "properties": {
              "message": {"type": "string"},
              "filePath": {"type": "string", "minLength": 1},
              "textRange": {
                "type": "object",
                "required": ["startLine"],
                "properties": {"startLine": {"type": "integer", "minimum": 1}}
              }
            }
          }
        }
      }
    }
  }
}`

// GenericIssues is the SonarQube generic issue import document.
type GenericIssues struct {
	Issues []GenericIssue `json:"issues"`
}

type GenericIssue struct {
	EngineID        string   `json:"engineId"`
	RuleID          string   `json:"ruleId"`
	Severity        string   `json:"severity"`
	Type            string   `json:"type"`
	PrimaryLocation Location `json:"primaryLocation"`
}

type Location struct {
	Message   string     `json:"message"`
	FilePath  string     `json:"filePath"`
	TextRange *TextRange `json:"textRange,omitempty"`
}

type TextRange struct {
	StartLine int `json:"startLine"`
}

// MeasureRow is one line of the measures CSV.
type MeasureRow struct {
	Resource string `csv:"resource"`
	Kind     string `csv:"kind"`
	Path     string `csv:"path"`
	Metric   string `csv:"metric"`
	Value    string `csv:"value"`
	Data     string `csv:"data"`
}

// NewGenericIssues converts the issues of a report. Issues without a
// positive line are reported on the whole file.
func NewGenericIssues(issues []types.Issue) GenericIssues {
	out := GenericIssues{Issues: make([]GenericIssue, 0, len(issues))}
	for _, is := range issues {
		severity := is.Severity
		if severity == "" {
			severity = types.SeverityMajor
		}
		gi := GenericIssue{
			EngineID: engineID,
			RuleID:   is.RuleKey,
			Severity: string(severity),
			Type:     "CODE_SMELL",
			PrimaryLocation: Location{
				Message:  is.Message,
				FilePath: filepath.ToSlash(is.Path),
			},
		}
		if is.Line > 0 {
			gi.PrimaryLocation.TextRange = &TextRange{StartLine: is.Line}
		}
		out.Issues = append(out.Issues, gi)
	}
	return out
}

// Validate checks doc against the generic issue schema.
func Validate(doc GenericIssues) error {
	schemaLoader := gojsonschema.NewStringLoader(genericIssueSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate generic issues: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return fmt.Errorf("invalid generic issues: %s", strings.Join(errs, "; "))
	}
	return nil
}

// WriteGenericIssues validates and writes the issues as indented JSON.
func WriteGenericIssues(w io.Writer, issues []types.Issue) error {
	doc := NewGenericIssues(issues)
	if err := Validate(doc); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode generic issues: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write generic issues: %w", err)
	}
	return nil
}

// MeasureRows flattens the measures of a report, sorted by resource then metric.
func MeasureRows(report types.AnalysisReport) []*MeasureRow {
	resources := make(map[string]types.Resource, len(report.Resources))
	for _, r := range report.Resources {
		resources[r.Key] = r
	}

	rows := make([]*MeasureRow, 0, len(report.Measures))
	for i := range report.Measures {
		m := &report.Measures[i]
		row := &MeasureRow{
			Resource: m.ResourceKey,
			Metric:   m.MetricKey,
			Data:     m.Data,
		}
		if r, ok := resources[m.ResourceKey]; ok {
			row.Kind = string(r.Kind)
			row.Path = r.Path
		}
		if m.HasValue() {
			row.Value = strconv.FormatFloat(m.Float(), 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Resource != rows[j].Resource {
			return rows[i].Resource < rows[j].Resource
		}
		return rows[i].Metric < rows[j].Metric
	})
	return rows
}

// WriteMeasuresCSV writes one row per measure of the report.
func WriteMeasuresCSV(w io.Writer, report types.AnalysisReport) error {
	rows := MeasureRows(report)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write measures: %w", err)
	}
	return nil
}

// Write stores both exports of report under dir.
func Write(fs afero.Fs, dir string, report types.AnalysisReport) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	var issues bytes.Buffer
	if err := WriteGenericIssues(&issues, report.Issues); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, IssuesFile), issues.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", IssuesFile, err)
	}

	var measures bytes.Buffer
	if err := WriteMeasuresCSV(&measures, report); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, MeasuresFile), measures.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", MeasuresFile, err)
	}
	return nil
}
