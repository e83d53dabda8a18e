/*
Package surrealmeter runs the SourceMeter toolchain over a project, maps the
result graph onto resources, measures and issues and stores them in SurrealDB.

Start SurrealDB:

	surreal start --user root --pass root --bind 0.0.0.0:8000 memory
*/
package surrealmeter

import (
	"context"
	"fmt"
	"strings"

	"github.com/TFMV/surrealmeter/analysis"
	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/db"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/toolchain"
	"github.com/TFMV/surrealmeter/types"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Analyzer provides a high-level interface for project analysis and storage
type Analyzer struct {
	settings *config.Settings
	analyzer *analysis.Analyzer
}

// NewAnalyzer creates an Analyzer storing into the SurrealDB configured by s
func NewAnalyzer(s *config.Settings, log *zap.Logger) (*Analyzer, error) {
	a, err := analysis.NewAnalyzer(s, log)
	if err != nil {
		return nil, err
	}
	return &Analyzer{settings: s, analyzer: a}, nil
}

// New creates an Analyzer over the given database and filesystem.
func New(s *config.Settings, database db.DB, fs afero.Fs, log *zap.Logger) *Analyzer {
	return &Analyzer{
		settings: s,
		analyzer: analysis.New(database, fs, s, toolchain.NewRunner(fs, log), log),
	}
}

// Initialize sets up the database connection and schema
func (a *Analyzer) Initialize(ctx context.Context) error {
	return a.analyzer.Initialize(ctx)
}

func (a *Analyzer) Close() error {
	return a.analyzer.Close()
}

// Analyze runs the analysis and stores its results
func (a *Analyzer) Analyze(ctx context.Context) (types.AnalysisReport, error) {
	return a.analyzer.Analyze(ctx)
}

// GetAnalysis performs the analysis without storing results
func (a *Analyzer) GetAnalysis(ctx context.Context) (types.AnalysisReport, error) {
	return a.analyzer.GetAnalysis(ctx)
}

// LoadSettings reads the settings file at path and applies the key=value
// overrides on top of it.
func LoadSettings(path string, overrides []string) (*config.Settings, error) {
	s, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		key, value, ok := strings.Cut(o, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid property %q, expected key=value", o)
		}
		s.Set(strings.TrimSpace(key), value)
	}
	return s, nil
}

// WriteProfile writes the toolchain profile of a language into dir and
// returns its path.
func WriteProfile(fs afero.Fs, s *config.Settings, languageKey, dir string, log *zap.Logger) (string, error) {
	l, ok := lang.Get(languageKey)
	if !ok {
		return "", fmt.Errorf("unknown language %q", languageKey)
	}
	return toolchain.NewInitializer(fs, s, l, toolchain.NewRunner(fs, log), log).WriteProfile(dir)
}

// NewLogger returns a production logger, or a development one when verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
