package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/db"
	"github.com/TFMV/surrealmeter/decorator"
	"github.com/TFMV/surrealmeter/export"
	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/sensor"
	"github.com/TFMV/surrealmeter/toolchain"
	"github.com/TFMV/surrealmeter/types"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoLanguages = errors.New("no language could be analyzed")

// Analyzer provides a high-level interface for running the toolchain of every
// configured language and storing the merged results
type Analyzer struct {
	DB       db.DB
	fs       afero.Fs
	settings *config.Settings
	runner   *toolchain.Runner
	log      *zap.Logger
}

// NewAnalyzer creates an Analyzer backed by SurrealDB and the OS filesystem
func NewAnalyzer(settings *config.Settings, log *zap.Logger) (*Analyzer, error) {
	sdb, err := db.NewSurrealDB(db.ConfigFromSettings(settings))
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	fs := afero.NewOsFs()
	return New(sdb, fs, settings, toolchain.NewRunner(fs, log), log), nil
}

func New(database db.DB, fs afero.Fs, settings *config.Settings, runner *toolchain.Runner, log *zap.Logger) *Analyzer {
	return &Analyzer{
		DB:       database,
		fs:       fs,
		settings: settings,
		runner:   runner,
		log:      log,
	}
}

// Initialize sets up the database connection and schema
func (a *Analyzer) Initialize(ctx context.Context) error {
	return a.DB.Initialize(ctx)
}

// Close releases the database connection.
func (a *Analyzer) Close() error {
	return a.DB.Close()
}

// Analyze runs the analysis, stores the report and writes the exports when
// sm.exportDir is set
func (a *Analyzer) Analyze(ctx context.Context) (types.AnalysisReport, error) {
	report, err := a.GetAnalysis(ctx)
	if err != nil {
		return types.AnalysisReport{}, fmt.Errorf("failed to analyze project: %w", err)
	}

	if err := a.DB.StoreAnalysis(ctx, report); err != nil {
		return types.AnalysisReport{}, fmt.Errorf("failed to store analysis results: %w", err)
	}

	if dir := a.settings.GetString(config.KeyExportDir); dir != "" {
		if err := export.Write(a.fs, dir, report); err != nil {
			return types.AnalysisReport{}, fmt.Errorf("failed to export analysis results: %w", err)
		}
		a.log.Info("Analysis results exported", zap.String("dir", dir))
	}

	return report, nil
}

// Languages returns the enabled languages in configuration order.
func (a *Analyzer) Languages() ([]*lang.Language, error) {
	var out []*lang.Language
	for _, key := range a.settings.GetStringSlice(config.KeyLanguages) {
		l, ok := lang.Get(key)
		if !ok {
			return nil, fmt.Errorf("unknown language %q", key)
		}
		if a.settings.GetBool(config.LanguageKey(l.Key, "skip")) {
			a.log.Info("Language skipped", zap.String("language", l.Key))
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// GetAnalysis performs the analysis without storing results
func (a *Analyzer) GetAnalysis(ctx context.Context) (types.AnalysisReport, error) {
	projectKey := a.settings.GetString(config.KeyProjectKey)
	if projectKey == "" {
		return types.AnalysisReport{}, fmt.Errorf("%w: %s", config.ErrMissingProperty, config.KeyProjectKey)
	}
	langs, err := a.Languages()
	if err != nil {
		return types.AnalysisReport{}, err
	}
	runID := uuid.NewString()

	contexts := make([]*resource.Context, len(langs))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range langs {
		i, l := i, l
		g.Go(func() error {
			rc, err := a.analyzeLanguage(gctx, l, projectKey, runID)
			if err != nil {
				return fmt.Errorf("failed to analyze %s: %w", l.Name, err)
			}
			contexts[i] = rc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.AnalysisReport{}, err
	}

	var analyzed []*lang.Language
	var results []*resource.Context
	for i, rc := range contexts {
		if rc != nil {
			analyzed = append(analyzed, langs[i])
			results = append(results, rc)
		}
	}
	if len(results) == 0 {
		return types.AnalysisReport{}, ErrNoLanguages
	}

	return a.merge(ctx, projectKey, runID, analyzed, results)
}

// analyzeLanguage returns nil without error when the language has no sources.
func (a *Analyzer) analyzeLanguage(ctx context.Context, l *lang.Language, projectKey, runID string) (*resource.Context, error) {
	log := a.log.With(zap.String("language", l.Key))

	res, err := toolchain.NewInitializer(a.fs, a.settings, l, a.runner, a.log).Run(ctx)
	if errors.Is(err, toolchain.ErrNoSources) {
		log.Info("No source files, language is not analyzed")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	g, err := graph.Load(ctx, a.fs, res.GraphPath)
	if err != nil {
		return nil, err
	}

	if l.Logical == lang.LogicalCpp {
		if _, err := sensor.ExcludeNotAnalyzed(ctx, g, res.Inventory, log); err != nil {
			return nil, err
		}
	}

	rc := resource.NewContext(projectKey, projectKey, l.Key, runID)
	indexed := sensor.IndexFiles(rc, res.Inventory)
	log.Debug("Files indexed", zap.Int("files", indexed))

	rules, err := l.Rules(a.fs, a.settings)
	if err != nil {
		return nil, err
	}
	if err := sensor.New(l, rules, sensor.OptionsFromSettings(a.settings, l), a.log).Analyse(ctx, rc, g); err != nil {
		return nil, err
	}
	if err := decorator.Run(ctx, rc, decorator.ForLanguage(l, a.log)); err != nil {
		return nil, fmt.Errorf("failed to decorate resources: %w", err)
	}
	return rc, nil
}

// merge copies the resources of every language under one project and
// computes the project measures.
func (a *Analyzer) merge(ctx context.Context, projectKey, runID string, langs []*lang.Language, results []*resource.Context) (types.AnalysisReport, error) {
	merged := resource.NewContext(projectKey, projectKey, "", runID)
	report := types.AnalysisReport{
		RunID:   runID,
		Project: projectKey,
	}

	sets := make([]map[string]types.Measure, 0, len(results))
	for i, rc := range results {
		report.Languages = append(report.Languages, langs[i].Key)
		sets = append(sets, rc.MeasureSet(projectKey))

		resources, measures := rc.Snapshot()
		for _, r := range resources {
			if r.Key == projectKey {
				continue
			}
			if !merged.Index(r) {
				a.log.Debug("Resource already merged", zap.String("resource", r.Key))
			}
		}
		for _, m := range measures {
			if m.ResourceKey != projectKey {
				merged.SaveMeasure(m.ResourceKey, m)
			}
		}
		report.Issues = append(report.Issues, rc.Issues()...)
		report.Trees = append(report.Trees, rc.Trees()...)
	}
	sort.Strings(report.Languages)

	decorator.NewProjectDecorator(langs, a.log).Decorate(merged, sets)
	err := decorator.Run(ctx, merged, []decorator.Decorator{
		decorator.NewTotalsDecorator(a.log),
		decorator.NewLicenseDecorator(langs, a.log),
		decorator.NewComplexityPostDecorator(),
	})
	if err != nil {
		return types.AnalysisReport{}, fmt.Errorf("failed to decorate project: %w", err)
	}

	report.Resources, report.Measures = merged.Snapshot()
	a.log.Info("Analysis done",
		zap.Strings("languages", report.Languages),
		zap.Int("resources", len(report.Resources)),
		zap.Int("issues", len(report.Issues)))
	return report, nil
}
