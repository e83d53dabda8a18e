// Package toolchain prepares and runs the external SourceMeter toolchain and
// locates the graph it produces.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/profile"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	incrementalSuffix = "-incremental"
	previewSuffix     = "-preview"
	findBugsFile      = "FBFile.txt"
)

var ErrNoSources = errors.New("no source files found")

// Result describes a prepared, and possibly executed, toolchain run.
type Result struct {
	ProjectName string
	BaseDir     string
	WorkDir     string
	Inventory   *Inventory
	Command     []string
	GraphPath   string
}

// Initializer prepares the toolchain inputs of one language.
type Initializer struct {
	fs       afero.Fs
	settings *config.Settings
	lang     *lang.Language
	runner   *Runner
	log      *zap.Logger
}

func NewInitializer(fs afero.Fs, s *config.Settings, l *lang.Language, runner *Runner, log *zap.Logger) *Initializer {
	return &Initializer{
		fs:       fs,
		settings: s,
		lang:     l,
		runner:   runner,
		log:      log.With(zap.String("language", l.Key)),
	}
}

func (i *Initializer) langKey(name string) string {
	return config.LanguageKey(i.lang.Key, name)
}

// Skipped reports whether sm.<lang>.skip is set.
func (i *Initializer) Skipped() bool {
	return i.settings.GetBool(i.langKey("skip"))
}

// ProjectName returns the project name including the analysis mode suffix.
func (i *Initializer) ProjectName() string {
	name := i.settings.ProjectName()
	switch {
	case i.settings.IsIncremental():
		return name + incrementalSuffix
	case i.settings.IsPreview():
		return name + previewSuffix
	}
	return name
}

// Scan builds the inventory of the language.
func (i *Initializer) Scan() (*Inventory, error) {
	baseDir, err := filepath.Abs(i.settings.GetString(config.KeyBaseDir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	return Scan(i.fs, InventoryOptions{
		BaseDir:    baseDir,
		SourceDirs: i.settings.GetStringSlice(config.KeySourceDirs),
		Inclusions: i.settings.GetStringSlice(config.KeyInclusions),
		Exclusions: i.settings.GetStringSlice(config.KeyExclusions),
		IsSource:   i.lang.IsSource,
	})
}

// Run prepares the inputs, executes the toolchain unless sm.<lang>.skipToolchain
// is set, and locates the result graph.
func (i *Initializer) Run(ctx context.Context) (*Result, error) {
	inv, err := i.Scan()
	if err != nil {
		return nil, err
	}
	if len(inv.Files) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoSources, i.lang.Name)
	}

	res := &Result{
		ProjectName: i.ProjectName(),
		BaseDir:     inv.BaseDir,
		WorkDir:     filepath.Join(inv.BaseDir, i.settings.GetString(config.KeyWorkDir), i.lang.Key),
		Inventory:   inv,
	}
	if filepath.IsAbs(i.settings.GetString(config.KeyWorkDir)) {
		res.WorkDir = filepath.Join(i.settings.GetString(config.KeyWorkDir), i.lang.Key)
	}

	if i.settings.GetBool(i.langKey("skipToolchain")) {
		i.log.Info("SourceMeter toolchain is skipped, results are loaded from the former results directory")
	} else {
		if err := i.settings.CheckProperties(); err != nil {
			return nil, fmt.Errorf("cannot run SourceMeter toolchain: %w", err)
		}
		cmd, err := i.prepare(res)
		if err != nil {
			return nil, err
		}
		res.Command = cmd

		i.log.Info("Running SourceMeter toolchain...")
		if err := i.runner.Run(ctx, cmd, inv.BaseDir, res.WorkDir); err != nil {
			return nil, err
		}
	}

	graphPath, err := GraphPath(i.fs, i.settings.GetString(config.KeyResultsDir), inv.BaseDir, res.ProjectName, i.lang.Key)
	if err != nil {
		return nil, err
	}
	res.GraphPath = graphPath
	return res, nil
}

func (i *Initializer) prepare(res *Result) ([]string, error) {
	resultsDir := i.settings.GetString(config.KeyResultsDir)
	cleanResults := i.settings.GetString(config.KeyCleanResults)

	if i.settings.IsIncremental() {
		i.log.Warn("Incremental mode is on. There are no metric based (INFO level) issues in this mode.")
	}
	if i.settings.IsPreview() {
		cleanResults = "1"
		if err := CopyPreviewState(i.fs, resultsDir, i.settings.ProjectName(), previewSuffix); err != nil {
			return nil, err
		}
	}

	opts := lang.CommandOptions{
		ToolchainDir: i.settings.GetString(config.KeyToolchainDir),
		ResultsDir:   resultsDir,
		ProjectName:  res.ProjectName,
		BaseDir:      res.BaseDir,
		CleanResults: cleanResults,
		Incremental:  i.settings.IsIncremental(),
	}

	if err := i.writeFilters(res, &opts); err != nil {
		i.log.Warn("Cannot create filter file for toolchain! No filter is used during analysis.", zap.Error(err))
	}

	profilePath, err := i.WriteProfile(res.WorkDir)
	if err != nil {
		i.log.Warn("An error occurred while creating SourceMeter profile file. Default profile is used!", zap.Error(err))
	} else {
		opts.ProfilePath = profilePath
	}

	if binaries := i.settings.GetStringSlice(i.langKey("binaries")); len(binaries) > 0 && i.lang == lang.Java {
		path, err := WriteFilter(i.fs, res.WorkDir, findBugsFile, strings.Join(binaries, "\n")+"\n")
		if err != nil {
			i.log.Warn("Could not generate input file for FindBugs. Binaries are not used during the analysis.", zap.Error(err))
		} else {
			opts.FindBugsFile = path
		}
	}

	return i.lang.Command(i.settings, opts)
}

func (i *Initializer) writeFilters(res *Result, opts *lang.CommandOptions) error {
	soft := SoftFilter(res.Inventory, i.settings.IsIncremental())

	if i.lang.FilterStyle == lang.HardFilterOnly {
		path, err := WriteFilter(i.fs, res.WorkDir, HardFilterFile, soft)
		if err != nil {
			return err
		}
		opts.HardFilterPath = path
		return nil
	}

	path, err := WriteFilter(i.fs, res.WorkDir, SoftFilterFile, soft)
	if err != nil {
		return err
	}
	opts.SoftFilterPath = path

	if hard, ok := i.settings.GetOptionalString(i.langKey("hardFilter")); ok && hard != "" {
		opts.HardFilterPath = hard
		return nil
	}
	if exclusions := i.settings.GetStringSlice(config.KeyExclusions); len(exclusions) > 0 {
		path, err := WriteFilter(i.fs, res.WorkDir, HardFilterFile, HardFilter(exclusions))
		if err != nil {
			return err
		}
		opts.HardFilterPath = path
	}
	return nil
}

// Categories returns the MetricHunter categories, overridden by the YAML file
// named by sm.<lang>.thresholdsFile.
func (i *Initializer) Categories() ([]metrics.Category, error) {
	path, ok := i.settings.GetOptionalString(i.langKey("thresholdsFile"))
	if !ok || path == "" {
		return i.lang.Categories, nil
	}
	f, err := i.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open thresholds file %s: %w", path, err)
	}
	defer f.Close()
	return metrics.LoadCategories(f, i.lang.Categories)
}

// WriteProfile writes the toolchain profile of the language into workDir.
func (i *Initializer) WriteProfile(workDir string) (string, error) {
	categories, err := i.Categories()
	if err != nil {
		return "", err
	}
	rules, err := i.lang.Rules(i.fs, i.settings)
	if err != nil {
		return "", err
	}
	if err := i.fs.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory %s: %w", workDir, err)
	}
	path := filepath.Join(workDir, profile.FileName)
	if err := profile.NewGenerator(i.lang, i.settings, categories, rules).WriteFile(i.fs, path); err != nil {
		return "", err
	}
	return path, nil
}
