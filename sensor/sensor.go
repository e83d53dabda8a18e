// Package sensor loads a result graph into a resource context by running the
// tree visitors of one language in order.
package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/toolchain"
	"github.com/TFMV/surrealmeter/types"
	"github.com/TFMV/surrealmeter/visitor"
	"go.uber.org/zap"
)

// Options control which parts of the graph are loaded.
type Options struct {
	Incremental bool
	Logical     visitor.LogicalOptions
}

// OptionsFromSettings reads the analysis mode and sm.<lang>.uploadMethods and
// sm.<lang>.skipTUID.
func OptionsFromSettings(s *config.Settings, l *lang.Language) Options {
	return Options{
		Incremental: s.IsIncremental(),
		Logical: visitor.LogicalOptions{
			UploadMethods: s.GetBool(config.LanguageKey(l.Key, "uploadMethods")),
			SkipTUID:      s.GetBool(config.LanguageKey(l.Key, "skipTUID")),
		},
	}
}

// Sensor maps the graph of one language onto a resource context.
type Sensor struct {
	lang  *lang.Language
	rules []types.Rule
	opts  Options
	log   *zap.Logger
}

func New(l *lang.Language, rules []types.Rule, opts Options, log *zap.Logger) *Sensor {
	return &Sensor{
		lang:  l,
		rules: rules,
		opts:  opts,
		log:   log.With(zap.String("language", l.Key)),
	}
}

// IndexFiles indexes the files of the inventory and returns how many were added.
func IndexFiles(rc *resource.Context, inv *toolchain.Inventory) int {
	n := 0
	for _, f := range inv.Files {
		if _, ok := rc.IndexFile(f.Rel, f.Abs); ok {
			n++
		}
	}
	return n
}

// ExcludeNotAnalyzed drops the inventory files that are missing from the
// physical tree of g and returns the exclusion patterns of the dropped files.
// The C++ toolchain reports the files it actually compiled this way.
func ExcludeNotAnalyzed(ctx context.Context, g *graph.Graph, inv *toolchain.Inventory, log *zap.Logger) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	included := visitor.NewIncludedFilesVisitor()
	if err := graph.ProcessGraph(g, graph.PhysicalRoot, graph.PhysicalTree, included, log); err != nil {
		return nil, fmt.Errorf("failed to collect included files: %w", err)
	}
	exclusions := toolchain.NotAnalyzedExclusions(inv, included.Files())
	if n := inv.Exclude(exclusions); n > 0 {
		log.Info("Files not analyzed by the toolchain are excluded", zap.Int("files", n))
	}
	return exclusions, nil
}

// Analyse loads g into rc. The files of the project must already be indexed.
func (s *Sensor) Analyse(ctx context.Context, rc *resource.Context, g *graph.Graph) error {
	start := time.Now()
	h := visitor.NewHelper(rc, s.lang, s.rules, s.log)

	if err := s.saveLicense(rc, g); err != nil {
		return err
	}

	var component *visitor.ComponentVisitor
	system := s.systemComponent(g)
	if system != nil {
		total := visitor.CountNodes(g, system.UID, graph.ComponentTree)
		component = visitor.NewComponentVisitor(h, total)
	}
	logical := visitor.NewLogicalVisitor(h, visitor.CountNodes(g, graph.LogicalRoot, graph.LogicalTree), s.opts.Logical, s.log)
	physical := visitor.NewPhysicalVisitor(h, visitor.CountNodes(g, graph.PhysicalRoot, graph.PhysicalTree))
	var clone *visitor.CloneVisitor
	if !s.opts.Incremental {
		clone = visitor.NewCloneVisitor(h, visitor.CountNodes(g, graph.CloneRoot, graph.CloneTree))
	}
	s.log.Info("Initialization done", zap.Duration("elapsed", time.Since(start)))

	if component != nil {
		if err := s.process(ctx, g, system.UID, graph.ComponentTree, component); err != nil {
			return err
		}
		s.log.Info("ComponentTree processing done", zap.Duration("elapsed", component.Elapsed()))
	} else {
		s.log.Warn("System component not found", zap.String("name", s.lang.SystemName))
	}

	if err := s.process(ctx, g, graph.LogicalRoot, graph.LogicalTree, logical); err != nil {
		return err
	}
	s.log.Info("LogicalTree processing done", zap.Duration("elapsed", logical.Elapsed()))
	s.saveFunctionCounts(rc, logical.Functions())

	if err := s.process(ctx, g, graph.PhysicalRoot, graph.PhysicalTree, physical); err != nil {
		return err
	}
	s.log.Info("PhysicalTree processing done", zap.Duration("elapsed", physical.Elapsed()))

	if clone != nil {
		if err := s.process(ctx, g, graph.CloneRoot, graph.CloneTree, clone); err != nil {
			return err
		}
		s.log.Info("CloneTree processing done", zap.Duration("elapsed", clone.Elapsed()))
		s.saveDuplications(rc)
	}

	if err := s.saveTrees(ctx, rc, g); err != nil {
		return err
	}

	s.log.Info("Load data from graph and save resources and metrics done",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("issues", len(rc.Issues())))
	return nil
}

func (s *Sensor) process(ctx context.Context, g *graph.Graph, root, edgeType string, v graph.Visitor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := graph.ProcessGraph(g, root, edgeType, v, s.log); err != nil {
		return fmt.Errorf("failed to process %s: %w", edgeType, err)
	}
	return nil
}

// systemComponent returns the component holding the project level metrics.
func (s *Sensor) systemComponent(g *graph.Graph) *graph.Node {
	for _, n := range graph.FindNodes(g, s.lang.SystemType) {
		if name, ok := graph.Name(n); ok && name == s.lang.SystemName {
			return n
		}
	}
	return nil
}

// saveLicense stores the license mode of every known tool found in the
// graph header as JSON on the project.
func (s *Sensor) saveLicense(rc *resource.Context, g *graph.Graph) error {
	info := types.NewLicenseInformation()
	for _, key := range g.HeaderKeys() {
		tool, ok := strings.CutSuffix(key, "-mode")
		if !ok {
			continue
		}
		name, ok := s.lang.ToolName(tool)
		if !ok {
			continue
		}
		mode, _ := g.HeaderInfo(key)
		info.AddTool(name, mode)
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode license information: %w", err)
	}
	rc.SaveData(rc.Project().Key, s.lang.License, string(data))
	return nil
}

// saveFunctionCounts sets the functions measure of files that have none.
func (s *Sensor) saveFunctionCounts(rc *resource.Context, counts map[string]int) {
	for key, n := range counts {
		if _, ok := rc.Measure(key, metrics.Functions); ok {
			continue
		}
		rc.SaveValue(key, metrics.Functions, float64(n))
	}
}

func (s *Sensor) saveDuplications(rc *resource.Context) {
	start := time.Now()
	for fileKey, groups := range rc.Duplications() {
		rc.SaveData(fileKey, metrics.DuplicationsData, "<duplications>"+strings.Join(groups, "")+"</duplications>")
		rc.SaveValue(fileKey, metrics.DuplicatedFiles, 1)
	}
	s.log.Info("Save duplications done", zap.Duration("elapsed", time.Since(start)))
}

func (s *Sensor) saveTrees(ctx context.Context, rc *resource.Context, g *graph.Graph) error {
	logical := visitor.NewLogicalTreeSaver(s.lang, s.opts.Logical.UploadMethods)
	if err := s.process(ctx, g, graph.LogicalRoot, graph.LogicalTree, logical); err != nil {
		return err
	}
	if err := logical.Save(rc); err != nil {
		return err
	}
	if s.opts.Incremental {
		return nil
	}
	clones := visitor.NewCloneTreeSaver(s.lang)
	if err := s.process(ctx, g, graph.CloneRoot, graph.CloneTree, clones); err != nil {
		return err
	}
	return clones.Save(rc)
}
