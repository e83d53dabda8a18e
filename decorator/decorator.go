// Package decorator derives the dashboard measures of classes, methods, files
// and the project from the measures loaded out of the graph.
package decorator

import (
	"context"

	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/types"
	"go.uber.org/zap"
)

// Decorator computes the measures of a resource after its children have been
// decorated.
type Decorator interface {
	Name() string
	Decorate(rc *resource.Context, r *types.Resource)
}

// ForLanguage returns the decorators of l in the order they run on a resource.
func ForLanguage(l *lang.Language, log *zap.Logger) []Decorator {
	return []Decorator{
		NewDefaultDecorator(l),
		NewFileMetricsDecorator(l, log),
		NewTotalsDecorator(log),
		NewComplexityPostDecorator(),
	}
}

// Run applies the decorators to every resource of rc, children before parents.
func Run(ctx context.Context, rc *resource.Context, decorators []Decorator) error {
	var walk func(r *types.Resource) error
	walk = func(r *types.Resource) error {
		for _, child := range rc.Children(r.Key, "") {
			if err := walk(child); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, d := range decorators {
			d.Decorate(rc, r)
		}
		return nil
	}
	return walk(rc.Project())
}

// DefaultDecorator maps the class and method metrics of a language onto the
// dashboard measures.
type DefaultDecorator struct {
	lang  *lang.Language
	rules languageRules
}

func NewDefaultDecorator(l *lang.Language) *DefaultDecorator {
	return &DefaultDecorator{lang: l, rules: rulesFor(l)}
}

func (d *DefaultDecorator) Name() string { return "DefaultDecorator" }

func (d *DefaultDecorator) Decorate(rc *resource.Context, r *types.Resource) {
	if r.Language != "" && r.Language != d.lang.Key {
		return
	}
	if r.Kind != types.KindClass && !r.Kind.IsMethodLike() {
		return
	}

	h := NewHelper(rc, r.Key)
	d.rules.classAndMethod(h)
	h.CopyMetricResult(metrics.CLOC, metrics.CommentLines)
	h.CopyMetricResult(metrics.CD, metrics.CommentLinesDensity)
	h.CopyMetricResult(metrics.CI, metrics.DuplicatedBlocks)
	h.CopyMetricResult(metrics.LDC, metrics.DuplicatedLines)
	h.CopyMetricResult(metrics.DuplicatedFiles, metrics.DuplicatedFilesCount)

	if r.Kind == types.KindClass {
		d.rules.class(h)
		return
	}
	h.CopyMetricResult(metrics.McCC, metrics.Complexity)
	if v, ok := h.value(metrics.Complexity); ok {
		dist := newDistribution(functionLimits)
		dist.add(v, 1)
		rc.SaveData(r.Key, metrics.FunctionComplexityDistribution, dist.String())
	}
}

// FileMetricsDecorator aggregates the measures of a source file from the file
// metrics and its classes.
type FileMetricsDecorator struct {
	lang  *lang.Language
	rules languageRules
	log   *zap.Logger
}

func NewFileMetricsDecorator(l *lang.Language, log *zap.Logger) *FileMetricsDecorator {
	return &FileMetricsDecorator{lang: l, rules: rulesFor(l), log: log}
}

func (d *FileMetricsDecorator) Name() string { return "FileMetricsDecorator" }

func (d *FileMetricsDecorator) Decorate(rc *resource.Context, r *types.Resource) {
	if r.Kind != types.KindFile || r.Language != d.lang.Key {
		return
	}
	h := NewHelper(rc, r.Key)

	h.save(metrics.Classes, float64(len(rc.Children(r.Key, types.KindClass))))
	h.save(metrics.Files, 1)
	if !h.has(metrics.SMResource) {
		h.save(metrics.SMResource, 1)
	}

	d.rules.fileComplexity(h)
	d.rules.file(h)

	if v, ok := h.value(metrics.Complexity); ok {
		dist := newDistribution(fileLimits)
		dist.add(v, 1)
		rc.SaveData(r.Key, metrics.FileComplexityDistribution, dist.String())
	}
	d.mergeFunctionDistributions(rc, r)

	if h.has(metrics.DuplicationsData) {
		h.save(metrics.DuplicatedFiles, 1)
	}
	h.CopyMetricResult(metrics.DuplicatedFiles, metrics.DuplicatedFilesCount)
}

// mergeFunctionDistributions sums the distributions of the methods and
// functions found below the file.
func (d *FileMetricsDecorator) mergeFunctionDistributions(rc *resource.Context, file *types.Resource) {
	dist := newDistribution(functionLimits)
	found := false
	var walk func(key string)
	walk = func(key string) {
		for _, child := range rc.Children(key, "") {
			switch {
			case child.Kind.IsMethodLike():
				m, ok := rc.Measure(child.Key, metrics.FunctionComplexityDistribution)
				if !ok {
					continue
				}
				if err := dist.merge(m.Data); err != nil {
					d.log.Warn("Cannot merge function complexity distribution",
						zap.String("resource", child.Key), zap.Error(err))
					continue
				}
				found = true
			case child.Kind == types.KindClass:
				walk(child.Key)
			}
		}
	}
	walk(file.Key)
	if found {
		rc.SaveData(file.Key, metrics.FunctionComplexityDistribution, dist.String())
	}
}

// TotalsDecorator sums the file measures of one language on the project.
type TotalsDecorator struct {
	log *zap.Logger
}

func NewTotalsDecorator(log *zap.Logger) *TotalsDecorator {
	return &TotalsDecorator{log: log}
}

func (d *TotalsDecorator) Name() string { return "TotalsDecorator" }

var summedFileMetrics = []string{
	metrics.Lines,
	metrics.Ncloc,
	metrics.Statements,
	metrics.Classes,
	metrics.Functions,
	metrics.Complexity,
	metrics.CommentLines,
	metrics.Accessors,
	metrics.PublicAPI,
	metrics.PublicUndocumentedAPI,
	metrics.DuplicatedBlocks,
	metrics.DuplicatedLines,
	metrics.DuplicatedFilesCount,
}

func (d *TotalsDecorator) Decorate(rc *resource.Context, r *types.Resource) {
	if !rc.IsProject(r.Key) {
		return
	}
	h := NewHelper(rc, r.Key)
	files := rc.Children(r.Key, types.KindFile)
	h.save(metrics.Files, float64(len(files)))
	for _, metric := range summedFileMetrics {
		h.SumChildMeasures(metric, types.KindFile, true)
	}
	h.CountWeightedAverageOfMetric(metrics.CommentLinesDensity, metrics.Ncloc, types.KindFile)
	h.CountWeightedAverageOfMetric(metrics.PublicDocumentedAPIDensity, metrics.PublicAPI, types.KindFile)

	for metric, limits := range map[string][]float64{
		metrics.FunctionComplexityDistribution: functionLimits,
		metrics.FileComplexityDistribution:     fileLimits,
	} {
		dist := newDistribution(limits)
		for _, f := range files {
			m, ok := rc.Measure(f.Key, metric)
			if !ok {
				continue
			}
			if err := dist.merge(m.Data); err != nil {
				d.log.Warn("Cannot merge complexity distribution",
					zap.String("resource", f.Key), zap.String("metric", metric), zap.Error(err))
			}
		}
		rc.SaveData(r.Key, metric, dist.String())
	}
}

// ComplexityPostDecorator computes the average complexities once complexity
// and the counters are final.
type ComplexityPostDecorator struct{}

func NewComplexityPostDecorator() *ComplexityPostDecorator {
	return &ComplexityPostDecorator{}
}

func (d *ComplexityPostDecorator) Name() string { return "ComplexityPostDecorator" }

func (d *ComplexityPostDecorator) Decorate(rc *resource.Context, r *types.Resource) {
	h := NewHelper(rc, r.Key)
	complexity, ok := h.value(metrics.Complexity)
	if !ok {
		return
	}
	for target, counter := range map[string]string{
		metrics.FileComplexity:     metrics.Files,
		metrics.FunctionComplexity: metrics.Functions,
		metrics.ClassComplexity:    metrics.Classes,
	} {
		if n, ok := h.value(counter); ok && n > 0 {
			h.save(target, complexity/n)
		}
	}
}
