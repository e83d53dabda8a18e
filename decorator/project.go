package decorator

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/types"
	"go.uber.org/zap"
)

// weightedMetrics maps the project metrics averaged across languages to the
// metric weighting them.
var weightedMetrics = map[string]string{
	metrics.TAD:  metrics.TLOC,
	metrics.TCD:  metrics.TCLOC,
	metrics.TPDA: metrics.TLOC,
	metrics.TPUA: metrics.TLOC,
	metrics.CLC:  metrics.TLOC,
	metrics.CLLC: metrics.TLLOC,
	metrics.CC:   metrics.TLOC,
	metrics.CCO:  metrics.CI,
	metrics.NCR:  metrics.CCL,
}

var coreMetrics = metrics.NewFinder(nil, nil)

// dashboardMetrics are recomputed from the files of all languages.
var dashboardMetrics = func() map[string]bool {
	out := make(map[string]bool, len(metrics.Dashboard))
	for _, m := range metrics.Dashboard {
		out[m.Key] = true
	}
	return out
}()

// ProjectDecorator merges the project measures of the analyzed languages.
type ProjectDecorator struct {
	langs []*lang.Language
	log   *zap.Logger
}

func NewProjectDecorator(langs []*lang.Language, log *zap.Logger) *ProjectDecorator {
	return &ProjectDecorator{langs: langs, log: log}
}

func (d *ProjectDecorator) metric(key string) (types.Metric, bool) {
	for _, l := range d.langs {
		if m, ok := l.Finder().FindByKey(key); ok {
			return m, true
		}
	}
	return coreMetrics.FindByKey(key)
}

// Decorate saves on the project of target every metric found in sets that
// the project does not have yet. Weighted and percent metrics are averaged,
// the others summed. Data measures are copied from the first set holding them.
// Dashboard metrics are left to the totals of the merged files.
func (d *ProjectDecorator) Decorate(target *resource.Context, sets []map[string]types.Measure) {
	project := target.Project().Key

	keys := make(map[string]bool)
	for _, set := range sets {
		for k := range set {
			if dashboardMetrics[k] {
				continue
			}
			keys[k] = true
		}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, key := range sorted {
		if _, ok := target.Measure(project, key); ok {
			continue
		}
		if !hasValue(sets, key) {
			for _, set := range sets {
				if m, ok := set[key]; ok && m.Data != "" {
					target.SaveData(project, key, m.Data)
					break
				}
			}
			continue
		}

		_, weighted := weightedMetrics[key]
		m, known := d.metric(key)
		if weighted || (known && m.Type == types.ValuePercent) {
			target.SaveValue(project, key, average(sets, key))
		} else {
			target.SaveValue(project, key, sum(sets, key))
		}
	}
	d.log.Debug("Project measures merged", zap.Int("languages", len(sets)), zap.Int("metrics", len(sorted)))
}

func hasValue(sets []map[string]types.Measure, key string) bool {
	for _, set := range sets {
		if m, ok := set[key]; ok && m.HasValue() {
			return true
		}
	}
	return false
}

func sum(sets []map[string]types.Measure, key string) float64 {
	total := 0
	for _, set := range sets {
		if m, ok := set[key]; ok && m.HasValue() {
			total += int(m.Float())
		}
	}
	return float64(total)
}

// average weights the value of every set holding key by its weight metric.
// A missing or zero weight counts as 1.
func average(sets []map[string]types.Measure, key string) float64 {
	weightKey, weighted := weightedMetrics[key]
	var total, weights float64
	for _, set := range sets {
		m, ok := set[key]
		if !ok || !m.HasValue() || math.IsNaN(m.Float()) {
			continue
		}
		v := m.Float()
		w := 0.0
		if weighted {
			if wm, ok := set[weightKey]; ok {
				w = wm.Float()
			}
		}
		if w > 0 {
			weights += w
			v *= w
		} else {
			weights++
		}
		total += v
	}
	if weights > 0 {
		total /= weights
	}
	return total
}

// LicenseDecorator merges the license measures of the languages into the
// license of the project.
type LicenseDecorator struct {
	langs []*lang.Language
	log   *zap.Logger
}

func NewLicenseDecorator(langs []*lang.Language, log *zap.Logger) *LicenseDecorator {
	return &LicenseDecorator{langs: langs, log: log}
}

func (d *LicenseDecorator) Name() string { return "LicenseDecorator" }

func (d *LicenseDecorator) Decorate(rc *resource.Context, r *types.Resource) {
	if !rc.IsProject(r.Key) {
		return
	}
	if _, ok := rc.Measure(r.Key, metrics.License); ok {
		return
	}

	var merged *types.LicenseInformation
	for _, l := range d.langs {
		m, ok := rc.Measure(r.Key, l.License)
		if !ok || m.Data == "" {
			continue
		}
		info := types.NewLicenseInformation()
		if err := json.Unmarshal([]byte(m.Data), info); err != nil {
			d.log.Warn("Cannot read license information", zap.String("metric", l.License), zap.Error(err))
			continue
		}
		if merged == nil {
			merged = info
		} else {
			merged.Merge(info)
		}
	}
	if merged == nil {
		return
	}
	data, err := json.Marshal(merged)
	if err != nil {
		d.log.Warn("Cannot encode license information", zap.Error(err))
		return
	}
	rc.SaveData(r.Key, metrics.License, string(data))
}
