package metrics

import (
	"sort"

	"github.com/TFMV/surrealmeter/types"
)

// Finder resolves metric keys for one language.
type Finder struct {
	byKey    map[string]types.Metric
	rulesets []types.Metric
}

// NewFinder builds a finder over the core and dashboard metrics plus the given
// language metrics. rulesets are the rule group metrics zero-filled on every
// logical resource of the language.
func NewFinder(language []types.Metric, rulesets []types.Metric) *Finder {
	f := &Finder{
		byKey:    make(map[string]types.Metric),
		rulesets: rulesets,
	}
	for _, set := range [][]types.Metric{Core, Dashboard, language, rulesets} {
		for _, m := range set {
			f.byKey[m.Key] = m
		}
	}
	return f
}

func (f *Finder) FindByKey(key string) (types.Metric, bool) {
	m, ok := f.byKey[key]
	return m, ok
}

// FindAll returns the metrics for the given keys, skipping unknown ones. With no
// keys it returns every metric sorted by key.
func (f *Finder) FindAll(keys ...string) []types.Metric {
	if len(keys) == 0 {
		out := make([]types.Metric, 0, len(f.byKey))
		for _, m := range f.byKey {
			out = append(out, m)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
		return out
	}
	var out []types.Metric
	for _, k := range keys {
		if m, ok := f.byKey[k]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *Finder) LanguageSpecificRulesetMetrics() []types.Metric {
	return f.rulesets
}
