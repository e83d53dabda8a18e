package decorator

import (
	"math"

	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/types"
	"github.com/montanaflynn/stats"
)

// Helper computes measures of one resource from its own measures and the
// measures of its children.
type Helper struct {
	ctx *resource.Context
	key string
}

func NewHelper(ctx *resource.Context, key string) *Helper {
	return &Helper{ctx: ctx, key: key}
}

func (h *Helper) value(metric string) (float64, bool) {
	m, ok := h.ctx.Measure(h.key, metric)
	if !ok || !m.HasValue() {
		return 0, false
	}
	return m.Float(), true
}

func (h *Helper) has(metric string) bool {
	_, ok := h.ctx.Measure(h.key, metric)
	return ok
}

func (h *Helper) save(metric string, v float64) {
	h.ctx.SaveValue(h.key, metric, v)
}

// CopyMetricResult copies the value of from into to and returns it. Nothing is
// saved, and 0 is returned, when from has no value.
func (h *Helper) CopyMetricResult(from, to string) float64 {
	v, ok := h.value(from)
	if !ok {
		return 0
	}
	h.save(to, v)
	return v
}

// SumAndCopyMeasures saves the sum of the values of from into to. Missing
// values count as zero.
func (h *Helper) SumAndCopyMeasures(to string, from ...string) float64 {
	sum := 0.0
	for _, metric := range from {
		if v, ok := h.value(metric); ok {
			sum += v
		}
	}
	h.save(to, sum)
	return sum
}

// childValues returns the values of metric on the children of the given
// kind. An empty kind matches every child. NaN values are dropped.
func (h *Helper) childValues(metric string, kind types.ResourceKind) stats.Float64Data {
	var data stats.Float64Data
	for _, child := range h.ctx.Children(h.key, kind) {
		m, ok := h.ctx.Measure(child.Key, metric)
		if !ok || !m.HasValue() || math.IsNaN(m.Float()) {
			continue
		}
		data = append(data, m.Float())
	}
	return data
}

// SumChildMeasures replaces metric with the sum over the children of the
// given kind. Without create, only an existing measure is updated.
func (h *Helper) SumChildMeasures(metric string, kind types.ResourceKind, create bool) {
	if !create && !h.has(metric) {
		return
	}
	sum := 0.0
	if data := h.childValues(metric, kind); len(data) > 0 {
		sum, _ = stats.Sum(data)
	}
	h.save(metric, sum)
}

// AvgChildMeasures replaces an existing metric with the mean over the
// children of the given kind. Nothing is saved when no child has a value.
func (h *Helper) AvgChildMeasures(metric string, kind types.ResourceKind) {
	if !h.has(metric) {
		return
	}
	h.avgChildMeasures(metric, kind)
}

// AvgChildMeasuresAndCreate is AvgChildMeasures, saving 0 first when the
// metric is missing.
func (h *Helper) AvgChildMeasuresAndCreate(metric string, kind types.ResourceKind) {
	if !h.has(metric) {
		h.save(metric, 0)
	}
	h.avgChildMeasures(metric, kind)
}

func (h *Helper) avgChildMeasures(metric string, kind types.ResourceKind) {
	data := h.childValues(metric, kind)
	if len(data) == 0 {
		return
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return
	}
	h.save(metric, mean)
}

// CountWeightedAverageOfMetric saves the average of target over the children
// of the given kind, weighted by weightedBy. Children missing either value are
// skipped.
func (h *Helper) CountWeightedAverageOfMetric(target, weightedBy string, kind types.ResourceKind) {
	var sum, weights float64
	for _, child := range h.ctx.Children(h.key, kind) {
		t, ok := h.ctx.Measure(child.Key, target)
		if !ok || !t.HasValue() || math.IsNaN(t.Float()) {
			continue
		}
		w, ok := h.ctx.Measure(child.Key, weightedBy)
		if !ok || !w.HasValue() || math.IsNaN(w.Float()) {
			continue
		}
		weights += w.Float()
		sum += w.Float() * t.Float()
	}
	avg := 0.0
	if sum != 0 {
		avg = sum / weights
	}
	h.save(target, avg)
}
