package visitor

import (
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/TFMV/surrealmeter/cache"
	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/resource"
	"github.com/TFMV/surrealmeter/types"
	"go.uber.org/zap"
)

const (
	// DefaultPrecision is used for float measures.
	DefaultPrecision = 3

	maxMessageLength = 3950
	traceHeader      = "<br/>Trace:<br/>"
	traceCut         = "...<br/>"
)

// Helper turns graph attributes into measures and issues of one language.
type Helper struct {
	ctx   *resource.Context
	lang  *lang.Language
	rules map[string]types.Rule
	log   *zap.Logger
}

// NewHelper creates a helper writing into ctx. rules give the severity of
// reported issues.
func NewHelper(ctx *resource.Context, l *lang.Language, rules []types.Rule, log *zap.Logger) *Helper {
	byKey := make(map[string]types.Rule, len(rules))
	for _, r := range rules {
		byKey[r.Key] = r
	}
	return &Helper{ctx: ctx, lang: l, rules: byKey, log: log}
}

func (h *Helper) Context() *resource.Context { return h.ctx }
func (h *Helper) Language() *lang.Language   { return h.lang }

// PathFromNode returns the path of the first position of n, or "".
func (h *Helper) PathFromNode(n *graph.Node) string {
	if n == nil {
		return ""
	}
	if p := graph.FirstPosition(n); p != nil {
		return p.Path
	}
	return ""
}

// CreateMeasureFromAttribute converts a metric attribute to a measure of
// resourceKey. The measure already saved for the metric is reused. It returns
// nil for unknown metrics and attributes without a usable value.
func (h *Helper) CreateMeasureFromAttribute(a graph.Attribute, resourceKey string) *types.Measure {
	metric, ok := h.lang.Finder().FindByKey(a.Name)
	if !ok {
		return nil
	}

	m := types.Measure{MetricKey: metric.Key}
	if existing, ok := h.ctx.Measure(resourceKey, metric.Key); ok {
		m = *existing
	}

	switch a.Type {
	case graph.AttrInt:
		m.SetValue(float64(a.Int))
	case graph.AttrFloat:
		v := a.Float
		if math.IsNaN(v) || math.IsInf(v, 0) {
			break
		}
		if metric.Type == types.ValuePercent {
			v *= 100
		}
		m.SetValue(v)
		m.Precision = DefaultPrecision
	}

	if !m.HasValue() && m.Data == "" {
		return nil
	}
	return &m
}

// UploadMetrics saves the measure of a metric attribute on resourceKey.
func (h *Helper) UploadMetrics(a graph.Attribute, resourceKey string) {
	m := h.CreateMeasureFromAttribute(a, resourceKey)
	if m == nil {
		return
	}
	if !h.ctx.SaveMeasure(resourceKey, *m) {
		h.log.Warn("Cannot save measure on unknown resource",
			zap.String("metric", m.MetricKey),
			zap.String("resource", resourceKey))
	}
}

// UploadEmptyRulesetMetricsByZero saves 0 for every ruleset metric of the
// language not yet measured on resourceKey.
func (h *Helper) UploadEmptyRulesetMetricsByZero(resourceKey string) {
	for _, m := range h.lang.Finder().LanguageSpecificRulesetMetrics() {
		if _, ok := h.ctx.Measure(resourceKey, m.Key); ok {
			continue
		}
		h.ctx.SaveValue(resourceKey, m.Key, 0)
	}
}

// CorrectedRuleKey maps a warning attribute name to the key of its rule.
func (h *Helper) CorrectedRuleKey(name string) string {
	return h.lang.RuleKey(name)
}

// UploadWarnings reports the composite warning attribute a as an issue on the
// file it names. Warnings on files outside the index or without a rule key are
// dropped.
func (h *Helper) UploadWarnings(a graph.Attribute) {
	var (
		warningPath string
		line        int
		text        strings.Builder
		trace       string
	)
	for _, c := range a.Children {
		switch c.Name {
		case "Path":
			warningPath = c.Str
		case "Line":
			line = c.Int
		case "WarningText":
			text.WriteString(c.Str)
		case "ExtraInfo":
			trace = h.stackTrace(c, text.Len())
		}
	}

	file, ok := h.ctx.FileForPath(warningPath)
	if !ok {
		h.log.Debug("Warning on a file that is not indexed",
			zap.String("rule", a.Name),
			zap.String("path", warningPath))
		return
	}

	ruleKey := h.CorrectedRuleKey(a.Name)
	if ruleKey == "" {
		h.log.Debug("Warning without rule key", zap.String("warning", a.Name))
		return
	}
	severity := types.SeverityMajor
	if r, ok := h.rules[ruleKey]; ok && r.Severity != "" {
		severity = r.Severity
	}

	h.ctx.AddIssue(types.Issue{
		RuleKey:     ruleKey,
		Repository:  h.lang.RepositoryKey(),
		ResourceKey: file.Key,
		Path:        file.LongName,
		Line:        line,
		Message:     h.lang.WarningText(a.Name, text.String()) + trace,
		Severity:    severity,
	})
}

// stackTrace renders the SourceLink children of an ExtraInfo attribute. Links
// are kept from the end while the message stays within maxMessageLength.
func (h *Helper) stackTrace(extra graph.Attribute, textLen int) string {
	var (
		links    []string
		prevPath string
		prevLine int
	)
	for _, link := range extra.Children {
		var (
			p     string
			line  int
			depth int
		)
		for _, c := range link.Children {
			switch c.Name {
			case "Path":
				p = c.Str
			case "Line":
				line = c.Int
			case "CallStackDepth":
				depth = c.Int
			}
		}
		if p == prevPath && line == prevLine {
			continue
		}
		prevPath, prevLine = p, line
		links = append(links, h.traceLink(p, line, depth))
	}

	sum := textLen
	index := len(links)
	for index > 0 {
		n := len(links[index-1])
		if sum+n > maxMessageLength {
			break
		}
		sum += n
		index--
	}

	var b strings.Builder
	b.WriteString(traceHeader)
	if index > 0 {
		b.WriteString(traceCut)
	}
	for _, l := range links[index:] {
		b.WriteString(l)
	}
	return b.String()
}

func (h *Helper) traceLink(p string, line, depth int) string {
	id := cache.NormalizePath(p)
	name := path.Base(id)
	if file, ok := h.ctx.FileForPath(p); ok {
		id, name = file.Key, file.Name
	}
	sign := ""
	if depth > 0 {
		sign = "+"
	}
	return fmt.Sprintf("__%s:%s:%d:%s%d__<br/>", id, name, line, sign, depth)
}
