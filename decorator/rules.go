package decorator

import (
	"github.com/TFMV/surrealmeter/lang"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
)

// RPG metric keys.
const (
	rpgSubroutines = "TNSR"
	rpgProcedures  = "TNPC"
	rpgComplexity  = "PC"
)

// languageRules are the language specific parts of the decorators.
type languageRules struct {
	classAndMethod func(h *Helper)
	class          func(h *Helper)
	fileComplexity func(h *Helper)
	file           func(h *Helper)
}

func rulesFor(l *lang.Language) languageRules {
	switch l {
	case lang.Python:
		return languageRules{
			classAndMethod: pythonClassAndMethod,
			class:          pythonClass,
			fileComplexity: sumChildComplexity,
			file:           fileMetrics,
		}
	case lang.RPG:
		return languageRules{
			classAndMethod: rpgClassAndMethod,
			class:          rpgClass,
			fileComplexity: sumChildComplexity,
			file:           rpgFileMetrics,
		}
	case lang.Cpp:
		return languageRules{
			classAndMethod: defaultClassAndMethod,
			class:          defaultClass,
			fileComplexity: func(h *Helper) { h.CopyMetricResult(metrics.McCC, metrics.Complexity) },
			file:           cppFileMetrics,
		}
	}
	return languageRules{
		classAndMethod: defaultClassAndMethod,
		class:          defaultClass,
		fileComplexity: sumChildComplexity,
		file:           fileMetrics,
	}
}

func defaultClassAndMethod(h *Helper) {
	h.CopyMetricResult(metrics.LLOC, metrics.Ncloc)
	h.CopyMetricResult(metrics.LOC, metrics.Lines)
	h.CopyMetricResult(metrics.NOS, metrics.Statements)
	h.SumAndCopyMeasures(metrics.Accessors, metrics.TNG, metrics.TNS)
}

func defaultClass(h *Helper) {
	h.CopyMetricResult(metrics.NLM, metrics.Functions)
	h.SumAndCopyMeasures(metrics.PublicAPI, metrics.NLPM, metrics.NLPA)
	h.CopyMetricResult(metrics.AD, metrics.PublicDocumentedAPIDensity)
	h.CopyMetricResult(metrics.PUA, metrics.PublicUndocumentedAPI)
	h.CopyMetricResult(metrics.WMC, metrics.Complexity)
}

func pythonClassAndMethod(h *Helper) {
	h.CopyMetricResult(metrics.LLOC, metrics.Ncloc)
	h.CopyMetricResult(metrics.LOC, metrics.Lines)
	h.CopyMetricResult(metrics.NOS, metrics.Statements)
}

func pythonClass(h *Helper) {
	h.CopyMetricResult(metrics.NLM, metrics.Functions)
	h.CopyMetricResult(metrics.WMC, metrics.Complexity)
}

func rpgClassAndMethod(h *Helper) {
	if h.CopyMetricResult(metrics.TNOS, metrics.Statements) == 0 {
		h.CopyMetricResult(metrics.NOS, metrics.Statements)
	}
}

func rpgClass(h *Helper) {
	h.CopyMetricResult(metrics.TCLOC, metrics.CommentLines)
	h.CopyMetricResult(metrics.TCD, metrics.CommentLinesDensity)
	h.CopyMetricResult(metrics.TLLOC, metrics.Ncloc)
	h.CopyMetricResult(metrics.TLOC, metrics.Lines)
	h.SumAndCopyMeasures(metrics.Functions, rpgSubroutines, rpgProcedures)
	h.CopyMetricResult(rpgComplexity, metrics.Complexity)
}

func sumChildComplexity(h *Helper) {
	h.SumChildMeasures(metrics.Complexity, "", true)
}

// fileMetrics takes the size metrics from the file itself and the rest from
// its classes.
func fileMetrics(h *Helper) {
	h.CopyMetricResult(metrics.LOC, metrics.Lines)
	h.CopyMetricResult(metrics.LLOC, metrics.Ncloc)
	h.CopyMetricResult(metrics.CI, metrics.DuplicatedBlocks)
	h.CopyMetricResult(metrics.LDC, metrics.DuplicatedLines)

	for _, metric := range []string{
		metrics.Statements,
		metrics.Accessors,
		metrics.CommentLines,
		metrics.PublicAPI,
		metrics.PublicUndocumentedAPI,
	} {
		h.SumChildMeasures(metric, types.KindClass, true)
	}
	for _, metric := range []string{
		metrics.CommentLinesDensity,
		metrics.PublicDocumentedAPIDensity,
		metrics.FunctionComplexity,
		metrics.ClassComplexity,
	} {
		h.AvgChildMeasuresAndCreate(metric, types.KindClass)
	}
}

func cppFileMetrics(h *Helper) {
	h.CopyMetricResult(metrics.LLOC, metrics.Ncloc)
	h.CopyMetricResult(metrics.LOC, metrics.Lines)
	h.CopyMetricResult(metrics.CLOC, metrics.CommentLines)
	h.CopyMetricResult(metrics.NOS, metrics.Statements)
	h.SumAndCopyMeasures(metrics.PublicAPI, metrics.PDA, metrics.PUA)
	h.CopyMetricResult(metrics.PUA, metrics.PublicUndocumentedAPI)

	publicAPI, _ := h.value(metrics.PublicAPI)
	if documented, ok := h.value(metrics.PDA); ok && publicAPI > 0 {
		h.save(metrics.PublicDocumentedAPIDensity, documented/publicAPI*100)
	}
	cloc, okc := h.value(metrics.CLOC)
	lloc, okl := h.value(metrics.LLOC)
	if okc && okl && cloc+lloc > 0 {
		h.save(metrics.CommentLinesDensity, cloc/(lloc+cloc)*100)
	}

	h.SumChildMeasures(metrics.Accessors, types.KindClass, false)
	h.SumChildMeasures(metrics.CLLOC, types.KindCloneClass, true)
	h.SumChildMeasures(metrics.CI, types.KindCloneClass, true)
	h.CopyMetricResult(metrics.CLLOC, metrics.DuplicatedLines)
	h.CopyMetricResult(metrics.CI, metrics.DuplicatedBlocks)
	h.AvgChildMeasures(metrics.FunctionComplexity, "")
	h.AvgChildMeasuresAndCreate(metrics.ClassComplexity, types.KindClass)
}

func rpgFileMetrics(h *Helper) {
	h.SumChildMeasures(metrics.TLLOC, types.KindClass, false)
	h.CopyMetricResult(metrics.TLLOC, metrics.Ncloc)
	h.SumChildMeasures(metrics.TLOC, types.KindClass, false)
	h.CopyMetricResult(metrics.TLOC, metrics.Lines)

	for _, metric := range []string{
		metrics.Statements,
		metrics.Accessors,
		metrics.CommentLines,
		metrics.PublicAPI,
		metrics.PublicUndocumentedAPI,
		metrics.DuplicatedBlocks,
		metrics.DuplicatedLines,
	} {
		h.SumChildMeasures(metric, types.KindClass, false)
	}
	h.AvgChildMeasures(metrics.CommentLinesDensity, types.KindClass)
	h.AvgChildMeasures(metrics.PublicDocumentedAPIDensity, types.KindClass)
	h.AvgChildMeasuresAndCreate(metrics.FunctionComplexity, types.KindClass)
}
