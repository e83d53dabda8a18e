// Package metrics declares the metrics produced by the toolchain and the
// measures derived from them.
package metrics

import (
	"strings"

	"github.com/TFMV/surrealmeter/types"
)

// Domains.
const (
	DomainSize          = "SM:Size"
	DomainComplexity    = "SM:Complexity"
	DomainWarnings      = "SM:Rule Priorities"
	DomainDocumentation = "SM:Documentation"
	DomainCoupling      = "SM:Coupling"
	DomainInheritance   = "SM:Inheritance"
	DomainCohesion      = "SM:Cohesion"
	DomainClone         = "SM:Clone"
	DomainRulesets      = "SM:Rulesets"
	DomainGeneral       = "General"
)

// Keys referenced by code.
const (
	License         = "SM:license"
	SMResource      = "SM:resource"
	BeginLine       = "SM:beginline"
	EndLine         = "SM:endline"
	DuplicatedFiles = "SM:duplicated_files"

	LOC    = "LOC"
	TLOC   = "TLOC"
	LLOC   = "LLOC"
	TLLOC  = "TLLOC"
	NOS    = "NOS"
	TNOS   = "TNOS"
	CLOC   = "CLOC"
	TCLOC  = "TCLOC"
	CD     = "CD"
	TCD    = "TCD"
	AD     = "AD"
	TAD    = "TAD"
	PUA    = "PUA"
	PDA    = "PDA"
	TPUA   = "TPUA"
	TPDA   = "TPDA"
	NLM    = "NLM"
	NLPM   = "NLPM"
	NLPA   = "NLPA"
	TNG    = "TNG"
	TNS    = "TNS"
	McCC   = "McCC"
	WMC    = "WMC"
	CC     = "CC"
	CCL    = "CCL"
	CCO    = "CCO"
	CI     = "CI"
	CLLOC  = "CLLOC"
	CLC    = "CLC"
	CLLC   = "CLLC"
	LDC    = "LDC"
	NCR    = "NCR"
	NUMPAR = "NUMPAR"
)

// Keys of the generic dashboard measures filled by the decorators.
const (
	Lines                          = "lines"
	Ncloc                          = "ncloc"
	Statements                     = "statements"
	CommentLines                   = "comment_lines"
	CommentLinesDensity            = "comment_lines_density"
	DuplicatedBlocks               = "duplicated_blocks"
	DuplicatedLines                = "duplicated_lines"
	DuplicatedFilesCount           = "duplicated_files"
	DuplicationsData               = "duplications_data"
	Accessors                      = "accessors"
	Functions                      = "functions"
	Classes                        = "classes"
	Files                          = "files"
	PublicAPI                      = "public_api"
	PublicDocumentedAPIDensity     = "public_documented_api_density"
	PublicUndocumentedAPI          = "public_undocumented_api"
	Complexity                     = "complexity"
	FileComplexity                 = "file_complexity"
	FunctionComplexity             = "function_complexity"
	ClassComplexity                = "class_complexity"
	FunctionComplexityDistribution = "function_complexity_distribution"
	FileComplexityDistribution     = "file_complexity_distribution"
)

func hidden(key, name string, vt types.ValueType) types.Metric {
	return types.Metric{Key: key, Name: name, Type: vt, Hidden: true}
}

func metric(key, name string, vt types.ValueType, domain string) types.Metric {
	return types.Metric{Key: key, Name: name, Type: vt, Domain: domain}
}

func better(m types.Metric) types.Metric {
	m.Direction = types.DirectionBest
	m.Qualitative = true
	return m
}

func rules(domainKeys ...string) []types.Metric {
	out := make([]types.Metric, 0, len(domainKeys))
	for _, k := range domainKeys {
		out = append(out, metric(k, strings.TrimSuffix(k, " Rules"), types.ValueInt, DomainRulesets))
	}
	return out
}

// Core is the metric set shared by every language.
var Core = append([]types.Metric{
	hidden(License, "SourceMeter license information", types.ValueString),
	hidden(SMResource, "SourceMeter data is uploaded for the resource.", types.ValueBool),
	hidden(BeginLine, "Begin Line", types.ValueInt),
	hidden(EndLine, "End Line", types.ValueInt),
	hidden(DuplicatedFiles, "Duplicated Files", types.ValueInt),

	metric("WarningBlocker", "Blocker", types.ValueInt, DomainWarnings),
	metric("WarningCritical", "Critical", types.ValueInt, DomainWarnings),
	metric("WarningMajor", "Major", types.ValueInt, DomainWarnings),
	metric("WarningMinor", "Minor", types.ValueInt, DomainWarnings),
	metric("WarningInfo", "Info", types.ValueInt, DomainWarnings),

	metric(LOC, "Lines of Code", types.ValueInt, DomainSize),
	metric(TLOC, "Total Lines of Code", types.ValueInt, DomainSize),
	metric(LLOC, "Logical Lines of Code", types.ValueInt, DomainSize),
	metric(TLLOC, "Total Logical Lines of Code", types.ValueInt, DomainSize),
	metric("NPKG", "Number of Packages", types.ValueInt, DomainSize),
	metric("TNPKG", "Total Number of Packages", types.ValueInt, DomainSize),
	metric("NCL", "Number of Classes", types.ValueInt, DomainSize),
	metric("TNCL", "Total Number of Classes", types.ValueInt, DomainSize),
	metric("NIN", "Number of Interfaces", types.ValueInt, DomainSize),
	metric("TNIN", "Total Number of Interfaces", types.ValueInt, DomainSize),
	metric("NM", "Number of Methods", types.ValueInt, DomainSize),
	metric("TNM", "Total Number of Methods", types.ValueInt, DomainSize),
	metric("NA", "Number of Attributes", types.ValueInt, DomainSize),
	metric("TNA", "Total Number of Attributes", types.ValueInt, DomainSize),
	metric("NLA", "Number of Local Attributes", types.ValueInt, DomainSize),
	metric("TNLA", "Total Number of Local Attributes", types.ValueInt, DomainSize),
	metric(NOS, "Number of Statements", types.ValueInt, DomainSize),
	metric(TNOS, "Total Number of Statements", types.ValueInt, DomainSize),
	metric(NUMPAR, "Number of Parameters", types.ValueInt, DomainSize),
	metric("TNDI", "Total Number of Directories", types.ValueInt, DomainSize),
	metric("TNFI", "Total Number of Files", types.ValueInt, DomainSize),
	metric("TNPCL", "Total Number of Public Classes", types.ValueInt, DomainSize),
	metric("TNPIN", "Total Number of Public Interfaces", types.ValueInt, DomainSize),
	metric("NEN", "Number of Enums", types.ValueInt, DomainSize),
	metric("TNEN", "Total Number of Enums", types.ValueInt, DomainSize),
	metric("TNPEN", "Total Number of Public Enums", types.ValueInt, DomainSize),
	metric("NPM", "Number of Public Methods", types.ValueInt, DomainSize),
	metric("TNPM", "Total Number of Public Methods", types.ValueInt, DomainSize),
	metric(NLM, "Number of Local Methods", types.ValueInt, DomainSize),
	metric("TNLM", "Total Number of Local Methods", types.ValueInt, DomainSize),
	metric("NS", "Number of Setters", types.ValueInt, DomainSize),
	metric(TNS, "Total Number of Setters", types.ValueInt, DomainSize),
	metric("NG", "Number of Getters", types.ValueInt, DomainSize),
	metric(TNG, "Total Number of Getters", types.ValueInt, DomainSize),
	metric("NPA", "Number of Public Attributes", types.ValueInt, DomainSize),
	metric("TNPA", "Total Number of Public Attributes", types.ValueInt, DomainSize),
	metric("NLG", "Number of Local Getters", types.ValueInt, DomainSize),
	metric(NLPA, "Number of Local Public Attributes", types.ValueInt, DomainSize),
	metric(NLPM, "Number of Local Public Methods", types.ValueInt, DomainSize),
	metric("NLS", "Number of Local Setters", types.ValueInt, DomainSize),
	metric("TNLG", "Total Number of Local Getters", types.ValueInt, DomainSize),
	metric("TNLPA", "Total Number of Local Public Attributes", types.ValueInt, DomainSize),
	metric("TNLPM", "Total Number of Local Public Methods", types.ValueInt, DomainSize),
	metric("TNLS", "Total Number of Local Setters", types.ValueInt, DomainSize),

	metric("DLOC", "Documentation Lines", types.ValueInt, DomainDocumentation),
	metric(CLOC, "Comment Lines of Code", types.ValueInt, DomainDocumentation),
	metric(TCLOC, "Total Comment Lines of Code", types.ValueInt, DomainDocumentation),
	better(metric(CD, "Comment Density", types.ValuePercent, DomainDocumentation)),
	better(metric(TCD, "Total Comment Density", types.ValuePercent, DomainDocumentation)),
	better(metric(AD, "API Documentation", types.ValuePercent, DomainDocumentation)),
	metric(TAD, "Total API Documentation", types.ValuePercent, DomainDocumentation),
	metric(PUA, "Public Undocumented API", types.ValueInt, DomainDocumentation),
	metric(TPUA, "Total Public Undocumented API", types.ValueInt, DomainDocumentation),
	metric(PDA, "Public Documented API", types.ValueInt, DomainDocumentation),
	metric(TPDA, "Total Public Documented API", types.ValueInt, DomainDocumentation),

	metric(McCC, "McCabe's Cyclomatic Complexity", types.ValueInt, DomainComplexity),
	metric("NL", "Nesting Level", types.ValueInt, DomainComplexity),
	metric("NLE", "Nesting Level Else-If", types.ValueInt, DomainComplexity),
	metric(WMC, "Weighted Methods per Class", types.ValueInt, DomainComplexity),

	metric("CBO", "Coupling Between Object classes", types.ValueInt, DomainCoupling),
	metric("RFC", "Response set For Class", types.ValueInt, DomainCoupling),
	metric("NOI", "Number of Outgoing Invocations", types.ValueInt, DomainCoupling),
	metric("NII", "Number of Incoming Invocations", types.ValueInt, DomainCoupling),
	metric("CBOI", "Coupling Between Object classes Inverse", types.ValueInt, DomainCoupling),

	metric("NOP", "Number of Parents", types.ValueInt, DomainInheritance),
	metric("NOC", "Number of Children", types.ValueInt, DomainInheritance),
	metric("NOA", "Number of Ancestors", types.ValueInt, DomainInheritance),
	metric("NOD", "Number of Descendants", types.ValueInt, DomainInheritance),
	metric("DIT", "Depth of Inheritance Tree", types.ValueInt, DomainInheritance),

	metric("LCOM5", "Lack of Cohesion in Methods 5", types.ValueInt, DomainCohesion),

	metric(CC, "Clone Coverage", types.ValuePercent, DomainClone),
	metric(CCL, "Clone Classes", types.ValueInt, DomainClone),
	metric(CCO, "Clone Complexity", types.ValueInt, DomainClone),
	metric(CI, "Clone Instances", types.ValueInt, DomainClone),
	metric(CLLOC, "Clone Lines of Code", types.ValueInt, DomainClone),
	metric("CE", "Clone Embeddedness", types.ValueInt, DomainClone),
	metric("CA", "Clone Age", types.ValueInt, DomainClone),
	metric(NCR, "Normalized Clone Radius", types.ValueFloat, DomainClone),
	metric("CV", "Clone Variability", types.ValueInt, DomainClone),
	metric(CLC, "Clone Line Coverage", types.ValuePercent, DomainClone),
	metric(CLLC, "Clone Logical Line Coverage", types.ValuePercent, DomainClone),
	metric(LDC, "Lines of Duplicated Code", types.ValueInt, DomainClone),
	metric("LLDC", "Logical Lines of Duplicated Code", types.ValueInt, DomainClone),
}, CoreRulesets...)

// CoreRulesets are the PMD rule groups shared by the JVM based toolchains.
var CoreRulesets = rules(
	"Exception Rules",
	"Basic Rules",
	"Design Rules",
	"Naming Rules",
	"Unnecessary and Unused Code Rules",
	"Brace Rules",
	"Clone Implementation Rules",
	"Controversial Rules",
	"Empty Code Rules",
	"Finalizer Rules",
	"Import Statement Rules",
	"J2EE Rules",
	"Jakarta Commons Logging Rules",
	"JavaBean Rules",
	"Java Logging Rules",
	"JUnit Rules",
	"Optimization Rules",
	"Security Code Guideline Rules",
	"Strict Exception Rules",
	"String and StringBuffer Rules",
	"Type Resolution Rules",
)

// Dashboard holds the generic measures computed by the decorators.
var Dashboard = []types.Metric{
	metric(Lines, "Lines", types.ValueInt, DomainSize),
	metric(Ncloc, "Lines of code", types.ValueInt, DomainSize),
	metric(Statements, "Statements", types.ValueInt, DomainSize),
	metric(CommentLines, "Comment lines", types.ValueInt, DomainDocumentation),
	better(metric(CommentLinesDensity, "Comments (%)", types.ValuePercent, DomainDocumentation)),
	metric(DuplicatedBlocks, "Duplicated blocks", types.ValueInt, DomainClone),
	metric(DuplicatedLines, "Duplicated lines", types.ValueInt, DomainClone),
	metric(DuplicatedFilesCount, "Duplicated files", types.ValueInt, DomainClone),
	hidden(DuplicationsData, "Duplications details", types.ValueData),
	metric(Accessors, "Accessors", types.ValueInt, DomainSize),
	metric(Functions, "Functions", types.ValueInt, DomainSize),
	metric(Classes, "Classes", types.ValueInt, DomainSize),
	metric(Files, "Files", types.ValueInt, DomainSize),
	metric(PublicAPI, "Public API", types.ValueInt, DomainDocumentation),
	better(metric(PublicDocumentedAPIDensity, "Public documented API (%)", types.ValuePercent, DomainDocumentation)),
	metric(PublicUndocumentedAPI, "Public undocumented API", types.ValueInt, DomainDocumentation),
	metric(Complexity, "Complexity", types.ValueInt, DomainComplexity),
	metric(FileComplexity, "Complexity /file", types.ValueFloat, DomainComplexity),
	metric(FunctionComplexity, "Complexity /function", types.ValueFloat, DomainComplexity),
	metric(ClassComplexity, "Complexity /class", types.ValueFloat, DomainComplexity),
	hidden(FunctionComplexityDistribution, "Functions distribution /complexity", types.ValueData),
	hidden(FileComplexityDistribution, "Files distribution /complexity", types.ValueData),
}
