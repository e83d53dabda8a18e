package lang

import (
	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
)

var Cpp = register(&Language{
	Key:          "cpp",
	Name:         "C++",
	Suffixes:     []string{".cxx", ".cpp", ".cc", ".c", ".hxx", ".hpp", ".hh", ".h"},
	ToolchainDir: "CPP",
	Binary:       "SourceMeterCPP",
	Metrics:      []types.Metric{licenseMetric("SM:cpp_license", "C++")},
	Rulesets: rulesets(
		"API Rules",
		"Boost Library Rules",
		"Buffer Overrun Rules",
		"Conditional Rules",
		"Division Rules",
		"Initialization Rules",
		"Input Output Rules",
		"Memory Handling Rules",
		"Object Orientedness Rules",
		"Performance Rules",
		"Portability Rules",
		"Preprocessor Rules",
		"Readability and Consistency Rules",
		"Reentrancy Rules",
		"STL Rules",
		"Side Effect Rules",
		"Simple Type Rules",
		"Sizeof Operator Rules",
		"Suspicious Construct Rules",
		"Unreachable Code Rules",
		"Variable Argument Related Rules",
	),
	License: "SM:cpp_license",
	Tools: map[string]string{
		"FaultHunterCPP":       "FaultHunter",
		"Cppcheck2Graph":       "CPPCheck",
		"MetricHunter":         "MetricHunter",
		"DuplicatedCodeFinder": "Duplicated Code",
		"LIM2Metrics":          "Metrics",
	},
	WarningPrefixes: map[string]string{
		"CPPCHECK_": "SourceMeter (from Cppcheck): ",
		"CT_":       "SourceMeter (from ClangTidy): ",
	},
	LevelTypes: [3][]string{
		{"Namespace"},
		{"Class", "Enum", "Interface", "Structure", "Union"},
		{"Function", "Method"},
	},
	Categories: withClones(
		metrics.NewCategory("Class", metrics.ClassThresholds),
		metrics.NewCategory("Method", metrics.MethodThresholds),
		metrics.Category{Entity: "Function", Property: "method", Metrics: metrics.MethodThresholds},
	),
	SystemType:  "Component",
	SystemName:  "<System>",
	Logical:     LogicalCpp,
	FilterStyle: SoftFilter,
	ExtraArgs:   cppArgs,
})

func cppArgs(s *config.Settings, opts CommandOptions) ([]string, error) {
	buildFile, err := requireSetting(s, "sm.cpp.buildfile")
	if err != nil {
		return nil, err
	}

	var args []string
	if opts.ProfilePath != "" {
		args = append(args, "-profileXML="+opts.ProfilePath)
	}
	args = append(args,
		"-resultsDir="+opts.ResultsDir,
		"-projectName="+opts.ProjectName,
		"-projectBaseDir="+opts.BaseDir,
		"-buildScript="+buildFile,
		"-cleanResults="+opts.CleanResults,
		"-runChangeTracker=true",
	)
	args = append(args, cloneArgs(s)...)
	if opts.SoftFilterPath != "" {
		args = append(args, "-externalSoftFilter="+opts.SoftFilterPath)
	}
	if opts.HardFilterPath != "" {
		args = append(args, "-externalHardFilter="+opts.HardFilterPath)
	}
	args = append(args, optionalList(s, "sm.cpp.toolchainOptions")...)
	return args, nil
}

func optionalList(s *config.Settings, key string) []string {
	if v, ok := s.GetOptionalString(key); ok && v != "" {
		return []string{v}
	}
	return nil
}
