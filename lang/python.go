package lang

import (
	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
)

var Python = register(&Language{
	Key:          "python",
	Name:         "Python",
	Suffixes:     []string{".py"},
	ToolchainDir: "Python",
	Binary:       "SourceMeterPython",
	Metrics:      []types.Metric{licenseMetric("SM:python_license", "Python")},
	Rulesets: rulesets(
		"Class Rules",
		"Format Rules",
		"Import Rules",
		"Logging Rules",
		"Miscellaneous Rules",
		"Newstyle Rules",
		"Pylint Checker Rules",
		"Python3 Rules",
		"Similarity Rules",
		"Spelling Rules",
		"Stdlib Rules",
		"String Constant Rules",
		"String Rules",
		"Typecheck Rules",
		"Variable Rules",
	),
	License: "SM:python_license",
	Tools: map[string]string{
		"FaultHunterPython":    "FaultHunter",
		"MetricHunter":         "MetricHunter",
		"DuplicatedCodeFinder": "Duplicated Code",
		"LIM2Metrics":          "Metrics",
	},
	WarningPrefixes: map[string]string{
		"PYLINT_": "SourceMeter (from Pylint): ",
	},
	ThresholdSuffixes: defaultThresholdSuffixes,
	LevelTypes: [3][]string{
		{"Package"},
		{"Class"},
		{"Method", "Function"},
	},
	Categories: withClones(
		metrics.NewCategory("Class", metrics.ClassThresholds),
		metrics.NewCategory("Method", metrics.MethodThresholds),
		metrics.NewCategory("Function", metrics.MethodThresholds),
	),
	SystemType:  "Component",
	SystemName:  "<System>",
	Logical:     LogicalDefault,
	FilterStyle: HardFilterOnly,
	ExtraArgs:   pythonArgs,
})

func pythonArgs(s *config.Settings, opts CommandOptions) ([]string, error) {
	binary, err := requireSetting(s, "sm.python.binary")
	if err != nil {
		return nil, err
	}

	var args []string
	if opts.ProfilePath != "" {
		args = append(args, "-profileXML="+opts.ProfilePath)
	}
	args = append(args,
		"-projectBaseDir="+opts.BaseDir,
		"-resultsDir="+opts.ResultsDir,
		"-projectName="+opts.ProjectName,
		"-python27binary="+binary,
		"-runChangeTracker=true",
		"-cleanResults="+opts.CleanResults,
	)
	args = append(args, cloneArgs(s)...)
	if opts.HardFilterPath != "" {
		args = append(args, "-externalHardFilter="+opts.HardFilterPath)
	}
	args = append(args, optionalList(s, "sm.python.toolchainOptions")...)
	return args, nil
}
