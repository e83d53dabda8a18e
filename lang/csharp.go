package lang

import (
	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
)

var CSharp = register(&Language{
	Key:          "csharp",
	Name:         "C#",
	Suffixes:     []string{".cs"},
	ToolchainDir: "CSHARP",
	Binary:       "SourceMeterCSharp",
	Metrics:      []types.Metric{licenseMetric("SM:csharp_license", "C#")},
	Rulesets: rulesets(
		"Microsoft.Design Rules",
		"Microsoft.Globalization Rules",
		"Microsoft.Interoperability Rules",
		"Microsoft.Maintainability Rules",
		"Microsoft.Mobility Rules",
		"Microsoft.Naming Rules",
		"Microsoft.Performance Rules",
		"Microsoft.Portability Rules",
		"Microsoft.Reliability Rules",
		"Microsoft.Security Rules",
		"Microsoft.Usage Rules",
	),
	License: "SM:csharp_license",
	Tools: map[string]string{
		"MetricHunter":         "MetricHunter",
		"DuplicatedCodeFinder": "Duplicated Code",
		"LIM2Metrics":          "Metrics",
		"FxCop2Graph":          "FxCop",
	},
	WarningPrefixes: map[string]string{
		"FXCOP_": "SourceMeter (from FxCop): ",
	},
	ThresholdSuffixes: defaultThresholdSuffixes,
	LevelTypes: [3][]string{
		{"Namespace"},
		{"Class", "Interface", "Enum", "Structure"},
		{"Method"},
	},
	Categories: withClones(
		metrics.NewCategory("Class", metrics.ClassThresholds),
		metrics.NewCategory("Method", metrics.MethodThresholds),
	),
	SystemType:  "Component",
	SystemName:  "<System>",
	Logical:     LogicalDefault,
	FilterStyle: SoftFilter,
	ExtraArgs:   csharpArgs,
})

func csharpArgs(s *config.Settings, opts CommandOptions) ([]string, error) {
	required := make(map[string]string)
	for _, key := range []string{"sm.csharp.input", "sm.csharp.configuration", "sm.csharp.platform"} {
		v, err := requireSetting(s, key)
		if err != nil {
			return nil, err
		}
		required[key] = v
	}

	var args []string
	if opts.ProfilePath != "" {
		args = append(args, "-profileXML="+opts.ProfilePath)
	}
	args = append(args, optionalArg(s, "-runFxCop", "sm.csharp.runFxCop")...)
	args = append(args, optionalArg(s, "-FxCopPath", "sm.csharp.fxCopPath")...)
	args = append(args,
		"-input="+required["sm.csharp.input"],
		"-resultsDir="+opts.ResultsDir,
		"-projectName="+opts.ProjectName,
		"-cleanResults="+opts.CleanResults,
		"-configuration="+required["sm.csharp.configuration"],
		"-platform="+required["sm.csharp.platform"],
		"-runChangeTracker=true",
	)
	args = append(args, cloneArgs(s)...)
	if opts.SoftFilterPath != "" {
		args = append(args, "-externalSoftFilter="+opts.SoftFilterPath)
	}
	if opts.HardFilterPath != "" {
		args = append(args, "-externalHardFilter="+opts.HardFilterPath)
	}
	args = append(args, optionalList(s, "sm.csharp.toolchainOptions")...)
	return args, nil
}
