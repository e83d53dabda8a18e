package lang

import (
	"os"
	"strings"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
)

var javaRulesets = rulesets(
	"Android Rules",
	"Bad Practice Rules",
	"Code Size Rules",
	"Comment Rules",
	"Correctness Rules",
	"Coupling Rules",
	"Dodgy Code Rules",
	"Experimental Rules",
	"Internationalization Rules",
	"Migration Rules",
	"Multithreaded Correctness Rules",
	"Vulnerability Rules",
)

var Java = register(&Language{
	Key:          "java",
	Name:         "Java",
	Suffixes:     []string{".java"},
	ToolchainDir: "Java",
	Binary:       "SourceMeterJava",
	Metrics: []types.Metric{
		licenseMetric("SM:java_license", "Java"),
		{Key: "SM:stacktrace", Name: "Stack trace", Type: types.ValueData, Hidden: true},
	},
	Rulesets: append(append([]types.Metric(nil), javaRulesets...), metrics.CoreRulesets...),
	License:  "SM:java_license",
	Tools: map[string]string{
		"FaultHunter":          "FaultHunter",
		"VulnerabilityHunter":  "VulnerabilityHunter",
		"MetricHunter":         "MetricHunter",
		"AndroidHunter":        "AndroidHunter",
		"DuplicatedCodeFinder": "Duplicated Code",
		"LIM2Metrics":          "Metrics",
		"PMD2Graph":            "PMD",
		"FindBugs2Graph":       "FindBugs",
	},
	WarningPrefixes: map[string]string{
		"PMD_": "SourceMeter (from PMD): ",
		"FB_":  "SourceMeter (from FindBugs): ",
	},
	ThresholdSuffixes: defaultThresholdSuffixes,
	LevelTypes: [3][]string{
		{"Package"},
		{"Class", "Interface", "Enum"},
		{"Method"},
	},
	Categories: withClones(
		metrics.NewCategory("Class", metrics.ClassThresholds),
		metrics.Category{Entity: "Interface", Property: "class", Metrics: metrics.ClassThresholds},
		metrics.Category{Entity: "Enum", Property: "class", Metrics: metrics.ClassThresholds},
		metrics.NewCategory("Method", metrics.MethodThresholds),
	),
	SystemType:  "Component",
	SystemName:  "<System>",
	Logical:     LogicalDefault,
	FilterStyle: SoftFilter,
	ExtraArgs:   javaArgs,
})

func javaArgs(s *config.Settings, opts CommandOptions) ([]string, error) {
	args := []string{
		"-resultsDir=" + opts.ResultsDir,
		"-projectName=" + opts.ProjectName,
	}
	if opts.ProfilePath != "" {
		args = append(args, "-profileXML="+opts.ProfilePath)
	}
	args = append(args, optionalArg(s, "-buildScript", "sm.java.buildscript")...)
	args = append(args, "-projectBaseDir="+opts.BaseDir)
	if opts.SoftFilterPath != "" {
		args = append(args, "-externalSoftFilter="+opts.SoftFilterPath)
	}
	if opts.HardFilterPath != "" {
		args = append(args, "-externalHardFilter="+opts.HardFilterPath)
	}

	javacOptions, hasJavac := s.GetOptionalString("sm.java.javacOptions")
	if libs := s.GetStringSlice("sm.java.libraries"); len(libs) > 0 {
		classPath := strings.Join(libs, string(os.PathListSeparator))
		args = append(args, "-javacOptions="+javacOptions+
			" -cp \"."+string(os.PathListSeparator)+classPath+"\"")
	} else if hasJavac {
		args = append(args, "-javacOptions="+javacOptions)
	}

	args = append(args, optionalArg(s, "-VHMaxDepth", "sm.java.vhMaxDepth")...)
	if maxMem, ok := s.GetOptionalString("sm.java.maxMem"); ok && maxMem != "" {
		args = append(args, "-JVMOptions=-Xmx"+maxMem+"M")
	}
	args = append(args, optionalArg(s, "-VHTimeout", "sm.java.vhTimeOut")...)
	args = append(args, optionalArg(s, "-runVLH", "sm.java.runVulnerabilityHunter")...)
	args = append(args, optionalArg(s, "-runRTEHunter", "sm.java.runRTEHunter")...)
	args = append(args, optionalArg(s, "-RHMaxState", "sm.java.RHMaxState")...)
	args = append(args, optionalArg(s, "-RHMaxDepth", "sm.java.RHMaxDepth")...)
	args = append(args, optionalArg(s, "-pmdOptions", "sm.java.pmdOptions")...)
	args = append(args, optionalArg(s, "-csvSeparator", "sm.java.csvSeparator")...)
	args = append(args, cloneArgs(s)...)
	args = append(args, "-cleanProject=true", "-cleanResults="+opts.CleanResults)

	if opts.Incremental {
		args = append(args, "-runDCF=false", "-runMET=false")
	}
	if opts.FindBugsFile != "" {
		args = append(args, "-FBFileList="+opts.FindBugsFile, "-runFB=true")
	}
	args = append(args, "-runChangeTracker=true")
	args = append(args, optionalArg(s, "-FBOptions", "sm.java.fbOptions")...)

	args = append(args, optionalList(s, "sm.java.toolchainOptions")...)
	return args, nil
}
