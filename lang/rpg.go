package lang

import (
	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/metrics"
	"github.com/TFMV/surrealmeter/types"
)

var rpgWarnings = []string{"WarningBlocker", "WarningCritical", "WarningMajor", "WarningMinor"}

var (
	rpgProgramThresholds = append([]string{
		"NUMPAR", "LOC", "LLOC", "TNSR", "TNPC", "TLOC", "TLLOC", "TNOS", "CD", "TCD", "NL", "NLE",
		"PC", "NOI", "CCL", "CCO", "CC", "CI", "CLC", "CLLC", "LDC", "LLDC",
	}, rpgWarnings...)
	rpgProcedureThresholds = append([]string{
		"LOC", "LLOC", "NUMPAR", "NOS", "TLOC", "TLLOC", "TNOS", "CD", "TCD", "McCC", "NL", "NLE",
		"NOI", "CCL", "CCO", "CC", "CI", "CLC", "CLLC", "LDC", "LLDC",
	}, rpgWarnings...)
	rpgSubroutineThresholds = append([]string{
		"LOC", "LLOC", "NOS", "CD", "McCC", "NL", "NLE", "NOI", "CCL", "CCO", "CC", "CI", "CLC",
		"CLLC", "LDC", "LLDC",
	}, rpgWarnings...)
)

func rpgMetric(key, name, domain string) types.Metric {
	return types.Metric{Key: key, Name: name, Type: types.ValueInt, Domain: domain}
}

var RPG = register(&Language{
	Key:          "rpg",
	Name:         "RPG",
	Suffixes:     []string{".rpg", ".rpgle", ".sqlrpgle", ".txt"},
	ToolchainDir: "RPG",
	Binary:       "SourceMeterRPG",
	Metrics: []types.Metric{
		licenseMetric("SM:rpg_license", "RPG"),
		rpgMetric("PC", "Program Complexity", metrics.DomainComplexity),
		rpgMetric("NF", "Number of Files", metrics.DomainCoupling),
		rpgMetric("NIR", "Number of Input Records", metrics.DomainCoupling),
		rpgMetric("NOR", "Number of Output Records", metrics.DomainCoupling),
		rpgMetric("TNF", "Total Number of Files", metrics.DomainCoupling),
		rpgMetric("TNOI", "Total Number of Outgoing Invocations", metrics.DomainCoupling),
		rpgMetric("TDLOC", "Total Documentation Lines of Code", metrics.DomainDocumentation),
		rpgMetric("NDS", "Number of Data Structures", metrics.DomainSize),
		rpgMetric("NNC", "Number of Named Constants", metrics.DomainSize),
		rpgMetric("NSF", "Number of Standalone Fields", metrics.DomainSize),
		rpgMetric("TNDS", "Total Number of Data Structures", metrics.DomainSize),
		rpgMetric("TNNC", "Total Number of Named Constants", metrics.DomainSize),
		rpgMetric("TNPC", "Total Number of Procedures", metrics.DomainSize),
		rpgMetric("TNSF", "Total Number of Standalone Fields", metrics.DomainSize),
		rpgMetric("TNSR", "Total Number of Subroutines", metrics.DomainSize),
		rpgMetric("TNPG", "Total Number of Programs", metrics.DomainSize),
	},
	Rulesets: rulesets(
		"Documentation Rules",
		"Security Rules",
		"Size Rules",
		"Type Rules",
	),
	License: "SM:rpg_license",
	Tools: map[string]string{
		"FaultHunterRPG":       "FaultHunter",
		"MetricHunter":         "MetricHunter",
		"DuplicatedCodeFinder": "Duplicated Code",
		"RPG2Metrics":          "Metrics",
	},
	ThresholdSuffixes: []string{
		"_warning_Program",
		"_warning_Procedure",
		"_warning_Subroutine",
		"_warning_CloneClass",
		"_warning_CloneInstance",
	},
	LevelTypes: [3][]string{
		{"System"},
		{"Program"},
		{"Procedure", "Subroutine"},
	},
	Categories: withClones(
		metrics.NewCategory("Program", rpgProgramThresholds),
		metrics.NewCategory("Procedure", rpgProcedureThresholds),
		metrics.NewCategory("Subroutine", rpgSubroutineThresholds),
	),
	SystemType:  "System",
	SystemName:  "System",
	FileType:    "Program",
	Logical:     LogicalDefault,
	FilterStyle: HardFilterOnly,
	ExtraArgs:   rpgArgs,
})

func settingOr(s *config.Settings, key, def string) string {
	if v, ok := s.GetOptionalString(key); ok && v != "" {
		return v
	}
	return def
}

func rpgArgs(s *config.Settings, opts CommandOptions) ([]string, error) {
	args := []string{
		"-projectBaseDir=" + opts.BaseDir,
		"-resultsDir=" + opts.ResultsDir,
		"-projectName=" + opts.ProjectName,
		"-runChangeTracker=true",
		"-cleanResults=" + opts.CleanResults,
		"-spoolFileNamePattern=" + settingOr(s, "sm.rpg.spoolPattern", `.*\.txt`),
		"-rpg3FileNamePattern=" + settingOr(s, "sm.rpg.rpg3Pattern", `.*\.rpg`),
		"-rpg4FileNamePattern=" + settingOr(s, "sm.rpg.rpg4Pattern", `.*\.rpgle`),
	}
	args = append(args, cloneArgs(s)...)
	args = append(args, optionalList(s, "sm.rpg.toolchainOptions")...)
	if opts.HardFilterPath != "" {
		args = append(args, "-externalHardFilter="+opts.HardFilterPath)
	}
	if opts.ProfilePath != "" {
		args = append(args, "-profileXML="+opts.ProfilePath)
	}
	return args, nil
}
