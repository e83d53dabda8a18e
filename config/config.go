// Package config loads the sm.* analysis settings.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Common keys.
const (
	KeyProjectKey    = "sm.projectKey"
	KeyBaseDir       = "sm.baseDir"
	KeySourceDirs    = "sm.sources"
	KeyExclusions    = "sm.exclusions"
	KeyInclusions    = "sm.inclusions"
	KeyAnalysisMode  = "sm.analysis.mode"
	KeyCleanResults  = "sm.cleanresults"
	KeyToolchainDir  = "sm.toolchaindir"
	KeyResultsDir    = "sm.resultsdir"
	KeyWorkDir       = "sm.workDir"
	KeyCloneGenealog = "sm.cloneGenealogy"
	KeyCloneMinLines = "sm.cloneMinLines"
	KeyLanguages     = "sm.languages"
	KeyExportDir     = "sm.exportDir"
)

// Database keys.
const (
	KeyDBURL       = "sm.db.url"
	KeyDBNamespace = "sm.db.namespace"
	KeyDBDatabase  = "sm.db.database"
	KeyDBUsername  = "sm.db.username"
	KeyDBPassword  = "sm.db.password"
)

// Analysis modes.
const (
	ModeIncremental = "incremental"
	ModePreview     = "preview"
)

var ErrMissingProperty = errors.New("missing required property")

// Settings is a read/write view over the configured properties.
type Settings struct {
	v *viper.Viper
}

// New returns settings holding only the defaults.
func New() *Settings {
	v := viper.New()
	setDefaults(v)
	return &Settings{v: v}
}

// Load reads the settings file at path, if any, then the SURREALMETER_ environment.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SURREALMETER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	return &Settings{v: v}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseDir, ".")
	v.SetDefault(KeyWorkDir, ".surrealmeter")
	v.SetDefault(KeyCloneGenealog, false)
	v.SetDefault(KeyCloneMinLines, 10)
	v.SetDefault(KeyLanguages, []string{"java", "cpp", "csharp", "python", "rpg"})
	v.SetDefault(KeyDBURL, "ws://localhost:8000/rpc")
	v.SetDefault(KeyDBNamespace, "surrealmeter")
	v.SetDefault(KeyDBDatabase, "surrealmeter")
	v.SetDefault(KeyDBUsername, "root")
	v.SetDefault(KeyDBPassword, "root")
}

func (s *Settings) IsSet(key string) bool {
	return s.v.IsSet(key)
}

func (s *Settings) Set(key string, value interface{}) {
	s.v.Set(key, value)
}

func (s *Settings) GetString(key string) string {
	return s.v.GetString(key)
}

// GetOptionalString returns the value and whether it was set.
func (s *Settings) GetOptionalString(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

func (s *Settings) GetBool(key string) bool {
	return s.v.GetBool(key)
}

func (s *Settings) GetInt(key string) int {
	return s.v.GetInt(key)
}

// GetFloat returns the value and whether it was set.
func (s *Settings) GetFloat(key string) (float64, bool) {
	if !s.v.IsSet(key) {
		return 0, false
	}
	return s.v.GetFloat64(key), true
}

// GetStringSlice accepts both lists and comma separated strings.
func (s *Settings) GetStringSlice(key string) []string {
	raw := s.v.Get(key)
	if str, ok := raw.(string); ok {
		var out []string
		for _, part := range strings.Split(str, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return s.v.GetStringSlice(key)
}

// LanguageKey builds sm.<lang>.<name>.
func LanguageKey(lang, name string) string {
	return "sm." + lang + "." + name
}

// ProjectName is the project key with ':' replaced, as used in result paths.
func (s *Settings) ProjectName() string {
	return strings.ReplaceAll(s.GetString(KeyProjectKey), ":", "_")
}

func (s *Settings) IsIncremental() bool {
	return s.GetString(KeyAnalysisMode) == ModeIncremental
}

func (s *Settings) IsPreview() bool {
	return s.GetString(KeyAnalysisMode) == ModePreview
}

// CheckProperties verifies the properties needed to run the toolchain.
func (s *Settings) CheckProperties() error {
	for _, key := range []string{KeyCleanResults, KeyToolchainDir, KeyResultsDir} {
		if !s.IsSet(key) || s.GetString(key) == "" {
			return fmt.Errorf("%w: %s", ErrMissingProperty, key)
		}
	}
	return nil
}
