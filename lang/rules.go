package lang

import (
	"fmt"
	"sort"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/types"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Rules []types.Rule `yaml:"rules"`
}

// DefaultRules returns an active INFO threshold rule for every metric the
// language categories check.
func (l *Language) DefaultRules() []types.Rule {
	seen := make(map[string]bool)
	var out []types.Rule
	for _, c := range l.Categories {
		for _, key := range c.Metrics {
			if seen[key] {
				continue
			}
			seen[key] = true
			name := key
			if m, ok := l.Finder().FindByKey(key); ok {
				name = m.Name
			}
			out = append(out, types.Rule{
				Key:      MetricPrefix + key,
				Name:     name,
				Severity: types.SeverityInfo,
				Active:   true,
			})
		}
	}
	return out
}

// Rules returns the rule repository of the language. Rules read from the file
// named by sm.<lang>.rulesFile replace default rules with the same key.
func (l *Language) Rules(fs afero.Fs, s *config.Settings) ([]types.Rule, error) {
	rules := l.DefaultRules()
	path, ok := s.GetOptionalString(config.LanguageKey(l.Key, "rulesFile"))
	if !ok || path == "" {
		return rules, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode rules file %s: %w", path, err)
	}

	index := make(map[string]int, len(rules))
	for i, r := range rules {
		index[r.Key] = i
	}
	for _, r := range f.Rules {
		if r.Key == "" {
			return nil, fmt.Errorf("rule without key in %s", path)
		}
		if r.Severity == "" {
			r.Severity = types.SeverityMajor
		}
		if i, ok := index[r.Key]; ok {
			rules[i] = r
			continue
		}
		index[r.Key] = len(rules)
		rules = append(rules, r)
	}
	return rules, nil
}

// ActiveRuleKeys returns the keys of the active rules, sorted.
func ActiveRuleKeys(rules []types.Rule) []string {
	var out []string
	for _, r := range rules {
		if r.Active {
			out = append(out, r.Key)
		}
	}
	sort.Strings(out)
	return out
}
