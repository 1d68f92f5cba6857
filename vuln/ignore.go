package vuln

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// IgnoreFileName is the project-relative ignore list.
const IgnoreFileName = ".shards-audit-ignore"

type rawIgnoreFile struct {
	Ignore []rawIgnoreRule `yaml:"ignore"`
}

type rawIgnoreRule struct {
	ID      string `yaml:"id"`
	Reason  string `yaml:"reason"`
	Expires string `yaml:"expires"`
}

// LoadIgnoreRules reads the ignore file at path. A missing file yields no
// rules rather than an error, matching how the other config loaders treat
// an absent, fully-optional file.
func LoadIgnoreRules(path string) ([]IgnoreRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("vuln: read ignore file: %w", err)
	}

	var raw rawIgnoreFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("vuln: parse ignore file: %w", err)
	}

	rules := make([]IgnoreRule, 0, len(raw.Ignore))
	for _, r := range raw.Ignore {
		rule := IgnoreRule{ID: r.ID, Reason: r.Reason}
		if r.Expires != "" {
			t, err := time.Parse("2006-01-02", r.Expires)
			if err != nil {
				return nil, fmt.Errorf("vuln: ignore rule %q: invalid expires date %q: %w", r.ID, r.Expires, err)
			}
			rule.Expires = &t
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// matches reports whether rule applies to a vulnerability by id or alias.
func (r IgnoreRule) matches(v Vulnerability) bool {
	if r.ID == v.ID {
		return true
	}
	for _, alias := range v.Aliases {
		if r.ID == alias {
			return true
		}
	}
	return false
}
