package rulefile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

type document struct {
	Rules []chart.Rule `yaml:"rules"`
}

// Load reads extra rules from a YAML file. An empty path yields no rules.
func Load(path string) ([]chart.Rule, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	for i := range doc.Rules {
		doc.Rules[i].Code = strings.TrimSpace(doc.Rules[i].Code)
		doc.Rules[i].Body = chart.Body(strings.ToLower(strings.TrimSpace(string(doc.Rules[i].Body))))
		if err := doc.Rules[i].Validate(); err != nil {
			return nil, fmt.Errorf("rules file %s: %w", path, err)
		}
	}
	return doc.Rules, nil
}

// Catalogue returns the default rules followed by the rules in path.
func Catalogue(path string) ([]chart.Rule, error) {
	extra, err := Load(path)
	if err != nil {
		return nil, err
	}
	return append(chart.DefaultRules(), extra...), nil
}
