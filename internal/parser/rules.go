package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"static-flow-classifier/internal/model"
)

type ruleFile struct {
	Rules []struct {
		Attribute string    `yaml:"attribute"`
		Value     yaml.Node `yaml:"value"`
	} `yaml:"rules"`
}

// ParseRules reads a YAML list of static classifier clauses:
//
//	rules:
//	  - attribute: tcp_dst
//	    value: 443
//
// Values keep their literal text, so 0x0800 stays hex. Unknown attribute
// tags are kept as written and left for the evaluator to reject.
func ParseRules(r io.Reader) ([]model.PolicyRule, error) {
	var f ruleFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode rules: %w", err)
	}

	rules := make([]model.PolicyRule, 0, len(f.Rules))
	for i, raw := range f.Rules {
		if raw.Value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("rule %d (%s): value must be a scalar", i+1, raw.Attribute)
		}
		attr, _ := model.ParseAttribute(raw.Attribute)
		rules = append(rules, model.PolicyRule{Attribute: attr, Value: raw.Value.Value})
	}
	return rules, nil
}
