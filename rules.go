package validator

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Rules maps a field name to the rule expressions applied to it.
// Expressions use the pipe syntax understood by the engine, for example
// "required|email|max:255". Several expressions for one field are combined.
type Rules map[string][]string

// Fields returns the field names that carry rules, sorted.
func (r Rules) Fields() []string {
	return slices.Sorted(maps.Keys(r))
}

// Only returns a new Rules restricted to the listed fields.
// The receiver is left untouched.
func (r Rules) Only(fields ...string) Rules {
	out := make(Rules, len(fields))
	for _, f := range fields {
		if exprs, ok := r[f]; ok {
			out[f] = slices.Clone(exprs)
		}
	}
	return out
}

// Clone returns a deep copy.
func (r Rules) Clone() Rules {
	if r == nil {
		return nil
	}
	out := make(Rules, len(r))
	for f, exprs := range r {
		out[f] = slices.Clone(exprs)
	}
	return out
}

// RuleSets groups rules by entity name, as loaded from a rules file.
type RuleSets map[string]Rules

// Get returns the rules for an entity and whether they were defined.
func (s RuleSets) Get(entity string) (Rules, bool) {
	r, ok := s[entity]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// ParseRulesYAML parses rule sets from YAML. Each entity maps field names to
// either a single expression or a list of expressions:
//
//	user:
//	  email: required|email
//	  name:
//	    - required
//	    - max:255
func ParseRulesYAML(data []byte) (RuleSets, error) {
	var raw map[string]map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrInvalidRulesFile, err)
	}

	sets := make(RuleSets, len(raw))
	for entity, fields := range raw {
		rules := make(Rules, len(fields))
		for field, node := range fields {
			exprs, err := decodeExpressions(&node)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidRulesFile, entity, field, err)
			}
			rules[field] = exprs
		}
		sets[entity] = rules
	}
	return sets, nil
}

// LoadRulesFile reads and parses a YAML rules file.
func LoadRulesFile(path string) (RuleSets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRulesFile, err)
	}
	return ParseRulesYAML(data)
}

func decodeExpressions(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, err
		}
		return []string{s}, nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("expected string or list, got yaml kind %d", node.Kind)
	}
}
