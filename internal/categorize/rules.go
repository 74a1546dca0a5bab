package categorize

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCategory is the terminal fallback; every description resolves to it
// when nothing else matches.
const DefaultCategory = "Other"

//go:embed rules.yaml
var defaultRulesYAML []byte

// Category is one label in the closed set, with its display color, the
// keyword substrings of the lowest-priority classification tier, and a flag
// telling downstream aggregation to leave it out of expense totals (card
// payments are transfers, not spending).
type Category struct {
	Name                string   `yaml:"name" json:"name"`
	Color               string   `yaml:"color" json:"color"`
	ExcludeFromSpending bool     `yaml:"excludeFromSpending" json:"excludeFromSpending"`
	Keywords            []string `yaml:"keywords" json:"-"`
}

// RuleSet is the static category table. Immutable at runtime; the keyword
// tier iterates it in declared order and first match wins.
type RuleSet struct {
	Categories []Category `yaml:"categories"`

	byName map[string]*Category
}

// DefaultRules loads the embedded rule set.
func DefaultRules() *RuleSet {
	rs, err := parseRules(defaultRulesYAML)
	if err != nil {
		// The embedded file ships with the binary; failing to parse it is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded rules.yaml invalid: %v", err))
	}
	return rs
}

// LoadRules reads a rule set from a YAML file, falling back to the embedded
// defaults when path is empty.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	rs, err := parseRules(data)
	if err != nil {
		return nil, fmt.Errorf("parse rules file %q: %w", path, err)
	}
	return rs, nil
}

func parseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	if len(rs.Categories) == 0 {
		return nil, fmt.Errorf("rule set declares no categories")
	}

	rs.byName = make(map[string]*Category, len(rs.Categories))
	for i := range rs.Categories {
		c := &rs.Categories[i]
		if c.Name == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}
		rs.byName[c.Name] = c
	}
	if _, ok := rs.byName[DefaultCategory]; !ok {
		return nil, fmt.Errorf("rule set must include the %q category", DefaultCategory)
	}
	return &rs, nil
}

// Valid reports whether a label belongs to the closed set.
func (rs *RuleSet) Valid(name string) bool {
	_, ok := rs.byName[name]
	return ok
}

// Lookup returns the category metadata for a label.
func (rs *RuleSet) Lookup(name string) (Category, bool) {
	c, ok := rs.byName[name]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

// Names lists the category labels in declared order.
func (rs *RuleSet) Names() []string {
	names := make([]string, len(rs.Categories))
	for i, c := range rs.Categories {
		names[i] = c.Name
	}
	return names
}
