package rdftype

import (
	"strings"

	"github.com/pkg/errors"
)

// Category names a kind of validation finding
type Category int

// Finding categories, ordered by priority, e.g. Disallowed is reported before MissingRequired
const (
	Unknown Category = iota
	Disallowed
	MissingRequired
	DisallowedDuplicate
)

var priority = [...]Category{Disallowed, MissingRequired, DisallowedDuplicate}

// Categories lists every finding category in priority order.  The slice is a fresh copy.
func Categories() []Category {
	return append([]Category(nil), priority[:]...)
}

var categoryNames = map[Category]string{
	Disallowed:          "disallowed",
	MissingRequired:     "missing_required",
	DisallowedDuplicate: "disallowed_duplicate",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCategory parses a category name, as produced by Category.String().
// Unrecognized names parse as Unknown
func ParseCategory(name string) Category {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return c
		}
	}
	return Unknown
}

// Rule is a single configured constraint on an rdf:type value
type Rule struct {
	Tag           string // the rdf:type this rule governs
	Required      bool   // at least one file must carry Tag
	AllowMultiple bool   // more than one file may carry Tag
}

// RuleSet is an ordered, immutable collection of rules keyed by tag
type RuleSet struct {
	rules []Rule
	index map[string]int
}

// NewRuleSet creates a rule set from the given rules, preserving their order.
// Every rule must have a non-empty tag, and tags must be unique.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}

	for i, r := range rules {
		if r.Tag == "" {
			return nil, errors.Errorf("rule %d has no rdf:type", i)
		}
		if _, dup := rs.index[r.Tag]; dup {
			return nil, errors.Errorf("duplicate rule for rdf:type %s", r.Tag)
		}
		rs.index[r.Tag] = len(rs.rules)
		rs.rules = append(rs.rules, r)
	}

	return rs, nil
}

// Rules returns a copy of the rules, in configured order
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	return append([]Rule(nil), rs.rules...)
}

// Len is the number of rules in the set
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Lookup finds the rule governing the given tag
func (rs *RuleSet) Lookup(tag string) (Rule, bool) {
	if rs == nil {
		return Rule{}, false
	}
	i, ok := rs.index[tag]
	if !ok {
		return Rule{}, false
	}
	return rs.rules[i], true
}
