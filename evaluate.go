package rdftype

import (
	"strings"

	"github.com/pkg/errors"
)

// Verdict is the result of evaluating observed rdf:types against a rule set.
// Each list preserves the order in which its tags were first encountered.
type Verdict struct {
	Disallowed           []string // observed, but not governed by any rule
	MissingRequired      []string // required, but not observed
	DisallowedDuplicates []string // observed more than once, but limited to one
}

// Valid is true when there are no findings at all
func (v Verdict) Valid() bool {
	return len(v.Disallowed) == 0 &&
		len(v.MissingRequired) == 0 &&
		len(v.DisallowedDuplicates) == 0
}

// Findings returns the tags found for the given category
func (v Verdict) Findings(c Category) []string {
	switch c {
	case Disallowed:
		return v.Disallowed
	case MissingRequired:
		return v.MissingRequired
	case DisallowedDuplicate:
		return v.DisallowedDuplicates
	default:
		return nil
	}
}

// Err reports the first non-empty finding category, in priority order
// (disallowed, then missing required, then disallowed duplicates), as an error whose
// cause is the corresponding category error.  Returns nil for a valid verdict.
func (v Verdict) Err() error {
	for _, c := range priority {
		if tags := v.Findings(c); len(tags) > 0 {
			return errors.Wrapf(categoryErrors[c], "%s", strings.Join(tags, ", "))
		}
	}
	return nil
}

// Evaluate checks a multiset of observed rdf:types (one per file) against the rule set.
//
// A nil or empty rule set allows nothing, so every observed tag is disallowed.
func (rs *RuleSet) Evaluate(observed []string) Verdict {
	var v Verdict

	counts := make(map[string]int, len(observed))
	var distinct []string
	for _, tag := range observed {
		if counts[tag] == 0 {
			distinct = append(distinct, tag)
		}
		counts[tag]++
	}

	for _, tag := range distinct {
		if _, ok := rs.Lookup(tag); !ok {
			v.Disallowed = append(v.Disallowed, tag)
		}
	}

	for _, rule := range rs.Rules() {
		if rule.Required && counts[rule.Tag] == 0 {
			v.MissingRequired = append(v.MissingRequired, rule.Tag)
		}
	}

	// Unknown tags are already disallowed, so only governed tags are considered here
	for _, tag := range distinct {
		rule, ok := rs.Lookup(tag)
		if ok && !rule.AllowMultiple && counts[tag] > 1 {
			v.DisallowedDuplicates = append(v.DisallowedDuplicates, tag)
		}
	}

	return v
}
