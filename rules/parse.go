package rules

import (
	_ "embed" // for the bundled default config
	"fmt"
	"io"
	"strings"

	"github.com/birkland/rdftype"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfig is the content of the default rules file shipped with the engine
//
//go:embed rdf_type_validation.yml
var DefaultConfig []byte

// Recognized rule record keys.  Keys may also be written in symbol form, e.g. :rdf_type
var (
	tagKeys      = []string{"type_tag", "rdf_type", "type"}
	requiredKeys = []string{"required"}
	multipleKeys = []string{"allow_multiple", "multiple"}
)

// Parse parses a YAML sequence of rule records into a rule set.
//
// Parsing is permissive about key presence: required and multiple default to false, and
// unrecognized keys are ignored.  It is strict about shape: the document must be a sequence
// of mappings, each naming exactly one non-blank rdf:type, with boolean flags.  Tags are
// kept verbatim, as observed rdf:types are compared verbatim.  Any problem is
// reported with rdftype.ErrConfigParse as its cause.
func Parse(r io.Reader) (*rdftype.RuleSet, error) {
	var doc yaml.Node

	err := yaml.NewDecoder(r).Decode(&doc)
	if err == io.EOF {
		return nil, parseError("empty document")
	}
	if err != nil {
		return nil, parseError("%s", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind != yaml.SequenceNode {
		return nil, parseError("line %d: expected a list of rules", root.Line)
	}

	rules := make([]rdftype.Rule, 0, len(root.Content))
	for i, n := range root.Content {
		rule, err := parseRecord(n)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %d", i+1)
		}
		rules = append(rules, rule)
	}

	rs, err := rdftype.NewRuleSet(rules...)
	if err != nil {
		return nil, parseError("%s", err)
	}

	return rs, nil
}

func parseRecord(n *yaml.Node) (rdftype.Rule, error) {
	var rule rdftype.Rule
	var tagKey string

	if n.Kind != yaml.MappingNode {
		return rule, parseError("line %d: expected a mapping", n.Line)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		key := normalizeKey(k.Value)

		switch {
		case oneOf(key, tagKeys):
			if tagKey != "" {
				return rule, parseError("line %d: both %s and %s given", k.Line, tagKey, key)
			}
			tagKey = key
			if v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
				return rule, parseError("line %d: %s must be a string", v.Line, key)
			}
			if strings.TrimSpace(v.Value) == "" {
				return rule, parseError("line %d: %s is blank", v.Line, key)
			}
			rule.Tag = v.Value
		case oneOf(key, requiredKeys):
			if err := decodeFlag(v, key, &rule.Required); err != nil {
				return rule, err
			}
		case oneOf(key, multipleKeys):
			if err := decodeFlag(v, key, &rule.AllowMultiple); err != nil {
				return rule, err
			}
		}
	}

	if rule.Tag == "" {
		return rule, parseError("line %d: no rdf:type given (expected one of %s)", n.Line, strings.Join(tagKeys, ", "))
	}

	return rule, nil
}

func decodeFlag(v *yaml.Node, key string, dest *bool) error {
	if v.Tag == "!!null" {
		*dest = false
		return nil
	}
	if v.Kind != yaml.ScalarNode || v.Tag != "!!bool" {
		return parseError("line %d: %s must be true or false, got %q", v.Line, key, v.Value)
	}
	if err := v.Decode(dest); err != nil {
		return parseError("line %d: %s", v.Line, err)
	}
	return nil
}

// normalizeKey makes string and symbol style keys equivalent
func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(k), ":"))
}

func oneOf(key string, keys []string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func parseError(format string, args ...interface{}) error {
	return errors.Wrap(rdftype.ErrConfigParse, fmt.Sprintf(format, args...))
}
