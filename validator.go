package rdftype

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FileSet is a logical grouping of files, each declaring an rdf:type
type FileSet interface {
	// DeclaredTypes returns the rdf:type of each attached file, one entry per file
	DeclaredTypes() []string
}

// RuleSource provides the rules to validate against.  Implementations are expected
// to cache, since a source is consulted on every validation.
type RuleSource interface {
	Rules() (*RuleSet, error)
}

// StaticRules is a RuleSource that always provides the same rule set
type StaticRules struct {
	Set *RuleSet
}

// Rules returns the static rule set
func (s StaticRules) Rules() (*RuleSet, error) {
	return s.Set, nil
}

// ObservedTypes builds the multiset of observed rdf:types for a file set
func ObservedTypes(fs FileSet) []string {
	if fs == nil {
		return nil
	}
	return append([]string(nil), fs.DeclaredTypes()...)
}

// Validator validates file sets against the rules from a RuleSource
type Validator struct {
	source RuleSource
	log    *zap.Logger
}

// ValidatorOption configures a Validator
type ValidatorOption func(*Validator)

// WithLogger sets the logger used for validation diagnostics
func WithLogger(log *zap.Logger) ValidatorOption {
	return func(v *Validator) {
		if log != nil {
			v.log = log
		}
	}
}

// NewValidator creates a validator drawing rules from the given source
func NewValidator(source RuleSource, opts ...ValidatorOption) *Validator {
	v := &Validator{
		source: source,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Check evaluates the file set and returns every finding.  The only errors returned are
// configuration errors encountered while loading rules.
func (v *Validator) Check(fs FileSet) (Verdict, error) {
	rules, err := v.source.Rules()
	if err != nil {
		return Verdict{}, errors.Wrap(err, "could not load rdf:type rules")
	}

	observed := ObservedTypes(fs)
	verdict := rules.Evaluate(observed)

	v.log.Debug("evaluated rdf:types",
		zap.Strings("observed", observed),
		zap.Bool("valid", verdict.Valid()),
		zap.Strings("disallowed", verdict.Disallowed),
		zap.Strings("missingRequired", verdict.MissingRequired),
		zap.Strings("disallowedDuplicates", verdict.DisallowedDuplicates))

	return verdict, nil
}

// Validate checks the file set and reports only the first failing category, in priority
// order: disallowed, missing required, disallowed duplicate.  Callers that need every
// finding should use Check instead.
func (v *Validator) Validate(fs FileSet) error {
	verdict, err := v.Check(fs)
	if err != nil {
		return err
	}
	return verdict.Err()
}
