package rdftype

import "github.com/pkg/errors"

// Configuration errors.  These stem from deployment misconfiguration, and abort
// whatever operation needed the rules.
var (
	ErrConfigNotFound = errors.New("rdf:type validation config not found")
	ErrConfigParse    = errors.New("could not parse rdf:type validation config")
)

// Validation outcome errors, one per finding category.  Use errors.Cause to
// recover the category from an error returned by Validate or Verdict.Err
var (
	ErrDisallowedType          = errors.New("rdf:type not allowed")
	ErrMissingRequiredType     = errors.New("missing required rdf:type")
	ErrDisallowedDuplicateType = errors.New("duplicate rdf:type not allowed")
)

var categoryErrors = map[Category]error{
	Disallowed:          ErrDisallowedType,
	MissingRequired:     ErrMissingRequiredType,
	DisallowedDuplicate: ErrDisallowedDuplicateType,
}

// CategoryOf maps a validation outcome error back to its finding category.
// Returns Unknown for anything else, including configuration errors.
func CategoryOf(err error) Category {
	cause := errors.Cause(err)
	for c, e := range categoryErrors {
		if cause == e {
			return c
		}
	}
	return Unknown
}
