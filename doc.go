// Package rdftype defines an API for validating the rdf:type values declared by the files
// of a file set against a configured rule set.
//
// Rules are loaded by the rules package, file set manifests are read by one or more
// drivers (see drivers/ for more information).  Evaluation itself is a pure function of
// a RuleSet and the observed types, and produces a Verdict listing every finding.
package rdftype
