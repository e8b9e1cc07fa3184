// Package fspath maps file set identifiers to relative filesystem paths.
package fspath

import (
	"net/url"
	"path"
)

// Generator generates a relative, solidus delimited file path
// from a given identifier.  The resulting paths are used for mapping
// file set identifiers to the directories holding their manifests
// (possibly with intervening directories, e.g. pairtrees).
type Generator interface {
	Generate(string) string
}

// GeneratorFunc is a function that can be used to satisfy the Generator interface
type GeneratorFunc func(string) string

// Generate a path from a given id string
func (g GeneratorFunc) Generate(id string) string {
	return g(id)
}

// Escaped places each file set directly under the root, in a directory named by its
// query-escaped id
var Escaped Generator = GeneratorFunc(url.QueryEscape)

// Pairtree places each file set in a directory named by its query-escaped id, nested
// under up to four intervening directories formed from successive pairs of characters
// of that id.  For example, ab12cd34ef becomes ab/12/cd/34/ab12cd34ef
var Pairtree Generator = GeneratorFunc(func(id string) string {
	escaped := url.QueryEscape(id)

	var segments []string
	for i := 0; i+2 <= len(escaped) && len(segments) < 4; i += 2 {
		segments = append(segments, escaped[i:i+2])
	}

	return path.Join(append(segments, escaped)...)
})
