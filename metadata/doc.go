// Package metadata contains facilities for working with file set metadata.
// At the moment, it is mostly a 1:1 reflection of fileset.json manifest files.
//
// A manifest describes one file set: its identity, and each of its files along with the
// rdf:type that file declares.  The declared types are what rdf:type validation operates on.
package metadata
