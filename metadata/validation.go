package metadata

import (
	"fmt"
	"strings"
)

// Validate verifies whether file set metadata is internally consistent.
// A positive result (no error returned) means only that a given manifest reflects a plausible internal state.  It does
// not imply that the files referenced by the manifest actually exist, or match their claimed digests, or that
// their declared rdf:types are allowed.  rdf:type rules are the business of a Validator.
//
// Internally consistent
//
// Internally consistent means:
//
// The file set has an ID.
//
// Every file has a name, and no two files share the same name.
//
// Digest values, where present, are lowercase hex strings of even length.
func (fs *FileSet) Validate() error {
	if strings.TrimSpace(fs.ID) == "" {
		return fmt.Errorf("file set has no id")
	}

	names := make(map[string]bool, len(fs.Files))
	for i, f := range fs.Files {
		if f.Name == "" {
			return fmt.Errorf("file %d of %s has no name", i, fs.ID)
		}
		if names[f.Name] {
			return fmt.Errorf("file %s appears more than once in %s", f.Name, fs.ID)
		}
		names[f.Name] = true

		if f.Digest != "" && !f.Digest.Valid() {
			return fmt.Errorf("file %s of %s has a malformed digest %s", f.Name, fs.ID, f.Digest)
		}
	}

	return nil
}

// Valid is true if the digest is a lowercase hex string of even length
func (d Digest) Valid() bool {
	if len(d) == 0 || len(d)%2 != 0 {
		return false
	}
	for _, c := range d {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
