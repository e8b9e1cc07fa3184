package fs

import (
	"bytes"
	"fmt"

	"github.com/birkland/rdftype/metadata"
	"github.com/pkg/errors"
)

// Save (safely) writes the manifest of a file set into its directory, as determined
// by the driver's manifest path generator, replacing any previous manifest.
//
// The manifest must be internally consistent.  Whether its rdf:types are allowed is up
// to the caller to decide beforehand.
func (d *Driver) Save(fs *metadata.FileSet) (Ref, error) {
	if d.cfg.ManifestPath == nil {
		return Ref{}, fmt.Errorf("no manifest path generator given, refusing to write")
	}

	if d.root == "" {
		return Ref{}, fmt.Errorf("no root given, refusing to write")
	}

	if err := fs.Validate(); err != nil {
		return Ref{}, errors.Wrapf(err, "refusing to save inconsistent file set")
	}

	var buf bytes.Buffer
	if err := fs.Serialize(&buf); err != nil {
		return Ref{}, errors.Wrapf(err, "could not serialize file set %s", fs.ID)
	}

	addr := d.manifestPath(fs.ID)
	if err := WriteFile(addr, buf.Bytes(), false); err != nil {
		return Ref{}, errors.Wrapf(err, "could not save file set %s", fs.ID)
	}

	return Ref{ID: fs.ID, Addr: addr, FileSet: fs}, nil
}
