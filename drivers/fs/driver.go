// Package fs provides a filesystem driver for file set manifests.
//
// File sets are stored as directories containing a fileset.json manifest, somewhere under a
// root directory.  If the driver is configured with a path generator, a file set's directory
// is found directly from its id.  Otherwise the driver walks the tree under the root looking
// for a manifest with a matching id.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/birkland/rdftype/fspath"
	"github.com/birkland/rdftype/metadata"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// DefaultInclude selects every manifest in a tree
const DefaultInclude = "**/" + metadata.ManifestFile

// Driver represents the filesystem driver for file set manifests
type Driver struct {
	root string
	cfg  Config
}

// Config encapsulates a filesystem driver config.
//
// The manifest path generator is mandatory whenever the Driver will be used
// for writes, and is optional for reads.  That being said, if a ManifestPath
// is provided, it will be used for quick lookups of file set directories.  If
// not provided, the driver will perform a brute force search through the directory
// tree when it needs to find a file set given its ID.
type Config struct {
	Root         string           // directory containing file sets
	ManifestPath fspath.Generator // file set directories based on id
	Include      string           // doublestar pattern selecting manifests during walks
}

// Ref is a file set found by the driver
type Ref struct {
	ID      string
	Addr    string // path of the manifest
	FileSet *metadata.FileSet
}

// NewDriver initializes a new filesystem driver with
// the given root directory.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Include == "" {
		cfg.Include = DefaultInclude
	}

	if !doublestar.ValidatePattern(cfg.Include) {
		return nil, fmt.Errorf("bad include pattern %s", cfg.Include)
	}

	if cfg.Root == "" {
		return &Driver{cfg: cfg}, nil
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "could not calculate absolute path of %s", cfg.Root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "could not find file set root")
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cfg.Root)
	}

	return &Driver{
		root: root,
		cfg:  cfg,
	}, nil
}

// Root is the absolute path of the driver's root directory, if any
func (d *Driver) Root() string {
	return d.root
}

// Open finds the file set with the given ID.  It is an error if there is none.
func (d *Driver) Open(id string) (Ref, error) {

	if d.root == "" {
		return Ref{}, fmt.Errorf("no root given, cannot open file set %s", id)
	}

	if d.cfg.ManifestPath != nil {

		// First, the easy way.  If we have a manifest path function, just use that
		// and see if the resulting path holds the manifest or not

		addr := d.manifestPath(id)
		fs, err := ReadFileSet(addr)

		if err != nil && !os.IsNotExist(errors.Cause(err)) {
			return Ref{}, errors.Wrapf(err, "Error opening %s at %s", id, addr)
		}

		if err == nil && fs.ID == id {
			return Ref{ID: id, Addr: addr, FileSet: fs}, nil
		}

	} else {

		// The "hard" way.  Brute force look for the matching manifest

		var found []Ref
		err := d.Walk(func(ref Ref) error {
			if ref.ID == id {
				found = append(found, ref)
			}
			return nil
		}, d.root)

		if err != nil {
			return Ref{}, errors.Wrapf(err, "Could not open %s", id)
		}

		if len(found) > 1 {
			return Ref{}, fmt.Errorf("file set %s is ambiguous, found at %s and %s", id, found[0].Addr, found[1].Addr)
		}

		if len(found) == 1 {
			return found[0], nil
		}
	}

	return Ref{}, errors.Wrapf(os.ErrNotExist, "no file set %s under %s", id, d.root)
}

func (d *Driver) manifestPath(id string) string {
	return filepath.Join(d.root, filepath.FromSlash(d.cfg.ManifestPath.Generate(id)), metadata.ManifestFile)
}
