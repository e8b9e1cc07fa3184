package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/birkland/rdftype/rules"
	"github.com/pkg/errors"
)

// LocateAppRoot attempts to find the first directory holding an rdf:type rules file
// (i.e. config/rdf_type_validation.yml) in the given directory, or any parent directories.
// The primary use case is finding the application root when given the location of some
// file somewhere within it.
func LocateAppRoot(loc string) (string, error) {

	addr, err := filepath.Abs(loc)
	if err != nil {
		return "", errors.Wrapf(err, "could not calculate absolute path of %s", loc)
	}

	isRoot, err := isAppRoot(addr)
	if err != nil {
		return "", errors.Wrap(err, "error finding application root")
	}

	if isRoot {
		return addr, nil
	}

	root, err := crawlForRoot(addr)
	if err != nil {
		return "", errors.Wrap(err, "error finding application root")
	}
	return root, nil
}

// Crawl up a directory hierarchy until we reach an application root.
// Returns an error if no roots are found.
func crawlForRoot(addr string) (string, error) {

	parent := filepath.Dir(addr)

	found, err := isAppRoot(parent)
	if err != nil {
		return "", errors.Wrapf(err, "error detecting application root")
	}

	if !found && parent == addr {
		return "", fmt.Errorf("no application root found crawling up to /")
	}

	if !found {
		return crawlForRoot(parent)
	}

	return parent, nil
}

// Detect if this is an application root.  Returns an error if
// there is a problem accessing the given path, other than it not existing.
func isAppRoot(path string) (bool, error) {
	dir, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !dir.IsDir() {
		return false, nil
	}

	cf, err := os.Stat(filepath.Join(path, rules.ConfigDir, rules.ConfigFile))

	// We expect a "file not found" error if this isn't a root,
	// and simply return false in that case.  Anything else (e.g. "permission denied"),
	// we should truly return as an error
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "error detecting rules file in %s", path)
	}

	return err == nil && cf.Mode().IsRegular(), nil
}
