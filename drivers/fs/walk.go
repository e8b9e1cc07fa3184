package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

const (
	dontGoDeeper = true
	goDeeper     = false
)

// Walk iterates through file sets and invokes a callback for each one.
//
// Each given location may be a manifest file, which is read directly, or a directory,
// which is walked for manifests matching the driver's include pattern.  Hidden directories
// are not descended into.  With no locations, the driver's root is walked.  Returns with a
// nil error once all file sets have been visited successfully, or a callback has returned
// an error.
func (d *Driver) Walk(f func(Ref) error, locs ...string) error {
	if len(locs) == 0 {
		if d.root == "" {
			return fmt.Errorf("nothing to walk, no root or locations given")
		}
		locs = []string{d.root}
	}

	for _, loc := range locs {
		info, err := os.Stat(loc)
		if err != nil {
			return errors.Wrapf(err, "could not walk %s", loc)
		}

		if !info.IsDir() {
			ref, err := readRef(loc)
			if err != nil {
				return err
			}
			if err = f(ref); err != nil {
				return err
			}
			continue
		}

		err = d.walkDir(loc, f)
		if err != nil {
			return errors.Wrapf(err, "error performing walk in %s", loc)
		}
	}

	return nil
}

func (d *Driver) walkDir(dir string, f func(Ref) error) error {
	return fsWalk(dir, func(ospath string, e *godirwalk.Dirent) (bool, error) {

		if e.IsDir() {
			if ospath != dir && strings.HasPrefix(e.Name(), ".") {
				return dontGoDeeper, nil
			}
			return goDeeper, nil
		}

		// Symlinks to directories are followed by godirwalk; anything else that
		// isn't a regular file can't be a manifest
		if !e.IsRegular() && !e.IsSymlink() {
			return dontGoDeeper, nil
		}

		rel, err := filepath.Rel(dir, ospath)
		if err != nil {
			return dontGoDeeper, errors.Wrapf(err, "could not relativize %s", ospath)
		}

		match, err := doublestar.Match(d.cfg.Include, filepath.ToSlash(rel))
		if err != nil || !match {
			return dontGoDeeper, err
		}

		ref, err := readRef(ospath)
		if err != nil {
			return dontGoDeeper, err
		}

		return dontGoDeeper, f(ref)
	})
}

func readRef(path string) (Ref, error) {
	addr, err := filepath.Abs(path)
	if err != nil {
		return Ref{}, errors.Wrapf(err, "could not calculate absolute path of %s", path)
	}

	fs, err := ReadFileSet(addr)
	if err != nil {
		return Ref{}, err
	}

	return Ref{
		ID:      fs.ID,
		Addr:    addr,
		FileSet: fs,
	}, nil
}

type skip struct {
	action godirwalk.ErrorAction
}

func (skip) Error() string {
	return "node is skipped"
}

// Callback to be invoked each time a fs entry is encountered.
// Returns a Boolean indicating whether the current fs entry should be a
// considered a terminal (leaf) node.  If true, any children will not be
// walked.  Any error will terminate a walk entirely.
type fsCallback func(ospath string, e *godirwalk.Dirent) (terminal bool, err error)

func fsWalk(dir string, f fsCallback) error {

	if _, err := os.Stat(dir); err != nil {
		return errors.Wrapf(err, "error walking directory %s", dir)
	}

	return godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(ospath string, dirent *godirwalk.Dirent) error {
			terminal, err := f(ospath, dirent)
			if err != nil {
				return errors.Wrap(err, "terminating walk due to error")
			}
			if terminal && dirent.IsDir() {
				return skip{godirwalk.SkipNode}
			}
			return nil
		},
		ErrorCallback: func(ospath string, err error) godirwalk.ErrorAction {
			s, skip := errors.Cause(err).(skip)
			if skip {
				return s.action
			}

			return godirwalk.Halt
		},
		FollowSymbolicLinks: true,
	},
	)
}
