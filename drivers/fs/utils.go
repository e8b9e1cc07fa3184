package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/birkland/rdftype/metadata"
	"github.com/pkg/errors"
)

// AtomicPrefix is a file prefix for temporary files that are created during
// AtomicWrite
const AtomicPrefix = ".rdftype.atomic."

// ReadFileSet reads a file set manifest, given its path
func ReadFileSet(path string) (fs *metadata.FileSet, err error) {
	fs = &metadata.FileSet{}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open manifest at %s", path)
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "error closing file at %s", path)
		}
	}()
	err = metadata.Parse(file, fs)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse manifest at %s", path)
	}

	return fs, nil
}

// ManagedWrite encapsulates an io.WriteCloser such that the write can be
// rolled back upon error.
type ManagedWrite struct {
	io.WriteCloser
	closeFunc    func() error
	rollbackFunc func() error
	fileClosed   bool
	closed       bool // committed or rolled back
}

// Close frees up any resources and performs the necessary actions to
// commit the write.
func (w *ManagedWrite) Close() error {
	return w.closeWith(w.closeFunc)
}

// Rollback attempts to undo any tangible effects of an incomplete/errored write.
func (w *ManagedWrite) Rollback() error {
	return w.closeWith(w.rollbackFunc)
}

// closeWith closes the underlying file, then runs f.  Until f succeeds, the write may still
// be rolled back.
func (w *ManagedWrite) closeWith(f func() error) error {
	if w.closed {
		return nil
	}

	if !w.fileClosed {
		w.fileClosed = true
		if err := w.WriteCloser.Close(); err != nil {
			return err
		}
	}

	if f != nil {
		if err := f(); err != nil {
			return err
		}
	}

	w.closed = true
	return nil
}

// AtomicWrite creates a temporary file which is opened for write (only),
// in the same directory as the specified path.  Once written and closed,
// it atomically renames the temp file to match the given path.
//
// Note, Close() may fail.  If it does, it is up to the caller to determine the
// appropriate response (e.g. Rollback(), or log it and manually inspect)
func AtomicWrite(path string) (*ManagedWrite, error) {

	tname := filepath.Join(filepath.Dir(path), AtomicPrefix+filepath.Base(path))
	tfile, err := os.OpenFile(tname, os.O_WRONLY|os.O_EXCL|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create temporary file %s", tname)
	}

	return &ManagedWrite{
		WriteCloser: tfile,
		closeFunc: func() error {
			err := os.Rename(tname, path)
			return errors.Wrapf(err, "could not rename %s to %s", tname, path)
		},
		rollbackFunc: func() error {
			return os.Remove(tname)
		},
	}, nil
}

// WriteFile atomically writes content to path, creating parent directories as needed.
// If exclusive is true, it refuses to replace an existing file.
func WriteFile(path string, content []byte, exclusive bool) (err error) {
	if exclusive {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrapf(os.ErrExist, "refusing to overwrite %s", path)
		}
	}

	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "could not create directory for %s", path)
	}

	w, err := AtomicWrite(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := w.Rollback(); e != nil && err == nil {
			err = errors.Wrapf(e, "error rolling back write to %s", path)
		}
	}()

	if _, err = w.Write(content); err != nil {
		return errors.Wrapf(err, "could not write %s", path)
	}

	return w.Close()
}
