package fs

import (
	"crypto/sha512"
	"encoding/hex"
	"io"
	"os"

	"github.com/birkland/rdftype/metadata"
	"github.com/pkg/errors"
)

// Sum calculates the sha512 digest of a file's content
func Sum(path string) (d metadata.Digest, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not open %s", path)
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "error closing %s", path)
		}
	}()

	hash := sha512.New()
	if _, err = io.Copy(hash, file); err != nil {
		return "", errors.Wrapf(err, "could not read %s", path)
	}

	return metadata.Digest(hex.EncodeToString(hash.Sum(nil))), nil
}
