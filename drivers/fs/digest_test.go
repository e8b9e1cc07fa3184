package fs_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/birkland/rdftype/drivers/fs"
	"github.com/pkg/errors"
)

func TestSum(t *testing.T) {
	runInTempDir(t, func(tempDir string) {
		path := filepath.Join(tempDir, "content")
		if err := ioutil.WriteFile(path, []byte("abc"), 0644); err != nil {
			t.Fatalf("could not write file %+v", err)
		}

		d, err := fs.Sum(path)
		if err != nil {
			t.Fatalf("could not calculate digest %+v", err)
		}

		expected := "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a" +
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"
		if string(d) != expected {
			t.Errorf("unexpected digest %s", d)
		}
		if !d.Valid() {
			t.Errorf("digest %s should be a valid manifest digest", d)
		}

		if _, err := fs.Sum(filepath.Join(tempDir, "missing")); !os.IsNotExist(errors.Cause(err)) {
			t.Errorf("expected not exist error, got %v", err)
		}
	})
}
