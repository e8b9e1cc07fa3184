package main

import (
	"os"
	"testing"

	"github.com/birkland/rdftype/metadata"
	"github.com/birkland/rdftype/rules"
)

func TestLoaderFallsBackToBundledRules(t *testing.T) {
	chdir(t, t.TempDir())

	l, err := newLoader()
	if err != nil {
		t.Fatalf("could not create loader: %+v", err)
	}

	src, err := l.Source()
	if err != nil {
		t.Fatalf("no rules found: %+v", err)
	}
	if src != rules.BundledSource {
		t.Errorf("expected bundled rules, got %s", src)
	}

	rs, err := l.Rules()
	if err != nil {
		t.Fatalf("could not load bundled rules: %+v", err)
	}
	if _, ok := rs.Lookup("http://pcdm.org/use#OriginalFile"); !ok {
		t.Error("bundled rules should govern original files")
	}
}

func TestLayout(t *testing.T) {
	for _, name := range []string{"", "escaped", "pairtree"} {
		if _, err := layout(name); err != nil {
			t.Errorf("layout %q: %+v", name, err)
		}
	}
	if _, err := layout("flat"); err == nil {
		t.Error("expected unknown layout to be rejected")
	}
}

func TestDigestFiles(t *testing.T) {
	chdir(t, t.TempDir())
	if err := os.WriteFile("a.tiff", []byte("abc"), 0644); err != nil {
		t.Fatalf("could not write file: %+v", err)
	}

	files := []metadata.File{{Name: "a.tiff", Type: "http://pcdm.org/use#OriginalFile"}}
	if err := digestFiles(files); err != nil {
		t.Fatalf("could not digest: %+v", err)
	}
	if !files[0].Digest.Valid() || len(files[0].Digest) != 128 {
		t.Errorf("expected a sha512 digest, got %q", files[0].Digest)
	}

	if err := digestFiles([]metadata.File{{Name: "missing.tiff"}}); err == nil {
		t.Error("expected a missing file to fail")
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %+v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("could not change directory: %+v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("could not restore working directory: %+v", err)
		}
	})
}
