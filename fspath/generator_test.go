package fspath_test

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/birkland/rdftype/fspath"
)

func TestGeneratorFunc(t *testing.T) {
	testID := "test ID"
	var gen fspath.Generator = fspath.GeneratorFunc(func(id string) string {
		return id
	})

	translated := gen.Generate(testID)

	if translated != testID {
		t.Fatalf("Expected %s, got %s", testID, translated)
	}
}

func TestPairtree(t *testing.T) {
	cases := []struct {
		id       string
		expected string
	}{
		{"ab12cd34ef", "ab/12/cd/34/ab12cd34ef"},
		{"ab12", "ab/12/ab12"},
		{"abc", "ab/abc"},
		{"a", "a"},
		{"x:y", "x%/3A/x%3Ay"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.id, func(t *testing.T) {
			if p := fspath.Pairtree.Generate(c.id); p != c.expected {
				t.Errorf("Expected %s, got %s", c.expected, p)
			}
		})
	}
}

// Creates an fspath.Generator instance from the builtin uri.QueryEscape function
func ExampleGeneratorFunc() {
	var pathgen fspath.Generator = fspath.GeneratorFunc(url.QueryEscape)
	fmt.Println(pathgen.Generate("foo:bar"))
	// Output: foo%3Abar
}

func ExampleEscaped() {
	fmt.Println(fspath.Escaped.Generate("urn:fileset/1"))
	// Output: urn%3Afileset%2F1
}
