package rdftype_test

import (
	"testing"

	"github.com/birkland/rdftype"
	"github.com/go-test/deep"
	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
)

type fileSet []string

func (f fileSet) DeclaredTypes() []string {
	return f
}

type failingSource struct{}

func (failingSource) Rules() (*rdftype.RuleSet, error) {
	return nil, errors.Wrap(rdftype.ErrConfigNotFound, "nowhere")
}

func TestValidatorCheck(t *testing.T) {
	v := rdftype.NewValidator(rdftype.StaticRules{Set: imageRules(t)}, rdftype.WithLogger(zaptest.NewLogger(t)))

	verdict, err := v.Check(fileSet{"image", "thumbnail", "thumbnail", "extracted_text"})
	if err != nil {
		t.Fatalf("unexpected error %+v", err)
	}

	if diff := deep.Equal(rdftype.Verdict{Disallowed: []string{"extracted_text"}}, verdict); diff != nil {
		t.Errorf("%s", diff)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := rdftype.NewValidator(rdftype.StaticRules{Set: imageRules(t)})

	cases := []struct {
		name     string
		files    fileSet
		expected error
	}{
		{"valid", fileSet{"image", "thumbnail"}, nil},
		{"disallowed", fileSet{"image", "bogus"}, rdftype.ErrDisallowedType},
		{"disallowed beats missing", fileSet{"bogus"}, rdftype.ErrDisallowedType},
		{"missing", fileSet{"thumbnail"}, rdftype.ErrMissingRequiredType},
		{"empty file set", fileSet{}, rdftype.ErrMissingRequiredType},
		{"duplicate", fileSet{"image", "image"}, rdftype.ErrDisallowedDuplicateType},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			err := v.Validate(c.files)
			if errors.Cause(err) != c.expected {
				t.Errorf("expected %v, got %v", c.expected, err)
			}
		})
	}
}

func TestValidatorConfigError(t *testing.T) {
	v := rdftype.NewValidator(failingSource{})

	if _, err := v.Check(fileSet{"image"}); errors.Cause(err) != rdftype.ErrConfigNotFound {
		t.Errorf("Check should surface the config error, got %v", err)
	}

	err := v.Validate(fileSet{"image"})
	if errors.Cause(err) != rdftype.ErrConfigNotFound {
		t.Errorf("Validate should surface the config error, got %v", err)
	}
	if rdftype.CategoryOf(err) != rdftype.Unknown {
		t.Errorf("config errors should not look like validation outcomes")
	}
}

func TestObservedTypes(t *testing.T) {
	if rdftype.ObservedTypes(nil) != nil {
		t.Errorf("nil file set should have no observed types")
	}

	files := fileSet{"a", "b", "a"}
	observed := rdftype.ObservedTypes(files)
	observed[0] = "changed"

	if files[0] != "a" {
		t.Errorf("observed types should be a copy")
	}
}
