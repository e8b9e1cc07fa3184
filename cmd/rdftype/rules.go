package main

import (
	"fmt"
	"io"
	"os"

	"github.com/birkland/rdftype"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

var listRules = cli.Command{
	Name:  "rules",
	Usage: "Print the rdf:type rules in effect, and where they came from",
	Description: `Resolves and loads the rules file exactly as validation would, then prints it
	in normalized form.  The output is itself a valid rules file.`,
	Action: func(c *cli.Context) error {
		return rulesAction(os.Stdout)
	},
}

type ruleRecord struct {
	RDFType  string `yaml:"rdf_type"`
	Required bool   `yaml:"required"`
	Multiple bool   `yaml:"multiple"`
}

func rulesAction(w io.Writer) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}

	rs, err := loader.Rules()
	if err != nil {
		return errors.Wrapf(err, "could not load rdf:type rules")
	}

	fmt.Fprintf(w, "# %s\n", loader.LoadedFrom())
	return writeRules(w, rs)
}

func writeRules(w io.Writer, rs *rdftype.RuleSet) error {
	records := make([]ruleRecord, 0, rs.Len())
	for _, r := range rs.Rules() {
		records = append(records, ruleRecord{
			RDFType:  r.Tag,
			Required: r.Required,
			Multiple: r.AllowMultiple,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return errors.Wrapf(err, "could not encode rules")
	}
	return enc.Close()
}
