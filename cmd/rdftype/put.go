package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/birkland/rdftype"
	"github.com/birkland/rdftype/drivers/fs"
	"github.com/birkland/rdftype/metadata"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var putOpts = struct {
	id     string
	title  string
	force  bool
	digest bool
}{}

var put = cli.Command{
	Name:      "put",
	Usage:     "Add or replace files in a file set manifest",
	ArgsUsage: "name=rdf:type ...",
	Description: `Adds each named file, with its rdf:type, to the manifest of the file set
	given by --id, creating the file set if it does not exist.  Files already in the manifest
	are replaced.  The resulting file set must have valid rdf:types, or nothing is saved.`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:        "id",
			Usage:       "File set id (required)",
			Destination: &putOpts.id,
		},
		cli.StringFlag{
			Name:        "title, t",
			Usage:       "File set title",
			Destination: &putOpts.title,
		},
		cli.BoolFlag{
			Name:        "digest, d",
			Usage:       "Record the sha512 digest of each named file, read relative to the working directory",
			Destination: &putOpts.digest,
		},
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "Save even if rdf:types are invalid",
			Destination: &putOpts.force,
		},
	},
	Action: func(c *cli.Context) error {
		return putAction(c.Args())
	},
}

func putAction(args []string) error {
	if putOpts.id == "" {
		return fmt.Errorf("no file set id given")
	}

	files, err := parseFiles(args)
	if err != nil {
		return err
	}

	if putOpts.digest {
		if err := digestFiles(files); err != nil {
			return err
		}
	}

	d, err := newDriver("")
	if err != nil {
		return err
	}

	fileSet := &metadata.FileSet{ID: putOpts.id}
	ref, err := d.Open(putOpts.id)
	switch {
	case err == nil:
		fileSet = ref.FileSet
	case os.IsNotExist(errors.Cause(err)):
		logger.Info("creating file set", zap.String("id", putOpts.id))
	default:
		return err
	}

	if putOpts.title != "" {
		fileSet.Title = putOpts.title
	}

	for _, f := range files {
		if err := fileSet.PutFile(f); err != nil {
			return errors.Wrapf(err, "could not add %s", f.Name)
		}
	}

	if !putOpts.force {
		loader, err := newLoader()
		if err != nil {
			return err
		}

		if err := rdftype.NewValidator(loader, rdftype.WithLogger(logger)).Validate(fileSet); err != nil {
			return errors.Wrapf(err, "not saving file set %s", fileSet.ID)
		}
	}

	ref, err = d.Save(fileSet)
	if err != nil {
		return err
	}

	fmt.Println(ref.Addr)
	return nil
}

// parseFiles parses name=type arguments.  The type may itself contain '=', the name may not.
func parseFiles(args []string) ([]metadata.File, error) {
	files := make([]metadata.File, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("malformed file argument %q, expecting name=rdf:type", arg)
		}
		files = append(files, metadata.File{Name: parts[0], Type: parts[1]})
	}
	return files, nil
}

func digestFiles(files []metadata.File) error {
	for i := range files {
		d, err := fs.Sum(files[i].Name)
		if err != nil {
			return errors.Wrapf(err, "could not digest %s", files[i].Name)
		}
		files[i].Digest = d
	}
	return nil
}
