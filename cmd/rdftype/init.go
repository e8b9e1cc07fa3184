package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/birkland/rdftype/drivers/fs"
	"github.com/birkland/rdftype/rules"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var initConfig = cli.Command{
	Name:      "init",
	Usage:     "Write the default rdf:type rules into an application root",
	ArgsUsage: "[ dir ]",
	Description: `Creates config/rdf_type_validation.yml in the given directory (default: the
	application root), containing the rules shipped with the engine.  An existing rules file is never overwritten.`,
	Action: func(c *cli.Context) error {
		return initAction(c.Args().First())
	},
}

func initAction(dir string) error {
	if dir == "" {
		dir = mainOpts.appRoot
	}
	if dir == "" {
		dir = pwd()
	}

	path := filepath.Join(dir, rules.ConfigDir, rules.ConfigFile)
	if err := fs.WriteFile(path, rules.DefaultConfig, true); err != nil {
		if os.IsExist(errors.Cause(err)) {
			return fmt.Errorf("rules file %s already exists", path)
		}
		return err
	}

	fmt.Println(path)
	return nil
}
