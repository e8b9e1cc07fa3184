package main

import (
	"fmt"
	"os"

	"github.com/birkland/rdftype/drivers/fs"
	"github.com/birkland/rdftype/fspath"
	"github.com/birkland/rdftype/rules"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var mainOpts = struct {
	config     string
	appRoot    string
	engineRoot string
	root       string
	layout     string
	debug      bool
}{}

var logger = zap.NewNop()

func main() {
	app := cli.NewApp()
	app.Name = "rdftype"
	app.Usage = "rdf:type validation for repository file sets"
	app.EnableBashCompletion = true
	app.Commands = []cli.Command{
		validate,
		listRules,
		initConfig,
		put,
		watch,
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Usage:       "rdf:type rules file (default: config/rdf_type_validation.yml under the app root, then the engine root)",
			EnvVar:      "RDFTYPE_CONFIG",
			Destination: &mainOpts.config,
		},
		cli.StringFlag{
			Name:        "app-root",
			Usage:       "Application root (default: nearest ancestor of the working directory with a rules file)",
			EnvVar:      "RDFTYPE_APP_ROOT",
			Destination: &mainOpts.appRoot,
		},
		cli.StringFlag{
			Name:        "engine-root",
			Usage:       "Engine root, holding the default rules file (default: rules built into rdftype)",
			EnvVar:      "RDFTYPE_HOME",
			Destination: &mainOpts.engineRoot,
		},
		cli.StringFlag{
			Name:        "root, r",
			Usage:       "Directory holding file sets (default: working directory)",
			EnvVar:      "RDFTYPE_ROOT",
			Destination: &mainOpts.root,
		},
		cli.StringFlag{
			Name:        "layout",
			Usage:       "How file set ids map to directories {escaped, pairtree}",
			Value:       "escaped",
			EnvVar:      "RDFTYPE_LAYOUT",
			Destination: &mainOpts.layout,
		},
		cli.BoolFlag{
			Name:        "debug",
			Usage:       "Verbose logging",
			Destination: &mainOpts.debug,
		},
	}
	app.Before = func(c *cli.Context) (err error) {
		logger, err = newLogger(mainOpts.debug)
		return err
	}

	err := app.Run(os.Args)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// newLoader creates a rules loader from the global options, falling back to the rules
// built into the binary.  Nothing is loaded yet.
func newLoader() (*rules.Loader, error) {
	l := rules.NewLoader(
		rules.WithAppRoot(appRoot()),
		rules.WithEngineRoot(mainOpts.engineRoot),
		rules.WithBundledDefault(),
		rules.WithLogger(logger),
	)

	if mainOpts.config != "" {
		if err := l.Configure(mainOpts.config); err != nil {
			return nil, err
		}
	}

	return l, nil
}

func newDriver(include string) (*fs.Driver, error) {
	gen, err := layout(mainOpts.layout)
	if err != nil {
		return nil, err
	}

	return fs.NewDriver(fs.Config{
		Root:         root(),
		ManifestPath: gen,
		Include:      include,
	})
}

func layout(name string) (fspath.Generator, error) {
	switch name {
	case "", "escaped":
		return fspath.Escaped, nil
	case "pairtree":
		return fspath.Pairtree, nil
	default:
		return nil, fmt.Errorf("unknown layout %s", name)
	}
}

func root() string {
	if mainOpts.root != "" {
		return mainOpts.root
	}
	return pwd()
}

// Figure out the application root.  If it was given, use that.  Otherwise
// look upwards from the working directory, falling back to the working directory itself.
func appRoot() string {
	if mainOpts.appRoot != "" {
		return mainOpts.appRoot
	}

	dir := pwd()
	if found, err := fs.LocateAppRoot(dir); err == nil {
		return found
	}
	return dir
}

func pwd() string {
	dir, err := os.Getwd()
	if err != nil {
		logger.Fatal("could not get pwd", zap.Error(err))
	}
	return dir
}
