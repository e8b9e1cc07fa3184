package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/birkland/rdftype"
	"github.com/birkland/rdftype/drivers/fs"
	"github.com/birkland/rdftype/rules"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var watch = cli.Command{
	Name:      "watch",
	Usage:     "Re-validate file sets whenever the rdf:type rules change",
	ArgsUsage: "[ manifest | dir ] ...",
	Description: `Validates as the validate command does, then watches the rules file.  Each time
	it changes, the rules are reloaded and everything is validated again.  A rules file that
	fails to load is reported, and the previous rules stay in effect.  Runs until interrupted.`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:        "include, i",
			Usage:       "Pattern selecting manifests within directories",
			Value:       fs.DefaultInclude,
			Destination: &validateOpts.include,
		},
		cli.IntFlag{
			Name:        "jobs, j",
			Usage:       "Number of file sets to validate concurrently",
			Value:       4,
			Destination: &validateOpts.jobs,
		},
		cli.BoolFlag{
			Name:        "quiet, q",
			Usage:       "Only print invalid file sets",
			Destination: &validateOpts.quiet,
		},
	},
	Action: func(c *cli.Context) error {
		return watchAction(c.Args())
	},
}

func watchAction(locs []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, err := newLoader()
	if err != nil {
		return err
	}

	if _, err := loader.Rules(); err != nil {
		return errors.Wrapf(err, "could not load rdf:type rules")
	}

	d, err := newDriver(validateOpts.include)
	if err != nil {
		return err
	}

	if len(locs) == 0 {
		locs = []string{d.Root()}
	}

	v := rdftype.NewValidator(loader, rdftype.WithLogger(logger))
	run := func() {
		results, err := validateAll(ctx, d, v, locs, validateOpts.jobs)
		if err != nil {
			logger.Error("validation failed", zap.Error(err))
			return
		}
		invalid := report(os.Stdout, results, false, validateOpts.quiet)
		logger.Info("validated file sets", zap.Int("total", len(results)), zap.Int("invalid", invalid))
	}

	run()

	w, err := rules.NewWatcher(loader, func(_ *rdftype.RuleSet, err error) {
		if err != nil {
			return
		}
		run()
	}, rules.WithWatchLogger(logger))
	if err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	w.Stop()
	return nil
}
