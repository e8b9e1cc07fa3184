package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/birkland/rdftype"
	"github.com/birkland/rdftype/drivers/fs"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var validateOpts = struct {
	strict  bool
	include string
	jobs    int
	quiet   bool
}{}

var validate = cli.Command{
	Name:      "validate",
	Usage:     "Validate the rdf:types declared by file sets",
	ArgsUsage: "[ manifest | dir ] ...",
	Description: `Given a list of manifests or directories, validate every file set found against
	the rdf:type rules.  Directories are searched recursively for manifests matching --include.
	With no arguments, the file set root is searched.

	Exits non-zero if any file set is invalid.`,
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:        "strict, s",
			Usage:       "Report only the first violated category for each file set, as an error",
			Destination: &validateOpts.strict,
		},
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
		return validateAction(c.Args())
	},
}

type result struct {
	ref     fs.Ref
	verdict rdftype.Verdict
}

func validateAction(locs []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}

	// Bad rules are fatal, so find out before walking anything
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
	results, err := validateAll(context.Background(), d, v, locs, validateOpts.jobs)
	if err != nil {
		return err
	}

	invalid := report(os.Stdout, results, validateOpts.strict, validateOpts.quiet)
	if invalid > 0 {
		return fmt.Errorf("%d of %d file sets have invalid rdf:types", invalid, len(results))
	}

	return nil
}

// validateAll checks every file set found in the given locations, using at most jobs
// concurrent checks.  Results are sorted by manifest path.
func validateAll(ctx context.Context, d *fs.Driver, v *rdftype.Validator, locs []string, jobs int) ([]result, error) {
	var mu sync.Mutex
	var results []result

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	walkErr := d.Walk(func(ref fs.Ref) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		g.Go(func() error {
			verdict, err := v.Check(ref.FileSet)
			if err != nil {
				return errors.Wrapf(err, "could not validate %s", ref.Addr)
			}

			logger.Debug("validated file set",
				zap.String("id", ref.ID),
				zap.String("manifest", ref.Addr),
				zap.Bool("valid", verdict.Valid()))

			mu.Lock()
			defer mu.Unlock()
			results = append(results, result{ref: ref, verdict: verdict})
			return nil
		})
		return nil
	}, locs...)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ref.Addr < results[j].ref.Addr
	})

	return results, nil
}

// report prints one line per file set, and returns the number of invalid ones
func report(w io.Writer, results []result, strict, quiet bool) int {
	var invalid int
	for _, r := range results {
		if r.verdict.Valid() {
			if !quiet {
				fmt.Fprintf(w, "%s\tvalid\t%s\n", r.ref.ID, r.ref.Addr)
			}
			continue
		}

		invalid++
		if strict {
			fmt.Fprintf(w, "%s\tinvalid\t%s\t%s\n", r.ref.ID, r.ref.Addr, r.verdict.Err())
			continue
		}
		fmt.Fprintf(w, "%s\tinvalid\t%s\t%s\n", r.ref.ID, r.ref.Addr, describe(r.verdict))
	}
	return invalid
}

func describe(v rdftype.Verdict) string {
	var parts []string
	for _, c := range rdftype.Categories() {
		if findings := v.Findings(c); len(findings) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", c, strings.Join(findings, ", ")))
		}
	}
	return strings.Join(parts, "; ")
}
