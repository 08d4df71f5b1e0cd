package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/domain/numeric"
	"github.com/okian/riskgauge/internal/domain/types"
	"github.com/urfave/cli/v3"
)

var errUsage = goerr.New("invalid usage")

func cmdScores(env *runtimeEnv) *cli.Command {
	var verbose bool

	return &cli.Command{
		Name:  "scores",
		Usage: "Print category and overall risk scores",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "indicators",
				Aliases:     []string{"i"},
				Usage:       "list every indicator with its freshness",
				Destination: &verbose,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			svc, err := openService(ctx, env.cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			return printReport(env.out, svc.Report(ctx), verbose)
		},
	}
}

func cmdSet(env *runtimeEnv) *cli.Command {
	var value, weight string
	var save bool

	return &cli.Command{
		Name:      "set",
		Usage:     "Edit an indicator value or weight, optionally saving it",
		ArgsUsage: "<category> <indicator>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "value", Usage: "new value", Destination: &value},
			&cli.StringFlag{Name: "weight", Usage: "new weight (>= 0)", Destination: &weight},
			&cli.BoolFlag{Name: "save", Usage: "persist the indicator after editing", Destination: &save},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.Wrap(errUsage, "set needs <category> <indicator>")
			}
			category, id := c.Args().Get(0), c.Args().Get(1)
			if !c.IsSet("value") && !c.IsSet("weight") && !save {
				return goerr.Wrap(errUsage, "nothing to do; pass --value, --weight or --save")
			}

			// Parse both before touching the store.
			var v, w float64
			var err error
			if c.IsSet("value") {
				if v, err = numeric.Parse(value); err != nil {
					return err
				}
			}
			if c.IsSet("weight") {
				if w, err = numeric.Parse(weight); err != nil {
					return err
				}
				if w, err = numeric.Weight(w); err != nil {
					return err
				}
			}

			svc, err := openService(ctx, env.cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if c.IsSet("value") {
				if err := svc.SetIndicatorValue(ctx, category, id, v); err != nil {
					return err
				}
			}
			if c.IsSet("weight") {
				if err := svc.SetIndicatorWeight(ctx, category, id, w); err != nil {
					return err
				}
			}
			if save {
				rec, err := svc.Save(ctx, category, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(env.out, "saved %s/%s value=%s weight=%s at %s\n",
					category, id, formatFloat(rec.Value), formatFloat(rec.Weight), rec.LastUpdated.Format("2006-01-02 15:04:05"))
			}
			return printReport(env.out, svc.Report(ctx), false)
		},
	}
}

func cmdCategoryWeight(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:      "category-weight",
		Usage:     "Preview scores with a different category weight (not persisted)",
		ArgsUsage: "<category> <weight>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.Wrap(errUsage, "category-weight needs <category> <weight>")
			}
			w, err := numeric.Parse(c.Args().Get(1))
			if err != nil {
				return err
			}

			svc, err := openService(ctx, env.cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if err := svc.SetCategoryWeight(ctx, c.Args().Get(0), w); err != nil {
				return err
			}
			return printReport(env.out, svc.Report(ctx), false)
		},
	}
}

func cmdExport(env *runtimeEnv) *cli.Command {
	var out string

	return &cli.Command{
		Name:  "export",
		Usage: "Write every category and indicator to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file or directory (default: dated file in the working directory)",
				Destination: &out,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			svc, err := openService(ctx, env.cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			name, data, err := svc.Export(ctx)
			if err != nil {
				return err
			}
			path := name
			if out != "" {
				path = out
				if st, err := os.Stat(out); err == nil && st.IsDir() {
					path = filepath.Join(out, name)
				}
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return goerr.Wrap(err, "failed to write export", goerr.V("path", path))
			}
			fmt.Fprintln(env.out, path)
			return nil
		},
	}
}

func cmdImport(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Load an exported JSON file, persisting every indicator in it",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.Wrap(errUsage, "import needs <file>")
			}
			path := c.Args().First()
			data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
			if err != nil {
				return goerr.Wrap(err, "failed to read import", goerr.V("path", path))
			}

			svc, err := openService(ctx, env.cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			report, err := svc.Import(ctx, data)
			if err != nil {
				return err
			}
			printImport(env.out, report)
			return nil
		},
	}
}

func printReport(w io.Writer, rep types.Report, indicators bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tWEIGHT\tSCORE\tLEVEL")
	for _, c := range rep.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, formatFloat(c.Weight), c.Score, levelLabel(c.Level))
		if !indicators {
			continue
		}
		for _, ind := range c.Indicators {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", ind.Name, formatFloat(ind.Weight), formatFloat(ind.Value), ind.Freshness.Label)
		}
	}
	fmt.Fprintf(tw, "OVERALL\t\t%s\t%s\n", rep.Overall, levelLabel(rep.Level))
	return tw.Flush()
}

func printImport(w io.Writer, rep types.ImportReport) {
	fmt.Fprintf(w, "import %s: %d categories, %d indicators, %d written\n",
		rep.ID, rep.Categories, rep.Indicators, rep.Written)
	for _, f := range rep.Failures {
		fmt.Fprintf(w, "  failed %s/%s: %s\n", f.Category, f.Indicator, f.Error)
	}
}

func levelLabel(l *types.Level) string {
	if l == nil {
		return "-"
	}
	return l.Label
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
