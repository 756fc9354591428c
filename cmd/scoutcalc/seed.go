package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/scoutcalc/internal/adapters/source"
	"github.com/okian/scoutcalc/internal/domain/rubric"
	"github.com/okian/scoutcalc/internal/testdata"
)

type seedOptions struct {
	season     string
	rubricPath string
	teams      int
	matches    int
	firstTeam  int
	seed       int64
	blankRate  float64
	out        string
	postURL    string
	workers    int
	timeout    time.Duration
}

func seedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate synthetic scouting records",
		Long: `Generate reproducible scouting records for the fields a season rubric scores.
Records are written as CSV to --out ("-" for stdout) and, with --post, submitted
to a running server followed by a refresh request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.season, "season", "2026", "Rubric season")
	cmd.Flags().StringVar(&opts.rubricPath, "rubric", "", "YAML rubric file (default: built-in rubrics)")
	cmd.Flags().IntVar(&opts.teams, "teams", testdata.DefaultTeams, "Number of teams")
	cmd.Flags().IntVar(&opts.matches, "matches", testdata.DefaultMatches, "Matches played per team")
	cmd.Flags().IntVar(&opts.firstTeam, "first-team", testdata.DefaultFirstTeam, "First team number")
	cmd.Flags().Int64Var(&opts.seed, "seed", testdata.DefaultSeed, "Random seed")
	cmd.Flags().Float64Var(&opts.blankRate, "blank-rate", 0, "Probability that a scored cell is left blank")
	cmd.Flags().StringVar(&opts.out, "out", "", `CSV output file, "-" for stdout`)
	cmd.Flags().StringVar(&opts.postURL, "post", "", "Base URL of a running server to submit records to")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU(), "Concurrent submissions with --post")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP request timeout with --post")
	return cmd
}

func runSeed(ctx context.Context, out io.Writer, opts seedOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.out == "" && opts.postURL == "" {
		return fmt.Errorf("nothing to do: set --out and/or --post")
	}
	rb, err := rubric.Resolve(ctx, opts.rubricPath, opts.season)
	if err != nil {
		return err
	}
	records := testdata.Generate(rb, testdata.Config{
		Teams:     opts.teams,
		Matches:   opts.matches,
		FirstTeam: opts.firstTeam,
		Seed:      opts.seed,
		BlankRate: opts.blankRate,
	})

	switch opts.out {
	case "":
	case "-":
		if err := testdata.WriteCSV(out, records, source.DefaultTeamColumn, source.DefaultMatchColumn); err != nil {
			return err
		}
	default:
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.out, err)
		}
		if err := testdata.WriteCSV(f, records, source.DefaultTeamColumn, source.DefaultMatchColumn); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %d records to %s\n", len(records), opts.out)
	}

	if opts.postURL == "" {
		return nil
	}
	client := testdata.NewClient(opts.postURL, opts.timeout)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	stats := client.Submit(ctx, records, opts.workers)
	status, err := client.Refresh(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "submitted %d records: %d accepted, %d duplicate, %d failed; refresh %s\n",
		len(records), stats.Accepted, stats.Duplicate, stats.Failed, status)
	if stats.Failed > 0 {
		return fmt.Errorf("%d submissions failed", stats.Failed)
	}
	return nil
}
