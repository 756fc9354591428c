package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/scoutcalc/internal/adapters/source"
	"github.com/okian/scoutcalc/internal/adapters/sqlstore"
	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/internal/domain/pipeline"
	"github.com/okian/scoutcalc/internal/domain/rubric"
	"github.com/okian/scoutcalc/pkg/logger"
)

type runOptions struct {
	input            string
	season           string
	rubricPath       string
	dbPath           string
	teamColumn       string
	matchColumn      string
	populationStdDev bool
	outputJSON       bool
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once over a CSV export",
		Long: `Score every row of a CSV export, aggregate per team and print the team table.
With --db the three output tables replace the ones stored in that SQLite file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "CSV export to score (required)")
	cmd.Flags().StringVar(&opts.season, "season", "2026", "Rubric season")
	cmd.Flags().StringVar(&opts.rubricPath, "rubric", "", "YAML rubric file (default: built-in rubrics)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite file to publish the tables to")
	cmd.Flags().StringVar(&opts.teamColumn, "team-column", source.DefaultTeamColumn, "Column holding the team number")
	cmd.Flags().StringVar(&opts.matchColumn, "match-column", source.DefaultMatchColumn, "Column holding the match number")
	cmd.Flags().BoolVar(&opts.populationStdDev, "population-stddev", false, "Use the population estimator for total deviation")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "Print all three tables as JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runPipeline(ctx context.Context, out io.Writer, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rb, err := rubric.Resolve(ctx, opts.rubricPath, opts.season)
	if err != nil {
		return err
	}

	started := time.Now().UTC()
	records, err := source.NewCSVSource(opts.input, source.WithColumns(opts.teamColumn, opts.matchColumn)).Records(ctx)
	if err != nil {
		return err
	}

	var pipeOpts []pipeline.Option
	if opts.populationStdDev {
		pipeOpts = append(pipeOpts, pipeline.WithPopulationStdDev())
	}
	res := pipeline.Run(records, rb, pipeOpts...)
	meta := model.RunMeta{
		ID:         uuid.NewString(),
		Season:     rb.Season,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Records:    len(res.Records),
		Teams:      len(res.Aggregates),
		Issues:     len(res.Issues),
	}
	for _, issue := range res.Issues {
		logger.Get().Debug(ctx, "data quality issue", logger.String("issue", issue.String()))
	}

	if opts.dbPath != "" {
		if err := publish(ctx, opts.dbPath, res, meta); err != nil {
			return err
		}
	}

	if opts.outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return writeTeamTable(out, res, meta)
}

func publish(ctx context.Context, path string, res pipeline.Result, meta model.RunMeta) error {
	store, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return store.Publish(ctx, res, meta)
}

func writeTeamTable(out io.Writer, res pipeline.Result, meta model.RunMeta) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "team\tmatches\tauto\tteleop\tendgame\ttotal\tstddev\tconsistency\t")
	for _, a := range res.Aggregates {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			a.Team, a.MatchCount, a.AutoMean, a.TeleopMean, a.EndgameMean,
			a.TotalMean, a.TotalStdDev, a.Consistency)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "season %s: %d records, %d teams, %d data-quality issues\n",
		meta.Season, meta.Records, meta.Teams, meta.Issues)
	return err
}
