// Package enrich implements the enrich command.
package enrich

import (
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/leadharvest/cmd/common"
	leadenrich "github.com/jonesrussell/north-cloud/leadharvest/internal/enrich"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/output"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/retry"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/walker"
	"github.com/spf13/cobra"
)

type options struct {
	in       string
	out      string
	xlsx     string
	homeOnly bool
	show     int
}

// Command returns the enrich command.
func Command() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "enrich [flags]",
		Short: "Fill missing contact fields from lead websites",
		Long: `Visit the website of every master-table lead that lacks an email, phone,
Instagram or Facebook entry, follow its Contact or About link when the
homepage is not enough, and fill only the fields that are still empty.
Sites that cannot be fetched are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			defer common.FinishRun(deps)
			return run(cmd, deps, opts)
		},
	}
	cmd.Flags().StringVar(&opts.in, "in", "", "master CSV to enrich (default merge.output)")
	cmd.Flags().StringVar(&opts.out, "out", "", "enriched CSV (default enrich.output)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "also write an XLSX workbook")
	cmd.Flags().BoolVar(&opts.homeOnly, "home-only", false, "do not follow Contact or About links")
	cmd.Flags().IntVar(&opts.show, "show", 0, "print the first N records")
	return cmd
}

func run(cmd *cobra.Command, deps common.CommandDeps, opts *options) error {
	cfg := deps.Config
	in := firstNonEmpty(opts.in, cfg.Merge.Output)
	out := firstNonEmpty(opts.out, cfg.Enrich.Output)
	xlsx := firstNonEmpty(opts.xlsx, cfg.Enrich.XLSXOutput)

	res, err := output.ReadCSVFile(in, output.ReadOptions{})
	if err != nil {
		return fmt.Errorf("read master table: %w", err)
	}
	for _, skipped := range res.Skipped {
		deps.Logger.Warn("Master row skipped", "path", in, "line", skipped.Line, "error", skipped.Err)
	}

	profile, err := extract.ParseProfile(cfg.Extract.PhoneProfile)
	if err != nil {
		return err
	}
	fetcher, err := walker.NewCollyFetcher(walker.FetchConfig{
		UserAgent:      cfg.Walker.UserAgent,
		Delay:          cfg.Walker.Delay,
		RandomDelay:    cfg.Walker.RandomDelay,
		RequestTimeout: cfg.Walker.Timeout,
	})
	if err != nil {
		return err
	}
	e := leadenrich.New(fetcher, leadenrich.Options{
		Phones: extract.NewPhoneExtractor(profile),
		Retry: retry.Config{
			MaxAttempts: cfg.Walker.RetryAttempts,
			Delay:       cfg.Walker.RetryDelay,
			Multiplier:  1,
		},
		SkipContactPage: opts.homeOnly || cfg.Enrich.SkipContactPage,
	}, deps.Metrics, deps.Logger)

	stats, enrichErr := e.Enrich(cmd.Context(), res.Records)

	// Partial results are written when the run is interrupted.
	stamp := time.Now().UTC().Truncate(time.Second)
	if err := output.WriteCSVFile(out, res.Records, stamp); err != nil {
		return err
	}
	if xlsx != "" {
		if err := output.WriteXLSX(xlsx, res.Records, stamp); err != nil {
			return err
		}
	}
	deps.Metrics.SetWritten(len(res.Records))
	deps.Logger.Info("Enriched table written", "path", out, "records", len(res.Records))

	render(cmd, stats, res, opts.show)
	return enrichErr
}

func render(cmd *cobra.Command, stats leadenrich.Stats, res *output.ReadResult, show int) {
	r := output.NewTableRenderer(cmd.OutOrStdout())
	r.RenderCounts("Fields filled", "Field", common.SortedKeys(stats.Filled), stats.Filled)
	fmt.Fprintf(cmd.OutOrStdout(),
		"records %d, complete %d, without website %d, pages visited %d, sites failed %d, enriched %d\n",
		stats.Records, stats.Complete, stats.NoSite, stats.Visited, stats.Failed, stats.Enriched)
	if show > 0 {
		r.RenderRecords(res.Records, show)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
