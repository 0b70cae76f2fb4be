// Package crawl implements the live crawl command.
package crawl

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jonesrussell/north-cloud/leadharvest/cmd/common"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/config"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/harvest"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/output"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/retry"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/visited"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/walker"
	"github.com/spf13/cobra"
)

type options struct {
	kind   string
	origin string
	out    string
	xlsx   string
	fresh  bool
	show   int
}

// Command returns the crawl command.
func Command() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "crawl --kind <kind> [flags] URL...",
		Short: "Fetch listing pages and extract leads",
		Long: `Fetch listing pages one after another and extract a per-source lead
dataset. Pages already visited in an earlier run are skipped and the
existing dataset is kept, so an interrupted crawl can be resumed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			defer common.FinishRun(deps)
			return run(cmd, deps, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.kind, "kind", "", "entity kind of every block")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "dataset tag written to the source column (default derived from --kind)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output CSV (default <data dir>/<origin>.csv)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "also write an XLSX workbook")
	cmd.Flags().BoolVar(&opts.fresh, "fresh", false, "ignore visited pages and the existing dataset")
	cmd.Flags().IntVar(&opts.show, "show", 0, "print the first N records")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func run(cmd *cobra.Command, deps common.CommandDeps, opts *options, urls []string) error {
	ctx := cmd.Context()
	cfg := deps.Config

	kind, origin, err := common.ParseKindOrigin(opts.kind, opts.origin)
	if err != nil {
		return err
	}
	resolver, err := common.NewResolver(cfg)
	if err != nil {
		return err
	}
	p, err := common.NewParser(cfg, resolver, kind, origin, deps.Logger)
	if err != nil {
		return err
	}
	h := harvest.New(origin, p, common.NewEngine(resolver, deps.Logger), cfg.Walker.Workers, deps.Metrics, deps.Logger)

	out := opts.out
	if out == "" {
		out = filepath.Join(config.DefaultDataDir, origin+".csv")
	}

	var store visited.Store = visited.NewMemoryStore()
	if !opts.fresh {
		if err := seedExisting(h, out, kind, deps); err != nil {
			return err
		}
		if store, err = common.NewVisitedStore(ctx, cfg, deps.Logger); err != nil {
			return err
		}
	}
	defer store.Close()

	fetcher, err := walker.NewCollyFetcher(walker.FetchConfig{
		UserAgent:      cfg.Walker.UserAgent,
		Delay:          cfg.Walker.Delay,
		RandomDelay:    cfg.Walker.RandomDelay,
		RequestTimeout: cfg.Walker.Timeout,
		Blocks:         walker.BlockOptions{Marker: cfg.Walker.Marker},
	})
	if err != nil {
		return err
	}
	w := walker.NewWalker(fetcher, store, retry.Config{
		MaxAttempts: cfg.Walker.RetryAttempts,
		Delay:       cfg.Walker.RetryDelay,
		Multiplier:  1,
	}, deps.Metrics, deps.Logger)

	stats, walkErr := w.Walk(ctx, urls, func(page walker.Page) error {
		return h.Add(ctx, page.Blocks)
	})
	deps.Logger.Info("Crawl finished",
		"fetched", stats.Fetched,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"blocks", stats.Blocks,
	)

	// Whatever was collected is written even when the walk was cut short.
	rep := h.Report()
	if err := h.Write(rep, out, opts.xlsx); err != nil {
		return errors.Join(walkErr, err)
	}
	common.RenderHarvest(cmd.OutOrStdout(), rep, opts.show)
	return walkErr
}

func seedExisting(h *harvest.Harvest, path string, kind lead.Kind, deps common.CommandDeps) error {
	res, err := output.ReadCSVFile(path, output.ReadOptions{DefaultKind: kind})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read existing dataset: %w", err)
	}
	h.Seed(res.Records)
	deps.Logger.Info("Existing dataset loaded", "path", path, "records", len(res.Records), "skipped", len(res.Skipped))
	return nil
}
