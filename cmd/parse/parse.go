// Package parse implements the offline parse command.
package parse

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonesrussell/north-cloud/leadharvest/cmd/common"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/config"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/harvest"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/walker"
	"github.com/spf13/cobra"
)

type options struct {
	kind      string
	origin    string
	out       string
	xlsx      string
	sourceURL string
	show      int
}

// Command returns the parse command.
func Command() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "parse --kind <kind> [flags] page.html...",
		Short: "Extract leads from saved listing pages",
		Long: `Parse saved HTML listing pages into a per-source lead dataset.
Each page is split into one block per listing entry; every block is run
through the extractors and rejected or turned into a record.`,
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
	cmd.Flags().StringVar(&opts.kind, "kind", "", "entity kind of every block (brand, showroom, designer showroom, press office, tradeshow, exhibitor, event)")
	cmd.Flags().StringVar(&opts.origin, "origin", "", "dataset tag written to the source column (default derived from --kind)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output CSV (default <data dir>/<origin>.csv)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "also write an XLSX workbook")
	cmd.Flags().StringVar(&opts.sourceURL, "source-url", "", "source_url recorded for every block (default file path)")
	cmd.Flags().IntVar(&opts.show, "show", 0, "print the first N records")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func run(cmd *cobra.Command, deps common.CommandDeps, opts *options, files []string) error {
	kind, origin, err := common.ParseKindOrigin(opts.kind, opts.origin)
	if err != nil {
		return err
	}
	resolver, err := common.NewResolver(deps.Config)
	if err != nil {
		return err
	}
	p, err := common.NewParser(deps.Config, resolver, kind, origin, deps.Logger)
	if err != nil {
		return err
	}
	h := harvest.New(origin, p, common.NewEngine(resolver, deps.Logger), deps.Config.Walker.Workers, deps.Metrics, deps.Logger)

	blockOpts := walker.BlockOptions{Marker: deps.Config.Walker.Marker}
	for _, path := range files {
		blocks, readErr := readPage(path, opts.sourceURL, blockOpts)
		if readErr != nil {
			return readErr
		}
		deps.Logger.Info("Page parsed", "path", path, "blocks", len(blocks))
		if addErr := h.Add(cmd.Context(), blocks); addErr != nil {
			return addErr
		}
	}

	rep := h.Report()
	out := opts.out
	if out == "" {
		out = filepath.Join(config.DefaultDataDir, origin+".csv")
	}
	if err := h.Write(rep, out, opts.xlsx); err != nil {
		return err
	}
	common.RenderHarvest(cmd.OutOrStdout(), rep, opts.show)
	return nil
}

func readPage(path, sourceURL string, opts walker.BlockOptions) ([]lead.RawBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	if sourceURL == "" {
		sourceURL = path
	}
	return walker.BlocksFromHTML(f, sourceURL, opts)
}
