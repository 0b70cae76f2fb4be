// Package merge implements the merge command.
package merge

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/leadharvest/cmd/common"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/config"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	leadmerge "github.com/jonesrussell/north-cloud/leadharvest/internal/merge"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/output"
	"github.com/spf13/cobra"
)

type options struct {
	sources []string
	out     string
	xlsx    string
	show    int
}

// Command returns the merge command.
func Command() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "merge [flags]",
		Short: "Merge per-source datasets into the master table",
		Long: `Load every per-source dataset, drop records outside the target regions,
merge duplicates and write the sorted master table. Sources missing on
disk are skipped with a warning.`,
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
	cmd.Flags().StringArrayVar(&opts.sources, "source", nil,
		"source dataset as tag=path or tag=path=kind; replaces the configured sources")
	cmd.Flags().StringVar(&opts.out, "out", "", "master CSV (default from config)")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "also write an XLSX workbook")
	cmd.Flags().IntVar(&opts.show, "show", 0, "print the first N records")
	return cmd
}

func run(cmd *cobra.Command, deps common.CommandDeps, opts *options) error {
	cfg := deps.Config

	sourceCfgs := cfg.Merge.Sources
	if len(opts.sources) > 0 {
		parsed, err := ParseSourceFlags(opts.sources)
		if err != nil {
			return err
		}
		sourceCfgs = parsed
	}
	sources, err := toSourceTables(sourceCfgs, cfg.Extract.PhoneProfile)
	if err != nil {
		return err
	}

	resolver, err := common.NewResolver(cfg)
	if err != nil {
		return err
	}
	mergeOpts := leadmerge.Options{
		Sources:    sources,
		OutputPath: firstNonEmpty(opts.out, cfg.Merge.Output),
		XLSXPath:   firstNonEmpty(opts.xlsx, cfg.Merge.XLSXOutput),
	}
	o, err := leadmerge.NewOrchestrator(mergeOpts, resolver, deps.Metrics, deps.Logger)
	if err != nil {
		return err
	}

	sum, err := o.Run(cmd.Context())
	if err != nil {
		return err
	}
	render(cmd, sum, opts.show)
	return nil
}

// ParseSourceFlags turns --source values into source configs.
func ParseSourceFlags(values []string) ([]config.SourceConfig, error) {
	out := make([]config.SourceConfig, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, "=", 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("%w: %q", common.ErrInvalidSource, v)
		}
		sc := config.SourceConfig{Tag: strings.TrimSpace(parts[0]), Path: strings.TrimSpace(parts[1])}
		if len(parts) == 3 {
			sc.Kind = strings.TrimSpace(parts[2])
		}
		out = append(out, sc)
	}
	m := config.MergeConfig{Sources: out, Output: "-"}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// toSourceTables resolves kinds and phone profiles; a source without its
// own profile uses defaultProfile.
func toSourceTables(cfgs []config.SourceConfig, defaultProfile string) ([]leadmerge.SourceTable, error) {
	tables := make([]leadmerge.SourceTable, 0, len(cfgs))
	for _, sc := range cfgs {
		st := leadmerge.SourceTable{Tag: sc.Tag, Path: sc.Path}
		profile := sc.PhoneProfile
		if profile == "" {
			profile = defaultProfile
		}
		p, err := extract.ParseProfile(profile)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sc.Tag, err)
		}
		st.PhoneProfile = p
		if sc.Kind != "" {
			k, err := lead.ParseKind(sc.Kind)
			if err != nil {
				return nil, fmt.Errorf("source %s: %w", sc.Tag, err)
			}
			st.Kind = k
		}
		tables = append(tables, st)
	}
	return tables, nil
}

func render(cmd *cobra.Command, sum *leadmerge.Summary, show int) {
	r := output.NewTableRenderer(cmd.OutOrStdout())

	loaded := make(map[string]int, len(sum.Sources))
	keys := make([]string, 0, len(sum.Sources))
	for _, s := range sum.Sources {
		label := s.Tag
		if s.Missing {
			label += " (missing)"
		}
		keys = append(keys, label)
		loaded[label] = s.Loaded
	}
	r.RenderCounts("Loaded", "Source", keys, loaded)

	bySource := make(map[string]int)
	for _, rec := range sum.Records {
		bySource[rec.SourceLabel()]++
	}
	r.RenderCounts("Breakdown by source", "Source", common.SortedKeys(bySource), bySource)
	r.RenderCounts("Breakdown by region", "Region", common.SortedKeys(sum.ByRegion), sum.ByRegion)

	fmt.Fprintf(cmd.OutOrStdout(),
		"input %d, invalid %d, outside target regions %d, merged %d, kind conflicts %d, written %d\n",
		sum.Input, sum.Invalid, sum.RegionDropped, sum.Merged, sum.Conflicts, sum.Output)

	if show > 0 {
		r.RenderRecords(sum.Records, show)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
