// Package gazetteer implements commands for inspecting the city table used
// for geography resolution.
package gazetteer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/leadharvest/cmd/common"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/geo"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/output"
	"github.com/spf13/cobra"
)

// Command returns the gazetteer command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gazetteer",
		Short: "Inspect the city, country and region table",
	}
	cmd.AddCommand(listCommand())
	return cmd
}

func listCommand() *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known cities with their country and region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := lead.ParseRegion(region)
			if err != nil {
				return err
			}
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			resolver, err := common.NewResolver(deps.Config)
			if err != nil {
				return err
			}
			rows := Rows(resolver, filter)
			output.NewTableRenderer(cmd.OutOrStdout()).Render(
				"Gazetteer",
				table.Row{"City", "Country", "Region", "Aliases"},
				rows,
				table.Row{"", "", "Total", len(rows)},
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "only cities in this region (Asia, Europe, Other)")
	return cmd
}

// Rows builds one table row per gazetteer city. RegionUnknown lists all.
func Rows(r *geo.Resolver, filter lead.Region) []table.Row {
	aliasesOf := make(map[string][]string)
	for alias, city := range r.Aliases() {
		aliasesOf[city] = append(aliasesOf[city], alias)
	}

	var rows []table.Row
	for _, e := range r.Entries() {
		reg := r.Region(e.Country)
		if filter != lead.RegionUnknown && reg != filter {
			continue
		}
		aliases := aliasesOf[e.Name]
		slices.Sort(aliases)
		regionLabel := reg.String()
		if reg == lead.RegionUnknown {
			regionLabel = output.NotAvailable
		}
		rows = append(rows, table.Row{e.Name, e.Country, regionLabel, strings.Join(aliases, ", ")})
	}
	return rows
}
