package common

import (
	"io"
	"slices"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/harvest"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/output"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/parser"
)

// RenderHarvest prints the block outcome breakdown and, when show > 0,
// the first show records.
func RenderHarvest(w io.Writer, rep *harvest.Report, show int) {
	r := output.NewTableRenderer(w)

	keys := []string{"accepted"}
	counts := map[string]int{"accepted": rep.Accepted}
	for _, reason := range parser.Reasons {
		if n := rep.Rejected[reason]; n > 0 {
			keys = append(keys, string(reason))
			counts[string(reason)] = n
		}
	}
	if rep.Faults > 0 {
		keys = append(keys, "malformed")
		counts["malformed"] = rep.Faults
	}
	r.RenderCounts("Blocks: "+rep.Origin, "Outcome", keys, counts)

	if show > 0 && len(rep.Records) > 0 {
		r.RenderRecords(rep.Records, show)
	}
}

// SortedKeys returns the keys of a count map in order.
func SortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
