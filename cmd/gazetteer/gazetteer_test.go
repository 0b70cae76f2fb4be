package gazetteer_test

import (
	"testing"

	"github.com/jonesrussell/north-cloud/leadharvest/cmd/gazetteer"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/geo"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRows(t *testing.T) {
	t.Parallel()

	r, err := geo.NewResolver(geo.DefaultTable(), nil)
	require.NoError(t, err)

	all := gazetteer.Rows(r, lead.RegionUnknown)
	require.Len(t, all, len(r.Entries()))

	europe := gazetteer.Rows(r, lead.RegionEurope)
	require.NotEmpty(t, europe)
	assert.Less(t, len(europe), len(all))
	for _, row := range europe {
		assert.Equal(t, "Europe", row[2])
	}

	var milan []any
	for _, row := range europe {
		if row[0] == "Milan" {
			milan = row
		}
	}
	require.NotNil(t, milan)
	assert.Equal(t, "Italy", milan[1])
	assert.Contains(t, milan[3], "Milano")
}
