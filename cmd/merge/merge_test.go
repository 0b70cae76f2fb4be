package merge_test

import (
	"testing"

	"github.com/jonesrussell/north-cloud/leadharvest/cmd/common"
	"github.com/jonesrussell/north-cloud/leadharvest/cmd/merge"
	"github.com/jonesrussell/north-cloud/leadharvest/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceFlags(t *testing.T) {
	t.Parallel()

	got, err := merge.ParseSourceFlags([]string{
		"showrooms=data/showrooms.csv",
		" designer_showrooms = data/designers.csv = designer showroom",
	})
	require.NoError(t, err)
	assert.Equal(t, []config.SourceConfig{
		{Tag: "showrooms", Path: "data/showrooms.csv"},
		{Tag: "designer_showrooms", Path: "data/designers.csv", Kind: "designer showroom"},
	}, got)

	tests := []string{"showrooms", "=x.csv", "a=", "a=x.csv=boutique"}
	for _, v := range tests {
		_, err := merge.ParseSourceFlags([]string{v})
		require.Error(t, err, v)
	}

	_, err = merge.ParseSourceFlags([]string{"a=x.csv", "a=y.csv"})
	var ve *config.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = merge.ParseSourceFlags([]string{"nope"})
	require.ErrorIs(t, err, common.ErrInvalidSource)
}
