package textnorm_test

import (
	"testing"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/textnorm"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"collapse whitespace", "  Acme \n\t Studio  ", "Acme Studio"},
		{"curly apostrophe", "Women\u2019s RTW", "Women's RTW"},
		{"double quotes", "\u201cAcme\u201d", `"Acme"`},
		{"no-break space", "Acme\u00a0Paris", "Acme Paris"},
		{"en dash", "20\u201324 September", "20-24 September"},
		{"zero width", "Ac\u200bme", "Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, textnorm.Normalize(tt.input))
		})
	}
}

func TestStripBoilerplate(t *testing.T) {
	t.Parallel()

	got := textnorm.StripBoilerplate("Acme Studio read more Paris Back to top", textnorm.DefaultBoilerplate)
	assert.Equal(t, "Acme Studio Paris", got)
}

func TestFoldAccentsAndKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Dusseldorf", textnorm.FoldAccents("Düsseldorf"))
	assert.Equal(t, "sao paulo", textnorm.Key("  São   Paulo "))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", textnorm.Truncate("abc", 10))
	assert.Equal(t, "ab", textnorm.Truncate("ab cd", 3))
	assert.Equal(t, "éé", textnorm.Truncate("ééé", 2))
	assert.Empty(t, textnorm.Truncate("abc", 0))
}
