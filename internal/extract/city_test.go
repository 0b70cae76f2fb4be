package extract_test

import (
	"sync"
	"testing"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/stretchr/testify/assert"
)

func newCityMatcher() *extract.CityMatcher {
	return extract.NewCityMatcher(
		[]string{"York", "New York", "Paris", "Nice", "Milan", "Düsseldorf"},
		map[string]string{"Milano": "Milan"},
	)
}

func TestCityMatcher(t *testing.T) {
	t.Parallel()

	m := newCityMatcher()
	assert.Equal(t, 7, m.Len())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "longest name wins", input: "Showroom in New York, USA", want: "New York"},
		{name: "alias folds to canonical", input: "Via Roma 1, 20121 Milano", want: "Milan"},
		{name: "accent folded", input: "Kaiserstrasse, Dusseldorf", want: "Düsseldorf"},
		{name: "capitalized city", input: "Bureau Nice, France", want: "Nice"},
		{name: "lowercase adjective", input: "a nice little label", want: ""},
		{name: "not a whole word", input: "Parisian tailoring", want: ""},
		{name: "nothing", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, m.City(tt.input).String())
		})
	}
}

func TestCityMatcherConcurrent(t *testing.T) {
	t.Parallel()

	m := newCityMatcher()
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 50 {
				assert.Equal(t, "Paris", m.City("rue Saint-Honore, Paris").String())
			}
		})
	}
	wg.Wait()
}

func TestEmptyCityMatcher(t *testing.T) {
	t.Parallel()

	m := extract.NewCityMatcher(nil, nil)
	assert.Zero(t, m.Len())
	assert.False(t, m.City("Paris").IsSet())
}
