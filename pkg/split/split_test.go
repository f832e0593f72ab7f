package split

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf("%04d.json", i)
	}
	return files
}

func TestSplitDeterministic(t *testing.T) {
	files := listing(137)

	a := Split(files, DefaultRatios, DefaultSeed)
	b := Split(files, DefaultRatios, DefaultSeed)

	assert.Equal(t, a.Train, b.Train)
	assert.Equal(t, a.Validation, b.Validation)
	assert.Equal(t, a.Test, b.Test)
}

func TestSplitDifferentSeedsDiffer(t *testing.T) {
	files := listing(100)

	a := Split(files, DefaultRatios, 123)
	b := Split(files, DefaultRatios, 124)

	assert.NotEqual(t, a.Train, b.Train)
}

func TestSplitDoesNotModifyInput(t *testing.T) {
	files := listing(50)
	original := make([]string, len(files))
	copy(original, files)

	Split(files, DefaultRatios, DefaultSeed)

	assert.Equal(t, original, files)
}

func TestCounts(t *testing.T) {
	tests := []struct {
		n                     int
		ratios                Ratios
		train, val, testCount int
	}{
		{100, Ratios{Train: 0.7, Validation: 0.15, Test: 0.15}, 70, 15, 15},
		{10, Ratios{Train: 0.7, Validation: 0.15, Test: 0.15}, 7, 1, 2},
		{7, Ratios{Train: 0.7, Validation: 0.15, Test: 0.15}, 4, 1, 2},
		{1, Ratios{Train: 0.7, Validation: 0.15, Test: 0.15}, 0, 0, 1},
		{0, Ratios{Train: 0.7, Validation: 0.15, Test: 0.15}, 0, 0, 0},
		// Ratios need not sum to 1; the test bucket is the remainder.
		{100, Ratios{Train: 0.5, Validation: 0.25}, 50, 25, 25},
		{100, Ratios{Train: 0.8, Validation: 0.0}, 80, 0, 20},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			train, val, test := Counts(tt.n, tt.ratios)
			assert.Equal(t, tt.train, train)
			assert.Equal(t, tt.val, val)
			assert.Equal(t, tt.testCount, test)
			assert.Equal(t, tt.n, train+val+test)
		})
	}
}

func TestSplitDisjointUnion(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 97, 250} {
		files := listing(n)
		p := Split(files, DefaultRatios, DefaultSeed)

		require.Equal(t, n, p.Total())

		seen := make(map[string]int, n)
		for _, subset := range [][]string{p.Train, p.Validation, p.Test} {
			for _, f := range subset {
				seen[f]++
			}
		}
		require.Len(t, seen, n, "every input file appears in the partition")
		for f, count := range seen {
			require.Equal(t, 1, count, "file %s appears exactly once", f)
		}
	}
}

func TestSplitExactSizes(t *testing.T) {
	p := Split(listing(137), DefaultRatios, DefaultSeed)

	// floor(137*0.7)=95, floor(137*0.15)=20, remainder 22.
	assert.Len(t, p.Train, 95)
	assert.Len(t, p.Validation, 20)
	assert.Len(t, p.Test, 22)
}

func TestRatiosValidate(t *testing.T) {
	assert.NoError(t, DefaultRatios.Validate())
	assert.NoError(t, Ratios{Train: 1, Validation: 0}.Validate())
	assert.Error(t, Ratios{Train: -0.1, Validation: 0.5}.Validate())
	assert.Error(t, Ratios{Train: 0.8, Validation: 0.3}.Validate())
}
