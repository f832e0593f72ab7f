// Package split implements deterministic partitioning of a dataset file
// listing into train, validation and test subsets.
//
// The partition is reproducible by construction: a locally-owned
// pseudo-random source is seeded once, the file list is shuffled with a
// uniform Fisher-Yates shuffle, and the shuffled list is sliced by exact
// floor arithmetic. Two runs over the same input listing with the same seed
// always yield identical partitions. The pre-shuffle ordering is part of
// that contract, so callers should hand in a sorted listing.
package split

import (
	"fmt"
	"math/rand"
)

// DefaultSeed is the seed used by the dataset tooling unless overridden.
const DefaultSeed int64 = 123

// Ratios holds the nominal split proportions. The test share is never used
// in the arithmetic: the test set is always the remainder after the train
// and validation counts are taken, so the three values need not sum to
// exactly 1. Test is carried only for reporting.
type Ratios struct {
	Train      float64 `yaml:"train"`
	Validation float64 `yaml:"validation"`
	Test       float64 `yaml:"test"`
}

// DefaultRatios is the conventional 70/15/15 split.
var DefaultRatios = Ratios{Train: 0.7, Validation: 0.15, Test: 0.15}

// Validate checks that the ratios describe a usable split.
func (r Ratios) Validate() error {
	if r.Train < 0 || r.Validation < 0 {
		return fmt.Errorf("split ratios must not be negative: train=%v validation=%v", r.Train, r.Validation)
	}
	if r.Train+r.Validation > 1 {
		return fmt.Errorf("train and validation ratios sum to %v, must not exceed 1", r.Train+r.Validation)
	}
	return nil
}

// Partition is one disjoint three-way split of a file listing. Order within
// each subset follows the shuffled order.
type Partition struct {
	Train      []string
	Validation []string
	Test       []string
}

// Total returns the number of files across all three subsets.
func (p Partition) Total() int {
	return len(p.Train) + len(p.Validation) + len(p.Test)
}

// Counts returns the exact subset sizes for a listing of n files:
// floor(n*train), floor(n*validation), and the remainder.
func Counts(n int, r Ratios) (train, validation, test int) {
	train = int(float64(n) * r.Train)
	validation = int(float64(n) * r.Validation)
	test = n - train - validation
	return train, validation, test
}

// Split shuffles the file listing with a source seeded from seed and slices
// it into a Partition. The input slice is not modified.
func Split(files []string, r Ratios, seed int64) Partition {
	shuffled := make([]string, len(files))
	copy(shuffled, files)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	train, validation, _ := Counts(len(shuffled), r)
	return Partition{
		Train:      shuffled[:train],
		Validation: shuffled[train : train+validation],
		Test:       shuffled[train+validation:],
	}
}
