package dataset

import (
	"math"
	"math/rand"

	"demgmrf/internal/models"
)

// Partition shuffles the index range [0, n) with a uniform permutation and
// splits it into an insertion set and a checkpoint set. The checkpoint set
// holds the trailing round(ratio*n) indices of the shuffled order; the
// insertion set holds the rest. ratio must already be validated to [0, 1].
//
// The split is seeded explicitly so runs can be reproduced; callers wanting
// the classic "different every run" behaviour pass a wall-clock-derived
// seed (config.ResolveSeed does this for seed 0).
func Partition(n int, ratio float64, seed int64) models.Partition {
	indices := rand.New(rand.NewSource(seed)).Perm(n)

	nChk := int(math.Round(ratio * float64(n)))
	if nChk > n {
		nChk = n
	}
	nInsert := n - nChk

	return models.Partition{
		Insert:     indices[:nInsert],
		Checkpoint: indices[nInsert:],
	}
}
