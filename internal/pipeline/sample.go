package pipeline

import (
	"fmt"
	"math/rand"
	"sort"

	"covid-insights/internal/model"
	"covid-insights/pkg/utils"
)

// DefaultSampleSeed keeps repeated runs over the same file comparable.
const DefaultSampleSeed = 42

// Sample takes a random percent-sample of the table's rows. The percentage
// is clamped to [1, 50]; 0 disables sampling and returns the table as is.
// Selected rows keep their original order so date series stay sorted.
func Sample(t *model.Table, percent int, seed int64) *model.Table {
	percent = utils.ClampPercent(percent)
	if percent == 0 || t.Len() == 0 {
		return t
	}
	if seed == 0 {
		seed = DefaultSampleSeed
	}

	n := t.Len() * percent / 100
	if n < 1 {
		n = 1
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(t.Len())[:n]
	sort.Ints(picked)

	out := &model.Table{Source: t.Source, Records: make([]model.Record, 0, n)}
	for _, i := range picked {
		out.Records = append(out.Records, t.Records[i])
	}

	fmt.Printf("🎲 Sampled %d%% of rows: %d of %d kept\n", percent, out.Len(), t.Len())
	return out
}
