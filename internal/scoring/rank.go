package scoring

import (
	"sort"

	"github.com/mariabico/offer-curator/internal/types"
)

// Rank scores every offer and returns them sorted by score descending.
// The output length always equals the input length. Ties keep their input
// order: the sort is stable, which is the documented tie-break.
func Rank(offers []types.Offer, w Weights) []types.ScoredOffer {
	scored := make([]types.ScoredOffer, 0, len(offers))
	for _, o := range offers {
		scored = append(scored, types.ScoredOffer{Offer: o, Score: Score(o, w)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
