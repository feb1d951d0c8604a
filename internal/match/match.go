// Package match aligns predicted spectral peaks to ground-truth peaks.
//
// Matching is a greedy pass in ground-truth order: earlier ground-truth peaks
// claim contested predictions first, and a prediction is never reused. This is
// not an optimal assignment and must not be replaced by one, since leaderboard
// scores depend on the ordering.
package match

import (
	"math"
	"sort"

	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

const (
	// MassTolerance is the accepted |mass difference|, in the units of Mass and m/z.
	MassTolerance = 0.5
	// RTTolerance is the accepted |retention time difference|, in the units of RT.
	RTTolerance = 1.0
)

// Point is a (mass, retention time) key used for matching.
type Point struct {
	Mass float64
	RT   float64
}

// GroundTruthPoints extracts matching keys from ground-truth peaks.
func GroundTruthPoints(gt []types.GroundTruthPeak) []Point {
	out := make([]Point, len(gt))
	for i, p := range gt {
		out[i] = Point{Mass: p.Mass, RT: p.RT}
	}
	return out
}

// PredictionPoints extracts raw m/z matching keys from predicted peaks.
func PredictionPoints(preds []types.PredictedPeak) []Point {
	out := make([]Point, len(preds))
	for i, p := range preds {
		out[i] = Point{Mass: p.MZ, RT: p.RT}
	}
	return out
}

// Round2 rounds half to even at two decimals, the same way the historical
// scoring pipeline did.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func rounded(points []Point) []Point {
	if points == nil {
		return nil
	}
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{Mass: Round2(p.Mass), RT: Round2(p.RT)}
	}
	return out
}

// Match returns a partial injective matching between gt and pred. alt, when
// non-nil, must be index-aligned with pred and offers a second mass for each
// prediction; a prediction is a candidate if either of its masses is within
// massTol. Retention time is always taken from pred.
func Match(gt, pred, alt []Point, massTol, timeTol float64) []types.Match {
	gt, pred, alt = rounded(gt), rounded(pred), rounded(alt)
	matches := make([]types.Match, 0)
	used := make(map[int]struct{}, len(pred))

	for i, g := range gt {
		candidates := candidatesFor(g, pred, alt, massTol, used)
		if len(candidates) == 0 {
			continue
		}
		best := candidates[0]
		bestDiff := math.Abs(pred[best].RT - g.RT)
		for _, j := range candidates[1:] {
			if math.IsNaN(bestDiff) {
				break
			}
			// A missing retention time wins the comparison and then fails
			// the tolerance check, so it blocks the peak from matching.
			if d := math.Abs(pred[j].RT - g.RT); d < bestDiff || math.IsNaN(d) {
				best, bestDiff = j, d
			}
		}
		if bestDiff <= timeTol {
			matches = append(matches, types.Match{GroundTruth: i, Prediction: best})
			used[best] = struct{}{}
		}
	}
	return matches
}

// candidatesFor returns unused prediction indices within massTol of g under
// either mass representation, in ascending index order.
func candidatesFor(g Point, pred, alt []Point, massTol float64, used map[int]struct{}) []int {
	seen := make(map[int]struct{})
	for j, p := range pred {
		if math.Abs(p.Mass-g.Mass) <= massTol {
			seen[j] = struct{}{}
		}
	}
	for j, p := range alt {
		if j >= len(pred) {
			break
		}
		if math.Abs(p.Mass-g.Mass) <= massTol {
			seen[j] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for j := range seen {
		if _, taken := used[j]; taken {
			continue
		}
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}

// Peaks runs Match on typed peaks with the fixed competition tolerances,
// using both the raw m/z and the charge-deconvoluted mass of each prediction.
func Peaks(gt []types.GroundTruthPeak, preds []types.PredictedPeak) []types.Match {
	return Match(GroundTruthPoints(gt), PredictionPoints(preds), Deconvolute(preds), MassTolerance, RTTolerance)
}
