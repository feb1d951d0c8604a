// Package merge joins matched and unmatched predictions back onto the
// ground-truth peak table.
package merge

import (
	"math"
	"sort"

	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

// Merge returns one row per ground-truth peak plus one row per prediction
// that no ground-truth peak claimed. Rows are sorted by (mass, RT) with NaN
// keys last; equal keys keep ground-truth rows ahead of extra predictions,
// each in input order.
func Merge(gt []types.GroundTruthPeak, preds []types.PredictedPeak, matches []types.Match) []types.MergedRow {
	rows := make([]types.MergedRow, 0, len(gt)+len(preds))
	for i, g := range gt {
		rows = append(rows, types.MergedRow{
			Mass:             g.Mass,
			RT:               g.RT,
			Glycan:           g.Glycan,
			InGroundTruth:    true,
			GroundTruthIndex: i,
			PredictionIndex:  -1,
		})
	}

	used := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		if m.GroundTruth < 0 || m.GroundTruth >= len(gt) || m.Prediction < 0 || m.Prediction >= len(preds) {
			continue
		}
		rows[m.GroundTruth].Prediction = preds[m.Prediction].Prediction
		rows[m.GroundTruth].PredictionIndex = m.Prediction
		used[m.Prediction] = struct{}{}
	}

	for j, p := range preds {
		if _, ok := used[j]; ok {
			continue
		}
		rows = append(rows, types.MergedRow{
			Mass:             p.MZ,
			RT:               p.RT,
			Prediction:       p.Prediction,
			InGroundTruth:    false,
			GroundTruthIndex: -1,
			PredictionIndex:  j,
		})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if c := compareNaNLast(rows[a].Mass, rows[b].Mass); c != 0 {
			return c < 0
		}
		return compareNaNLast(rows[a].RT, rows[b].RT) < 0
	})
	return rows
}

func compareNaNLast(x, y float64) int {
	switch xn, yn := math.IsNaN(x), math.IsNaN(y); {
	case xn && yn:
		return 0
	case xn:
		return 1
	case yn:
		return -1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
