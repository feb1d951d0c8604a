package match

import "github.com/BojarLab/GlycoGauntlet/pkg/types"

// NeutralMass converts an observed m/z at the given charge state into a
// singly-charged-equivalent mass. A zero charge is treated as unknown, which
// leaves the m/z unchanged.
func NeutralMass(mz float64, charge int) float64 {
	z := charge
	if z < 0 {
		z = -z
	}
	if z == 0 {
		z = 1
	}
	return mz*float64(z) + float64(z-1)
}

// Deconvolute returns the index-aligned neutral-mass view of preds.
func Deconvolute(preds []types.PredictedPeak) []Point {
	out := make([]Point, len(preds))
	for i, p := range preds {
		out[i] = Point{Mass: NeutralMass(p.MZ, p.Charge), RT: p.RT}
	}
	return out
}
