package table

import (
	"path/filepath"
	"strings"

	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

// Column names of the two peak table formats.
const (
	ColMass       = "Mass"
	ColRT         = "RT"
	ColGlycan     = "glycan"
	ColMZ         = "m/z"
	ColCharge     = "charge"
	ColPrediction = "top1_pred"
)

// RTColumn returns the retention-time column of a ground-truth table: "RT"
// when present, otherwise "<basename>_RT" derived from the file name.
func RTColumn(t *Table, path string) string {
	if t.Has(ColRT) {
		return ColRT
	}
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base + "_" + ColRT
}

// GroundTruth converts t into ground-truth peaks using rtCol for retention
// time. Mass, rtCol and glycan are required columns.
func GroundTruth(t *Table, rtCol string) ([]types.GroundTruthPeak, error) {
	if err := t.Require(ColMass, rtCol, ColGlycan); err != nil {
		return nil, err
	}
	out := make([]types.GroundTruthPeak, 0, t.Len())
	for i := range t.Rows {
		mass, err := t.Float(i, ColMass)
		if err != nil {
			return nil, err
		}
		rt, err := t.Float(i, rtCol)
		if err != nil {
			return nil, err
		}
		out = append(out, types.GroundTruthPeak{Mass: mass, RT: rt, Glycan: t.String(i, ColGlycan)})
	}
	return out, nil
}

// Predictions converts t into predicted peaks. m/z, RT and top1_pred are
// required columns. An empty m/z or RT cell loads as NaN, which keeps the row
// as a prediction that can never match. A missing charge column or cell
// defaults to types.DefaultCharge.
func Predictions(t *Table) ([]types.PredictedPeak, error) {
	if err := t.Require(ColMZ, ColRT, ColPrediction); err != nil {
		return nil, err
	}
	out := make([]types.PredictedPeak, 0, t.Len())
	for i := range t.Rows {
		mz, err := t.OptionalFloat(i, ColMZ)
		if err != nil {
			return nil, err
		}
		rt, err := t.OptionalFloat(i, ColRT)
		if err != nil {
			return nil, err
		}
		charge := types.DefaultCharge
		if t.Has(ColCharge) {
			if charge, err = t.Int(i, ColCharge, types.DefaultCharge); err != nil {
				return nil, err
			}
		}
		out = append(out, types.PredictedPeak{MZ: mz, RT: rt, Charge: charge, Prediction: t.String(i, ColPrediction)})
	}
	return out, nil
}

// LoadGroundTruth reads a solution CSV and returns its peaks and the
// retention-time column that was used.
func LoadGroundTruth(path string) ([]types.GroundTruthPeak, string, error) {
	t, err := ReadCSV(path)
	if err != nil {
		return nil, "", err
	}
	rtCol := RTColumn(t, path)
	peaks, err := GroundTruth(t, rtCol)
	if err != nil {
		return nil, "", err
	}
	return peaks, rtCol, nil
}

// LoadPredictions reads a submission CSV.
func LoadPredictions(path string) ([]types.PredictedPeak, error) {
	t, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	return Predictions(t)
}

// Annotated drops ground-truth peaks that carry no glycan.
func Annotated(gt []types.GroundTruthPeak) []types.GroundTruthPeak {
	out := make([]types.GroundTruthPeak, 0, len(gt))
	for _, p := range gt {
		if p.Glycan != nil {
			out = append(out, p)
		}
	}
	return out
}
