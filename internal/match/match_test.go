package match

import (
	"math"
	"reflect"
	"testing"

	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

func TestNeutralMass(t *testing.T) {
	tests := []struct {
		name   string
		mz     float64
		charge int
		want   float64
	}{
		{"singly charged negative", 500.25, -1, 500.25},
		{"singly charged positive", 500.25, 1, 500.25},
		{"doubly charged", 500.0, -2, 1001.0},
		{"triply charged", 400.0, 3, 1202.0},
		{"unknown charge", 612.3, 0, 612.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NeutralMass(tt.mz, tt.charge)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NeutralMass(%v, %d) = %v, want %v", tt.mz, tt.charge, got, tt.want)
			}
		})
	}
}

func TestDeconvoluteKeepsRetentionTime(t *testing.T) {
	preds := []types.PredictedPeak{{MZ: 700, RT: 12.5, Charge: -2}, {MZ: 300, RT: 3.1, Charge: -1}}
	got := Deconvolute(preds)
	want := []Point{{Mass: 1401, RT: 12.5}, {Mass: 300, RT: 3.1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Deconvolute = %+v, want %+v", got, want)
	}
}

func TestRound2HalfToEven(t *testing.T) {
	if got := Round2(10.125); got != 10.12 {
		t.Errorf("Round2(10.125) = %v, want 10.12", got)
	}
	if got := Round2(0.375); got != 0.38 {
		t.Errorf("Round2(0.375) = %v, want 0.38", got)
	}
	if got := Round2(499.996); got != 500 {
		t.Errorf("Round2(499.996) = %v, want 500", got)
	}
}

func TestMatch_SingleCandidateWithinTolerance(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}}
	pred := []Point{{Mass: 500.3, RT: 10.9}}
	got := Match(gt, pred, nil, MassTolerance, RTTolerance)
	want := []types.Match{{GroundTruth: 0, Prediction: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Match = %+v, want %+v", got, want)
	}
}

func TestMatch_SingleCandidateOutsideRT(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}}
	pred := []Point{{Mass: 500, RT: 11.2}}
	if got := Match(gt, pred, nil, MassTolerance, RTTolerance); len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestMatch_NoMassCandidate(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}}
	pred := []Point{{Mass: 501, RT: 10}}
	if got := Match(gt, pred, nil, MassTolerance, RTTolerance); len(got) != 0 {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestMatch_PicksClosestRetentionTime(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}}
	pred := []Point{
		{Mass: 500.1, RT: 10.8},
		{Mass: 499.9, RT: 10.1},
		{Mass: 500.0, RT: 9.5},
	}
	got := Match(gt, pred, nil, MassTolerance, RTTolerance)
	want := []types.Match{{GroundTruth: 0, Prediction: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Match = %+v, want %+v", got, want)
	}
}

func TestMatch_TieResolvesToLowestIndex(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}}
	pred := []Point{
		{Mass: 500.2, RT: 10.5},
		{Mass: 500.1, RT: 9.5},
	}
	got := Match(gt, pred, nil, MassTolerance, RTTolerance)
	want := []types.Match{{GroundTruth: 0, Prediction: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Match = %+v, want %+v", got, want)
	}
}

func TestMatch_MissingRetentionTimeBlocksPeak(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}, {Mass: 700, RT: 5}}
	pred := []Point{
		{Mass: 500.1, RT: math.NaN()},
		{Mass: 499.9, RT: 10.1},
		{Mass: 700, RT: 5},
	}
	got := Match(gt, pred, nil, MassTolerance, RTTolerance)
	want := []types.Match{{GroundTruth: 1, Prediction: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Match = %+v, want %+v", got, want)
	}
}

func TestMatch_MissingMassNeverMatches(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}}
	pred := []Point{{Mass: math.NaN(), RT: 10}, {Mass: 500.2, RT: 10.4}}
	got := Match(gt, pred, []Point{{Mass: math.NaN(), RT: 10}, {Mass: 500.2, RT: 10.4}}, MassTolerance, RTTolerance)
	want := []types.Match{{GroundTruth: 0, Prediction: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Match = %+v, want %+v", got, want)
	}
}

func TestMatch_EarlierGroundTruthClaimsContestedPrediction(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10.5}, {Mass: 500, RT: 10}}
	pred := []Point{{Mass: 500, RT: 10}}
	got := Match(gt, pred, nil, MassTolerance, RTTolerance)
	want := []types.Match{{GroundTruth: 0, Prediction: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Match = %+v, want %+v", got, want)
	}
}

func TestMatch_UsedPredictionNotReclaimed(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}, {Mass: 500, RT: 10.2}}
	pred := []Point{{Mass: 500, RT: 10}, {Mass: 500.1, RT: 10.3}}
	got := Match(gt, pred, nil, MassTolerance, RTTolerance)
	want := []types.Match{{GroundTruth: 0, Prediction: 0}, {GroundTruth: 1, Prediction: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Match = %+v, want %+v", got, want)
	}
}

func TestMatch_AltMassCandidate(t *testing.T) {
	gt := []Point{{Mass: 1001, RT: 20}}
	preds := []types.PredictedPeak{{MZ: 500, RT: 20.4, Charge: -2}}
	got := Match(gt, PredictionPoints(preds), Deconvolute(preds), MassTolerance, RTTolerance)
	want := []types.Match{{GroundTruth: 0, Prediction: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Match = %+v, want %+v", got, want)
	}
	if got := Match(gt, PredictionPoints(preds), nil, MassTolerance, RTTolerance); len(got) != 0 {
		t.Fatalf("expected no match without alt masses, got %+v", got)
	}
}

func TestMatch_AltAndPrimaryCountOnce(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}, {Mass: 500, RT: 10}}
	preds := []types.PredictedPeak{{MZ: 500, RT: 10, Charge: -1}}
	got := Match(gt, PredictionPoints(preds), Deconvolute(preds), MassTolerance, RTTolerance)
	if len(got) != 1 {
		t.Fatalf("expected exactly one match, got %+v", got)
	}
}

func TestMatch_RoundingAtToleranceBoundary(t *testing.T) {
	gt := []Point{{Mass: 500.004, RT: 10}}
	pred := []Point{{Mass: 500.504, RT: 11.004}}
	if got := Match(gt, pred, nil, MassTolerance, RTTolerance); len(got) != 1 {
		t.Fatalf("expected rounded inputs to match at the boundary, got %+v", got)
	}
}

func TestMatch_Injective(t *testing.T) {
	gt := make([]Point, 0)
	pred := make([]Point, 0)
	for i := 0; i < 40; i++ {
		gt = append(gt, Point{Mass: 400 + float64(i%7)*0.2, RT: float64(i%5) * 0.4})
		pred = append(pred, Point{Mass: 400 + float64(i%9)*0.15, RT: float64(i%4) * 0.5})
	}
	got := Match(gt, pred, nil, MassTolerance, RTTolerance)
	seenGT := map[int]bool{}
	seenPred := map[int]bool{}
	for _, m := range got {
		if seenGT[m.GroundTruth] {
			t.Fatalf("ground truth %d matched twice", m.GroundTruth)
		}
		if seenPred[m.Prediction] {
			t.Fatalf("prediction %d matched twice", m.Prediction)
		}
		seenGT[m.GroundTruth] = true
		seenPred[m.Prediction] = true
	}
	if len(got) == 0 {
		t.Fatal("expected some matches")
	}
}

func TestMatch_Deterministic(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}, {Mass: 650, RT: 14}, {Mass: 500.2, RT: 10.1}}
	pred := []Point{{Mass: 500.1, RT: 10.2}, {Mass: 650.3, RT: 13.5}, {Mass: 499.8, RT: 9.9}, {Mass: 500, RT: 10.2}}
	first := Match(gt, pred, nil, MassTolerance, RTTolerance)
	for i := 0; i < 20; i++ {
		if again := Match(gt, pred, nil, MassTolerance, RTTolerance); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestMatch_WiderTolerancesNeverLoseMatches(t *testing.T) {
	gt := []Point{{Mass: 500, RT: 10}, {Mass: 700, RT: 20}, {Mass: 900, RT: 30}}
	pred := []Point{{Mass: 500.4, RT: 10.2}, {Mass: 700.8, RT: 20.1}, {Mass: 900.1, RT: 31.5}}
	prev := -1
	for _, tol := range []struct{ mass, rt float64 }{{0.1, 0.1}, {0.5, 1}, {1, 1}, {1, 2}, {5, 5}} {
		n := len(Match(gt, pred, nil, tol.mass, tol.rt))
		if n < prev {
			t.Fatalf("tolerances %+v produced %d matches, fewer than %d", tol, n, prev)
		}
		prev = n
	}
	if prev != 3 {
		t.Fatalf("widest tolerance matched %d, want 3", prev)
	}
}

func TestPeaks_UsesTypedRows(t *testing.T) {
	glycan := "Man3"
	gt := []types.GroundTruthPeak{{Mass: 1001, RT: 5, Glycan: &glycan}}
	preds := []types.PredictedPeak{
		{MZ: 1200, RT: 5},
		{MZ: 500, RT: 5.5, Charge: -2},
	}
	got := Peaks(gt, preds)
	want := []types.Match{{GroundTruth: 0, Prediction: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Peaks = %+v, want %+v", got, want)
	}
}
