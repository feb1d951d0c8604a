// Package score turns matched peak tables into fractional confusion counts
// and precision, recall and F1.
package score

import (
	"log/slog"
	"math"

	"github.com/BojarLab/GlycoGauntlet/internal/match"
	"github.com/BojarLab/GlycoGauntlet/internal/merge"
	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

// epsilon is added to every ratio denominator. Historical leaderboard entries
// were computed with exactly this value.
const epsilon = 1e-8

// unevaluableCredit is the TP credit for a detected peak whose ground truth
// carries no structure.
const unevaluableCredit = 0.5

// Option configures Evaluate.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for rows that cannot be compared.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Result is the scored outcome of one file pair.
type Result struct {
	Metrics types.Metrics
	Matches []types.Match
	Rows    []types.MergedRow
}

// Evaluate matches preds against gt, scores every merged row through oracle
// and aggregates the metrics. An empty prediction set scores zero everywhere.
func Evaluate(preds []types.PredictedPeak, gt []types.GroundTruthPeak, oracle Oracle, opts ...Option) Result {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(preds) == 0 {
		return Result{}
	}

	matches := match.Peaks(gt, preds)
	rows := merge.Merge(gt, preds, matches)
	ScoreRows(rows, oracle, cfg.logger)
	return Result{
		Metrics: Aggregate(rows),
		Matches: matches,
		Rows:    rows,
	}
}

// ScoreRows fills Similarity for every row that has both a ground-truth
// glycan and a prediction. Rows the oracle cannot parse score 0.
func ScoreRows(rows []types.MergedRow, oracle Oracle, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for i := range rows {
		r := &rows[i]
		if r.Glycan == nil || r.Prediction == nil {
			continue
		}
		s := RowSimilarity(*r.Glycan, *r.Prediction, oracle, logger)
		r.Similarity = &s
	}
}

// RowSimilarity scores one prediction against one ground-truth annotation.
// An ambiguous annotation takes the best score over all of its topologies.
func RowSimilarity(truth, pred string, oracle Oracle, logger *slog.Logger) float64 {
	if !isAmbiguous(truth) {
		s, err := pairSimilarity(truth, pred, oracle)
		if err != nil {
			logger.Warn("glycan not comparable", "glycan", truth, "prediction", pred, "err", err)
			return 0
		}
		return s
	}

	topologies, err := oracle.ExpandAmbiguous(truth)
	if err != nil {
		logger.Warn("ambiguous glycan not expandable", "glycan", truth, "err", err)
		return 0
	}
	best := 0.0
	for _, t := range topologies {
		s, err := pairSimilarity(t, pred, oracle)
		if err != nil {
			logger.Warn("glycan not comparable", "glycan", t, "prediction", pred, "err", err)
			continue
		}
		if s > best {
			best = s
		}
		if best == 1 {
			break
		}
	}
	return best
}

func pairSimilarity(truth, pred string, oracle Oracle) (float64, error) {
	eq, err := oracle.StructurallyEqual(truth, pred)
	if err != nil {
		return 0, err
	}
	if eq {
		return 1, nil
	}
	s, err := oracle.FuzzySimilarity(truth, pred)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(s) || s < 0 {
		return 0, nil
	}
	if s > 1 {
		return 1, nil
	}
	return s, nil
}

// Aggregate computes the fractional confusion counts over scored rows.
func Aggregate(rows []types.MergedRow) types.Metrics {
	var m types.Metrics
	missedUnannotated := 0
	for _, r := range rows {
		hasPred := r.Prediction != nil
		switch {
		case r.InGroundTruth && r.Glycan == nil && hasPred:
			m.Unevaluable++
		case r.InGroundTruth && r.Glycan == nil && !hasPred:
			missedUnannotated++
		case !r.InGroundTruth && hasPred:
			m.FP++
		}
		if r.InGroundTruth && !hasPred {
			m.PeaksNotPicked++
		}
		if r.Glycan != nil {
			s := r.Score()
			m.TP += s
			m.FN += 1 - s
			if hasPred && s < 1 {
				m.Incorrect++
			}
		}
	}
	m.TP += unevaluableCredit * float64(m.Unevaluable)
	m.FN += float64(missedUnannotated)

	m.Precision = m.TP / (m.TP + float64(m.FP) + epsilon)
	m.Recall = m.TP / (m.TP + m.FN + epsilon)
	m.F1 = 2 * (m.Precision * m.Recall) / (m.Precision + m.Recall + epsilon)
	return m
}
