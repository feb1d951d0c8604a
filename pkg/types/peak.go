package types

// DefaultCharge is used when a prediction table carries no charge column.
const DefaultCharge = -1

// GroundTruthPeak is one curated peak. A nil Glycan marks a peak that was
// detected but never annotated.
type GroundTruthPeak struct {
	Mass   float64 `json:"mass"`
	RT     float64 `json:"rt"`
	Glycan *string `json:"glycan"`
}

// PredictedPeak is one row of a submission.
type PredictedPeak struct {
	MZ         float64 `json:"mz"`
	RT         float64 `json:"rt"`
	Charge     int     `json:"charge"`
	Prediction *string `json:"top1_pred"`
}

// Match pairs a ground-truth index with a prediction index.
type Match struct {
	GroundTruth int `json:"ground_truth"`
	Prediction  int `json:"prediction"`
}

// MergedRow is one line of the joined ground-truth/prediction table.
// GroundTruthIndex is -1 for extra predictions; PredictionIndex is -1 for
// ground-truth peaks nothing was matched to.
type MergedRow struct {
	Mass             float64  `json:"mass"`
	RT               float64  `json:"rt"`
	Glycan           *string  `json:"glycan"`
	Prediction       *string  `json:"batch_pred"`
	InGroundTruth    bool     `json:"in_ground_truth"`
	Similarity       *float64 `json:"similarity_score,omitempty"`
	GroundTruthIndex int      `json:"ground_truth_index"`
	PredictionIndex  int      `json:"prediction_index"`
}

// Score returns the similarity score, treating an unscored row as 0.
func (r MergedRow) Score() float64 {
	if r.Similarity == nil {
		return 0
	}
	return *r.Similarity
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
