package types

// Metrics is the outcome of scoring one ground-truth/prediction file pair.
type Metrics struct {
	F1             float64 `json:"f1"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	PeaksNotPicked int     `json:"peaks_not_picked"`
	Incorrect      int     `json:"incorrect"`
	TP             float64 `json:"tp"`
	FP             int     `json:"fp"`
	FN             float64 `json:"fn"`
	Unevaluable    int     `json:"unevaluable"`
}

// FileResult is the scored outcome for one solution file. Error is set when
// the submission file exists but could not be loaded; such a file scores zero.
type FileResult struct {
	SolutionFile   string  `json:"solution_file"`
	SubmissionFile string  `json:"submission_file"`
	RTColumn       string  `json:"rt_column"`
	Metrics        Metrics `json:"metrics"`
	Error          string  `json:"error,omitempty"`
}

// SkippedFile records a solution file that could not be scored.
type SkippedFile struct {
	SolutionFile string `json:"solution_file"`
	Reason       string `json:"reason"`
}

// RunSummary collects every file evaluated for one submission.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	TestSet    string        `json:"test_set"`
	Submission string        `json:"submission"`
	AverageF1  float64       `json:"average_f1"`
	Files      []FileResult  `json:"files"`
	Skipped    []SkippedFile `json:"skipped,omitempty"`
}
