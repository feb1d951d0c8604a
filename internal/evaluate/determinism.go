package evaluate

import (
	"context"
	"errors"
	"fmt"

	"github.com/BojarLab/GlycoGauntlet/internal/hash"
	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

// ErrNondeterministic is returned when repeated runs disagree.
var ErrNondeterministic = errors.New("evaluate: repeated runs produced different results")

// Fingerprint hashes the scored content of a summary. The run ID is
// excluded so that two runs over identical inputs hash the same.
func Fingerprint(s types.RunSummary) (string, error) {
	digest, _, err := hash.HashCanonicalJSON(struct {
		AverageF1 float64             `json:"average_f1"`
		Files     []types.FileResult  `json:"files"`
		Skipped   []types.SkippedFile `json:"skipped"`
	}{s.AverageF1, s.Files, s.Skipped})
	if err != nil {
		return "", fmt.Errorf("fingerprint run: %w", err)
	}
	return digest, nil
}

// CheckDeterminism evaluates the submission runs times and returns the
// shared fingerprint, or ErrNondeterministic naming the first diverging run.
func CheckDeterminism(ctx context.Context, runs int, submissionDir, testDir string, opts ...Option) (string, error) {
	if runs < 2 {
		return "", fmt.Errorf("determinism check needs at least 2 runs, got %d", runs)
	}
	var first string
	for i := 0; i < runs; i++ {
		summary, err := Run(ctx, submissionDir, testDir, opts...)
		if err != nil {
			return "", err
		}
		digest, err := Fingerprint(summary)
		if err != nil {
			return "", err
		}
		if i == 0 {
			first = digest
			continue
		}
		if digest != first {
			return "", fmt.Errorf("%w: run %d %s != run 1 %s", ErrNondeterministic, i+1, digest, first)
		}
	}
	return first, nil
}
