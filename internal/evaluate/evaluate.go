// Package evaluate scores a submission directory against every solution file
// of a test set.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/BojarLab/GlycoGauntlet/internal/glycan"
	"github.com/BojarLab/GlycoGauntlet/internal/score"
	"github.com/BojarLab/GlycoGauntlet/internal/table"
	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

const (
	solutionSuffix   = "_solution.csv"
	submissionSuffix = "_submission.csv"
)

// ErrNoSolutions is returned when the test directory holds no solution files.
var ErrNoSolutions = errors.New("evaluate: no solution files in test directory")

// Option configures Run.
type Option func(*config)

type config struct {
	workers       int
	logger        *slog.Logger
	oracle        score.Oracle
	annotatedOnly bool
	testSet       string
}

// WithWorkers bounds how many file pairs are scored at once. Zero or a
// negative value means one per CPU.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger sets the logger for skipped files and unscorable rows.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOracle replaces the built-in glycan oracle.
func WithOracle(o score.Oracle) Option {
	return func(c *config) {
		if o != nil {
			c.oracle = o
		}
	}
}

// AnnotatedOnly drops ground-truth rows without a glycan before matching.
// Private test sets are scored this way.
func AnnotatedOnly() Option {
	return func(c *config) { c.annotatedOnly = true }
}

// WithTestSet labels the run summary.
func WithTestSet(name string) Option {
	return func(c *config) { c.testSet = name }
}

// SubmissionName maps a solution file name to the submission file expected
// for it.
func SubmissionName(solution string) string {
	return strings.TrimSuffix(solution, solutionSuffix) + submissionSuffix
}

// SolutionFiles lists the solution CSVs of testDir in name order.
func SolutionFiles(testDir string) ([]string, error) {
	entries, err := os.ReadDir(testDir)
	if err != nil {
		return nil, fmt.Errorf("read test dir %s: %w", testDir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), solutionSuffix) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Run scores every solution file in testDir against its counterpart in
// submissionDir. Pairs whose submission is missing, or whose solution file
// cannot be loaded, are reported in Skipped and excluded from the average. A
// submission file that exists but cannot be loaded scores zero and counts
// toward the average.
func Run(ctx context.Context, submissionDir, testDir string, opts ...Option) (types.RunSummary, error) {
	cfg := config{logger: slog.Default(), testSet: filepath.Base(testDir)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.NumCPU()
	}
	if cfg.oracle == nil {
		cfg.oracle = glycan.NewOracle()
	}

	solutions, err := SolutionFiles(testDir)
	if err != nil {
		return types.RunSummary{}, err
	}
	if len(solutions) == 0 {
		return types.RunSummary{}, fmt.Errorf("%w: %s", ErrNoSolutions, testDir)
	}

	results := make([]*types.FileResult, len(solutions))
	skipped := make([]*types.SkippedFile, len(solutions))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers)
	for i, name := range solutions {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := scoreFile(filepath.Join(testDir, name), filepath.Join(submissionDir, SubmissionName(name)), cfg)
			if err != nil {
				cfg.logger.Warn("skipping solution file", "file", name, "err", err)
				skipped[i] = &types.SkippedFile{SolutionFile: name, Reason: err.Error()}
				return nil
			}
			cfg.logger.Debug("scored file", "file", name, "f1", res.Metrics.F1)
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return types.RunSummary{}, err
	}

	summary := types.RunSummary{
		RunID:      uuid.NewString(),
		TestSet:    cfg.testSet,
		Submission: submissionDir,
		Files:      []types.FileResult{},
	}
	total := 0.0
	for i := range solutions {
		if results[i] != nil {
			summary.Files = append(summary.Files, *results[i])
			total += results[i].Metrics.F1
		}
		if skipped[i] != nil {
			summary.Skipped = append(summary.Skipped, *skipped[i])
		}
	}
	if len(summary.Files) > 0 {
		summary.AverageF1 = total / float64(len(summary.Files))
	}
	return summary, nil
}

// scoreFile returns an error only for pairs that are left out of the average.
func scoreFile(solutionPath, submissionPath string, cfg config) (*types.FileResult, error) {
	if _, err := os.Stat(submissionPath); err != nil {
		return nil, fmt.Errorf("missing submission file %s", filepath.Base(submissionPath))
	}
	gt, rtCol, err := table.LoadGroundTruth(solutionPath)
	if err != nil {
		return nil, err
	}
	if cfg.annotatedOnly {
		gt = table.Annotated(gt)
	}
	out := &types.FileResult{
		SolutionFile:   filepath.Base(solutionPath),
		SubmissionFile: filepath.Base(submissionPath),
		RTColumn:       rtCol,
	}
	logger := cfg.logger.With("file", out.SolutionFile)
	preds, err := table.LoadPredictions(submissionPath)
	if err != nil {
		logger.Warn("submission not loadable, scoring zero", "err", err)
		out.Error = err.Error()
		return out, nil
	}
	out.Metrics = score.Evaluate(preds, gt, cfg.oracle, score.WithLogger(logger)).Metrics
	return out, nil
}
