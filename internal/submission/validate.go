// Package submission checks that a submission directory has the shape the
// evaluator expects before any scoring is attempted.
package submission

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BojarLab/GlycoGauntlet/internal/evaluate"
	"github.com/BojarLab/GlycoGauntlet/internal/table"
)

// RequiredColumns every submission file must carry.
var RequiredColumns = []string{table.ColMZ, table.ColRT, table.ColCharge, table.ColPrediction}

// Report lists every problem found. It is valid when Problems is empty.
type Report struct {
	Files    int      `json:"files"`
	Problems []string `json:"problems"`
}

func (r Report) Valid() bool { return len(r.Problems) == 0 }

func (r *Report) addf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Validate compares submissionDir with the solution files of testDir and
// checks the columns and cell types of every submitted CSV. Only an
// unreadable directory is returned as an error; everything else is a
// Problem so that one run reports all of them.
func Validate(submissionDir, testDir string) (Report, error) {
	solutions, err := evaluate.SolutionFiles(testDir)
	if err != nil {
		return Report{}, err
	}
	expected := make(map[string]bool, len(solutions))
	for _, s := range solutions {
		expected[evaluate.SubmissionName(s)] = true
	}

	submitted, err := csvFiles(submissionDir)
	if err != nil {
		return Report{}, err
	}
	got := make(map[string]bool, len(submitted))
	for _, s := range submitted {
		got[s] = true
	}

	rep := Report{Files: len(submitted), Problems: []string{}}
	if missing := difference(expected, got); len(missing) > 0 {
		rep.addf("missing predictions for: %s", strings.Join(missing, ", "))
	}
	if extra := difference(got, expected); len(extra) > 0 {
		rep.addf("extra files not in test set: %s", strings.Join(extra, ", "))
	}

	for _, name := range submitted {
		checkFile(&rep, filepath.Join(submissionDir, name), name)
	}
	return rep, nil
}

func checkFile(rep *Report, path, name string) {
	t, err := table.ReadCSV(path)
	if err != nil {
		rep.addf("%s: cannot read CSV file: %v", name, err)
		return
	}
	if missing := t.Missing(RequiredColumns...); len(missing) > 0 {
		rep.addf("%s: missing required columns: %s", name, strings.Join(missing, ", "))
		return
	}
	for _, col := range []string{table.ColMZ, table.ColRT} {
		if !t.IsNumeric(col) {
			rep.addf("%s: %s must be numeric", name, col)
		}
		if n := t.MissingCount(col); n > 0 {
			rep.addf("%s: %s has %d empty cell(s)", name, col, n)
		}
	}
	if !t.IsInteger(table.ColCharge) {
		rep.addf("%s: charge must be integer", name)
	}
	if t.AllMissing(table.ColPrediction) {
		rep.addf("%s: top1_pred column is empty", name)
	}
	if t.Len() == 0 {
		rep.addf("%s: file is empty", name)
	}
}

func csvFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read submission dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func difference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
