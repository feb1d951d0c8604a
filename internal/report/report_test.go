package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

func sampleSummary() types.RunSummary {
	return types.RunSummary{
		RunID:      "run-1",
		TestSet:    "public_test",
		Submission: "submissions/alice",
		AverageF1:  0.61234,
		Files: []types.FileResult{
			{
				SolutionFile:   "a_solution.csv",
				SubmissionFile: "a_submission.csv",
				RTColumn:       "RT",
				Metrics: types.Metrics{
					F1: 0.8, Precision: 0.75, Recall: 0.857142, TP: 3, FP: 1, FN: 0.5,
					Unevaluable: 1, PeaksNotPicked: 2, Incorrect: 1,
				},
			},
			{
				SolutionFile:   "b_solution.csv",
				SubmissionFile: "b_submission.csv",
				RTColumn:       "b_solution_RT",
				Metrics:        types.Metrics{F1: 0.42468},
			},
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	md := BuildMarkdown(sampleSummary())

	for _, want := range []string{
		"# GlycoGauntlet Evaluation Report",
		"- Test Set: `public_test`",
		"- Run ID: `run-1`",
		"- Files Scored: `2`",
		"- Average F1: **0.6123**",
		"| a_solution.csv | 0.8000 | 0.7500 | 0.8571 | 3.0 | 1 | 0.5 | 1 | 2 | 1 |",
		"| b_solution.csv | 0.4247 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Skipped") {
		t.Error("unexpected skipped section")
	}
}

func TestBuildMarkdown_Skipped(t *testing.T) {
	s := sampleSummary()
	s.Skipped = []types.SkippedFile{{SolutionFile: "c_solution.csv", Reason: "missing submission file\nc_submission.csv"}}

	md := BuildMarkdown(s)
	if !strings.Contains(md, "## Skipped") {
		t.Error("missing skipped section")
	}
	if !strings.Contains(md, "- c_solution.csv: missing submission file c_submission.csv") {
		t.Errorf("skipped entry not flattened:\n%s", md)
	}
}

func TestBuildMarkdown_UnloadableSubmission(t *testing.T) {
	s := sampleSummary()
	s.Files[1].Error = "missing column in b_submission.csv:\ntop1_pred"
	s.Files[1].Metrics = types.Metrics{}

	md := BuildMarkdown(s)
	if !strings.Contains(md, "## Unloadable Submissions") {
		t.Fatalf("missing unloadable section:\n%s", md)
	}
	if !strings.Contains(md, "- b_submission.csv: missing column in b_submission.csv: top1_pred") {
		t.Errorf("unloadable entry not flattened:\n%s", md)
	}
	if !strings.Contains(md, "- Files Scored: `2`") {
		t.Errorf("unloadable file should still count as scored:\n%s", md)
	}
}

func TestFileLine_Error(t *testing.T) {
	f := types.FileResult{SolutionFile: "c_solution.csv", Error: "no rows"}
	got := FileLine(f)
	if !strings.HasPrefix(got, "c_solution.csv: F1=0.0000") || !strings.HasSuffix(got, " (submission not loadable: no rows)") {
		t.Errorf("got %q", got)
	}
}

func TestFileLine(t *testing.T) {
	got := FileLine(sampleSummary().Files[0])
	want := "a_solution.csv: F1=0.8000, Precision=0.7500, Recall=0.8571, TP=3.0, FP=1, FN=0.5, Unevaluable=1"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrintConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintConsole(&buf, sampleSummary()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "_solution.csv: F1=") != 2 {
		t.Errorf("expected two file lines:\n%s", out)
	}
	if !strings.HasSuffix(out, "\nAverage F1: 0.6123\n") {
		t.Errorf("missing average:\n%s", out)
	}
}

func TestBuildText(t *testing.T) {
	want := "Private Test Evaluation\nAverage F1: 0.6123\n\na_solution.csv: F1=0.8000\nb_solution.csv: F1=0.4247\n"
	if got := BuildText(sampleSummary()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteAndReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := WriteJSON(path, sampleSummary()); err != nil {
		t.Fatal(err)
	}
	got, err := ReadJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.RunID != "run-1" || len(got.Files) != 2 || got.Files[1].RTColumn != "b_solution_RT" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadJSON(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(bad); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestWriteMarkdownAndText(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "report.md")
	txtPath := filepath.Join(dir, "private.txt")
	if err := WriteMarkdown(mdPath, sampleSummary()); err != nil {
		t.Fatal(err)
	}
	if err := WriteText(txtPath, sampleSummary()); err != nil {
		t.Fatal(err)
	}
	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(md), "# GlycoGauntlet Evaluation Report") {
		t.Error("written markdown missing title")
	}
	txt, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(txt), "Private Test Evaluation\n") {
		t.Error("written text missing header")
	}
}
