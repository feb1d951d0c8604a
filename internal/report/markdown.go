package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

func BuildMarkdown(s types.RunSummary) string {
	var b strings.Builder
	b.WriteString("# GlycoGauntlet Evaluation Report\n\n")
	b.WriteString(fmt.Sprintf("- Test Set: `%s`\n", s.TestSet))
	b.WriteString(fmt.Sprintf("- Submission: `%s`\n", s.Submission))
	b.WriteString(fmt.Sprintf("- Run ID: `%s`\n", s.RunID))
	b.WriteString(fmt.Sprintf("- Files Scored: `%d`\n", len(s.Files)))
	b.WriteString(fmt.Sprintf("- Average F1: **%.4f**\n\n", s.AverageF1))

	b.WriteString("## Files\n\n")
	b.WriteString("| File | F1 | Precision | Recall | TP | FP | FN | Unevaluable | Not Picked | Incorrect |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, f := range s.Files {
		m := f.Metrics
		b.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %.1f | %d | %.1f | %d | %d | %d |\n",
			f.SolutionFile, m.F1, m.Precision, m.Recall, m.TP, m.FP, m.FN, m.Unevaluable, m.PeaksNotPicked, m.Incorrect))
	}

	var failed []types.FileResult
	for _, f := range s.Files {
		if f.Error != "" {
			failed = append(failed, f)
		}
	}
	if len(failed) > 0 {
		b.WriteString("\n## Unloadable Submissions\n\n")
		for _, f := range failed {
			b.WriteString(fmt.Sprintf("- %s: %s\n", f.SubmissionFile, strings.ReplaceAll(f.Error, "\n", " ")))
		}
	}

	if len(s.Skipped) > 0 {
		b.WriteString("\n## Skipped\n\n")
		for _, sk := range s.Skipped {
			b.WriteString(fmt.Sprintf("- %s: %s\n", sk.SolutionFile, strings.ReplaceAll(sk.Reason, "\n", " ")))
		}
	}
	return b.String()
}

func WriteMarkdown(path string, s types.RunSummary) error {
	return os.WriteFile(path, []byte(BuildMarkdown(s)), 0o644)
}
