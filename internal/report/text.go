package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BojarLab/GlycoGauntlet/pkg/types"
)

// FileLine is the one-line console summary of a scored file.
func FileLine(f types.FileResult) string {
	m := f.Metrics
	line := fmt.Sprintf("%s: F1=%.4f, Precision=%.4f, Recall=%.4f, TP=%.1f, FP=%d, FN=%.1f, Unevaluable=%d",
		f.SolutionFile, m.F1, m.Precision, m.Recall, m.TP, m.FP, m.FN, m.Unevaluable)
	if f.Error != "" {
		line += " (submission not loadable: " + f.Error + ")"
	}
	return line
}

// PrintConsole writes every file line followed by the average.
func PrintConsole(w io.Writer, s types.RunSummary) error {
	var b strings.Builder
	for _, f := range s.Files {
		b.WriteString(FileLine(f) + "\n")
	}
	b.WriteString(fmt.Sprintf("\nAverage F1: %.4f\n", s.AverageF1))
	_, err := io.WriteString(w, b.String())
	return err
}

// BuildText renders the private-test summary file.
func BuildText(s types.RunSummary) string {
	var b strings.Builder
	b.WriteString("Private Test Evaluation\n")
	b.WriteString(fmt.Sprintf("Average F1: %.4f\n\n", s.AverageF1))
	for _, f := range s.Files {
		b.WriteString(fmt.Sprintf("%s: F1=%.4f\n", f.SolutionFile, f.Metrics.F1))
	}
	return b.String()
}

func WriteText(path string, s types.RunSummary) error {
	return os.WriteFile(path, []byte(BuildText(s)), 0o644)
}
