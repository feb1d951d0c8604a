//go:build e2e

package e2e

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

type peak struct {
	mass, rt float64
	glycan   string
}

var samplePeaks = []peak{
	{1037.38, 12.4, "Gal(b1-4)GlcNAc(b1-2)Man(a1-3)[Man(a1-6)]Man(b1-4)GlcNAc(b1-4)GlcNAc"},
	{1183.44, 14.9, "Gal(b1-4)GlcNAc(b1-2)Man(a1-3)[Man(a1-6)]Man(b1-4)GlcNAc(b1-4)[Fuc(a1-6)]GlcNAc"},
	{1234.43, 18.2, "Man(a1-3)[Man(a1-6)]Man(a1-6)[Man(a1-3)]Man(b1-4)GlcNAc(b1-4)GlcNAc"},
	{1400.50, 21.0, ""},
}

// writeTestSet lays out n solution files named sample<i>_solution.csv, each
// holding samplePeaks with the RT column named after the file when i is odd.
func writeTestSet(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("sample%d_solution.csv", i)
		rtCol := "RT"
		if i%2 == 1 {
			rtCol = strings.TrimSuffix(name, ".csv") + "_RT"
		}
		var b strings.Builder
		b.WriteString("Mass," + rtCol + ",glycan\n")
		for _, p := range samplePeaks {
			fmt.Fprintf(&b, "%.2f,%.2f,%s\n", p.mass, p.rt, p.glycan)
		}
		writeFile(t, dir, name, b.String())
	}
}

// writeSubmission predicts every sample peak as a singly deprotonated ion,
// replacing the glycan of peak wrong (if >= 0) with a high-mannose guess.
func writeSubmission(t *testing.T, dir string, n, wrong int) {
	t.Helper()
	for i := 0; i < n; i++ {
		var b strings.Builder
		b.WriteString("m/z,RT,charge,top1_pred\n")
		for j, p := range samplePeaks {
			pred := p.glycan
			if pred == "" {
				pred = "Man(a1-6)Man(b1-4)GlcNAc(b1-4)GlcNAc"
			}
			if j == wrong {
				pred = samplePeaks[2].glycan
			}
			fmt.Fprintf(&b, "%.2f,%.2f,-1,%s\n", p.mass, p.rt+0.3, pred)
		}
		writeFile(t, dir, fmt.Sprintf("sample%d_submission.csv", i), b.String())
	}
}
