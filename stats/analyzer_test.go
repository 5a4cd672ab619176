package stats

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	t.Parallel()
	s := Summarize([]float64{10, 20, 30}, 40)
	if s.Runs != 3 || s.Best != 10 || s.Worst != 30 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Mean != 20 {
		t.Fatalf("mean = %v, want 20", s.Mean)
	}
	if math.Abs(s.ImprovementOverBaseline-0.75) > 1e-12 {
		t.Fatalf("improvement = %v, want 0.75", s.ImprovementOverBaseline)
	}
}

func TestSummarizeNoBaseline(t *testing.T) {
	t.Parallel()
	s := Summarize([]float64{5}, 0)
	if !math.IsNaN(s.ImprovementOverBaseline) {
		t.Fatalf("improvement = %v, want NaN without a baseline", s.ImprovementOverBaseline)
	}
	if s.StdDev != 0 {
		t.Fatalf("stdev of one run = %v, want 0", s.StdDev)
	}
}

func TestWriteConvergenceCSV(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "conv.csv")
	if err := WriteConvergenceCSV(path, []float64{42.5, 40, 40}); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != "Generation,Makespan" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[1] != "1,42.5" {
		t.Fatalf("first row = %q", lines[1])
	}
}
