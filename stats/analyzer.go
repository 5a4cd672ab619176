package stats

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the makespans of repeated solver runs.
type Summary struct {
	Runs   int
	Best   float64
	Worst  float64
	Mean   float64
	StdDev float64

	// ImprovementOverBaseline is (baseline - Best) / baseline, the relative
	// gain of the best run over a deterministic baseline such as PEFT.
	// NaN when no baseline was supplied.
	ImprovementOverBaseline float64
}

// Summarize reduces a set of run makespans, optionally against a baseline
// makespan (pass 0 for none).
func Summarize(makespans []float64, baseline float64) Summary {
	s := Summary{
		Runs:                    len(makespans),
		Best:                    math.MaxFloat64,
		ImprovementOverBaseline: math.NaN(),
	}
	if len(makespans) == 0 {
		s.Best = 0
		return s
	}
	for _, m := range makespans {
		s.Best = min(s.Best, m)
		s.Worst = max(s.Worst, m)
	}
	s.Mean = stat.Mean(makespans, nil)
	if len(makespans) > 1 {
		s.StdDev = stat.StdDev(makespans, nil)
	}
	if baseline > 0 {
		s.ImprovementOverBaseline = (baseline - s.Best) / baseline
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("runs=%d best=%.2f worst=%.2f mean=%.2f stdev=%.2f",
		s.Runs, s.Best, s.Worst, s.Mean, s.StdDev)
}

// WriteConvergenceCSV persists a per-generation incumbent series in the
// Generation,Makespan format the plotting scripts expect.
func WriteConvergenceCSV(path string, series []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create convergence file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Generation", "Makespan"}); err != nil {
		return err
	}
	for i, m := range series {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(m, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
