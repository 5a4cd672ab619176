package graph

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ledgerwatch/log/v3"
)

var ErrBadFormat = errors.New("malformed DAG file")

// Load reads a workload description from a UTF-8 text file.
//
// The reader tolerates /*...*/ comment lines, blank lines, and lines with
// non-ASCII characters. The numeric lines must appear in this order: the
// processor count, the task count, the edge count, the m×m comm-rate matrix,
// the n×m computation-cost matrix, then one "from to volume" triple per
// edge. Edges whose endpoints fall outside [0, n) are skipped.
func Load(path string) (*DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open DAG file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	dataLines := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.Contains(line, "/*") || strings.HasPrefix(line, "*/") ||
			strings.Contains(line, "===") || containsNonASCII(line) {
			continue
		}
		dataLines = append(dataLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read DAG file: %w", err)
	}

	d, err := parse(dataLines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := d.Finalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("loaded DAG", "path", path, "tasks", d.NumTasks, "processors", d.NumProcessors)
	return d, nil
}

func parse(lines []string) (*DAG, error) {
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: missing header counts", ErrBadFormat)
	}

	idx := 0
	nextInt := func(what string) (int, error) {
		v, err := strconv.Atoi(lines[idx])
		if err != nil {
			return 0, fmt.Errorf("%w: %s on line %q", ErrBadFormat, what, lines[idx])
		}
		idx++
		return v, nil
	}

	m, err := nextInt("processor count")
	if err != nil {
		return nil, err
	}
	n, err := nextInt("task count")
	if err != nil {
		return nil, err
	}
	e, err := nextInt("edge count")
	if err != nil {
		return nil, err
	}
	if m <= 0 || n <= 0 || e < 0 {
		return nil, fmt.Errorf("%w: non-positive counts m=%d n=%d e=%d", ErrBadFormat, m, n, e)
	}

	d := NewDAG(n, m)

	readRow := func(width int, what string) ([]float64, error) {
		if idx >= len(lines) {
			return nil, fmt.Errorf("%w: truncated %s", ErrBadFormat, what)
		}
		fields := strings.Fields(lines[idx])
		if len(fields) < width {
			return nil, fmt.Errorf("%w: %s row has %d of %d columns", ErrBadFormat, what, len(fields), width)
		}
		row := make([]float64, width)
		for j := 0; j < width; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("%w: bad %s value %q", ErrBadFormat, what, fields[j])
			}
			row[j] = v
		}
		idx++
		return row, nil
	}

	for p := 0; p < m; p++ {
		row, err := readRow(m, "comm-rate matrix")
		if err != nil {
			return nil, err
		}
		copy(d.CommRate[p], row)
	}
	for t := 0; t < n; t++ {
		row, err := readRow(m, "computation-cost matrix")
		if err != nil {
			return nil, err
		}
		copy(d.Tasks[t].Comp, row)
	}

	for ; idx < len(lines); idx++ {
		fields := strings.Fields(lines[idx])
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: edge line %q", ErrBadFormat, lines[idx])
		}
		from, err1 := strconv.Atoi(fields[0])
		to, err2 := strconv.Atoi(fields[1])
		volume, err3 := strconv.ParseInt(fields[2], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("%w: edge line %q", ErrBadFormat, lines[idx])
		}
		if from < 0 || from >= n || to < 0 || to >= n {
			// out-of-range endpoints are tolerated, matching the benchmark files
			continue
		}
		d.AddEdge(from, to, volume)
	}
	return d, nil
}

func containsNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}
