package graph

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDAGFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.dag")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadTolerantFormat(t *testing.T) {
	t.Parallel()
	content := `/* 測試用的排程圖 */
2
3
2

/* comm rates */
0 0.5
0.5 0

/* comp costs */
1 2
3 4
5 6

0 1 10
1 2 20
9 9 5
`
	d, err := Load(writeDAGFile(t, content))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.NumTasks != 3 || d.NumProcessors != 2 {
		t.Fatalf("got %d tasks, %d processors", d.NumTasks, d.NumProcessors)
	}
	if d.Tasks[1].Comp[1] != 4 {
		t.Errorf("comp[1][1] = %v, want 4", d.Tasks[1].Comp[1])
	}
	if d.Tasks[0].Volume(1) != 10 {
		t.Errorf("volume(0,1) = %d, want 10", d.Tasks[0].Volume(1))
	}
	// the 9->9 edge is out of range and silently skipped
	if len(d.Tasks[2].Successors) != 0 {
		t.Errorf("task 2 should have no successors, got %v", d.Tasks[2].Successors)
	}
	if got := d.CommCost(0, 1, 0, 1); got != 5.0 {
		t.Errorf("comm(0,1,0,1) = %v, want 5", got)
	}
}

func TestLoadBadFormat(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"missing header": "2\n",
		"non-numeric":    "two\n3\n1\n",
		"short matrix":   "2\n2\n1\n0 0\n",
	}
	for name, content := range cases {
		_, err := Load(writeDAGFile(t, content))
		if !errors.Is(err, ErrBadFormat) {
			t.Errorf("%s: want ErrBadFormat, got %v", name, err)
		}
	}
}

func TestLoadCyclicFile(t *testing.T) {
	t.Parallel()
	content := `1
2
2
0
1 1
2 2
0 1 1
1 0 1
`
	_, err := Load(writeDAGFile(t, content))
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("want ErrCyclicDependency, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := Load(filepath.Join(t.TempDir(), "nope.dag")); err == nil {
		t.Fatal("want error for missing file")
	}
}
