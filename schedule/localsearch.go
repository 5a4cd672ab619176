package schedule

// CriticalPathLocalSearch hill-climbs the assignment, leaving the order
// untouched. Each sweep extracts the critical path and tries every
// (critical task, other processor) move; the single best strictly improving
// move is applied and the sweep restarts. Terminates at a local optimum, so
// a second call on an optimal schedule is a no-op.
//
// Restricting the neighborhood to critical-path tasks keeps the operator
// tractable on large DAGs: only moves that can shorten the makespan are
// ever evaluated.
func (s *Schedule) CriticalPathLocalSearch() {
	d := s.dag
	for {
		s.Invalidate()
		current := s.Evaluate()
		path := s.CriticalPath()

		bestMakespan := current
		bestTask, bestProc := -1, -1

		for _, t := range path {
			original := s.Assignment[t]
			for p := 0; p < d.NumProcessors; p++ {
				if p == original {
					continue
				}
				s.Assignment[t] = p
				s.Invalidate()
				if m := s.Evaluate(); m < bestMakespan {
					bestMakespan = m
					bestTask, bestProc = t, p
				}
			}
			s.Assignment[t] = original
		}

		if bestTask == -1 {
			s.Invalidate()
			s.Evaluate()
			return
		}
		s.Assignment[bestTask] = bestProc
	}
}
