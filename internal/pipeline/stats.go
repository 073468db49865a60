package pipeline

import "time"

// RunStats tracks aggregate counters and byte totals across a batch run.
// It is built only from outcomes, on the collector goroutine.
type RunStats struct {
	Total            int
	Succeeded        int
	Skipped          int
	Failed           int
	TotalInputBytes  int64 // Sources that produced an output.
	TotalOutputBytes int64

	Failures []Outcome
	Elapsed  time.Duration

	// Interrupted is set when cancellation stopped new jobs from starting.
	Interrupted bool
	// DiscoveryErr is the traversal error that ended enqueueing, if any.
	DiscoveryErr error
}

// Add folds one outcome into the totals.
func (s *RunStats) Add(o Outcome) {
	s.Total++
	switch o.Kind {
	case Skipped:
		s.Skipped++
	case Succeeded:
		s.Succeeded++
		s.TotalInputBytes += o.InputBytes
		s.TotalOutputBytes += o.OutputBytes
	case Failed:
		s.Failed++
		s.Failures = append(s.Failures, o)
	}
}

// SizeDelta returns output minus input bytes over successful jobs.
// Negative means the outputs are smaller.
func (s *RunStats) SizeDelta() int64 {
	return s.TotalOutputBytes - s.TotalInputBytes
}
